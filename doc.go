// Package jokauth verifies bearer tokens signed with an nkeys (Ed25519) key and
// turns them into claims, or into nothing at all.
//
// A [Verifier] is built once from an account seed or public key with
// [Builder.Build]. Its methods are safe to call from multiple goroutines.
// [Verifier.Decode] is the boundary request code should use: every failure,
// whatever its cause, comes back as (nil, false). [Verifier.Verify] exposes the
// same checks with a classified [*VerifyError] for tooling and tests.
//
// # Architecture boundaries
//
// jokauth is the public surface. Token splitting, segment decoding and
// signature checks live in the jwt sub-package; role matching lives in
// permission; HTTP glue lives in middleware. Audit dispatch is internal.
//
// # What this package must NOT do
//
//   - Log, audit or otherwise record token strings or signatures.
//   - Keep the private seed after Build.
//   - Cache or persist tokens and claims across requests.
//   - Perform network or file I/O outside caller-supplied audit sinks.
//
// # Performance contract
//
// Decode is the hot path. It performs one Ed25519 verification, one JSON
// decode and no locking; metrics are atomic and audit emission never blocks
// when the dispatcher drops on a full queue.
package jokauth
