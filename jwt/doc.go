// Package jwt verifies compact nkeys-signed tokens and decodes their claims.
//
// A token is three base64url segments, header.payload.signature. The Ed25519
// signature is computed over the encoded payload segment text, so the header
// is carried but not authenticated.
//
// # Architecture boundaries
//
// This package is pure computation: codec, key derivation and signature
// checks. It does not know about claim namespaces, roles, logging or metrics;
// those belong to the jokauth root package.
//
// # What this package must NOT do
//
//   - Sign or issue tokens.
//   - Cache, persist or log token material.
//   - Import jokauth or any sibling package.
package jwt
