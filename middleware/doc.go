// Package middleware exposes net/http adapters around jokauth.Verifier.
//
// # Guards
//
//   - [Guard]: decodes the bearer token when present; enforces it only when
//     the Verifier has GlobalAuthentication enabled.
//   - [RequireAuth]: always demands a valid token.
//   - [RequireRoles]: valid token plus a role match under the Verifier's
//     bind predicate.
//   - [RequireRolesOrSubject]: role match, or the caller owns the resource.
//
// Each guard reads the Authorization header, calls Verifier.Decode and injects
// the claims into the request context. Guards compose: a token decoded by an
// outer guard is not decoded again.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Verifier calls. It does NOT verify
// tokens itself; all decisions are delegated to Verifier.Decode and
// permission.Requirement.
//
// # What this package must NOT do
//
//   - Parse tokens or signatures directly.
//   - Tell the client why a token was rejected.
//   - Write token contents to responses or logs.
package middleware
