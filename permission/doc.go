// Package permission compares role sets decoded from token claims with the
// roles an operation requires.
//
// # Predicates
//
// [All] requires every listed role; [Any] requires at least one. The predicate
// is configured once on the jokauth Verifier and consumed by HTTP guards.
//
// # Architecture boundaries
//
// This package is a pure in-memory helper with no I/O. The verifier never calls
// it while decoding; only downstream authorization (middleware.RequireRoles)
// does.
//
// # What this package must NOT do
//
//   - Parse tokens or read claims paths.
//   - Import jokauth, jwt, or middleware.
//   - Implement a rule language beyond role-set matching.
package permission
