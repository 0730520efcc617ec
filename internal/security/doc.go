// Package security summarizes the security posture of a configured verifier.
//
// # What this package must NOT do
//
//   - Read key material. Reports carry the public key kind only.
package security
