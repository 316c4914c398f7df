// Package signAuth provides an authentication engine for a user-account service:
// signed JWT access tokens, Redis-backed refresh records with lazy TTL renewal,
// and a single request-time authentication decision.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// signAuth is the public surface. It exposes [Engine], [Builder], [Config], and value types
// (AuthResult, LoginResult, TokenPair, etc.). Token encoding lives in jwt/, refresh record
// persistence in refresh/, password hashing in password/. Account persistence is supplied
// by the caller through [AccountStore]; a Redis reference implementation ships in account/.
//
// # What this package must NOT do
//
//   - Expose Redis clients, signing keys, or password hashes in its public API.
//   - Perform I/O outside of Engine methods (construction via Builder is allocation-only
//     until Build).
//   - Import any sub-package that re-imports signAuth (no import cycles).
//
// # Failure contract
//
// Authenticate is the hot path and fails closed: any parse, signature, or clock failure is
// a rejection, never an authenticated result. Login does not distinguish an unknown email
// from a wrong password. Signup collapses store faults to a generic failure and logs the
// cause server-side only.
package signAuth
