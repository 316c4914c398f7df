// Package middleware exposes net/http adapters over signAuth.Engine's
// authentication decision.
//
// # Guards
//
//   - [Guard] — authenticates every request and injects the result into the
//     request context.
//   - [RequireRole] — [Guard] plus a role membership check.
//
// Each guard reads the Authorization header, calls Engine.Authenticate, and
// rejects with 401 (or 403 for a missing role) without leaking why.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// Engine.Authenticate.
package middleware
