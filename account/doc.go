// Package account ships reference implementations of the engine's
// AccountStore collaborator: a Redis-backed store for deployments that
// already run Redis for refresh records, and an in-memory store for tests
// and examples.
//
// Integrators with an existing user database should implement
// signAuth.AccountStore directly instead of using this package.
package account
