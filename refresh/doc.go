// Package refresh persists one opaque refresh record per account in an
// expiring Redis key.
//
// # Record model
//
// Key: <prefix>:refresh:<accountID>. Value: a random UUID string (128 bits of
// entropy). The remaining key TTL is the record's time-to-live; Redis evicts
// expired records on its own, so there is no sweeper and no explicit delete
// path besides [Store.Invalidate] and overwrite-on-create.
//
// # Lifecycle
//
// [Store.Create] writes a fresh value with a short bootstrap TTL, silently
// overwriting any prior record for the account (single-session refresh
// model). [Store.Validate] compares the presented value in constant time
// and, when fewer than the configured threshold seconds remain, extends the
// TTL to the long window inside the same WATCH transaction — a lazy,
// read-time renewal.
//
// # What this package must NOT do
//
//   - Issue or parse JWTs.
//   - Decide refresh policy (who may refresh is the Engine's call).
//   - Log or expose stored token values.
package refresh
