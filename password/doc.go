// Package password implements password hashing and verification with Argon2id.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Verification reads the parameters back from the stored hash, so parameter
// upgrades apply transparently to new hashes while old ones keep verifying.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (minimum
// length, reuse rules) is enforced by the Engine.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Import any other signAuth package.
//   - Log plaintext passwords or hash parameters at runtime.
package password
