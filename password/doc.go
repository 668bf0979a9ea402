// Package password implements salted password hashing and verification with
// Argon2id defaults.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// A fresh salt is drawn for every call, so hashing the same password twice
// yields different strings. Verification is constant-time over the derived
// keys; a malformed stored hash verifies as false rather than erroring.
// [Hasher.NeedsRehash] reports when a stored hash was produced with weaker
// parameters than the current configuration, so the caller can re-hash on
// the next successful login.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Enforce password policy (length, reuse); that belongs to the host application.
//   - Import any other garmr package.
package password
