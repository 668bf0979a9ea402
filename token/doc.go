// Package token signs, verifies, and decodes the JWTs garmr uses for
// sessions and magic links. Signing is HS256 against a configured symmetric
// secret; iat, nbf, and exp are injected at issue time.
//
// Verification pins the signing algorithm, so unsigned ("alg": "none")
// tokens are rejected by construction. Failures collapse to two reasons:
// expired for time-based expiry, invalid for everything else (bad signature,
// wrong algorithm, not yet valid, tampering).
//
// # Architecture boundaries
//
// The codec is a pure, stateless computation with no I/O. Audience
// enforcement is deliberately NOT here: the verifying component (token
// authenticator, magic-link coordinator) checks the audience claim so each
// operation enforces its own token purpose.
//
// # What this package must NOT do
//
//   - Access stores or the network.
//   - Import the root garmr package.
//   - Accept an unsigned or differently signed token as valid.
package token
