// Package garmr provides a token-based authentication and authorization
// add-on for Go web applications: email/password and magic-link sign-in,
// JWT session issuance and verification, request-context principal
// attachment, and wildcard permission guards.
//
// The package is the public surface. It exposes [Engine], [Builder],
// [Config], the typed error shapes, and the collaborator interfaces
// ([PrincipalStore], [Mailer], [Sink]). Token, password, and permission
// mechanics live in their own subpackages; asynchronous notification
// dispatch lives under internal/ and is never exported directly.
//
// # Architecture boundaries
//
// garmr converts a raw request credential into a verified [Principal] and
// checks that principal against declared permission requirements. Entity
// persistence, HTTP routing, and mail delivery are external collaborators
// reached only through the interfaces on [Builder].
//
// # What this package must NOT do
//
//   - Persist anything itself — all reads and writes go through the
//     configured [PrincipalStore].
//   - Await or retry notification delivery (events are fire-and-forget).
//   - Keep per-request state between calls; Engine methods are safe for
//     concurrent use after [Builder.Build].
package garmr
