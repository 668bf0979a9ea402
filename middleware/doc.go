// Package middleware exposes the HTTP authentication gateway and
// authorization guards built on top of the garmr Engine.
//
// # Gateway
//
// [Authenticate] extracts a credential from the request — Authorization
// header first, then the session cookie — and attaches the resulting
// principal to the request context. Extraction never blocks the pipeline on
// an authentication failure: a failed or absent credential leaves the
// request unauthenticated and the chain proceeds. Only a malformed
// credential (wrong scheme, empty token) is answered immediately with 401,
// distinguishing "no attempt made" from "attempt made incorrectly". A
// principal attached by an earlier middleware is never overwritten.
//
// # Guards
//
//   - [RequireAuthenticated] — 401 when no principal is attached.
//   - [RequirePermissions] / [RequireAnyPermission] / [Require] — 403 with
//     the missing permission(s) after the authenticated check; AND before OR.
//   - [RequireOperation] — resolves the requirement from a
//     [permission.Registry] at invocation time.
//
// # What this package must NOT do
//
//   - Parse or verify tokens itself (delegates to the Engine).
//   - Make authorization decisions beyond the declared requirements.
package middleware
