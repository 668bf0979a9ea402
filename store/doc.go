// Package store provides garmr.PrincipalStore implementations.
//
// [Redis] persists principals in Redis with a secondary email index; the
// case-insensitive unique constraint on email is enforced atomically by a
// Lua script, so the registration check-then-insert is race-safe. [Memory]
// is a mutex-guarded map store for tests and single-process deployments.
//
// Both stores assign a UUID when a created principal has no ID and lowercase
// emails before indexing.
package store
