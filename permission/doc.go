// Package permission evaluates held permission strings against declared
// requirements, including wildcard matching and combined AND/OR logic.
//
// # Permission strings
//
// A permission is either a bare token ("admin") or an action:resource pair
// ("read:articles"). Wildcards:
//
//   - "*" held matches any requirement (superuser).
//   - "*:articles" held matches any action on articles.
//   - "read:*" held matches read on any resource.
//
// A bare requirement is satisfied only by exact equality or the superuser
// wildcard; resource wildcards never satisfy it.
//
// # Requirements
//
// [Requirement] pairs an AND-set (all must be held) with an OR-set (at
// least one must be held); AND is evaluated before OR. [Registry] holds
// requirements declared per operation, inheritable from an enclosing scope,
// with per-operation declarations overriding the scope's.
//
// # What this package must NOT do
//
//   - Access stores or the network — matching is pure string computation.
//   - Import any other garmr package.
package permission
