package permission

import "strings"

// Superuser is the held value that matches every requirement.
const Superuser = "*"

// anyJoin separates the unsatisfied alternatives in a RequireAny denial.
const anyJoin = " | "

// DeniedError reports an authenticated principal missing a required
// permission. For an AND-set it names the first missing permission; for an
// OR-set it names every unsatisfied alternative joined with " | ".
type DeniedError struct {
	Permission string
}

func (e *DeniedError) Error() string {
	return "permission denied: " + e.Permission
}

// Matches reports whether a held permission string satisfies a required
// one. Exact equality always matches; the wildcard rules are documented on
// the package.
func Matches(held, required string) bool {
	if held == required {
		return true
	}
	if held == Superuser {
		return true
	}

	heldAction, heldResource, heldPair := strings.Cut(held, ":")
	requiredAction, requiredResource, requiredPair := strings.Cut(required, ":")
	if !heldPair || !requiredPair {
		// Bare requirements are satisfied only by equality or the superuser
		// wildcard, both handled above; a bare held value cannot satisfy a
		// pair requirement.
		return false
	}

	if heldAction == "*" {
		return heldResource == requiredResource
	}
	if heldResource == "*" {
		return heldAction == requiredAction
	}

	return false
}

// HasAll reports whether every required permission is matched by some held
// permission. An empty required sequence is trivially satisfied.
func HasAll(held, required []string) bool {
	for _, req := range required {
		if !anyMatch(held, req) {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one required permission is matched. An
// empty required sequence is never satisfied: an OR-set with zero
// alternatives has nothing to grant.
func HasAny(held, required []string) bool {
	for _, req := range required {
		if anyMatch(held, req) {
			return true
		}
	}
	return false
}

// RequireAll is HasAll failing with a [*DeniedError] naming the first
// missing permission.
func RequireAll(held, required []string) error {
	for _, req := range required {
		if !anyMatch(held, req) {
			return &DeniedError{Permission: req}
		}
	}
	return nil
}

// RequireAny is HasAny failing with a [*DeniedError] naming all
// alternatives that were not satisfied.
func RequireAny(held, required []string) error {
	if HasAny(held, required) {
		return nil
	}
	return &DeniedError{Permission: strings.Join(required, anyJoin)}
}

func anyMatch(held []string, required string) bool {
	for _, h := range held {
		if Matches(h, required) {
			return true
		}
	}
	return false
}
