package middleware

import (
	"net/http"

	garmr "github.com/shipdventures/neoma-garmr"
	"github.com/shipdventures/neoma-garmr/permission"
)

// RequireAuthenticated rejects requests with no attached principal with 401
// before they reach the wrapped handler.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := garmr.PrincipalFromContext(r.Context()); !ok {
			respondError(w, garmr.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Require returns a guard enforcing the given requirement. The
// authenticated check runs first (401), then the AND-set, then the OR-set
// (403 naming the missing permission or the unsatisfied alternatives).
func Require(req permission.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := garmr.PrincipalFromContext(r.Context())
			if !ok {
				respondError(w, garmr.ErrUnauthorized)
				return
			}
			if err := req.Check(principal.Permissions); err != nil {
				respondError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermissions guards with an AND-set: every listed permission must
// be held.
func RequirePermissions(all ...string) func(http.Handler) http.Handler {
	return Require(permission.Requirement{All: all})
}

// RequireAnyPermission guards with an OR-set: at least one listed
// permission must be held.
func RequireAnyPermission(any ...string) func(http.Handler) http.Handler {
	return Require(permission.Requirement{Any: any})
}

// RequireOperation guards with the requirement declared for the operation
// in the registry, resolved at invocation time so declarations and
// overrides made after the route is wired still apply. An operation with no
// declaration only requires authentication.
func RequireOperation(registry *permission.Registry, scope, operation string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := garmr.PrincipalFromContext(r.Context())
			if !ok {
				respondError(w, garmr.ErrUnauthorized)
				return
			}
			if registry != nil {
				if req, declared := registry.Resolve(scope, operation); declared {
					if err := req.Check(principal.Permissions); err != nil {
						respondError(w, err)
						return
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
