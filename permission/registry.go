package permission

import "sync"

// Requirement is a declarative authorization rule attached to a protected
// operation: every permission in All must be held, and when Any is
// non-empty at least one of its entries must be held. All is evaluated
// before Any.
type Requirement struct {
	All []string
	Any []string
}

// IsZero reports whether the requirement declares nothing.
func (r Requirement) IsZero() bool {
	return len(r.All) == 0 && len(r.Any) == 0
}

// Check evaluates the requirement against the held permissions, returning
// the [*DeniedError] of the first unsatisfied part. The OR-set is only
// evaluated when it declares alternatives, so an operation with just an
// AND-set remains satisfiable.
func (r Requirement) Check(held []string) error {
	if err := RequireAll(held, r.All); err != nil {
		return err
	}
	if len(r.Any) > 0 {
		return RequireAny(held, r.Any)
	}
	return nil
}

// Registry maps protected operations to their declared requirements. A
// requirement may be declared for a whole scope (e.g. a controller) and
// overridden per operation; [Registry.Resolve] performs the lookup the
// guard does at invocation time.
type Registry struct {
	mu         sync.RWMutex
	scopes     map[string]Requirement
	operations map[string]Requirement
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		scopes:     make(map[string]Requirement),
		operations: make(map[string]Requirement),
	}
}

// DeclareScope attaches a requirement to every operation in scope that has
// no declaration of its own.
func (r *Registry) DeclareScope(scope string, req Requirement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scopes[scope] = req
}

// Declare attaches a requirement to a single operation, overriding any
// scope-level declaration.
func (r *Registry) Declare(scope, operation string, req Requirement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations[operationKey(scope, operation)] = req
}

// Resolve returns the requirement in effect for the operation: the
// operation's own declaration when present, otherwise the enclosing
// scope's. ok is false when neither exists.
func (r *Registry) Resolve(scope, operation string) (req Requirement, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if req, ok = r.operations[operationKey(scope, operation)]; ok {
		return req, true
	}
	req, ok = r.scopes[scope]
	return req, ok
}

func operationKey(scope, operation string) string {
	return scope + "." + operation
}
