package permission

import (
	"errors"
	"testing"
)

func TestRequirementCheck(t *testing.T) {
	req := Requirement{
		All: []string{"read:articles"},
		Any: []string{"admin", "write:articles"},
	}

	if err := req.Check([]string{"read:articles", "write:articles"}); err != nil {
		t.Fatalf("Check error: %v", err)
	}

	// AND-set is evaluated first.
	err := req.Check([]string{"admin"})
	var denied *DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected DeniedError, got %v", err)
	}
	if denied.Permission != "read:articles" {
		t.Fatalf("denied = %q, want read:articles", denied.Permission)
	}

	err = req.Check([]string{"read:articles"})
	if !errors.As(err, &denied) {
		t.Fatalf("expected DeniedError, got %v", err)
	}
	if denied.Permission != "admin | write:articles" {
		t.Fatalf("denied = %q, want %q", denied.Permission, "admin | write:articles")
	}

	// No alternatives declared means the OR-set is skipped entirely.
	andOnly := Requirement{All: []string{"read:articles"}}
	if err := andOnly.Check([]string{"read:articles"}); err != nil {
		t.Fatalf("AND-only Check error: %v", err)
	}

	if !(Requirement{}).IsZero() {
		t.Fatal("empty requirement must be zero")
	}
	if (Requirement{Any: []string{"admin"}}).IsZero() {
		t.Fatal("requirement with alternatives must not be zero")
	}
}

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry()

	if _, ok := reg.Resolve("articles", "list"); ok {
		t.Fatal("empty registry resolved a requirement")
	}

	reg.DeclareScope("articles", Requirement{All: []string{"read:articles"}})
	reg.Declare("articles", "delete", Requirement{Any: []string{"admin", "delete:articles"}})

	req, ok := reg.Resolve("articles", "list")
	if !ok {
		t.Fatal("scope declaration not resolved")
	}
	if len(req.All) != 1 || req.All[0] != "read:articles" {
		t.Fatalf("unexpected scope requirement: %+v", req)
	}

	req, ok = reg.Resolve("articles", "delete")
	if !ok {
		t.Fatal("operation declaration not resolved")
	}
	if len(req.All) != 0 || len(req.Any) != 2 {
		t.Fatalf("operation override not applied: %+v", req)
	}

	if _, ok := reg.Resolve("users", "list"); ok {
		t.Fatal("unrelated scope resolved a requirement")
	}
}
