package garmr_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	garmr "github.com/shipdventures/neoma-garmr"
	"github.com/shipdventures/neoma-garmr/store"
)

func TestRegisterNormalizesEmail(t *testing.T) {
	engine, mem, sink := newTestEngine(t)
	ctx := context.Background()

	principal, err := engine.Register(ctx, "  Alice@Example.COM  ", "s3cret-pw")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if principal.Email != "alice@example.com" {
		t.Fatalf("email = %q, want alice@example.com", principal.Email)
	}
	if principal.ID == "" {
		t.Fatal("expected store to assign an id")
	}
	if principal.PasswordHash == "" || strings.Contains(principal.PasswordHash, "s3cret-pw") {
		t.Fatalf("bad password hash: %q", principal.PasswordHash)
	}

	// Case variants of the address resolve to the same principal.
	found, err := mem.FindByEmail(ctx, "ALICE@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	if found.ID != principal.ID {
		t.Fatalf("lookup id = %q, want %q", found.ID, principal.ID)
	}

	event := waitEvent(t, sink, garmr.EventRegistered)
	if event.PrincipalID != principal.ID || event.Email != "alice@example.com" {
		t.Fatalf("unexpected event payload: %+v", event)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.Register(ctx, "alice@example.com", "s3cret-pw"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, err := engine.Register(ctx, "ALICE@Example.com", "other-pw")
	var duplicate *garmr.DuplicateIdentityError
	if !errors.As(err, &duplicate) {
		t.Fatalf("expected DuplicateIdentityError, got %v", err)
	}
	// The error reports the address as submitted, not the stored form.
	if duplicate.Email != "ALICE@Example.com" {
		t.Fatalf("duplicate email = %q, want ALICE@Example.com", duplicate.Email)
	}
	if garmr.HTTPStatus(err) != 409 {
		t.Fatalf("status = %d, want 409", garmr.HTTPStatus(err))
	}
}

func TestRegisterValidation(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.Register(ctx, "   ", "pw"); !errors.Is(err, garmr.ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
	if _, err := engine.Register(ctx, "a@x.com", ""); !errors.Is(err, garmr.ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	engine, _, sink := newTestEngine(t)
	ctx := context.Background()

	registered, err := engine.Register(ctx, "alice@example.com", "s3cret-pw")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	waitEvent(t, sink, garmr.EventRegistered)

	principal, err := engine.Authenticate(ctx, "Alice@Example.com", "s3cret-pw")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if principal.ID != registered.ID {
		t.Fatalf("principal id = %q, want %q", principal.ID, registered.ID)
	}
	waitEvent(t, sink, garmr.EventAuthenticated)

	snap := engine.MetricsSnapshot()
	if snap[garmr.MetricLoginSuccess] != 1 {
		t.Fatalf("login success counter = %d, want 1", snap[garmr.MetricLoginSuccess])
	}
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestAuthenticateFailureShape(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.Register(ctx, "alice@example.com", "s3cret-pw"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, unknownErr := engine.Authenticate(ctx, "ghost@example.com", "s3cret-pw")
	_, wrongPassErr := engine.Authenticate(ctx, "alice@example.com", "wrong-pw")

	var unknown, wrongPass *garmr.IncorrectCredentialsError
	if !errors.As(unknownErr, &unknown) {
		t.Fatalf("unknown email: expected IncorrectCredentialsError, got %v", unknownErr)
	}
	if !errors.As(wrongPassErr, &wrongPass) {
		t.Fatalf("wrong password: expected IncorrectCredentialsError, got %v", wrongPassErr)
	}

	if unknown.Identifier != "ghost@example.com" {
		t.Fatalf("identifier = %q, want the submitted email", unknown.Identifier)
	}
	if wrongPass.Identifier != "alice@example.com" {
		t.Fatalf("identifier = %q, want the submitted email", wrongPass.Identifier)
	}
	if garmr.HTTPStatus(unknownErr) != 401 || garmr.HTTPStatus(wrongPassErr) != 401 {
		t.Fatal("both failures must map to 401")
	}

	snap := engine.MetricsSnapshot()
	if snap[garmr.MetricLoginFailure] != 2 {
		t.Fatalf("login failure counter = %d, want 2", snap[garmr.MetricLoginFailure])
	}
}

func TestRehashOnLogin(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	weak, err := garmr.New().
		WithConfig(lightConfig()).
		WithPrincipalStore(mem).
		Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	defer weak.Close()

	registered, err := weak.Register(ctx, "alice@example.com", "s3cret-pw")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	strongCfg := lightConfig()
	strongCfg.Password.Memory = 16 * 1024
	strong, err := garmr.New().
		WithConfig(strongCfg).
		WithPrincipalStore(mem).
		Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	defer strong.Close()

	if _, err := strong.Authenticate(ctx, "alice@example.com", "s3cret-pw"); err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}

	upgraded, err := mem.FindByID(ctx, registered.ID)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if upgraded.PasswordHash == registered.PasswordHash {
		t.Fatal("stored hash was not upgraded")
	}
	if !strings.Contains(upgraded.PasswordHash, "m=16384") {
		t.Fatalf("upgraded hash does not carry new parameters: %q", upgraded.PasswordHash)
	}

	// The upgraded hash still authenticates.
	if _, err := strong.Authenticate(ctx, "alice@example.com", "s3cret-pw"); err != nil {
		t.Fatalf("Authenticate after rehash error: %v", err)
	}
}
