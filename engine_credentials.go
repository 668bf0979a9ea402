package garmr

import (
	"context"
	"errors"
	"strings"
)

// Register creates a principal from an email/password pair. The email is
// lowercased before storage and compared case-insensitively; registering a
// taken address fails with [*DuplicateIdentityError] carrying the address as
// submitted. On success a registered event is emitted.
//
// The pre-flight lookup makes the common duplicate case cheap, but the store
// remains the authority: a concurrent insert racing past the check is caught
// by the store's unique constraint and mapped to the same error.
func (e *Engine) Register(ctx context.Context, email, pass string) (*Principal, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	submitted := strings.TrimSpace(email)
	addr := normalizeEmail(submitted)
	if addr == "" {
		return nil, ErrEmailRequired
	}
	if pass == "" {
		return nil, ErrPasswordRequired
	}

	if _, err := e.store.FindByEmail(ctx, addr); err == nil {
		e.metricInc(MetricRegisterDuplicate)
		return nil, &DuplicateIdentityError{Email: submitted}
	} else if !errors.Is(err, ErrPrincipalNotFound) {
		return nil, err
	}

	hash, err := e.hasher.Hash(pass)
	if err != nil {
		return nil, err
	}

	created, err := e.store.Create(ctx, &Principal{
		Email:        addr,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			e.metricInc(MetricRegisterDuplicate)
			return nil, &DuplicateIdentityError{Email: submitted}
		}
		return nil, err
	}

	e.metricInc(MetricRegisterSuccess)
	e.emit(ctx, EventRegistered, created)

	return created, nil
}

// Authenticate validates an email/password pair against the principal
// store. An unknown email, a missing password hash, and a wrong password all
// produce the identical [*IncorrectCredentialsError] shape so callers cannot
// tell which check failed. On success an authenticated event is emitted.
func (e *Engine) Authenticate(ctx context.Context, email, pass string) (*Principal, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	submitted := strings.TrimSpace(email)
	addr := normalizeEmail(submitted)
	if addr == "" {
		return nil, ErrEmailRequired
	}
	if pass == "" {
		return nil, ErrPasswordRequired
	}

	principal, err := e.store.FindByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			e.metricInc(MetricLoginFailure)
			return nil, &IncorrectCredentialsError{Identifier: submitted}
		}
		return nil, err
	}

	if !principal.HasPassword() || !e.hasher.Verify(pass, principal.PasswordHash) {
		e.metricInc(MetricLoginFailure)
		return nil, &IncorrectCredentialsError{Identifier: submitted}
	}

	if e.config.Password.RehashOnLogin {
		e.rehashIfNeeded(ctx, principal, pass)
	}

	e.metricInc(MetricLoginSuccess)
	e.emit(ctx, EventAuthenticated, principal)

	return principal, nil
}

// rehashIfNeeded upgrades a stored hash produced with weaker parameters
// than the current configuration. Failures are logged, never surfaced: the
// authentication already succeeded.
func (e *Engine) rehashIfNeeded(ctx context.Context, principal *Principal, pass string) {
	needs, err := e.hasher.NeedsRehash(principal.PasswordHash)
	if err != nil || !needs {
		return
	}

	hash, err := e.hasher.Hash(pass)
	if err != nil {
		e.warn("password rehash failed", "principal_id", principal.ID, "error", err)
		return
	}

	principal.PasswordHash = hash
	if err := e.store.Save(ctx, principal); err != nil {
		e.warn("password rehash save failed", "principal_id", principal.ID, "error", err)
	}
}
