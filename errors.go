package garmr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shipdventures/neoma-garmr/permission"
	"github.com/shipdventures/neoma-garmr/token"
)

var (
	// ErrUnauthorized is returned by guards when no principal is attached to
	// the request context.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEngineNotReady is returned when an Engine method is called before
	// the engine was constructed through [Builder.Build].
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrEmailRequired is returned when an operation receives an empty email.
	ErrEmailRequired = errors.New("email required")
	// ErrPasswordRequired is returned when an operation receives an empty password.
	ErrPasswordRequired = errors.New("password required")
	// ErrMailerNotConfigured is returned by [Engine.SendMagicLink] when no
	// [Mailer] was supplied to the builder.
	ErrMailerNotConfigured = errors.New("mailer not configured")

	// ErrPrincipalNotFound is the sentinel a [PrincipalStore] must return
	// when no principal matches the lookup.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrEmailTaken is the sentinel a [PrincipalStore] must return when a
	// create or save would violate the case-insensitive unique constraint
	// on email.
	ErrEmailTaken = errors.New("email already taken")
)

// IncorrectCredentialsError reports a failed authentication attempt. For
// email/password authentication the same shape is produced whether the email
// is unknown or the password is wrong, so callers cannot enumerate accounts.
// For token authentication the Identifier carries the unresolved subject id.
type IncorrectCredentialsError struct {
	Identifier string
}

func (e *IncorrectCredentialsError) Error() string {
	return fmt.Sprintf("incorrect credentials: %s", e.Identifier)
}

// MalformedCredentialError reports a credential that was presented but could
// not be used: wrong scheme, empty token, bad signature, expired, not yet
// valid, wrong audience, or missing subject claim.
type MalformedCredentialError struct {
	Message string
}

func (e *MalformedCredentialError) Error() string {
	return "malformed credential: " + e.Message
}

// DuplicateIdentityError reports a registration attempt for an email that is
// already taken. Email carries the address exactly as submitted by the
// caller, not the lowercased form used for comparison.
type DuplicateIdentityError struct {
	Email string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("identity already registered: %s", e.Email)
}

// InvalidMagicLinkTokenError reports a structurally valid, correctly signed
// token that is not usable as a magic link: wrong audience or missing email
// claim.
type InvalidMagicLinkTokenError struct {
	Reason string
}

func (e *InvalidMagicLinkTokenError) Error() string {
	return "invalid magic link token: " + e.Reason
}

// HTTPStatus maps an engine or guard error to the HTTP status code a
// controller should respond with. Unrecognized errors map to 500.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var duplicate *DuplicateIdentityError
	if errors.As(err, &duplicate) {
		return http.StatusConflict
	}

	var denied *permission.DeniedError
	if errors.As(err, &denied) {
		return http.StatusForbidden
	}

	var (
		incorrect    *IncorrectCredentialsError
		malformed    *MalformedCredentialError
		badMagicLink *InvalidMagicLinkTokenError
		verification *token.VerificationError
	)
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, token.ErrMalformed),
		errors.As(err, &incorrect),
		errors.As(err, &malformed),
		errors.As(err, &badMagicLink),
		errors.As(err, &verification):
		return http.StatusUnauthorized
	case errors.Is(err, ErrEmailRequired), errors.Is(err, ErrPasswordRequired):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
