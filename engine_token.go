package garmr

import (
	"context"
	"errors"
	"strings"

	"github.com/shipdventures/neoma-garmr/token"
)

const bearerScheme = "bearer"

// ParseBearer extracts the token from an Authorization header value. The
// scheme comparison is case-insensitive and exactly one whitespace-separated
// token must follow it. Failures are [*MalformedCredentialError]: the
// credential was presented but is unusable, which the gateway surfaces
// immediately rather than treating as an absent credential.
func ParseBearer(carrier string) (string, error) {
	if strings.TrimSpace(carrier) == "" {
		return "", &MalformedCredentialError{Message: "authorization header not provided"}
	}

	fields := strings.Fields(carrier)
	if !strings.EqualFold(fields[0], bearerScheme) {
		return "", &MalformedCredentialError{Message: "unsupported authorization scheme"}
	}
	if len(fields) == 1 {
		return "", &MalformedCredentialError{Message: "JWT not provided"}
	}
	if len(fields) != 2 {
		return "", &MalformedCredentialError{Message: "malformed authorization header"}
	}

	return fields[1], nil
}

// AuthenticateBearer authenticates a raw Authorization header value
// ("Bearer <token>").
func (e *Engine) AuthenticateBearer(ctx context.Context, carrier string) (*Principal, error) {
	tok, err := ParseBearer(carrier)
	if err != nil {
		return nil, err
	}
	return e.AuthenticateToken(ctx, tok)
}

// AuthenticateCookie authenticates a bare token carried in a cookie value.
// No scheme is expected; the verification chain is identical to the header
// variant after extraction.
func (e *Engine) AuthenticateCookie(ctx context.Context, value string) (*Principal, error) {
	if strings.TrimSpace(value) == "" {
		return nil, &MalformedCredentialError{Message: "JWT not provided"}
	}
	return e.AuthenticateToken(ctx, value)
}

// AuthenticateToken verifies a session token and resolves its subject to a
// persisted principal. Verification failures map to
// [*MalformedCredentialError] with cause-specific messages; a token whose
// audience is not [AudienceSession] or that lacks a sub claim is rejected
// the same way. An unresolvable subject fails with
// [*IncorrectCredentialsError] carrying the subject id. On success an
// authenticated event is emitted.
func (e *Engine) AuthenticateToken(ctx context.Context, tokenStr string) (*Principal, error) {
	if e == nil || e.codec == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.codec.Verify(tokenStr)
	if err != nil {
		e.metricInc(MetricTokenAuthFailure)
		var verification *token.VerificationError
		if errors.As(err, &verification) {
			return nil, &MalformedCredentialError{Message: verification.Detail}
		}
		return nil, err
	}

	if claims.Audience != AudienceSession {
		e.metricInc(MetricTokenAuthFailure)
		return nil, &MalformedCredentialError{Message: "wrong audience"}
	}
	if claims.Subject == "" {
		e.metricInc(MetricTokenAuthFailure)
		return nil, &MalformedCredentialError{Message: "missing sub claim"}
	}

	principal, err := e.store.FindByID(ctx, claims.Subject)
	if err != nil {
		e.metricInc(MetricTokenAuthFailure)
		if errors.Is(err, ErrPrincipalNotFound) {
			return nil, &IncorrectCredentialsError{Identifier: claims.Subject}
		}
		return nil, err
	}

	e.metricInc(MetricTokenAuthSuccess)
	e.emit(ctx, EventAuthenticated, principal)

	return principal, nil
}

// IssueSession signs a session token for the principal: subject = principal
// id, audience = [AudienceSession], lifetime = the configured expiry. Both
// the encoded token and its decoded claims are returned so callers need not
// re-decode.
func (e *Engine) IssueSession(p *Principal) (string, token.Claims, error) {
	if e == nil || e.codec == nil {
		return "", token.Claims{}, ErrEngineNotReady
	}
	if p == nil || p.ID == "" {
		return "", token.Claims{}, errors.New("principal id required")
	}

	return e.codec.Issue(map[string]any{
		"sub": p.ID,
		"aud": AudienceSession,
	}, 0)
}
