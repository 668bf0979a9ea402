package garmr

import (
	"bytes"
	"context"
	"errors"
	"strings"
)

// SendMagicLink issues a short-lived passwordless sign-in token for the
// address, renders the configured mail template, and hands the message to
// the [Mailer]. No principal is required or created at send time; the claim
// set is just {email, aud: magic-link}.
func (e *Engine) SendMagicLink(ctx context.Context, email string) error {
	if e == nil || e.codec == nil {
		return ErrEngineNotReady
	}
	if e.mailer == nil {
		return ErrMailerNotConfigured
	}

	addr := normalizeEmail(email)
	if addr == "" {
		return ErrEmailRequired
	}

	ttl := e.config.MagicLink.TTL
	tok, _, err := e.codec.Issue(map[string]any{
		"email": addr,
		"aud":   AudienceMagicLink,
	}, ttl)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	if err := e.magicTmpl.Execute(&body, MagicLinkMailData{
		Token:     tok,
		Email:     addr,
		ExpiresIn: ttl,
	}); err != nil {
		return err
	}

	if err := e.mailer.SendMail(ctx, Mail{
		From:    e.config.MagicLink.From,
		To:      addr,
		Subject: e.config.MagicLink.Subject,
		HTML:    body.String(),
	}); err != nil {
		return err
	}

	e.metricInc(MetricMagicLinkIssued)
	return nil
}

// VerifyMagicLink verifies a magic-link token and resolves it to a
// principal, creating one on first use. Signature and expiry failures
// propagate from the codec as [*token.VerificationError]; a correctly
// signed token with the wrong audience or no email claim fails with
// [*InvalidMagicLinkTokenError]. Exactly one of the registered or
// authenticated events fires, matching IsNewUser.
//
// Issuing the follow-on session token is the caller's responsibility; see
// [Engine.IssueSession].
func (e *Engine) VerifyMagicLink(ctx context.Context, tokenStr string) (*MagicLinkResult, error) {
	if e == nil || e.codec == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.codec.Verify(tokenStr)
	if err != nil {
		return nil, err
	}

	if claims.Audience != AudienceMagicLink {
		return nil, &InvalidMagicLinkTokenError{Reason: "invalid audience"}
	}
	if claims.Email == "" {
		return nil, &InvalidMagicLinkTokenError{Reason: "missing email claim"}
	}

	addr := strings.ToLower(claims.Email)

	principal, err := e.store.FindByEmail(ctx, addr)
	if err == nil {
		e.metricInc(MetricMagicLinkVerified)
		e.emit(ctx, EventAuthenticated, principal)
		return &MagicLinkResult{Principal: principal}, nil
	}
	if !errors.Is(err, ErrPrincipalNotFound) {
		return nil, err
	}

	created, err := e.store.Create(ctx, &Principal{Email: addr})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			// Lost a create race against a concurrent verification of the
			// same link; the principal exists now.
			if existing, lookupErr := e.store.FindByEmail(ctx, addr); lookupErr == nil {
				e.metricInc(MetricMagicLinkVerified)
				e.emit(ctx, EventAuthenticated, existing)
				return &MagicLinkResult{Principal: existing}, nil
			}
		}
		return nil, err
	}

	e.metricInc(MetricMagicLinkVerified)
	e.metricInc(MetricMagicLinkRegistered)
	e.emit(ctx, EventRegistered, created)

	return &MagicLinkResult{Principal: created, IsNewUser: true}, nil
}
