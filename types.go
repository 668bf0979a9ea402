package garmr

import (
	"context"
)

// Principal is the authenticatable entity. Email is always stored in
// lowercase form; uniqueness is enforced case-insensitively by the
// [PrincipalStore]. PasswordHash is empty for principals created through the
// magic-link flow.
type Principal struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"password_hash,omitempty"`
	Permissions  []string `json:"permissions,omitempty"`
}

// HasPassword reports whether the principal can authenticate with
// email/password credentials.
func (p *Principal) HasPassword() bool {
	return p != nil && p.PasswordHash != ""
}

// PrincipalStore is the persistence collaborator callers must implement (or
// take from the store subpackage) to integrate garmr with their database.
//
// Emails passed to FindByEmail are already lowercased. Create must enforce a
// case-insensitive unique constraint on email, returning [ErrEmailTaken] on
// violation, and must assign an ID when the given principal has none. Both
// lookups return [ErrPrincipalNotFound] when nothing matches.
type PrincipalStore interface {
	FindByID(ctx context.Context, id string) (*Principal, error)
	FindByEmail(ctx context.Context, email string) (*Principal, error)
	Create(ctx context.Context, p *Principal) (*Principal, error)
	Save(ctx context.Context, p *Principal) error
}

// Mail is a single outbound message handed to a [Mailer].
type Mail struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Mailer is the delivery collaborator used by the magic-link flow. The
// engine does not retry failed deliveries.
type Mailer interface {
	SendMail(ctx context.Context, m Mail) error
}

// MagicLinkResult is returned by [Engine.VerifyMagicLink]. IsNewUser is true
// when the verification created the principal.
type MagicLinkResult struct {
	Principal *Principal
	IsNewUser bool
}
