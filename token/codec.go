package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Reason classifies a verification failure. Time-based expiry is the only
// failure reported as expired; every other cause — bad signature, wrong
// algorithm, not-yet-valid nbf, structural tampering — is invalid.
type Reason string

const (
	// ReasonExpired marks a token whose exp claim has passed.
	ReasonExpired Reason = "expired"
	// ReasonInvalid marks every other verification failure.
	ReasonInvalid Reason = "invalid"
)

// VerificationError is returned by [Codec.Verify]. Detail carries a
// cause-specific message suitable for credential-error reporting.
type VerificationError struct {
	Reason Reason
	Detail string
}

func (e *VerificationError) Error() string {
	if e.Detail != "" {
		return "token verification failed: " + e.Detail
	}
	return "token verification failed: " + string(e.Reason)
}

// ErrMalformed is returned by [Codec.Decode] when a token cannot be
// structurally parsed.
var ErrMalformed = errors.New("malformed token")

// Claims is the decoded claim set. Subject is set on session tokens, Email
// on magic-link tokens; Raw holds the full claim map including any custom
// claims.
type Claims struct {
	Subject   string
	Email     string
	Audience  string
	IssuedAt  time.Time
	NotBefore time.Time
	ExpiresAt time.Time
	Raw       map[string]any
}

// Config defines codec behavior. Secret is the HS256 signing key;
// DefaultTTL is used by Issue when no explicit lifetime is given.
type Config struct {
	Secret     []byte
	DefaultTTL time.Duration
	Issuer     string
	Leeway     time.Duration
}

// Codec signs and verifies tokens against a single symmetric secret.
type Codec struct {
	config Config
}

// NewCodec validates cfg and returns a Codec.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("hs256 requires a signing secret")
	}
	if cfg.DefaultTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Codec{config: cfg}, nil
}

// Issue signs the given claims plus injected iat (= now), nbf (= now, the
// token is immediately usable), and exp (= now + expiresIn). An expiresIn of
// zero selects the configured default; negative values are passed through,
// producing an already-expired token. The decoded claim set is returned
// alongside the encoded token so callers do not re-decode.
func (c *Codec) Issue(claims map[string]any, expiresIn time.Duration) (string, Claims, error) {
	if expiresIn == 0 {
		expiresIn = c.config.DefaultTTL
	}

	now := time.Now()
	set := jwt.MapClaims{}
	for k, v := range claims {
		set[k] = v
	}
	set["iat"] = jwt.NewNumericDate(now)
	set["nbf"] = jwt.NewNumericDate(now)
	set["exp"] = jwt.NewNumericDate(now.Add(expiresIn))
	if c.config.Issuer != "" {
		set["iss"] = c.config.Issuer
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, set).SignedString(c.config.Secret)
	if err != nil {
		return "", Claims{}, err
	}

	decoded := Claims{
		IssuedAt:  now,
		NotBefore: now,
		ExpiresAt: now.Add(expiresIn),
		Raw:       map[string]any(set),
	}
	if sub, ok := claims["sub"].(string); ok {
		decoded.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		decoded.Email = email
	}
	if aud, ok := claims["aud"].(string); ok {
		decoded.Audience = aud
	}

	return signed, decoded, nil
}

// Verify checks the signature and validity window and returns the decoded
// claims. Failures are [*VerificationError] with reason expired or invalid.
func (c *Codec) Verify(tokenStr string) (Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if c.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(c.config.Leeway))
	}
	if c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}

	parsed, err := jwt.NewParser(options...).Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return c.config.Secret, nil
	})
	if err != nil {
		return Claims{}, classifyVerification(err)
	}

	set, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, &VerificationError{Reason: ReasonInvalid, Detail: "invalid claims"}
	}

	return fromMapClaims(set), nil
}

// Decode parses a token without verifying its signature, for
// non-trust-boundary inspection only.
func (c *Codec) Decode(tokenStr string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	set, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrMalformed
	}

	return fromMapClaims(set), nil
}

func classifyVerification(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return &VerificationError{Reason: ReasonExpired, Detail: "token expired"}
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return &VerificationError{Reason: ReasonInvalid, Detail: "token not yet valid"}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return &VerificationError{Reason: ReasonInvalid, Detail: "invalid signature"}
	case errors.Is(err, jwt.ErrTokenMalformed):
		return &VerificationError{Reason: ReasonInvalid, Detail: "malformed token"}
	default:
		return &VerificationError{Reason: ReasonInvalid, Detail: "invalid token"}
	}
}

func fromMapClaims(set jwt.MapClaims) Claims {
	out := Claims{Raw: map[string]any(set)}

	if sub, err := set.GetSubject(); err == nil {
		out.Subject = sub
	}
	if aud, err := set.GetAudience(); err == nil && len(aud) > 0 {
		out.Audience = aud[0]
	}
	if email, ok := set["email"].(string); ok {
		out.Email = email
	}
	if iat, err := set.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if nbf, err := set.GetNotBefore(); err == nil && nbf != nil {
		out.NotBefore = nbf.Time
	}
	if exp, err := set.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}

	return out
}
