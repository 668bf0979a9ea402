package garmr

import (
	"errors"
	"time"
)

// Audience tags distinguish a token's purpose. They are injected at issue
// time and enforced by the verifying component, preventing a magic-link
// token from being replayed as a session token or vice versa.
const (
	// AudienceSession tags tokens that carry an authenticated session.
	AudienceSession = "session"
	// AudienceMagicLink tags single-purpose passwordless sign-in tokens.
	AudienceMagicLink = "magic-link"
)

const (
	// DefaultCookieName is the cookie the gateway reads the session token from.
	DefaultCookieName = "garmr.sid"
	// DefaultSessionTTL is the session token lifetime when none is configured.
	DefaultSessionTTL = 24 * time.Hour
	// DefaultMagicLinkTTL is the magic-link token lifetime.
	DefaultMagicLinkTTL = 15 * time.Minute
)

// Config defines engine behavior. Zero values select the documented
// defaults; [Builder.Build] rejects configurations that weaken the token
// secret or disable expiry.
type Config struct {
	Token     TokenConfig
	Password  PasswordConfig
	MagicLink MagicLinkConfig
	Cookie    CookieConfig
	Notify    NotifyConfig
	Metrics   MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls session token issuance and verification. Secret is
// the HS256 signing key and must be at least 32 bytes.
type TokenConfig struct {
	Secret    []byte
	ExpiresIn time.Duration
	Issuer    string
	Leeway    time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig carries the Argon2id parameters. RehashOnLogin upgrades
// stored hashes transparently after a successful password check when the
// configured parameters are stronger than the ones the hash was produced
// with.
type PasswordConfig struct {
	Memory        uint32 // in KB
	Time          uint32
	Parallelism   uint8
	SaltLength    uint32
	KeyLength     uint32
	RehashOnLogin bool
}

/*
====================================
MAGIC LINK CONFIG
====================================
*/

// MagicLinkConfig controls the passwordless sign-in flow. HTMLTemplate is
// parsed with html/template at build time and rendered with
// [MagicLinkMailData].
type MagicLinkConfig struct {
	TTL          time.Duration
	From         string
	Subject      string
	HTMLTemplate string
}

// MagicLinkMailData is the data the magic-link mail template is rendered with.
type MagicLinkMailData struct {
	Token     string
	Email     string
	ExpiresIn time.Duration
}

const defaultMagicLinkTemplate = `<p>Hello {{.Email}},</p>
<p>Your sign-in token is:</p>
<p><code>{{.Token}}</code></p>
<p>It expires in {{.ExpiresIn}}. If you did not request it, ignore this message.</p>
`

/*
====================================
GATEWAY / AMBIENT CONFIG
====================================
*/

// CookieConfig names the cookie carrier read by the gateway.
type CookieConfig struct {
	Name string
}

// NotifyConfig controls the asynchronous notification dispatcher buffering.
type NotifyConfig struct {
	BufferSize int
	DropIfFull bool
}

// MetricsConfig toggles the in-process counters. When Enabled is false all
// metric operations are no-ops.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			ExpiresIn: DefaultSessionTTL,
		},
		Password: PasswordConfig{
			Memory:        65536,
			Time:          3,
			Parallelism:   2,
			SaltLength:    16,
			KeyLength:     32,
			RehashOnLogin: true,
		},
		MagicLink: MagicLinkConfig{
			TTL:          DefaultMagicLinkTTL,
			Subject:      "Your sign-in link",
			HTMLTemplate: defaultMagicLinkTemplate,
		},
		Cookie: CookieConfig{
			Name: DefaultCookieName,
		},
		Notify: NotifyConfig{
			BufferSize: 1024,
			DropIfFull: true,
		},
	}
}

// cloneConfig copies cfg so later caller mutations cannot reach a built
// engine. Secret is the only reference field worth deep-copying.
func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Token.Secret != nil {
		out.Token.Secret = append([]byte(nil), cfg.Token.Secret...)
	}
	return out
}

// normalizeConfig fills zero values with the documented defaults.
func normalizeConfig(cfg Config) Config {
	def := defaultConfig()
	if cfg.Token.ExpiresIn == 0 {
		cfg.Token.ExpiresIn = def.Token.ExpiresIn
	}
	if cfg.Password == (PasswordConfig{}) {
		cfg.Password = def.Password
	}
	if cfg.MagicLink.TTL == 0 {
		cfg.MagicLink.TTL = def.MagicLink.TTL
	}
	if cfg.MagicLink.Subject == "" {
		cfg.MagicLink.Subject = def.MagicLink.Subject
	}
	if cfg.MagicLink.HTMLTemplate == "" {
		cfg.MagicLink.HTMLTemplate = def.MagicLink.HTMLTemplate
	}
	if cfg.Cookie.Name == "" {
		cfg.Cookie.Name = def.Cookie.Name
	}
	if cfg.Notify.BufferSize <= 0 {
		cfg.Notify.BufferSize = def.Notify.BufferSize
		cfg.Notify.DropIfFull = def.Notify.DropIfFull
	}
	return cfg
}

func validateConfig(cfg Config) error {
	if len(cfg.Token.Secret) < 32 {
		return errors.New("token secret must be at least 32 bytes")
	}
	if cfg.Token.ExpiresIn <= 0 {
		return errors.New("token expiry must be positive")
	}
	if cfg.MagicLink.TTL <= 0 {
		return errors.New("magic link TTL must be positive")
	}
	return nil
}
