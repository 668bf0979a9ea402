package garmr

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/shipdventures/neoma-garmr/internal/metrics"
	"github.com/shipdventures/neoma-garmr/internal/notify"
	"github.com/shipdventures/neoma-garmr/password"
	"github.com/shipdventures/neoma-garmr/token"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until the engine's methods are called.
type Builder struct {
	config Config
	store  PrincipalStore
	mailer Mailer
	sink   Sink
	logger *slog.Logger

	built bool
}

// New returns a Builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration. Zero fields are filled
// with defaults at Build time.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSecret sets the HS256 token signing secret.
func (b *Builder) WithSecret(secret []byte) *Builder {
	b.config.Token.Secret = append([]byte(nil), secret...)
	return b
}

// WithPrincipalStore sets the persistence collaborator. Required.
func (b *Builder) WithPrincipalStore(store PrincipalStore) *Builder {
	b.store = store
	return b
}

// WithMailer sets the delivery collaborator for magic-link mail. Optional;
// [Engine.SendMagicLink] fails with [ErrMailerNotConfigured] without it.
func (b *Builder) WithMailer(mailer Mailer) *Builder {
	b.mailer = mailer
	return b
}

// WithNotifySink sets the sink that receives registered/authenticated
// events. Optional; without it events are discarded.
func (b *Builder) WithNotifySink(sink Sink) *Builder {
	b.sink = sink
	return b
}

// WithLogger sets the logger used for warnings the engine and gateway
// swallow (passive extraction failures, rehash write failures). Optional;
// nil disables logging.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and returns a ready Engine. A Builder
// can only be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.store == nil {
		return nil, errors.New("principal store is required")
	}

	cfg := normalizeConfig(b.config)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	codec, err := token.NewCodec(token.Config{
		Secret:     cfg.Token.Secret,
		DefaultTTL: cfg.Token.ExpiresIn,
		Issuer:     cfg.Token.Issuer,
		Leeway:     cfg.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := password.New(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	magicTmpl, err := template.New("magic-link").Parse(cfg.MagicLink.HTMLTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid magic link template: %w", err)
	}

	b.built = true

	return &Engine{
		config:    cfg,
		codec:     codec,
		hasher:    hasher,
		store:     b.store,
		mailer:    b.mailer,
		magicTmpl: magicTmpl,
		notifier: notify.NewDispatcher(notify.DispatcherConfig{
			BufferSize: cfg.Notify.BufferSize,
			DropIfFull: cfg.Notify.DropIfFull,
		}, b.sink),
		metrics: metrics.New(cfg.Metrics.Enabled),
		logger:  b.logger,
	}, nil
}
