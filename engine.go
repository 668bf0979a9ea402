package garmr

import (
	"context"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/shipdventures/neoma-garmr/internal/metrics"
	"github.com/shipdventures/neoma-garmr/internal/notify"
	"github.com/shipdventures/neoma-garmr/password"
	"github.com/shipdventures/neoma-garmr/token"
)

// Engine is the authentication and authorization core. All methods are safe
// for concurrent use after [Builder.Build]; the engine holds no mutable
// state beyond the notification dispatcher and metric counters.
type Engine struct {
	config    Config
	codec     *token.Codec
	hasher    *password.Hasher
	store     PrincipalStore
	mailer    Mailer
	magicTmpl *template.Template
	notifier  *notify.Dispatcher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Close drains and stops the notification dispatcher. Safe on a nil engine.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.notifier.Close()
}

// CookieName returns the name of the cookie carrier the gateway reads.
func (e *Engine) CookieName() string {
	if e == nil {
		return DefaultCookieName
	}
	return e.config.Cookie.Name
}

// Logger returns the injected warning logger, which may be nil.
func (e *Engine) Logger() *slog.Logger {
	if e == nil {
		return nil
	}
	return e.logger
}

// NotificationsDropped reports how many events the dispatcher discarded
// because its buffer was full.
func (e *Engine) NotificationsDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.notifier.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) emit(ctx context.Context, name string, p *Principal) {
	if e == nil || e.notifier == nil || p == nil {
		return
	}
	e.notifier.Emit(ctx, notify.Event{
		Timestamp:   time.Now(),
		Name:        name,
		PrincipalID: p.ID,
		Email:       p.Email,
	})
}

func (e *Engine) warn(msg string, args ...any) {
	if e == nil || e.logger == nil {
		return
	}
	e.logger.Warn(msg, args...)
}

// normalizeEmail produces the canonical stored/compared form of an address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
