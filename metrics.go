package garmr

import (
	"github.com/shipdventures/neoma-garmr/internal/metrics"
)

// MetricID identifies a counter in the in-process metrics system.
type MetricID = metrics.MetricID

const (
	// MetricRegisterSuccess counts successful registrations.
	MetricRegisterSuccess = metrics.RegisterSuccess
	// MetricRegisterDuplicate counts registrations rejected for a taken email.
	MetricRegisterDuplicate = metrics.RegisterDuplicate
	// MetricLoginSuccess counts successful email/password authentications.
	MetricLoginSuccess = metrics.LoginSuccess
	// MetricLoginFailure counts failed email/password authentications.
	MetricLoginFailure = metrics.LoginFailure
	// MetricTokenAuthSuccess counts successful token authentications.
	MetricTokenAuthSuccess = metrics.TokenAuthSuccess
	// MetricTokenAuthFailure counts failed token authentications.
	MetricTokenAuthFailure = metrics.TokenAuthFailure
	// MetricMagicLinkIssued counts magic-link tokens issued and handed to the mailer.
	MetricMagicLinkIssued = metrics.MagicLinkIssued
	// MetricMagicLinkVerified counts successful magic-link verifications.
	MetricMagicLinkVerified = metrics.MagicLinkVerified
	// MetricMagicLinkRegistered counts magic-link verifications that created a principal.
	MetricMagicLinkRegistered = metrics.MagicLinkRegistered
)

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot = metrics.Snapshot
