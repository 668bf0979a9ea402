// Package metrics holds the engine's in-process counters: fixed-size,
// atomic, allocation-free on the increment path. When disabled every
// operation is a no-op.
package metrics

import "sync/atomic"

// MetricID identifies a counter.
type MetricID uint8

const (
	RegisterSuccess MetricID = iota
	RegisterDuplicate
	LoginSuccess
	LoginFailure
	TokenAuthSuccess
	TokenAuthFailure
	MagicLinkIssued
	MagicLinkVerified
	MagicLinkRegistered

	MetricIDCount
)

// Metrics is the counter set. A nil or disabled Metrics ignores increments.
type Metrics struct {
	enabled  bool
	counters [MetricIDCount]atomic.Uint64
}

// New creates a Metrics instance. When enabled is false all operations are
// no-ops and Snapshot returns an empty map.
func New(enabled bool) *Metrics {
	return &Metrics{enabled: enabled}
}

// Inc increments a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot map[MetricID]uint64

// Snapshot deep-copies the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	snap := make(Snapshot)
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < MetricIDCount; id++ {
		snap[id] = m.counters[id].Load()
	}
	return snap
}
