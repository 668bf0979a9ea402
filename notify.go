package garmr

import (
	"io"

	"github.com/shipdventures/neoma-garmr/internal/notify"
)

// Event names emitted through the notification port.
const (
	// EventRegistered fires when a new principal is created, whether through
	// [Engine.Register] or first-time magic-link verification.
	EventRegistered = notify.EventRegistered
	// EventAuthenticated fires on every successful authentication.
	EventAuthenticated = notify.EventAuthenticated
)

// Event is the notification payload delivered to a [Sink].
type Event = notify.Event

// Sink receives registered/authenticated events from the engine. Delivery
// is asynchronous and never awaited or retried.
type Sink = notify.Sink

// NoOpSink discards all events.
type NoOpSink = notify.NoOpSink

// ChannelSink is a buffered channel-based [Sink], useful as a recording
// double in tests and for wiring application listeners.
type ChannelSink = notify.ChannelSink

// JSONWriterSink writes one JSON-encoded event per line to an [io.Writer].
type JSONWriterSink = notify.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return notify.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return notify.NewJSONWriterSink(w)
}
