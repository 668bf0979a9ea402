package garmr_test

import (
	"context"
	"sync"
	"testing"
	"time"

	garmr "github.com/shipdventures/neoma-garmr"
	"github.com/shipdventures/neoma-garmr/store"
)

func testSecret() []byte {
	return []byte("0123456789abcdef0123456789abcdef")
}

// lightConfig keeps Argon2id cheap so the engine tests stay fast.
func lightConfig() garmr.Config {
	return garmr.Config{
		Token: garmr.TokenConfig{
			Secret: testSecret(),
		},
		Password: garmr.PasswordConfig{
			Memory:        8 * 1024,
			Time:          1,
			Parallelism:   1,
			SaltLength:    16,
			KeyLength:     16,
			RehashOnLogin: true,
		},
	}
}

func newTestEngine(t *testing.T) (*garmr.Engine, *store.Memory, *garmr.ChannelSink) {
	t.Helper()

	mem := store.NewMemory()
	sink := garmr.NewChannelSink(16)

	engine, err := garmr.New().
		WithConfig(lightConfig()).
		WithPrincipalStore(mem).
		WithNotifySink(sink).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, mem, sink
}

func waitEvent(t *testing.T, sink *garmr.ChannelSink, want string) garmr.Event {
	t.Helper()

	select {
	case event := <-sink.Events():
		if event.Name != want {
			t.Fatalf("event = %q, want %q", event.Name, want)
		}
		return event
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q event", want)
	}
	return garmr.Event{}
}

// drainEvents closes the engine, which flushes the dispatcher, and returns
// everything the sink received.
func drainEvents(engine *garmr.Engine, sink *garmr.ChannelSink) []garmr.Event {
	engine.Close()

	var events []garmr.Event
	for {
		select {
		case event := <-sink.Events():
			events = append(events, event)
		default:
			return events
		}
	}
}

type recordingMailer struct {
	mu    sync.Mutex
	mails []garmr.Mail
	err   error
}

func (m *recordingMailer) SendMail(_ context.Context, mail garmr.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.mails = append(m.mails, mail)
	return nil
}

func (m *recordingMailer) sent() []garmr.Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]garmr.Mail(nil), m.mails...)
}
