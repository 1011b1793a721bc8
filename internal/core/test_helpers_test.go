package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/chanserv/internal/store"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// mustClosed waits for ch to be closed, discarding any pending events.
func mustClosed(t *testing.T, ch <-chan *Event) {
	t.Helper()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatalf("expected events channel to be closed")
		}
	}
}

// connect registers a client and waits for its nickname.
func connect(t *testing.T, hub *Hub, id UserID) (*Client, string) {
	t.Helper()

	c := NewClient(id, 16)
	hub.RegisterClient(c)
	ev := mustEvent(t, c.Events, EventConnected)
	return c, ev.User
}

type memoryJournal struct {
	mu      sync.Mutex
	entries []store.Entry
}

func (m *memoryJournal) Record(_ context.Context, e store.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memoryJournal) Recent(_ context.Context, limit int) ([]store.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.Entry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *memoryJournal) ByChannel(_ context.Context, channel string, limit int) ([]store.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.Entry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.entries[i].Channel == channel {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *memoryJournal) Close() error { return nil }

func (m *memoryJournal) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
