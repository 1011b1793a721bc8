package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/vovakirdan/chanserv/internal/store"
)

func newTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()

	j, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	seed := []store.Entry{
		{Kind: "connected", Actor: "User0", Recipients: 1},
		{Kind: "create", Actor: "User0", Channel: "room", Recipients: 1},
		{Kind: "join", Actor: "User1", Channel: "room", Recipients: 2},
		{Kind: "kick", Actor: "User0", Channel: "room", Target: "User1", Recipients: 2},
	}
	for _, e := range seed {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("record %s: %v", e.Kind, err)
		}
	}

	recent, err := j.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(recent))
	}

	wantKinds := []string{"kick", "join", "create"}
	for i, kind := range wantKinds {
		if recent[i].Kind != kind {
			t.Errorf("entry %d: expected kind %s, got %s", i, kind, recent[i].Kind)
		}
	}
	if recent[0].Target != "User1" || recent[0].Recipients != 2 {
		t.Errorf("unexpected kick entry: %+v", recent[0])
	}
	if recent[0].CreatedAt.IsZero() {
		t.Errorf("expected created_at to be filled in")
	}
}

func TestByChannel(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	entries := []store.Entry{
		{Kind: "create", Actor: "alice", Channel: "room", CreatedAt: at},
		{Kind: "create", Actor: "bob", Channel: "lobby", CreatedAt: at},
		{Kind: "join", Actor: "bob", Channel: "room", CreatedAt: at},
	}
	for _, e := range entries {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	tests := []struct {
		name    string
		channel string
		want    []string
	}{
		{name: "two entries", channel: "room", want: []string{"bob", "alice"}},
		{name: "one entry", channel: "lobby", want: []string{"bob"}},
		{name: "unknown channel", channel: "ghost", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := j.ByChannel(ctx, tt.channel, 10)
			if err != nil {
				t.Fatalf("by channel: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d entries, got %d", len(tt.want), len(got))
			}
			for i, actor := range tt.want {
				if got[i].Actor != actor {
					t.Errorf("entry %d: expected actor %s, got %s", i, actor, got[i].Actor)
				}
				if !got[i].CreatedAt.Equal(at) {
					t.Errorf("entry %d: expected created_at %v, got %v", i, at, got[i].CreatedAt)
				}
			}
		})
	}
}
