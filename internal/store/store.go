package store

import (
	"context"
	"time"
)

// Entry is one recorded registry transition. Message bodies are never stored.
type Entry struct {
	ID         int64
	Kind       string
	Actor      string
	Channel    string
	Target     string
	Recipients int
	CreatedAt  time.Time
}

// Journal is an append-only audit log of registry transitions.
type Journal interface {
	// Record appends an entry. CreatedAt is filled in when zero.
	Record(ctx context.Context, e Entry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)
	// ByChannel returns up to limit entries for one channel, newest first.
	ByChannel(ctx context.Context, channel string, limit int) ([]Entry, error)
	// Close closes the underlying database connection.
	Close() error
}
