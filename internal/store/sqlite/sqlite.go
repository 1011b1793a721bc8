package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vovakirdan/chanserv/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS journal (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	kind       TEXT NOT NULL,
	actor      TEXT NOT NULL,
	channel    TEXT NOT NULL DEFAULT '',
	target     TEXT NOT NULL DEFAULT '',
	recipients INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_channel ON journal(channel, id DESC);
`

// SQLiteJournal implements store.Journal for SQLite.
type SQLiteJournal struct {
	db *sql.DB
}

// New opens (or creates) the journal database at dbPath and applies the schema.
func New(dbPath string) (*SQLiteJournal, error) {
	return NewWithSetup(dbPath, Migrate)
}

// NewWithSetup opens a journal and runs a setup function before first use.
// Useful for tests to control the schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; it also keeps ":memory:" shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// Migrate creates the journal schema if it does not exist.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteJournal) Close() error {
	return s.db.Close()
}

// Record appends an entry to the journal.
func (s *SQLiteJournal) Record(ctx context.Context, e store.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO journal (kind, actor, channel, target, recipients, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, e.Kind, e.Actor, e.Channel, e.Target, e.Recipients, e.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries first.
func (s *SQLiteJournal) Recent(ctx context.Context, limit int) ([]store.Entry, error) {
	query := `
		SELECT id, kind, actor, channel, target, recipients, created_at
		FROM journal
		ORDER BY id DESC
		LIMIT ?
	`
	return s.list(ctx, query, limit)
}

// ByChannel returns the newest entries for one channel first.
func (s *SQLiteJournal) ByChannel(ctx context.Context, channel string, limit int) ([]store.Entry, error) {
	query := `
		SELECT id, kind, actor, channel, target, recipients, created_at
		FROM journal
		WHERE channel = ?
		ORDER BY id DESC
		LIMIT ?
	`
	return s.list(ctx, query, channel, limit)
}

func (s *SQLiteJournal) list(ctx context.Context, query string, args ...interface{}) ([]store.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	entries := make([]store.Entry, 0)
	for rows.Next() {
		var e store.Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Actor, &e.Channel, &e.Target, &e.Recipients, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return entries, nil
}
