// CLAUDE:SUMMARY SQLite-backed command journal with async batch writes and tail queries.
// Package journal persists a record of every browser command: what was
// asked, with which arguments, and how it ended. The journal survives
// restarts, so a session that crashed mid-task can be reconstructed.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/chrd/dbopen"
)

// Schema for the command_journal table. Passed to dbopen.WithSchema.
const Schema = `
CREATE TABLE IF NOT EXISTS command_journal (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL DEFAULT '',
	command TEXT NOT NULL,
	args_json TEXT NOT NULL DEFAULT '{}',
	outcome TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	took_ms INTEGER NOT NULL DEFAULT 0,
	ts INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_journal_ts ON command_journal(ts);
CREATE INDEX IF NOT EXISTS idx_journal_session ON command_journal(session_id) WHERE session_id != '';
`

// Entry is one journaled command invocation.
type Entry struct {
	ID        string
	SessionID string
	Command   string
	Args      string // JSON-encoded arguments
	Outcome   string // "ok" or "error"
	Detail    string // result summary or error message
	TookMs    int64
	Timestamp int64 // unix milliseconds
}

// Store persists journal entries to SQLite asynchronously. Writes are
// batched; a full buffer drops entries rather than blocking a command.
type Store struct {
	db   *sql.DB
	ch   chan *Entry
	done chan struct{}
	once sync.Once
}

// NewStore creates a journal store backed by the given database connection.
// The connection must already carry Schema (use dbopen.WithSchema).
func NewStore(db *sql.DB) *Store {
	s := &Store{
		db:   db,
		ch:   make(chan *Entry, 256),
		done: make(chan struct{}),
	}
	go s.flushLoop()
	return s
}

// Record queues an entry for async persistence. Non-blocking; drops if
// the buffer is full.
func (s *Store) Record(e *Entry) {
	select {
	case s.ch <- e:
	default:
	}
}

// Close drains the buffer and stops the flush goroutine. The database
// connection stays open; Tail remains usable after Close.
func (s *Store) Close() error {
	s.once.Do(func() {
		close(s.ch)
		<-s.done
	})
	return nil
}

// Tail returns the most recent entries, newest first.
func (s *Store) Tail(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, command, args_json, outcome, detail, took_ms, ts
		FROM command_journal ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: tail: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Command, &e.Args, &e.Outcome, &e.Detail, &e.TookMs, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// BySession returns all entries for one session, oldest first.
func (s *Store) BySession(ctx context.Context, sessionID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, command, args_json, outcome, detail, took_ms, ts
		FROM command_journal WHERE session_id = ? ORDER BY ts ASC, id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("journal: by session: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Command, &e.Args, &e.Outcome, &e.Detail, &e.TookMs, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) flushLoop() {
	defer close(s.done)

	batch := make([]*Entry, 0, 32)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-s.ch:
			if !ok {
				s.flushBatch(batch)
				return
			}
			batch = append(batch, e)
			if len(batch) >= 32 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *Store) flushBatch(batch []*Entry) {
	if len(batch) == 0 {
		return
	}

	err := dbopen.RunTx(context.Background(), s.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO command_journal (id, session_id, command, args_json, outcome, detail, took_ms, ts)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare: %w", err)
		}
		defer stmt.Close()

		for _, e := range batch {
			if _, err := stmt.Exec(e.ID, e.SessionID, e.Command, e.Args, e.Outcome, e.Detail, e.TookMs, e.Timestamp); err != nil {
				return fmt.Errorf("insert %s: %w", e.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("journal: flush batch", "entries", len(batch), "error", err)
	}
}
