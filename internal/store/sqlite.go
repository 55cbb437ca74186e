package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/step"
)

const schema = `
CREATE TABLE IF NOT EXISTS form_events (
	session_id   TEXT    NOT NULL,
	seq          INTEGER NOT NULL,
	id           TEXT    NOT NULL,
	type         TEXT    NOT NULL,
	step_id      TEXT    NOT NULL,
	timestamp_ms INTEGER NOT NULL,
	source       TEXT    NOT NULL,
	payload      BLOB,
	PRIMARY KEY (session_id, seq)
);
CREATE INDEX IF NOT EXISTS form_events_step ON form_events (session_id, step_id);
`

// SQLiteStore persists event logs in the form_events table. seq keeps the
// append order of each session.
type SQLiteStore struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenSQLite opens the database at path and creates the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store: sqlite path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure sqlite dir: %w", err)
	}
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("store: ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load reads the session events in append order.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (event.Log, error) {
	if err := ctx.Err(); err != nil {
		return event.Log{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.Log{}, fmt.Errorf("store: sqlite is not configured")
	}
	id, err := validateSessionID(sessionID)
	if err != nil {
		return event.Log{}, err
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, type, step_id, timestamp_ms, source, payload
		   FROM form_events
		  WHERE session_id = ?
		  ORDER BY seq`,
		id,
	)
	if err != nil {
		return event.Log{}, fmt.Errorf("store: query %s: %w", id, err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var (
			eventID, kind, stepID, source string
			millis                        int64
			payload                       []byte
		)
		if err := rows.Scan(&eventID, &kind, &stepID, &millis, &source, &payload); err != nil {
			return event.Log{}, fmt.Errorf("store: scan %s: %w", id, err)
		}
		evt, err := event.FromRecord(eventID, event.Kind(kind), step.ID(stepID), fromMillis(millis), event.Source(source), payload)
		if err != nil {
			return event.Log{}, fmt.Errorf("store: decode %s: %w", id, err)
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return event.Log{}, fmt.Errorf("store: iterate %s: %w", id, err)
	}
	return event.NewLog(events...), nil
}

// Append inserts events after the last stored sequence of the session.
func (s *SQLiteStore) Append(ctx context.Context, sessionID string, events ...event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("store: sqlite is not configured")
	}
	id, err := validateSessionID(sessionID)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback()

	var last int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM form_events WHERE session_id = ?`, id,
	).Scan(&last); err != nil {
		return fmt.Errorf("store: read sequence: %w", err)
	}

	for i, evt := range events {
		var payload []byte
		if evt.Payload != nil {
			payload, err = json.Marshal(evt.Payload)
			if err != nil {
				return fmt.Errorf("store: encode %s payload: %w", evt.StepID, err)
			}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO form_events (
			   session_id, seq, id, type, step_id, timestamp_ms, source, payload
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id,
			last+int64(i)+1,
			evt.ID,
			string(evt.Kind),
			string(evt.StepID),
			toMillis(evt.Timestamp),
			string(evt.Source),
			payload,
		)
		if err != nil {
			if isSequenceConflict(err) {
				return fmt.Errorf("store: session %s was appended concurrently: %w", id, err)
			}
			return fmt.Errorf("store: insert event: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Sessions lists the sessions holding at least one event.
func (s *SQLiteStore) Sessions(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("store: sqlite is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT DISTINCT session_id FROM form_events ORDER BY session_id`)
	if err != nil {
		return nil, fmt.Errorf("store: list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan session: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete drops every event of the session.
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("store: sqlite is not configured")
	}
	id, err := validateSessionID(sessionID)
	if err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM form_events WHERE session_id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func isSequenceConflict(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}
