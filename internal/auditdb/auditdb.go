// Package auditdb mirrors the session change log into a SQLite file, so
// the audit trail survives the process. The in-memory log in the store
// stays authoritative; this mirror is append-only and best-effort (the
// session logs and continues when a mirror write fails).
package auditdb

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/claimlens/claimlens/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema
const currentSchemaVersion = 1

// DB is the durable audit mirror. Safe for use from a single session;
// SQLite is opened with a single connection to avoid SQLITE_BUSY.
type DB struct {
	db *sql.DB
}

// Open creates or opens the audit database at the given path, applying
// pragmas and schema migrations. Idempotent.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect audit db: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Append mirrors one change entry. Duplicate entry IDs are silently
// ignored (ON CONFLICT DO NOTHING), so replaying a log is idempotent.
func (d *DB) Append(e store.ChangeEntry) error {
	oldJSON, err := json.Marshal(e.OldValue)
	if err != nil {
		return fmt.Errorf("append change: marshal old value: %w", err)
	}
	newJSON, err := json.Marshal(e.NewValue)
	if err != nil {
		return fmt.Errorf("append change: marshal new value: %w", err)
	}

	_, err = d.db.ExecContext(context.Background(), `
		INSERT INTO changes (id, ts, tbl, row_id, col, old_value, new_value, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM changes))
		ON CONFLICT(id) DO NOTHING
	`,
		e.ID,
		e.Timestamp.UTC().Format(time.RFC3339Nano),
		e.Table,
		e.RowID,
		e.Column,
		string(oldJSON),
		string(newJSON),
	)
	if err != nil {
		return fmt.Errorf("append change: %w", err)
	}
	return nil
}

// Clear drops every mirrored entry. Called when a new dataset is loaded
// or the session is reset.
func (d *DB) Clear() error {
	if _, err := d.db.Exec(`DELETE FROM changes`); err != nil {
		return fmt.Errorf("clear changes: %w", err)
	}
	return nil
}

// Entries returns the mirrored change log in insertion order.
// Returns an empty slice, not nil, when the mirror is empty.
func (d *DB) Entries(ctx context.Context) ([]store.ChangeEntry, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, ts, tbl, row_id, col, old_value, new_value
		FROM changes
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query changes: %w", err)
	}
	defer rows.Close()

	entries := []store.ChangeEntry{}
	for rows.Next() {
		var (
			e       store.ChangeEntry
			ts      string
			oldJSON string
			newJSON string
		)
		if err := rows.Scan(&e.ID, &ts, &e.Table, &e.RowID, &e.Column, &oldJSON, &newJSON); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse change timestamp %q: %w", ts, err)
		}
		e.Timestamp = t
		if err := json.Unmarshal([]byte(oldJSON), &e.OldValue); err != nil {
			return nil, fmt.Errorf("decode old value: %w", err)
		}
		if err := json.Unmarshal([]byte(newJSON), &e.NewValue); err != nil {
			return nil, fmt.Errorf("decode new value: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changes: %w", err)
	}
	return entries, nil
}

// Count returns the number of mirrored entries.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM changes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count changes: %w", err)
	}
	return n, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return nil
}
