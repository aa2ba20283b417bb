// Package storage provides the key-value slots the diary persists into and
// the adapter that serializes the entry list to and from a slot.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a key has never been written or was deleted.
var ErrNotFound = errors.New("key not found")

// SlotInfo describes a stored key without its value.
type SlotInfo struct {
	Key       string
	Bytes     int64
	UpdatedAt time.Time
}

// KV is a process-wide key-value store. Set overwrites the previous value
// in full.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Stat(ctx context.Context, key string) (*SlotInfo, error)
	Close() error
}

// SQLiteKV implements KV backed by the kv table of a SQLite database.
type SQLiteKV struct {
	db *sql.DB

	// Prepared statements
	getValue    *sql.Stmt
	setValue    *sql.Stmt
	deleteValue *sql.Stmt
	statValue   *sql.Stmt
}

// NewSQLiteKV creates a SQLiteKV from an already-opened and migrated database.
func NewSQLiteKV(db *sql.DB) (*SQLiteKV, error) {
	s := &SQLiteKV{db: db}

	if err := s.prepareStatements(); err != nil {
		s.Close()
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteKV) prepareStatements() error {
	var err error

	s.getValue, err = s.db.Prepare(`SELECT value FROM kv WHERE key = ?`)
	if err != nil {
		return err
	}

	s.setValue, err = s.db.Prepare(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}

	s.deleteValue, err = s.db.Prepare(`DELETE FROM kv WHERE key = ?`)
	if err != nil {
		return err
	}

	s.statValue, err = s.db.Prepare(`
		SELECT key, LENGTH(CAST(value AS BLOB)), updated_at FROM kv WHERE key = ?
	`)
	if err != nil {
		return err
	}

	return nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999999-07:00",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

// Get returns the value stored under key.
func (s *SQLiteKV) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.getValue.QueryRowContext(ctx, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("get %q: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

// Set writes value under key, replacing any previous value.
func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	ts := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.setValue.ExecContext(ctx, key, value, ts); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key returns ErrNotFound.
func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	res, err := s.deleteValue.ExecContext(ctx, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete %q: %w", key, ErrNotFound)
	}
	return nil
}

// Stat returns size and modification time of the value under key.
func (s *SQLiteKV) Stat(ctx context.Context, key string) (*SlotInfo, error) {
	var info SlotInfo
	var tsStr string

	err := s.statValue.QueryRowContext(ctx, key).Scan(&info.Key, &info.Bytes, &tsStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("stat %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("stat %q: %w", key, err)
	}

	info.UpdatedAt, _ = parseTimestamp(tsStr)
	return &info, nil
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteKV) Close() error {
	stmts := []*sql.Stmt{s.getValue, s.setValue, s.deleteValue, s.statValue}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
