package db

import (
	"context"
	"database/sql"
	"fmt"
)

// KV is the storage medium: string values addressed by key. Values are
// replaced whole on every Set.
type KV interface {
	// Get returns the value stored under key. ok is false when the key has
	// never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// SQLiteKV stores blobs in the blobs table of a SQLite database.
type SQLiteKV struct {
	db *sql.DB
}

// NewSQLiteKV wraps a database that already has the schema applied.
func NewSQLiteKV(db *sql.DB) *SQLiteKV {
	return &SQLiteKV{db: db}
}

// Get implements KV.
func (s *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM blobs WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting blob %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements KV.
func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("setting blob %s: %w", key, err)
	}
	return nil
}

// Delete implements KV.
func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting blob %s: %w", key, err)
	}
	return nil
}
