// Package httpcache caches remote catalog responses in SQLite so menu
// navigation does not re-download the same source JSON on every click.
package httpcache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS http_cache (
	key        TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	expires_at DATETIME NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_http_cache_expires_at ON http_cache(expires_at);
`

// Store is the SQLite-backed response cache.
type Store struct {
	db *sql.DB
}

// Open opens (and creates, if needed) the cache database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenMemory opens an in-memory cache, used by tests and by invocations
// that must not touch the profile directory.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get retrieves a cached response body. Returns false when the key is
// missing or expired.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	var body []byte
	var expiresAt time.Time
	err := s.db.QueryRowContext(ctx,
		"SELECT body, expires_at FROM http_cache WHERE key = ?", key,
	).Scan(&body, &expiresAt)
	if err != nil || time.Now().After(expiresAt) {
		return nil, false
	}
	return body, true
}

// Set stores a response body with the given TTL, replacing any prior entry.
func (s *Store) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO http_cache (key, body, expires_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, expires_at = excluded.expires_at`,
		key, body, time.Now().Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Prune removes expired entries and returns how many were dropped.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM http_cache WHERE expires_at < ?", time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	return result.RowsAffected()
}

// Clear drops every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM http_cache"); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}
