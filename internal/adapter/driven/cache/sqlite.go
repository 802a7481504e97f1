package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteCache implements Cache on a single-table SQLite database. The
// schema is created at open; there is no migration history because dropping
// the cache file is always safe.
type SQLiteCache struct {
	db *sql.DB
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS query_cache (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	expires_at INTEGER,
	created_at INTEGER NOT NULL
);
`

// NewSQLiteCache opens (or creates) a cache database at path.
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database %s: %w", path, err)
	}
	// One writer at a time keeps SQLITE_BUSY out of the picture.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(cacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &SQLiteCache{db: db}, nil
}

// Get retrieves a live entry. Expired entries are deleted on read.
func (c *SQLiteCache) Get(key string, value any) error {
	var (
		blob      []byte
		expiresAt sql.NullInt64
	)
	err := c.db.QueryRow(
		`SELECT value, expires_at FROM query_cache WHERE key = ?`, key,
	).Scan(&blob, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("reading cache entry: %w", err)
	}

	if expiresAt.Valid && time.Now().Unix() > expiresAt.Int64 {
		_ = c.Delete(key)
		return ErrCacheMiss
	}

	if err := json.Unmarshal(blob, value); err != nil {
		return fmt.Errorf("unmarshaling cached value: %w", err)
	}
	return nil
}

// Set stores a value, replacing any previous entry for the key.
func (c *SQLiteCache) Set(key string, value any, ttl time.Duration) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling value: %w", err)
	}

	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: time.Now().Add(ttl).Unix(), Valid: true}
	}

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO query_cache (key, value, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		key, blob, expiresAt, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Delete removes an entry. Deleting a missing key is not an error.
func (c *SQLiteCache) Delete(key string) error {
	if _, err := c.db.Exec(`DELETE FROM query_cache WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
