package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSQLiteCache_SetGet(t *testing.T) {
	c := newTestCache(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, c.Set("k1", payload{Name: "widgets", Count: 3}, 0))

	var got payload
	require.NoError(t, c.Get("k1", &got))
	assert.Equal(t, payload{Name: "widgets", Count: 3}, got)
}

func TestSQLiteCache_MissingKey(t *testing.T) {
	c := newTestCache(t)

	var got string
	assert.ErrorIs(t, c.Get("absent", &got), ErrCacheMiss)
}

func TestSQLiteCache_Replace(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.Set("k1", "old", 0))
	require.NoError(t, c.Set("k1", "new", 0))

	var got string
	require.NoError(t, c.Get("k1", &got))
	assert.Equal(t, "new", got)
}

func TestSQLiteCache_ExpiredEntryIsAMiss(t *testing.T) {
	if testing.Short() {
		t.Skip("waits out a ttl")
	}
	c := newTestCache(t)

	require.NoError(t, c.Set("k1", "stale", time.Second))
	// Expiry timestamps have second granularity, so wait past the next
	// whole second after the deadline.
	time.Sleep(2100 * time.Millisecond)

	var got string
	assert.ErrorIs(t, c.Get("k1", &got), ErrCacheMiss)
	// The expired row is purged, so a second read misses the same way.
	assert.ErrorIs(t, c.Get("k1", &got), ErrCacheMiss)
}

func TestSQLiteCache_ZeroTTLNeverExpires(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.Set("k1", "durable", 0))

	var got string
	require.NoError(t, c.Get("k1", &got))
	assert.Equal(t, "durable", got)
}

func TestSQLiteCache_Delete(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.Set("k1", "v", 0))
	require.NoError(t, c.Delete("k1"))

	var got string
	assert.ErrorIs(t, c.Get("k1", &got), ErrCacheMiss)

	assert.NoError(t, c.Delete("k1"), "deleting a missing key is not an error")
}

func TestSQLiteCache_ReopenSeesPersistedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	first, err := NewSQLiteCache(path)
	require.NoError(t, err)
	require.NoError(t, first.Set("k1", "persisted", 0))
	require.NoError(t, first.Close())

	second, err := NewSQLiteCache(path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	var got string
	require.NoError(t, second.Get("k1", &got))
	assert.Equal(t, "persisted", got)
}
