package github

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/mkallio/repodigest/internal/adapter/driven/cache"
)

// WithQueryCache attaches a persistent memoization layer for GraphQL query
// results, keyed by exact query text plus serialized variables. A ttl of
// zero caches entries without expiry.
func (c *Client) WithQueryCache(qc cache.Cache, ttl time.Duration) *Client {
	c.queryCache = qc
	c.cacheTTL = ttl
	return c
}

// cacheKey builds a stable key from the query text and variables.
// encoding/json sorts map keys, so equal variable sets serialize equally.
func cacheKey(query string, variables map[string]any) string {
	vars, _ := json.Marshal(variables)
	sum := sha256.Sum256(append([]byte(query), vars...))
	return "graphql:" + hex.EncodeToString(sum[:])
}
