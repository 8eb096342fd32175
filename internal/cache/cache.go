// Package cache stores finished answers keyed by normalized query text.
//
// The cache is a pure optimization: a miss or an eviction changes cost and
// latency, never correctness.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Cache maps a normalized query to a previously generated answer.
// Set is atomic per key with the store's TTL applied to every entry.
type Cache interface {
	// Get returns the cached answer for the query and whether it was present.
	Get(ctx context.Context, query string) (string, bool, error)
	// Set stores the full answer under the query's normalized key.
	Set(ctx context.Context, query, answer string) error
}

// Key normalizes a query and hashes it into a lookup key. Normalization
// trims surrounding whitespace and lowercases, so "Total?" and
// "  TOTAL?  " resolve to the same entry.
func Key(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
