// Package versioncache holds the precomputed last-modified timestamp of
// every collection that has seen at least one write.
//
// The cache exists so "what is the current version of this collection"
// never requires scanning the records and tombstones of the collection. It
// is refreshed on the write path, after the row commits, so a reader that
// observes a committed write also observes a cache entry at least as high
// as that write.
package versioncache

import (
	"errors"
	"sync"

	"github.com/tidemark/tidemark-db/internal/tidemark"
)

// Aggregator produces the authoritative max-timestamp per collection,
// records and tombstones combined. Used by full refreshes.
type Aggregator interface {
	CollectionMaxes() (map[tidemark.Key]int64, error)
}

// Cache maps (tenant, collection) to its last-modified timestamp.
type Cache struct {
	mu      sync.RWMutex
	entries map[tidemark.Key]int64
}

// New creates an empty collection version cache.
func New() *Cache {
	return &Cache{
		entries: make(map[tidemark.Key]int64),
	}
}

// Version returns the cached last-modified timestamp for the collection.
// The second return is false when the collection has no entry yet; callers
// must then fall back to an aggregate scan, never assume zero.
func (c *Cache) Version(key tidemark.Key) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ts, ok := c.entries[key]
	return ts, ok
}

// Upsert refreshes the single entry touched by a committed write. The entry
// only ever moves forward: a late or replayed refresh with an older
// timestamp leaves the higher value in place, so the cache can never report
// a version lower than a committed write it already covered.
func (c *Cache) Upsert(key tidemark.Key, timestamp int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if current, ok := c.entries[key]; ok && current >= timestamp {
		return
	}
	c.entries[key] = timestamp
}

// RefreshAll recomputes every entry from the authoritative stores and
// replaces the cache contents. It is idempotent: two consecutive refreshes
// with no intervening writes produce identical contents. Used at startup
// after the WAL replay and available to operators as a consistency repair.
func (c *Cache) RefreshAll(src Aggregator) error {
	if src == nil {
		return errors.New("aggregator is required")
	}

	maxes, err := src.CollectionMaxes()
	if err != nil {
		return err
	}

	entries := make(map[tidemark.Key]int64, len(maxes))
	for key, ts := range maxes {
		entries[key] = ts
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	return nil
}

// Len reports the number of tracked collections.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot copies the cache contents, for inspection and tests.
func (c *Cache) Snapshot() map[tidemark.Key]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[tidemark.Key]int64, len(c.entries))
	for key, ts := range c.entries {
		out[key] = ts
	}
	return out
}
