package operations

import (
	"fmt"

	"github.com/tidemark/tidemark-db/internal/tidemark"
)

// Read fetches the live record by id.
func (m *Manager) Read(tenant, collection, id string) (*tidemark.Record, error) {
	if err := validateTarget(tenant, collection); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, newError(errMissingID, "read requires an id")
	}

	return m.store.Get(tidemark.NewKey(tenant, collection), id)
}

// Version answers the current version of a collection: the cached
// last-modified timestamp when warm, otherwise an aggregate scan over
// records and tombstones. When the fallback scan itself fails, the answer
// degrades to unknown, never to a low guess.
func (m *Manager) Version(tenant, collection string) (int64, error) {
	if err := validateTarget(tenant, collection); err != nil {
		return 0, err
	}

	key := tidemark.NewKey(tenant, collection)
	if ts, ok := m.cache.Version(key); ok {
		m.metrics.CacheHitsTotal.Inc()
		return ts, nil
	}
	m.metrics.CacheMissesTotal.Inc()

	ts, err := m.store.MaxTimestamp(key)
	if err != nil {
		return 0, fmt.Errorf("fallback scan for %s failed (%v): %w",
			key, err, tidemark.ErrUnknownVersion)
	}
	if ts == 0 {
		// No write has ever touched the collection.
		return 0, fmt.Errorf("collection %s: %w", key, tidemark.ErrUnknownVersion)
	}

	// Warm the cache so the next lookup skips the scan.
	m.cache.Upsert(key, ts)
	return ts, nil
}

// ChangesSince lists every change after the floor timestamp, records and
// tombstones folded into one ascending sequence for incremental sync.
func (m *Manager) ChangesSince(tenant, collection string, since int64) ([]tidemark.Change, error) {
	if err := validateTarget(tenant, collection); err != nil {
		return nil, err
	}

	m.metrics.ChangeScansTotal.Inc()
	return m.store.ChangesSince(tidemark.NewKey(tenant, collection), since)
}
