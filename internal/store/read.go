package store

import (
	"fmt"

	"github.com/tidemark/tidemark-db/internal/tidemark"
)

// Get returns the live record for an id, or ErrNotFound when the id was
// never written or has been tombstoned.
func (m *Manager) Get(key tidemark.Key, id string) (*tidemark.Record, error) {
	s := m.shardFor(key)

	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.getCollection(key)
	if c == nil {
		return nil, fmt.Errorf("collection %s: %w", key, tidemark.ErrNotFound)
	}

	rec, ok := c.records[id]
	if !ok {
		return nil, fmt.Errorf("id %s in %s: %w", id, key, tidemark.ErrNotFound)
	}
	return rec, nil
}

// MaxTimestamp aggregates the highest committed timestamp of the collection
// across records and tombstones. Returns 0 for a collection with no writes.
func (m *Manager) MaxTimestamp(key tidemark.Key) (int64, error) {
	s := m.shardFor(key)

	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.getCollection(key)
	if c == nil {
		return 0, nil
	}
	return c.maxTimestamp(), nil
}

// ChangesSince returns every change to the collection with a timestamp
// strictly greater than since, ascending: the latest version of each live
// record plus all tombstones. This is the incremental-sync scan.
func (m *Manager) ChangesSince(key tidemark.Key, since int64) ([]tidemark.Change, error) {
	s := m.shardFor(key)

	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.getCollection(key)
	if c == nil {
		return nil, nil
	}
	return c.changesSince(since), nil
}

// CollectionMaxes computes the last-modified timestamp of every collection,
// the aggregate behind full cache refreshes.
func (m *Manager) CollectionMaxes() (map[tidemark.Key]int64, error) {
	maxes := make(map[tidemark.Key]int64)

	for _, s := range m.shards {
		s.mu.RLock()
		for key, c := range s.collections {
			maxes[key] = c.maxTimestamp()
		}
		s.mu.RUnlock()
	}

	return maxes, nil
}

// Collections lists every (tenant, collection) pair that has seen a write.
func (m *Manager) Collections() []tidemark.Key {
	var keys []tidemark.Key

	for _, s := range m.shards {
		s.mu.RLock()
		for key := range s.collections {
			keys = append(keys, key)
		}
		s.mu.RUnlock()
	}

	return keys
}

// PruneTombstones drops tombstones of the collection older than the cutoff
// timestamp, except the one holding the collection's current maximum: that
// tombstone is what keeps the collection version aggregate from regressing.
// Returns the number of tombstones removed.
func (m *Manager) PruneTombstones(key tidemark.Key, cutoff int64) int {
	s := m.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.getCollection(key)
	if c == nil {
		return 0
	}

	max := c.maxTimestamp()
	removed := 0

	for id, t := range c.tombstones {
		if t.Timestamp >= cutoff || t.Timestamp == max {
			continue
		}
		c.index.Delete(changeRef{Timestamp: t.Timestamp, ID: id, Deleted: true})
		delete(c.tombstones, id)
		removed++
	}

	kept := c.wipes[:0]
	for _, t := range c.wipes {
		if t.Timestamp >= cutoff || t.Timestamp == max {
			kept = append(kept, t)
			continue
		}
		c.index.Delete(changeRef{Timestamp: t.Timestamp, Deleted: true})
		removed++
	}
	c.wipes = kept

	return removed
}
