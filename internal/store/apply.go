package store

import (
	"fmt"

	"github.com/tidemark/tidemark-db/internal/tidemark"
)

// ApplyRecord commits a stamped record to its collection. The timestamp
// must be strictly greater than everything already committed to the
// collection; anything else means two writers raced past the oracle's
// serialization and the write is rejected with ErrConflict rather than
// silently picking a winner. WAL replay leans on the same check to skip
// entries a backup already covers.
func (m *Manager) ApplyRecord(r *tidemark.Record) error {
	key := r.Key()
	s := m.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.ensureCollection(key)
	if max := c.maxTimestamp(); r.Timestamp <= max {
		return fmt.Errorf("record %s at %d is not after collection maximum %d: %w",
			r.ID, r.Timestamp, max, tidemark.ErrConflict)
	}

	c.putRecord(r)
	return nil
}

// ApplyTombstone commits a stamped tombstone, moving the id out of the live
// set. An empty id marks a collection-wide delete. The same strict
// monotonicity check as ApplyRecord applies; deletes and writes share one
// sequence per collection.
func (m *Manager) ApplyTombstone(t *tidemark.Tombstone) error {
	key := t.Key()
	s := m.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.ensureCollection(key)
	if max := c.maxTimestamp(); t.Timestamp <= max {
		return fmt.Errorf("tombstone %q at %d is not after collection maximum %d: %w",
			t.ID, t.Timestamp, max, tidemark.ErrConflict)
	}

	c.putTombstone(t)
	return nil
}
