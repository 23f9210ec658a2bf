package operations

import (
	"github.com/tidemark/tidemark-db/internal/changefeed"
	"github.com/tidemark/tidemark-db/internal/tidemark"
	"github.com/tidemark/tidemark-db/internal/wal"
)

// Delete moves a record's identity from the live set to the tombstone
// store. With an empty id it writes a single collection-wide tombstone
// instead. Either way the tombstone's timestamp comes from the same
// per-collection sequence as record writes.
func (m *Manager) Delete(tenant, collection, id string) (*tidemark.Tombstone, error) {
	if err := validateTarget(tenant, collection); err != nil {
		return nil, err
	}

	key := tidemark.NewKey(tenant, collection)
	m.oracle.Lock(key)
	defer m.oracle.Unlock(key)

	if id != "" {
		// A targeted delete of something that is not live is an error,
		// not a silent tombstone.
		if _, err := m.store.Get(key, id); err != nil {
			return nil, err
		}
	}

	t, err := m.tombstone(key, id)
	if err != nil {
		return nil, err
	}

	m.metrics.DeletesTotal.Inc()
	return t, nil
}

// DeleteAll tombstones every live record of the collection, one tombstone
// per record, all under a single lock hold so the timestamps form one
// uninterrupted ascending run.
func (m *Manager) DeleteAll(tenant, collection string) ([]*tidemark.Tombstone, error) {
	if err := validateTarget(tenant, collection); err != nil {
		return nil, err
	}

	key := tidemark.NewKey(tenant, collection)
	m.oracle.Lock(key)
	defer m.oracle.Unlock(key)

	changes, err := m.store.ChangesSince(key, 0)
	if err != nil {
		return nil, err
	}

	var tombstones []*tidemark.Tombstone
	for _, change := range changes {
		if change.Deleted {
			continue
		}
		t, err := m.tombstone(key, change.ID)
		if err != nil {
			return tombstones, err
		}
		tombstones = append(tombstones, t)
		m.metrics.DeletesTotal.Inc()
	}

	return tombstones, nil
}

// tombstone assigns a timestamp and commits one tombstone. Caller must
// hold the collection's stripe lock.
func (m *Manager) tombstone(key tidemark.Key, id string) (*tidemark.Tombstone, error) {
	ts, err := m.oracle.Assign(key)
	if err != nil {
		m.metrics.WriteFailures.Inc()
		return nil, err
	}

	t := &tidemark.Tombstone{
		ID:         id,
		Tenant:     key.Tenant,
		Collection: key.Collection,
		Timestamp:  ts,
	}

	if err := m.commit(&wal.Entry{
		Tenant:     key.Tenant,
		Collection: key.Collection,
		ID:         id,
		Timestamp:  ts,
		Deleted:    true,
	}, func() error { return m.store.ApplyTombstone(t) }); err != nil {
		return nil, err
	}

	m.cache.Upsert(key, ts)
	m.feed.Emit(&changefeed.Event{
		Tenant:     key.Tenant,
		Collection: key.Collection,
		ID:         id,
		Timestamp:  ts,
		Deleted:    true,
	})

	return t, nil
}
