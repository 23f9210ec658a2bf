package operations

import (
	"encoding/json"
	"time"

	"github.com/tidemark/tidemark-db/internal/changefeed"
	"github.com/tidemark/tidemark-db/internal/tidemark"
	"github.com/tidemark/tidemark-db/internal/wal"
)

// Write commits a record version to its collection. A blank id gets an
// opaque generated one. The whole assign-log-persist-refresh sequence runs
// under the collection's stripe lock, so concurrent writers to the same
// collection serialize and can never observe the same previous maximum;
// writers elsewhere are untouched.
func (m *Manager) Write(tenant, collection, id string, payload json.RawMessage) (*tidemark.Record, error) {
	if err := validateTarget(tenant, collection); err != nil {
		return nil, err
	}

	start := time.Now()
	if id == "" {
		id = m.newID()
	}

	key := tidemark.NewKey(tenant, collection)
	m.oracle.Lock(key)
	defer m.oracle.Unlock(key)

	ts, err := m.oracle.Assign(key)
	if err != nil {
		m.metrics.WriteFailures.Inc()
		return nil, err
	}

	record := &tidemark.Record{
		ID:         id,
		Tenant:     tenant,
		Collection: collection,
		Timestamp:  ts,
		Payload:    payload,
	}

	if err := m.commit(&wal.Entry{
		Tenant:     tenant,
		Collection: collection,
		ID:         id,
		Timestamp:  ts,
		Payload:    payload,
	}, func() error { return m.store.ApplyRecord(record) }); err != nil {
		return nil, err
	}

	m.cache.Upsert(key, ts)
	m.feed.Emit(&changefeed.Event{
		Tenant:     tenant,
		Collection: collection,
		ID:         id,
		Timestamp:  ts,
		Payload:    payload,
	})

	m.metrics.WritesTotal.Inc()
	m.metrics.WriteDuration.Observe(time.Since(start).Seconds())
	return record, nil
}

// commit logs the entry and applies the row. Nothing is externally visible
// until both succeed: a failed persist leaves the cache untouched and the
// assigned timestamp is simply discarded, which is safe because uniqueness
// only matters among committed rows.
func (m *Manager) commit(entry *wal.Entry, apply func() error) error {
	if err := m.writeAhead.Apply(entry); err != nil {
		m.metrics.WriteFailures.Inc()
		return err
	}
	m.metrics.WALAppendsTotal.Inc()

	if err := apply(); err != nil {
		m.metrics.WriteFailures.Inc()
		return err
	}
	return nil
}
