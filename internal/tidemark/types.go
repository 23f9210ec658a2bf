package tidemark

import (
	"encoding/json"
)

// Key identifies a single collection within a tenant. It is the unit of
// version tracking: every timestamp handed out by the clock is scoped to
// exactly one Key.
type Key struct {
	Tenant     string `json:"tenant"`
	Collection string `json:"collection"`
}

func NewKey(tenant, collection string) Key {
	return Key{Tenant: tenant, Collection: collection}
}

// String renders the key the way it is hashed into lock stripes and shards.
func (k Key) String() string {
	return k.Tenant + "/" + k.Collection
}

// Record is a live row in a collection. Timestamp is the logical
// last-modified marker in epoch milliseconds; it is strictly increasing
// across all writes to the same Key, records and tombstones combined.
type Record struct {
	ID         string          `json:"id"`
	Tenant     string          `json:"tenant"`
	Collection string          `json:"collection"`
	Timestamp  int64           `json:"lastModified"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

func (r *Record) Key() Key {
	return Key{Tenant: r.Tenant, Collection: r.Collection}
}

// Tombstone marks a deletion. ID is the id of the deleted record, or empty
// for a collection-wide delete. Tombstones share the record clock domain so
// sync clients can fold both into a single ordered change stream.
type Tombstone struct {
	ID         string `json:"id,omitempty"`
	Tenant     string `json:"tenant"`
	Collection string `json:"collection"`
	Timestamp  int64  `json:"lastModified"`
}

func (t *Tombstone) Key() Key {
	return Key{Tenant: t.Tenant, Collection: t.Collection}
}

// Change is one entry of a "what changed since" response: either the latest
// version of a live record, or a tombstone.
type Change struct {
	ID        string          `json:"id,omitempty"`
	Timestamp int64           `json:"lastModified"`
	Deleted   bool            `json:"deleted,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}
