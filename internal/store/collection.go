package store

import (
	"github.com/google/btree"
	"github.com/tidemark/tidemark-db/internal/tidemark"
)

const indexDegree = 16

// changeRef is one entry of a collection's change index: a (timestamp, id)
// pointer at either a live record or a tombstone. The index is ordered by
// timestamp first, which is what changes-since scans walk.
type changeRef struct {
	Timestamp int64
	ID        string
	Deleted   bool
}

func changeRefLess(a, b changeRef) bool {
	if a.Timestamp != b.Timestamp {
		return a.Timestamp < b.Timestamp
	}
	return a.ID < b.ID
}

// collection is the versioned state of one (tenant, collection) pair:
// the live records by id, the tombstones by deleted id, collection-wide
// tombstones, and the shared change index across all of them.
type collection struct {
	records    map[string]*tidemark.Record
	tombstones map[string]*tidemark.Tombstone
	wipes      []*tidemark.Tombstone
	index      *btree.BTreeG[changeRef]
}

func newCollection() *collection {
	return &collection{
		records:    make(map[string]*tidemark.Record),
		tombstones: make(map[string]*tidemark.Tombstone),
		index:      btree.NewG(indexDegree, changeRefLess),
	}
}

// maxTimestamp is the highest committed timestamp across records and
// tombstones, or 0 when the collection is empty.
func (c *collection) maxTimestamp() int64 {
	ref, ok := c.index.Max()
	if !ok {
		return 0
	}
	return ref.Timestamp
}

// putRecord installs a record as the latest version of its id, dropping the
// previous version's index entry and any tombstone carrying the same id
// (a rewrite of a deleted id resurrects it).
func (c *collection) putRecord(r *tidemark.Record) {
	if prev, ok := c.records[r.ID]; ok {
		c.index.Delete(changeRef{Timestamp: prev.Timestamp, ID: prev.ID})
	}
	if prev, ok := c.tombstones[r.ID]; ok {
		c.index.Delete(changeRef{Timestamp: prev.Timestamp, ID: prev.ID, Deleted: true})
		delete(c.tombstones, r.ID)
	}

	c.records[r.ID] = r
	c.index.ReplaceOrInsert(changeRef{Timestamp: r.Timestamp, ID: r.ID})
}

// putTombstone moves an id from the live set into the tombstone set. An
// empty id is a collection-wide tombstone: every live record is dropped and
// the single wipe marker stands in for them in the change history.
func (c *collection) putTombstone(t *tidemark.Tombstone) {
	if t.ID == "" {
		for id, r := range c.records {
			c.index.Delete(changeRef{Timestamp: r.Timestamp, ID: id})
			delete(c.records, id)
		}
		c.wipes = append(c.wipes, t)
		c.index.ReplaceOrInsert(changeRef{Timestamp: t.Timestamp, Deleted: true})
		return
	}

	if prev, ok := c.records[t.ID]; ok {
		c.index.Delete(changeRef{Timestamp: prev.Timestamp, ID: prev.ID})
		delete(c.records, t.ID)
	}
	if prev, ok := c.tombstones[t.ID]; ok {
		c.index.Delete(changeRef{Timestamp: prev.Timestamp, ID: prev.ID, Deleted: true})
	}

	c.tombstones[t.ID] = t
	c.index.ReplaceOrInsert(changeRef{Timestamp: t.Timestamp, ID: t.ID, Deleted: true})
}

// changesSince walks the index ascending and materializes every change
// strictly after the floor timestamp.
func (c *collection) changesSince(since int64) []tidemark.Change {
	var changes []tidemark.Change

	c.index.AscendGreaterOrEqual(changeRef{Timestamp: since + 1}, func(ref changeRef) bool {
		change := tidemark.Change{
			ID:        ref.ID,
			Timestamp: ref.Timestamp,
			Deleted:   ref.Deleted,
		}
		if !ref.Deleted {
			if rec, ok := c.records[ref.ID]; ok {
				change.Payload = rec.Payload
			}
		}
		changes = append(changes, change)
		return true
	})

	return changes
}
