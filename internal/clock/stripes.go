package clock

import (
	"hash/fnv"
	"sync"

	"github.com/tidemark/tidemark-db/internal/tidemark"
)

const defaultStripeCount = 64

// Stripes is a keyed lock table. Collections are hashed onto a fixed set of
// mutexes so that writers to the same collection always serialize, without a
// store-wide lock serializing unrelated collections. Two collections may
// share a stripe; that only costs a little contention, never correctness.
type Stripes struct {
	locks []sync.Mutex
}

// NewStripes creates a lock table with the given number of stripes. A count
// of zero picks the default.
func NewStripes(count int) *Stripes {
	if count <= 0 {
		count = defaultStripeCount
	}
	return &Stripes{
		locks: make([]sync.Mutex, count),
	}
}

// Lock acquires the stripe owning the collection key.
func (s *Stripes) Lock(key tidemark.Key) {
	s.locks[s.index(key)].Lock()
}

// Unlock releases the stripe owning the collection key.
func (s *Stripes) Unlock(key tidemark.Key) {
	s.locks[s.index(key)].Unlock()
}

// index maps a collection key onto a stripe using FNV-1a, the same
// distribution approach used for storage shards.
func (s *Stripes) index(key tidemark.Key) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.String()))
	return int(h.Sum32() % uint32(len(s.locks)))
}
