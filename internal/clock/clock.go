// Package clock implements the logical timestamp assignment for tidemark
// collections.
//
// Every write to a collection, record or tombstone alike, is stamped with an
// epoch-millisecond timestamp that is strictly greater than every timestamp
// previously committed to that collection. Wall clocks stall, tick coarsely
// and occasionally jump backwards, so the assignment never trusts the clock
// alone: when the sampled time does not beat the previous maximum, the next
// value is previous maximum + 1.
package clock

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidemark/tidemark-db/internal/tidemark"
)

// versionSource answers the cached last-modified question for a collection.
type versionSource interface {
	Version(key tidemark.Key) (int64, bool)
}

// aggregateScanner computes a collection's maximum committed timestamp
// across the record and tombstone stores. It is the fallback when the
// version cache has no entry yet.
type aggregateScanner interface {
	MaxTimestamp(key tidemark.Key) (int64, error)
}

// Oracle assigns per-collection timestamps. The read-previous-maximum,
// compute, write sequence is only safe while the caller holds the
// collection's stripe lock; the operations manager owns that sequence.
type Oracle struct {
	cache      versionSource
	store      aggregateScanner
	stripes    *Stripes
	now        func() int64
	onFallback func()
}

type Config struct {
	Cache versionSource
	Store aggregateScanner
	// StripeCount sizes the keyed lock table. Zero picks the default.
	StripeCount int
	// Now overrides the wall-clock sample, for tests.
	Now func() int64
	// OnFallback is called whenever an assignment had to ignore the wall
	// clock and use previous-maximum+1. Wired to a collision counter.
	OnFallback func()
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Cache == nil {
		errGrp = append(errGrp, errors.New("version cache is required"))
	}
	if c.Store == nil {
		errGrp = append(errGrp, errors.New("aggregate store is required"))
	}
	if c.StripeCount < 0 {
		errGrp = append(errGrp, errors.New("stripe count cannot be negative"))
	}
	return errors.Join(errGrp...)
}

// New creates a timestamp oracle.
func New(cfg *Config) (*Oracle, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	now := cfg.Now
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}

	return &Oracle{
		cache:      cfg.Cache,
		store:      cfg.Store,
		stripes:    NewStripes(cfg.StripeCount),
		now:        now,
		onFallback: cfg.OnFallback,
	}, nil
}

// Lock serializes writers targeting the same collection. Writers on other
// collections land on other stripes and do not contend.
func (o *Oracle) Lock(key tidemark.Key) {
	o.stripes.Lock(key)
}

func (o *Oracle) Unlock(key tidemark.Key) {
	o.stripes.Unlock(key)
}

// Assign computes the next timestamp for the collection. The previous
// maximum comes from the version cache when warm, otherwise from an
// aggregate scan over records and tombstones. Storage failures during the
// fallback are propagated; the oracle never papers over them with a guess.
//
// The caller must hold the collection's stripe lock for the whole
// assign-and-commit sequence.
func (o *Oracle) Assign(key tidemark.Key) (int64, error) {
	prev, ok := o.cache.Version(key)
	if !ok {
		var err error
		prev, err = o.store.MaxTimestamp(key)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve previous maximum for %s: %w", key, err)
		}
	}

	now := o.now()
	next := Next(prev, now)
	if next != now && o.onFallback != nil {
		o.onFallback()
	}
	return next, nil
}

// Next returns the timestamp to stamp on a write given the previous
// collection maximum and a wall-clock sample, both in epoch milliseconds.
// The result is always strictly greater than prev, even when the clock
// stalled or ran backwards.
func Next(prev, now int64) int64 {
	if now > prev {
		return now
	}
	return prev + 1
}
