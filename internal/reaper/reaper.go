// Package reaper prunes old tombstones on an operator-configured retention
// schedule. Pruning never touches the tombstone holding a collection's
// maximum timestamp, so the collection version aggregate stays intact for
// incremental sync clients.
package reaper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidemark/tidemark-db/internal/tidemark"
)

type tombstoneStore interface {
	Collections() []tidemark.Key
	PruneTombstones(key tidemark.Key, cutoff int64) int
}

type reapCounter interface {
	Add(float64)
}

type Reaper struct {
	store     tombstoneStore
	interval  time.Duration
	retention time.Duration
	reaped    reapCounter

	procCtx   context.Context
	ctxCancel context.CancelFunc
}

type Config struct {
	Store tombstoneStore
	// Interval is the number of minutes between pruning runs.
	Interval int
	// Retention is the number of hours a tombstone is kept before it is
	// eligible for pruning.
	Retention int
	// Reaped counts removed tombstones; optional.
	Reaped reapCounter
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Store == nil {
		errGrp = append(errGrp, errors.New("store is required"))
	}
	if c.Interval <= 0 {
		errGrp = append(errGrp, fmt.Errorf("interval must be greater than 0"))
	}
	if c.Retention <= 0 {
		errGrp = append(errGrp, fmt.Errorf("retention must be greater than 0"))
	}
	return errors.Join(errGrp...)
}

// New creates a new tombstone reaper.
func New(cfg *Config) (*Reaper, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Reaper{
		store:     cfg.Store,
		interval:  time.Duration(cfg.Interval) * time.Minute,
		retention: time.Duration(cfg.Retention) * time.Hour,
		reaped:    cfg.Reaped,
		procCtx:   ctx,
		ctxCancel: cancel,
	}, nil
}

func (r *Reaper) Start() error {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.procCtx.Done():
				return
			case <-ticker.C:
				r.reap()
			}
		}
	}()

	return nil
}

func (r *Reaper) Stop() error {
	if r.ctxCancel != nil {
		r.ctxCancel()
	}
	return nil
}

func (r *Reaper) Name() string {
	return "Tombstone Reaper"
}

// reap runs one pruning pass over every collection.
func (r *Reaper) reap() {
	start := time.Now()
	cutoff := time.Now().Add(-r.retention).UnixMilli()

	removed := 0
	for _, key := range r.store.Collections() {
		removed += r.store.PruneTombstones(key, cutoff)
	}

	if removed > 0 && r.reaped != nil {
		r.reaped.Add(float64(removed))
	}

	log.Debug().Int("removed", removed).
		Str("duration", time.Since(start).String()).
		Msg("Tombstone pruning complete")
}
