// Package operations orchestrates the write path: assign a timestamp,
// log, persist, refresh the collection version cache, emit the change.
package operations

import (
	"errors"

	"github.com/google/uuid"
	"github.com/tidemark/tidemark-db/internal/changefeed"
	"github.com/tidemark/tidemark-db/internal/metrics"
	"github.com/tidemark/tidemark-db/internal/tidemark"
	"github.com/tidemark/tidemark-db/internal/wal"
)

//go:generate mockgen -destination=manager_mock.go -package=operations -source=manager.go

// oracle serializes writers per collection and hands out timestamps.
type oracle interface {
	Lock(key tidemark.Key)
	Unlock(key tidemark.Key)
	Assign(key tidemark.Key) (int64, error)
}

// recordStore is the durable row store for records and tombstones.
type recordStore interface {
	ApplyRecord(r *tidemark.Record) error
	ApplyTombstone(t *tidemark.Tombstone) error
	Get(key tidemark.Key, id string) (*tidemark.Record, error)
	MaxTimestamp(key tidemark.Key) (int64, error)
	ChangesSince(key tidemark.Key, since int64) ([]tidemark.Change, error)
}

// versionCache answers and refreshes collection versions.
type versionCache interface {
	Version(key tidemark.Key) (int64, bool)
	Upsert(key tidemark.Key, timestamp int64)
}

type writeAhead interface {
	Apply(e *wal.Entry) error
}

type feed interface {
	Emit(e *changefeed.Event)
}

type Manager struct {
	oracle     oracle
	store      recordStore
	cache      versionCache
	writeAhead writeAhead
	feed       feed
	metrics    *metrics.Metrics

	// newID generates opaque record ids for writes that did not bring one.
	newID func() string
}

type Config struct {
	Oracle  oracle
	Store   recordStore
	Cache   versionCache
	WAL     writeAhead
	Feed    feed
	Metrics *metrics.Metrics
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Oracle == nil {
		errGrp = append(errGrp, errors.New("oracle cannot be nil"))
	}
	if c.Store == nil {
		errGrp = append(errGrp, errors.New("store cannot be nil"))
	}
	if c.Cache == nil {
		errGrp = append(errGrp, errors.New("version cache cannot be nil"))
	}
	if c.WAL == nil {
		errGrp = append(errGrp, errors.New("WAL cannot be nil"))
	}
	if c.Feed == nil {
		errGrp = append(errGrp, errors.New("change feed cannot be nil"))
	}
	if c.Metrics == nil {
		errGrp = append(errGrp, errors.New("metrics cannot be nil"))
	}
	return errors.Join(errGrp...)
}

// New creates a new operations manager.
func New(cfg *Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Manager{
		oracle:     cfg.Oracle,
		store:      cfg.Store,
		cache:      cfg.Cache,
		writeAhead: cfg.WAL,
		feed:       cfg.Feed,
		metrics:    cfg.Metrics,
		newID:      uuid.NewString,
	}, nil
}
