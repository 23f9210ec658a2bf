// Package metrics exposes the prometheus instrumentation for the write
// path, the version cache and the reaper.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the database registers.
type Metrics struct {
	WritesTotal     prometheus.Counter
	DeletesTotal    prometheus.Counter
	WriteDuration   prometheus.Histogram
	WriteFailures   prometheus.Counter
	ClockCollisions prometheus.Counter

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	ChangeScansTotal prometheus.Counter
	TombstonesReaped prometheus.Counter
	WALAppendsTotal  prometheus.Counter
}

// New creates and registers all collectors against the given registerer.
// Tests pass a fresh registry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		WritesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tidemark",
			Subsystem: "store",
			Name:      "writes_total",
			Help:      "Total number of committed record writes",
		}),
		DeletesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tidemark",
			Subsystem: "store",
			Name:      "deletes_total",
			Help:      "Total number of committed tombstones",
		}),
		WriteDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tidemark",
			Subsystem: "store",
			Name:      "write_duration_seconds",
			Help:      "Histogram of assign-and-write durations",
			Buckets:   prometheus.DefBuckets,
		}),
		WriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tidemark",
			Subsystem: "store",
			Name:      "write_failures_total",
			Help:      "Total number of writes rejected before commit",
		}),
		ClockCollisions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tidemark",
			Subsystem: "clock",
			Name:      "collisions_total",
			Help:      "Writes stamped with previous-maximum+1 because the wall clock did not advance",
		}),
		CacheHitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tidemark",
			Subsystem: "versioncache",
			Name:      "hits_total",
			Help:      "Collection version lookups answered from the cache",
		}),
		CacheMissesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tidemark",
			Subsystem: "versioncache",
			Name:      "misses_total",
			Help:      "Collection version lookups that fell back to an aggregate scan",
		}),
		ChangeScansTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tidemark",
			Subsystem: "store",
			Name:      "change_scans_total",
			Help:      "Total number of changes-since scans served",
		}),
		TombstonesReaped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tidemark",
			Subsystem: "reaper",
			Name:      "tombstones_reaped_total",
			Help:      "Tombstones removed by retention pruning",
		}),
		WALAppendsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tidemark",
			Subsystem: "wal",
			Name:      "appends_total",
			Help:      "Entries appended to the write-ahead log",
		}),
	}
}
