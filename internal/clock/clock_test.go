package clock

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidemark/tidemark-db/internal/tidemark"
)

func TestNext(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		prev     int64
		now      int64
		expected int64
	}{
		"clock ahead of previous maximum": {
			prev:     1000,
			now:      1500,
			expected: 1500,
		},
		"clock equal to previous maximum": {
			prev:     1000,
			now:      1000,
			expected: 1001,
		},
		"clock behind previous maximum": {
			prev:     1000,
			now:      400,
			expected: 1001,
		},
		"first write on a fresh collection": {
			prev:     0,
			now:      1756500000000,
			expected: 1756500000000,
		},
		"stalled clock at zero": {
			prev:     0,
			now:      0,
			expected: 1,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.expected, Next(tc.prev, tc.now))
		})
	}
}

type fakeVersionSource struct {
	ts map[tidemark.Key]int64
}

func (f *fakeVersionSource) Version(key tidemark.Key) (int64, bool) {
	ts, ok := f.ts[key]
	return ts, ok
}

type fakeAggregateScanner struct {
	ts    map[tidemark.Key]int64
	err   error
	calls int
}

func (f *fakeAggregateScanner) MaxTimestamp(key tidemark.Key) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.ts[key], nil
}

func TestOracle_Assign(t *testing.T) {
	t.Parallel()
	key := tidemark.NewKey("acme", "articles")
	tests := map[string]struct {
		cached         map[tidemark.Key]int64
		stored         map[tidemark.Key]int64
		storeErr       error
		now            int64
		expected       int64
		expectedErr    bool
		expectScan     bool
		expectFallback bool
	}{
		"warm cache, advancing clock": {
			cached:   map[tidemark.Key]int64{key: 2000},
			now:      3000,
			expected: 3000,
		},
		"warm cache, stalled clock": {
			cached:         map[tidemark.Key]int64{key: 2000},
			now:            2000,
			expected:       2001,
			expectFallback: true,
		},
		"cold cache falls back to aggregate scan": {
			cached:     map[tidemark.Key]int64{},
			stored:     map[tidemark.Key]int64{key: 5000},
			now:        4000,
			expected:   5001,
			expectScan: true,
			// the scan found a higher maximum than the clock
			expectFallback: true,
		},
		"cold cache, empty collection": {
			cached:     map[tidemark.Key]int64{},
			stored:     map[tidemark.Key]int64{},
			now:        4000,
			expected:   4000,
			expectScan: true,
		},
		"scan failure is propagated, never guessed around": {
			cached:      map[tidemark.Key]int64{},
			storeErr:    errors.New("disk on fire"),
			now:         4000,
			expectedErr: true,
			expectScan:  true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)

			scanner := &fakeAggregateScanner{ts: tc.stored, err: tc.storeErr}
			fellBack := false

			oracle, err := New(&Config{
				Cache:      &fakeVersionSource{ts: tc.cached},
				Store:      scanner,
				Now:        func() int64 { return tc.now },
				OnFallback: func() { fellBack = true },
			})
			req.NoError(err)

			got, err := oracle.Assign(key)
			if tc.expectedErr {
				req.Error(err)
				req.ErrorIs(err, tc.storeErr)
				return
			}
			req.NoError(err)
			req.Equal(tc.expected, got)
			req.Equal(tc.expectScan, scanner.calls > 0)
			req.Equal(tc.expectFallback, fellBack)
		})
	}
}

func TestOracle_Assign_monotonicPerCollection(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	// A frozen wall clock is the worst case: every assignment after the
	// first must take the prev+1 path.
	cache := &recordingCache{ts: make(map[tidemark.Key]int64)}
	oracle, err := New(&Config{
		Cache: cache,
		Store: &fakeAggregateScanner{},
		Now:   func() int64 { return 1756500000000 },
	})
	req.NoError(err)

	key := tidemark.NewKey("acme", "articles")
	const writers = 8
	const perWriter = 200

	var wg sync.WaitGroup
	results := make(chan int64, writers*perWriter)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				oracle.Lock(key)
				ts, assignErr := oracle.Assign(key)
				if assignErr == nil {
					cache.Upsert(key, ts)
					results <- ts
				}
				oracle.Unlock(key)
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, writers*perWriter)
	count := 0
	for ts := range results {
		req.False(seen[ts], "timestamp %d assigned twice", ts)
		seen[ts] = true
		count++
	}
	req.Equal(writers*perWriter, count)
}

// recordingCache is a version source the assign loop can feed back into,
// standing in for the real cache on the write path.
type recordingCache struct {
	mu sync.Mutex
	ts map[tidemark.Key]int64
}

func (c *recordingCache) Version(key tidemark.Key) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts, ok := c.ts[key]
	return ts, ok
}

func (c *recordingCache) Upsert(key tidemark.Key, ts int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ts > c.ts[key] {
		c.ts[key] = ts
	}
}
