package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidemark/tidemark-db/internal/store"
	"github.com/tidemark/tidemark-db/internal/tidemark"
	"github.com/tidemark/tidemark-db/internal/versioncache"
	"github.com/tidemark/tidemark-db/internal/wal"
)

// fakeOps satisfies operationsManager with per-call hooks.
type fakeOps struct {
	write        func(tenant, collection, id string, payload json.RawMessage) (*tidemark.Record, error)
	delete       func(tenant, collection, id string) (*tidemark.Tombstone, error)
	deleteAll    func(tenant, collection string) ([]*tidemark.Tombstone, error)
	read         func(tenant, collection, id string) (*tidemark.Record, error)
	version      func(tenant, collection string) (int64, error)
	changesSince func(tenant, collection string, since int64) ([]tidemark.Change, error)
}

func (f *fakeOps) Write(tenant, collection, id string, payload json.RawMessage) (*tidemark.Record, error) {
	return f.write(tenant, collection, id, payload)
}

func (f *fakeOps) Delete(tenant, collection, id string) (*tidemark.Tombstone, error) {
	return f.delete(tenant, collection, id)
}

func (f *fakeOps) DeleteAll(tenant, collection string) ([]*tidemark.Tombstone, error) {
	return f.deleteAll(tenant, collection)
}

func (f *fakeOps) Read(tenant, collection, id string) (*tidemark.Record, error) {
	return f.read(tenant, collection, id)
}

func (f *fakeOps) Version(tenant, collection string) (int64, error) {
	return f.version(tenant, collection)
}

func (f *fakeOps) ChangesSince(tenant, collection string, since int64) ([]tidemark.Change, error) {
	return f.changesSince(tenant, collection, since)
}

func newReplayHarness(t *testing.T) (*store.Manager, *wal.Manager, *versioncache.Cache) {
	t.Helper()

	dir := t.TempDir()
	recordStore, err := store.New(&store.Config{
		RootDir:        dir,
		BackupInterval: 5,
	})
	require.NoError(t, err)

	walManager, err := wal.New(&wal.Config{Path: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = walManager.Close() })

	return recordStore, walManager, versioncache.New()
}

func TestEngine_Start_replaysWAL(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	recordStore, walManager, cache := newReplayHarness(t)

	key := tidemark.NewKey("acme", "articles")
	req.NoError(walManager.Apply(&wal.Entry{
		Tenant: "acme", Collection: "articles", ID: "a1", Timestamp: 1000,
		Payload: json.RawMessage(`{"title":"first"}`),
	}))
	req.NoError(walManager.Apply(&wal.Entry{
		Tenant: "acme", Collection: "articles", ID: "a2", Timestamp: 1001,
		Payload: json.RawMessage(`{"title":"second"}`),
	}))
	req.NoError(walManager.Apply(&wal.Entry{
		Tenant: "acme", Collection: "articles", ID: "a1", Timestamp: 1002, Deleted: true,
	}))

	e, err := New(&Config{
		Operations: &fakeOps{},
		WAL:        walManager,
		Store:      recordStore,
		Cache:      cache,
	})
	req.NoError(err)
	req.NoError(e.Start())

	// the store holds the replayed state
	_, err = recordStore.Get(key, "a1")
	req.ErrorIs(err, tidemark.ErrNotFound)
	rec, err := recordStore.Get(key, "a2")
	req.NoError(err)
	req.Equal(int64(1001), rec.Timestamp)

	// the cache was rebuilt from the replayed state
	ts, ok := cache.Version(key)
	req.True(ok)
	req.Equal(int64(1002), ts)
}

func TestEngine_Start_replayIsIdempotent(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	recordStore, walManager, cache := newReplayHarness(t)

	// the store already covers the first entry, as it would after a
	// backup restore; replay must skip it and continue
	req.NoError(recordStore.ApplyRecord(&tidemark.Record{
		ID: "a1", Tenant: "acme", Collection: "articles", Timestamp: 1000,
	}))
	req.NoError(walManager.Apply(&wal.Entry{
		Tenant: "acme", Collection: "articles", ID: "a1", Timestamp: 1000,
	}))
	req.NoError(walManager.Apply(&wal.Entry{
		Tenant: "acme", Collection: "articles", ID: "a2", Timestamp: 1001,
	}))

	e, err := New(&Config{
		Operations: &fakeOps{},
		WAL:        walManager,
		Store:      recordStore,
		Cache:      cache,
	})
	req.NoError(err)
	req.NoError(e.Start())

	key := tidemark.NewKey("acme", "articles")
	rec, err := recordStore.Get(key, "a2")
	req.NoError(err)
	req.Equal(int64(1001), rec.Timestamp)

	ts, ok := cache.Version(key)
	req.True(ok)
	req.Equal(int64(1001), ts)
}

func TestNew_validation(t *testing.T) {
	t.Parallel()

	_, err := New(&Config{})
	require.Error(t, err)
}
