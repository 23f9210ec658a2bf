package wal

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManager_ApplyAndLoad(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	dir := t.TempDir()
	m, err := New(&Config{Path: dir})
	req.NoError(err)

	entries := []*Entry{
		{Tenant: "acme", Collection: "articles", ID: "a1", Timestamp: 1000,
			Payload: json.RawMessage(`{"title":"first"}`)},
		{Tenant: "acme", Collection: "articles", ID: "a2", Timestamp: 1001,
			Payload: json.RawMessage(`{"title":"second"}`)},
		{Tenant: "acme", Collection: "articles", ID: "a1", Timestamp: 1002, Deleted: true},
		{Tenant: "acme", Collection: "articles", Timestamp: 1003, Deleted: true},
	}
	for _, e := range entries {
		req.NoError(m.Apply(e))
	}
	req.NoError(m.Close())

	// a fresh manager over the same directory replays in commit order
	reopened, err := New(&Config{Path: dir})
	req.NoError(err)
	defer func() { _ = reopened.Close() }()

	var replayed []*Entry
	req.NoError(reopened.Load(func(e *Entry) error {
		replayed = append(replayed, e)
		return nil
	}))

	req.Len(replayed, len(entries))
	for i, e := range entries {
		req.Equal(e.ID, replayed[i].ID)
		req.Equal(e.Timestamp, replayed[i].Timestamp)
		req.Equal(e.Deleted, replayed[i].Deleted)
		req.Equal(string(e.Payload), string(replayed[i].Payload))
	}
}

func TestManager_Load_skipsTornLine(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	dir := t.TempDir()
	m, err := New(&Config{Path: dir})
	req.NoError(err)
	defer func() { _ = m.Close() }()

	req.NoError(m.Apply(&Entry{Tenant: "acme", Collection: "articles", ID: "a1", Timestamp: 1000}))

	// simulate a crash mid-append
	f, err := os.OpenFile(m.path, os.O_APPEND|os.O_WRONLY, 0640)
	req.NoError(err)
	_, err = f.WriteString(`{"tenant":"acme","collec`)
	req.NoError(err)
	req.NoError(f.Close())

	var replayed []*Entry
	req.NoError(m.Load(func(e *Entry) error {
		replayed = append(replayed, e)
		return nil
	}))
	req.Len(replayed, 1)
	req.Equal("a1", replayed[0].ID)
}

func TestManager_Load_propagatesApplyError(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	m, err := New(&Config{Path: t.TempDir()})
	req.NoError(err)
	defer func() { _ = m.Close() }()

	req.NoError(m.Apply(&Entry{Tenant: "acme", Collection: "articles", ID: "a1", Timestamp: 1000}))

	applyErr := errors.New("store rejected entry")
	req.ErrorIs(m.Load(func(e *Entry) error { return applyErr }), applyErr)
}

func TestManager_Load_missingFile(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	m, err := New(&Config{Path: t.TempDir()})
	req.NoError(err)
	req.NoError(m.Close())
	req.NoError(os.Remove(m.path))

	req.NoError(m.Load(func(e *Entry) error {
		t.Fatal("no entries expected")
		return nil
	}))
}

func TestConfig_validate(t *testing.T) {
	t.Parallel()

	_, err := New(&Config{})
	require.Error(t, err)
}
