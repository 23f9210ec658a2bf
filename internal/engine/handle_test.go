package engine

import (
	"encoding/json"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidemark/tidemark-db/internal/tidemark"
)

// roundTrip runs Handle on one end of a pipe and plays the client on the
// other: one command in, the full response out.
func roundTrip(t *testing.T, e *Engine, command string) string {
	t.Helper()

	server, client := net.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Handle(server)
	}()

	_, err := client.Write([]byte(command + "\n"))
	require.NoError(t, err)

	response, err := io.ReadAll(client)
	require.NoError(t, err)
	require.NoError(t, client.Close())
	<-done

	return string(response)
}

func newTestEngine(t *testing.T, ops operationsManager) *Engine {
	t.Helper()

	recordStore, walManager, cache := newReplayHarness(t)
	e, err := New(&Config{
		Operations: ops,
		WAL:        walManager,
		Store:      recordStore,
		Cache:      cache,
	})
	require.NoError(t, err)
	return e
}

func TestEngine_Handle_write(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	e := newTestEngine(t, &fakeOps{
		write: func(tenant, collection, id string, payload json.RawMessage) (*tidemark.Record, error) {
			req.Equal("acme", tenant)
			req.Equal("articles", collection)
			req.Equal("a1", id)
			req.JSONEq(`{"title":"hi"}`, string(payload))
			return &tidemark.Record{
				ID: id, Tenant: tenant, Collection: collection,
				Timestamp: 2000, Payload: payload,
			}, nil
		},
	})

	response := roundTrip(t, e,
		"WRITE tenant=acme collection=articles id=a1 payload=%7B%22title%22%3A%22hi%22%7D")

	var rec tidemark.Record
	req.NoError(json.Unmarshal([]byte(response), &rec))
	req.Equal("a1", rec.ID)
	req.Equal(int64(2000), rec.Timestamp)
}

func TestEngine_Handle_delete(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	e := newTestEngine(t, &fakeOps{
		delete: func(tenant, collection, id string) (*tidemark.Tombstone, error) {
			return &tidemark.Tombstone{
				ID: id, Tenant: tenant, Collection: collection, Timestamp: 2000,
			}, nil
		},
	})

	response := roundTrip(t, e, "DELETE tenant=acme collection=articles id=a1")

	var tomb tidemark.Tombstone
	req.NoError(json.Unmarshal([]byte(response), &tomb))
	req.Equal("a1", tomb.ID)
	req.Equal(int64(2000), tomb.Timestamp)
}

func TestEngine_Handle_deleteAll(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	e := newTestEngine(t, &fakeOps{
		deleteAll: func(tenant, collection string) ([]*tidemark.Tombstone, error) {
			return []*tidemark.Tombstone{
				{ID: "a1", Tenant: tenant, Collection: collection, Timestamp: 2000},
				{ID: "a2", Tenant: tenant, Collection: collection, Timestamp: 2001},
			}, nil
		},
	})

	response := roundTrip(t, e, "DELETE tenant=acme collection=articles all=true")

	var tombs []*tidemark.Tombstone
	req.NoError(json.Unmarshal([]byte(response), &tombs))
	req.Len(tombs, 2)
}

func TestEngine_Handle_version(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		versionTS  int64
		versionErr error
		expected   string
	}{
		"known version": {
			versionTS: 3000,
			expected:  `{"tenant":"acme","collection":"articles","lastModified":3000}`,
		},
		"unknown version is a flag, never zero": {
			versionErr: tidemark.ErrUnknownVersion,
			expected:   `{"tenant":"acme","collection":"articles","unknown":true}`,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)

			e := newTestEngine(t, &fakeOps{
				version: func(tenant, collection string) (int64, error) {
					return tc.versionTS, tc.versionErr
				},
			})

			response := roundTrip(t, e, "VERSION tenant=acme collection=articles")
			req.JSONEq(tc.expected, response)
		})
	}
}

func TestEngine_Handle_changes(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	e := newTestEngine(t, &fakeOps{
		changesSince: func(tenant, collection string, since int64) ([]tidemark.Change, error) {
			req.Equal(int64(1000), since)
			return nil, nil
		},
	})

	// an empty result is an empty JSON array, not null
	response := roundTrip(t, e, "CHANGES tenant=acme collection=articles since=1000")
	req.Equal("[]", response)
}

func TestEngine_Handle_segmentedCommand(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	e := newTestEngine(t, &fakeOps{
		write: func(tenant, collection, id string, payload json.RawMessage) (*tidemark.Record, error) {
			return &tidemark.Record{
				ID: id, Tenant: tenant, Collection: collection,
				Timestamp: 2000, Payload: payload,
			}, nil
		},
	})

	server, client := net.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Handle(server)
	}()

	// the command arrives in pieces, split in the middle of the id field;
	// the engine must reassemble it before parsing
	for _, part := range []string{
		"WRITE tenant=acme collection=articles id=a",
		"1 payload=%7B%7D",
		"\n",
	} {
		_, err := client.Write([]byte(part))
		req.NoError(err)
	}

	response, err := io.ReadAll(client)
	req.NoError(err)
	req.NoError(client.Close())
	<-done

	var rec tidemark.Record
	req.NoError(json.Unmarshal(response, &rec))
	req.Equal("a1", rec.ID)
}

func TestEngine_Handle_errors(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		command  string
		expected string
	}{
		"unknown verb": {
			command:  "FETCH tenant=acme collection=articles",
			expected: "ERROR: unknown tidemark protocol",
		},
		"operation failure": {
			command:  "READ tenant=acme collection=articles id=missing",
			expected: "ERROR: record not found",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)

			e := newTestEngine(t, &fakeOps{
				read: func(tenant, collection, id string) (*tidemark.Record, error) {
					return nil, tidemark.ErrNotFound
				},
			})

			response := roundTrip(t, e, tc.command)
			req.Equal(tc.expected, response)
		})
	}
}
