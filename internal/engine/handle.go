package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/rs/zerolog/log"
	"github.com/tidemark/tidemark-db/internal/protocol"
	"github.com/tidemark/tidemark-db/internal/tidemark"
)

// versionResponse is the VERSION reply. Unknown means the collection has
// no committed writes or the aggregate could not be computed; it is never
// reported as version zero.
type versionResponse struct {
	Tenant       string `json:"tenant"`
	Collection   string `json:"collection"`
	LastModified int64  `json:"lastModified,omitempty"`
	Unknown      bool   `json:"unknown,omitempty"`
}

// Handle implements the server.handler interface, allowing the engine to
// respond to incoming connections.
func (e *Engine) Handle(conn net.Conn) {
	defer func() {
		if err := conn.Close(); err != nil {
			log.Debug().Err(err).Msg("Error closing connection")
		}
	}()

	buf, err := e.readConn(conn)
	if err != nil {
		log.Debug().Err(err).Msg("Read error")
		return
	}

	msgType, queryBytes, decodeErr := protocol.Decode(buf)
	if decodeErr != nil {
		e.writeError(conn, decodeErr)
		return
	}

	if len(queryBytes) == 0 {
		e.writeError(conn, errors.New("empty query"))
		return
	}

	response, err := e.dispatch(msgType, string(queryBytes))
	if err != nil {
		e.writeError(conn, err)
		return
	}

	if _, err = conn.Write(response); err != nil {
		log.Debug().Err(err).Msg("Error writing response")
	}
}

// dispatch parses and executes one command, returning the JSON response.
func (e *Engine) dispatch(msgType int, query string) ([]byte, error) {
	switch msgType {
	case protocol.Write:
		parsed, err := protocol.ParseWrite(query)
		if err != nil {
			return nil, err
		}
		record, err := e.operations.Write(parsed.Tenant, parsed.Collection, parsed.ID, parsed.Payload)
		if err != nil {
			return nil, err
		}
		return json.Marshal(record)

	case protocol.Delete:
		parsed, err := protocol.ParseDelete(query)
		if err != nil {
			return nil, err
		}
		if parsed.All {
			tombstones, err := e.operations.DeleteAll(parsed.Tenant, parsed.Collection)
			if err != nil {
				return nil, err
			}
			return json.Marshal(tombstones)
		}
		tombstone, err := e.operations.Delete(parsed.Tenant, parsed.Collection, parsed.ID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(tombstone)

	case protocol.Read:
		parsed, err := protocol.ParseRead(query)
		if err != nil {
			return nil, err
		}
		record, err := e.operations.Read(parsed.Tenant, parsed.Collection, parsed.ID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(record)

	case protocol.Version:
		parsed, err := protocol.ParseVersion(query)
		if err != nil {
			return nil, err
		}
		resp := versionResponse{Tenant: parsed.Tenant, Collection: parsed.Collection}
		ts, err := e.operations.Version(parsed.Tenant, parsed.Collection)
		switch {
		case errors.Is(err, tidemark.ErrUnknownVersion):
			resp.Unknown = true
		case err != nil:
			return nil, err
		default:
			resp.LastModified = ts
		}
		return json.Marshal(resp)

	case protocol.Changes:
		parsed, err := protocol.ParseChanges(query)
		if err != nil {
			return nil, err
		}
		changes, err := e.operations.ChangesSince(parsed.Tenant, parsed.Collection, parsed.Since)
		if err != nil {
			return nil, err
		}
		if changes == nil {
			changes = []tidemark.Change{}
		}
		return json.Marshal(changes)
	}

	return nil, protocol.ErrUnknown
}

func (e *Engine) writeError(conn net.Conn, err error) {
	if _, writeErr := conn.Write([]byte("ERROR: " + err.Error())); writeErr != nil {
		log.Debug().Err(writeErr).Msg("Failed to write error response")
	}
}

// readConn collects one command from the connection. Commands are
// newline-terminated so a query straddling TCP segments is reassembled
// before parsing; a half-close with buffered bytes also ends the command.
func (e *Engine) readConn(conn net.Conn) ([]byte, error) {
	buf := make([]byte, 0, e.maxBufferSize)
	chunk := make([]byte, 1024)

	for {
		n, err := conn.Read(chunk)
		buf = append(buf, chunk[:n]...)

		if i := bytes.IndexByte(buf, '\n'); i >= 0 {
			return bytes.TrimRight(buf[:i], "\r"), nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(buf) > 0 {
				return buf, nil
			}
			return nil, err
		}
		if len(buf) >= e.maxBufferSize {
			return nil, fmt.Errorf("command exceeds %d bytes", e.maxBufferSize)
		}
	}
}
