package changefeed

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// Event is one committed change pushed to feed subscribers.
type Event struct {
	Tenant     string          `json:"tenant"`
	Collection string          `json:"collection"`
	ID         string          `json:"id,omitempty"`
	Timestamp  int64           `json:"lastModified"`
	Deleted    bool            `json:"deleted,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Emit queues an event for broadcast. The channel is buffered generously;
// feed delivery is off the write path and best-effort per client.
func (m *Manager) Emit(e *Event) {
	m.emitChan <- e
}

// broadcast writes the event to every connected client.
func (m *Manager) broadcast(e *Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal change feed event")
		return
	}

	// Newline for message framing.
	message := append(data, '\n')

	// No new clients while writing.
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	for client := range m.clients {
		_ = client.SetWriteDeadline(time.Now().Add(100 * time.Millisecond))
		if _, err = client.Write(message); err != nil {
			_ = client.Close()
			delete(m.clients, client)
		}
	}
}
