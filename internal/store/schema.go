package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// schemaVersion is the revision of the versioning scheme in effect. The
// marker file lets a newer build refuse to open data written by a scheme it
// does not understand.
const schemaVersion = 2

type schemaMarker struct {
	Version int `json:"version"`
}

// checkSchema validates the persisted schema marker, writing the current
// revision on first start.
func (m *Manager) checkSchema() error {
	data, err := os.ReadFile(m.schemaFile)
	if err != nil {
		if os.IsNotExist(err) {
			return m.writeSchema()
		}
		return fmt.Errorf("failed to read schema marker: %w", err)
	}

	var marker schemaMarker
	if err := json.Unmarshal(data, &marker); err != nil {
		return fmt.Errorf("failed to parse schema marker: %w", err)
	}

	switch {
	case marker.Version == schemaVersion:
		return nil
	case marker.Version > schemaVersion:
		return fmt.Errorf("data directory uses schema version %d, this build supports %d",
			marker.Version, schemaVersion)
	default:
		log.Info().Int("from", marker.Version).Int("to", schemaVersion).
			Msg("Migrating schema marker")
		return m.writeSchema()
	}
}

func (m *Manager) writeSchema() error {
	data, err := json.Marshal(schemaMarker{Version: schemaVersion})
	if err != nil {
		return fmt.Errorf("failed to marshal schema marker: %w", err)
	}
	if err := os.WriteFile(m.schemaFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write schema marker: %w", err)
	}
	return nil
}
