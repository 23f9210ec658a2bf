package wal

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"
)

// Load replays the log from the beginning, handing each entry to apply in
// commit order. Malformed lines are skipped; a torn final line after a
// crash must not take the whole store down.
func (m *Manager) Load(apply func(e *Entry) error) error {
	file, err := os.Open(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			// No WAL file exists yet, not an error.
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			log.Warn().Err(err).Msg("Skipping malformed WAL entry")
			continue
		}

		if err := apply(&entry); err != nil {
			return err
		}
	}

	return scanner.Err()
}
