// Package wal appends every committed change to a write-ahead log so the
// store can be rebuilt after a crash: newest backup first, then the log
// replayed over it.
package wal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	defaultWalDirectory = "wal"
	defaultWALFile      = "wal.log"
)

// Entry is one committed change: a record version or a tombstone. An empty
// ID with Deleted set marks a collection-wide delete.
type Entry struct {
	Tenant     string          `json:"tenant"`
	Collection string          `json:"collection"`
	ID         string          `json:"id,omitempty"`
	Timestamp  int64           `json:"lastModified"`
	Deleted    bool            `json:"deleted,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

type Manager struct {
	mu      sync.Mutex
	walFile *os.File
	path    string
}

type Config struct {
	// Path where the WAL directory will be created.
	Path string
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Path == "" {
		errGrp = append(errGrp, errors.New("wal path cannot be empty"))
	}
	return errors.Join(errGrp...)
}

func New(cfg *Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	walPath := filepath.Join(cfg.Path, defaultWalDirectory, defaultWALFile)
	if err := os.MkdirAll(filepath.Dir(walPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create WAL directory: %w", err)
	}

	file, err := os.OpenFile(walPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0640)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAL file: %w", err)
	}

	return &Manager{
		walFile: file,
		path:    walPath,
	}, nil
}

// Apply appends one entry to the log. The entry must already carry its
// assigned timestamp; the WAL records committed facts, it does not stamp.
func (m *Manager) Apply(e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	jsonData, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	if _, err = m.walFile.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to write to WAL: %w", err)
	}

	return nil
}

// Close releases the underlying log file.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.walFile == nil {
		return nil
	}
	return m.walFile.Close()
}
