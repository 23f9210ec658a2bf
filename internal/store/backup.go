package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidemark/tidemark-db/internal/tidemark"
)

const backupFileGlob = "backup-*.db"

// collectionDump is the on-disk shape of one collection inside a backup
// file. Indexes are not persisted; they are rebuilt on load.
type collectionDump struct {
	Tenant     string                `json:"tenant"`
	Collection string                `json:"collection"`
	Records    []*tidemark.Record    `json:"records,omitempty"`
	Tombstones []*tidemark.Tombstone `json:"tombstones,omitempty"`
	Wipes      []*tidemark.Tombstone `json:"wipes,omitempty"`
}

// saveBackup writes a full backup of every shard to a new file.
func (m *Manager) saveBackup() error {
	start := time.Now()

	var dumps []collectionDump
	for _, s := range m.shards {
		s.mu.RLock()
		for key, c := range s.collections {
			dump := collectionDump{
				Tenant:     key.Tenant,
				Collection: key.Collection,
				Wipes:      c.wipes,
			}
			for _, r := range c.records {
				dump.Records = append(dump.Records, r)
			}
			for _, t := range c.tombstones {
				dump.Tombstones = append(dump.Tombstones, t)
			}
			dumps = append(dumps, dump)
		}
		s.mu.RUnlock()
	}

	dataBytes, err := json.Marshal(dumps)
	if err != nil {
		return fmt.Errorf("failed to serialize backup: %w", err)
	}

	filename := filepath.Join(m.backupDir, fmt.Sprintf("backup-%d.db", time.Now().UnixNano()))
	if err = os.WriteFile(filename, dataBytes, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	log.Debug().Str("duration", time.Since(start).String()).Msg("Backup saved")
	return nil
}

// loadFromLatestBackup restores the newest backup file into the shards and
// rebuilds every collection index.
func (m *Manager) loadFromLatestBackup() error {
	start := time.Now()

	latest, err := m.getLatestBackup()
	if err != nil {
		return fmt.Errorf("failed to get latest backup: %w", err)
	}
	if latest == "" {
		// No backup files yet, nothing to load.
		return nil
	}

	dataBytes, err := os.ReadFile(latest)
	if err != nil {
		return fmt.Errorf("failed to read backup %s: %w", latest, err)
	}

	var dumps []collectionDump
	if err := json.Unmarshal(dataBytes, &dumps); err != nil {
		return fmt.Errorf("failed to parse backup %s: %w", latest, err)
	}

	for _, dump := range dumps {
		key := tidemark.NewKey(dump.Tenant, dump.Collection)
		s := m.shardFor(key)

		s.mu.Lock()
		c := s.ensureCollection(key)
		for _, r := range dump.Records {
			c.records[r.ID] = r
			c.index.ReplaceOrInsert(changeRef{Timestamp: r.Timestamp, ID: r.ID})
		}
		for _, t := range dump.Tombstones {
			c.tombstones[t.ID] = t
			c.index.ReplaceOrInsert(changeRef{Timestamp: t.Timestamp, ID: t.ID, Deleted: true})
		}
		for _, t := range dump.Wipes {
			c.wipes = append(c.wipes, t)
			c.index.ReplaceOrInsert(changeRef{Timestamp: t.Timestamp, Deleted: true})
		}
		s.mu.Unlock()
	}

	log.Debug().Str("duration", time.Since(start).String()).Msg("Data loaded from backup")
	return nil
}

// getLatestBackup returns the newest backup file in the backup directory.
func (m *Manager) getLatestBackup() (string, error) {
	files, err := filepath.Glob(filepath.Join(m.backupDir, backupFileGlob))
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", nil
	}

	// Nanosecond suffixes sort lexicographically in chronological order.
	latest := files[0]
	for _, file := range files {
		if file > latest {
			latest = file
		}
	}
	return latest, nil
}

// maintainBackupLimit prunes the oldest backup files beyond the configured
// limit.
func (m *Manager) maintainBackupLimit() {
	files, err := filepath.Glob(filepath.Join(m.backupDir, backupFileGlob))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list backup files")
		return
	}

	if len(files) <= m.maxBackupLimit {
		return
	}

	sort.Strings(files)
	for i := 0; i < len(files)-m.maxBackupLimit; i++ {
		if err := os.Remove(files[i]); err != nil {
			log.Error().Err(err).Str("file", files[i]).Msg("Failed to remove old backup")
		}
	}
}
