// Package store keeps the live records and tombstones of every collection.
//
// Data is split across shards by FNV hash of tenant/collection, each shard
// with its own lock, so writes to unrelated collections never contend.
// Every collection carries a btree index ordered by (timestamp, id) over
// records and tombstones together; that index is what makes changes-since
// scans and the max-timestamp fallback cheap.
package store

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidemark/tidemark-db/internal/tidemark"
)

const (
	backupDirName  = ".table_backup"
	schemaFileName = "schema.version"

	defaultShardCount     = 4
	defaultMaxBackupLimit = 3
)

// shard owns a subset of all collections behind one lock.
type shard struct {
	mu          sync.RWMutex
	collections map[tidemark.Key]*collection
}

// Manager handles the in-memory stores and their persistence to disk.
type Manager struct {
	rootDir    string
	backupDir  string
	schemaFile string

	shardCount int
	shards     []*shard

	backupInterval time.Duration
	maxBackupLimit int

	procCtx   context.Context
	ctxCancel context.CancelFunc
}

type Config struct {
	// RootDir is the tidemark data directory.
	RootDir string
	// ShardCount fixes how many locks the key space is spread over.
	ShardCount int
	// BackupInterval is the number of minutes between full backups.
	BackupInterval int
	// MaxBackupLimit caps how many backup files are kept on disk.
	MaxBackupLimit int
}

func (c *Config) validate() error {
	var errGrp []error
	if c.RootDir == "" {
		errGrp = append(errGrp, fmt.Errorf("data directory is required"))
	}
	if c.ShardCount < 0 || c.ShardCount > 128 {
		errGrp = append(errGrp, fmt.Errorf("shard count must be between 0 and 128, 0 for the default"))
	}
	if c.BackupInterval <= 0 {
		errGrp = append(errGrp, fmt.Errorf("backup interval must be greater than 0"))
	}
	if c.MaxBackupLimit < 0 || c.MaxBackupLimit > 50 {
		errGrp = append(errGrp, fmt.Errorf("max backup limit must be between 0 and 50, 0 for the default"))
	}
	return errors.Join(errGrp...)
}

// New creates a new store manager.
func New(cfg *Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	backupDir := filepath.Join(cfg.RootDir, backupDirName)
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	shardCount := cfg.ShardCount
	if shardCount == 0 {
		shardCount = defaultShardCount
	}

	maxBackupLimit := cfg.MaxBackupLimit
	if maxBackupLimit == 0 {
		maxBackupLimit = defaultMaxBackupLimit
	}

	shards := make([]*shard, shardCount)
	for i := range shards {
		shards[i] = &shard{collections: make(map[tidemark.Key]*collection)}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		rootDir:        cfg.RootDir,
		backupDir:      backupDir,
		schemaFile:     filepath.Join(cfg.RootDir, schemaFileName),
		shardCount:     shardCount,
		shards:         shards,
		backupInterval: time.Duration(cfg.BackupInterval) * time.Minute,
		maxBackupLimit: maxBackupLimit,
		procCtx:        ctx,
		ctxCancel:      cancel,
	}, nil
}

// Start verifies the schema marker, loads the newest backup and begins the
// periodic backup loop.
func (m *Manager) Start() error {
	if err := m.checkSchema(); err != nil {
		return err
	}

	if err := m.loadFromLatestBackup(); err != nil {
		return err
	}

	go m.backupLoop()

	return nil
}

// Stop flushes a final backup before the process exits.
func (m *Manager) Stop() error {
	if m.ctxCancel != nil {
		m.ctxCancel()
	}

	if err := m.saveBackup(); err != nil {
		return fmt.Errorf("failed to save final backup: %w", err)
	}

	return nil
}

func (m *Manager) Name() string {
	return "Tidemark Store"
}

// shardFor maps a collection key onto its shard using FNV-1a.
func (m *Manager) shardFor(key tidemark.Key) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.String()))
	return m.shards[int(h.Sum32()%uint32(m.shardCount))]
}

// getCollection returns the collection for key, or nil if no write ever
// touched it. Caller must hold the shard lock.
func (s *shard) getCollection(key tidemark.Key) *collection {
	return s.collections[key]
}

// ensureCollection returns the collection for key, creating it on first
// write. Caller must hold the shard write lock.
func (s *shard) ensureCollection(key tidemark.Key) *collection {
	c, ok := s.collections[key]
	if !ok {
		c = newCollection()
		s.collections[key] = c
	}
	return c
}

func (m *Manager) backupLoop() {
	ticker := time.NewTicker(m.backupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.procCtx.Done():
			return
		case <-ticker.C:
			if err := m.saveBackup(); err != nil {
				log.Error().Err(err).Msg("Periodic backup failed")
				continue
			}
			m.maintainBackupLimit()
		}
	}
}
