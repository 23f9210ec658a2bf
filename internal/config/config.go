// Package config loads the tidemark configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidemark/tidemark-db/internal/tidemark"
	"gopkg.in/yaml.v3"
)

const configFileName = "tidemark.yaml"

// ServerConfig holds the client listener configuration.
type ServerConfig struct {
	Port           string `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
	EnableTLS      bool   `yaml:"enable_tls"`
	CertFile       string `yaml:"cert_file"`
	KeyFile        string `yaml:"key_file"`
}

// StorageConfig holds the store and backup configuration.
type StorageConfig struct {
	RootDir        string `yaml:"root_dir"`
	ShardCount     int    `yaml:"shard_count"`
	BackupInterval int    `yaml:"backup_interval"`
	MaxBackupLimit int    `yaml:"max_backup_limit"`
}

// ClockConfig holds the timestamp oracle configuration.
type ClockConfig struct {
	StripeCount int `yaml:"stripe_count"`
}

// ChangeFeedConfig holds the change feed listener configuration.
type ChangeFeedConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// MetricsConfig holds the prometheus endpoint configuration.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// ReaperConfig holds the tombstone retention configuration.
type ReaperConfig struct {
	Enabled   bool `yaml:"enabled"`
	Interval  int  `yaml:"interval"`
	Retention int  `yaml:"retention"`
}

// LoggingConfig holds the zerolog configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Config represents the complete configuration of a tidemark node.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Clock      ClockConfig      `yaml:"clock"`
	ChangeFeed ChangeFeedConfig `yaml:"changefeed"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Reaper     ReaperConfig     `yaml:"reaper"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Default returns the configuration used when no file exists.
func Default() (*Config, error) {
	rootDir, err := tidemark.GetTidemarkDir()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port:           "9443",
			MaxConnections: 100,
		},
		Storage: StorageConfig{
			RootDir:        rootDir,
			ShardCount:     4,
			BackupInterval: 5,
			MaxBackupLimit: 3,
		},
		Clock: ClockConfig{
			StripeCount: 64,
		},
		ChangeFeed: ChangeFeedConfig{
			Address: "127.0.0.1",
			Port:    32496,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9464,
		},
		Reaper: ReaperConfig{
			Enabled:   true,
			Interval:  30,
			Retention: 24,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}, nil
}

// Load reads the configuration file at path, falling back to the default
// location in the tidemark directory, and to defaults entirely when no
// file exists.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = filepath.Join(cfg.Storage.RootDir, configFileName)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Server.Port == "" {
		errGrp = append(errGrp, errors.New("server port is required"))
	}
	if c.Storage.RootDir == "" {
		errGrp = append(errGrp, errors.New("storage root_dir is required"))
	}
	if c.Server.EnableTLS && (c.Server.CertFile == "" || c.Server.KeyFile == "") {
		errGrp = append(errGrp, errors.New("cert_file and key_file are required when TLS is enabled"))
	}
	if c.Reaper.Enabled && (c.Reaper.Interval <= 0 || c.Reaper.Retention <= 0) {
		errGrp = append(errGrp, errors.New("reaper interval and retention must be greater than 0"))
	}
	return errors.Join(errGrp...)
}
