package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	cfg, err := Default()
	req.NoError(err)
	req.Equal("9443", cfg.Server.Port)
	req.NotEmpty(cfg.Storage.RootDir)
	req.Equal(4, cfg.Storage.ShardCount)
	req.Equal(64, cfg.Clock.StripeCount)
	req.True(cfg.Reaper.Enabled)
	req.NoError(cfg.validate())
}

func TestLoad(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		content     string
		expectedErr bool
		check       func(req *require.Assertions, cfg *Config)
	}{
		"partial file keeps defaults for the rest": {
			content: "server:\n  port: \"7000\"\nreaper:\n  enabled: true\n  interval: 10\n  retention: 48\n",
			check: func(req *require.Assertions, cfg *Config) {
				req.Equal("7000", cfg.Server.Port)
				req.Equal(10, cfg.Reaper.Interval)
				req.Equal(48, cfg.Reaper.Retention)
				// untouched sections keep their defaults
				req.Equal(4, cfg.Storage.ShardCount)
				req.Equal(32496, cfg.ChangeFeed.Port)
			},
		},
		"invalid yaml": {
			content:     "server: [not a mapping",
			expectedErr: true,
		},
		"tls without certificate paths": {
			content:     "server:\n  enable_tls: true\n",
			expectedErr: true,
		},
		"reaper enabled with zero interval": {
			content:     "reaper:\n  enabled: true\n  interval: 0\n  retention: 24\n",
			expectedErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)

			path := filepath.Join(t.TempDir(), "tidemark.yaml")
			req.NoError(os.WriteFile(path, []byte(tc.content), 0644))

			cfg, err := Load(path)
			if tc.expectedErr {
				req.Error(err)
				return
			}
			req.NoError(err)
			tc.check(req, cfg)
		})
	}
}

func TestLoad_missingExplicitPath(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
