package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidemark/tidemark-db/internal/app"
	"github.com/tidemark/tidemark-db/internal/changefeed"
	"github.com/tidemark/tidemark-db/internal/clock"
	"github.com/tidemark/tidemark-db/internal/config"
	"github.com/tidemark/tidemark-db/internal/engine"
	"github.com/tidemark/tidemark-db/internal/metrics"
	"github.com/tidemark/tidemark-db/internal/operations"
	"github.com/tidemark/tidemark-db/internal/reaper"
	"github.com/tidemark/tidemark-db/internal/server"
	"github.com/tidemark/tidemark-db/internal/store"
	"github.com/tidemark/tidemark-db/internal/versioncache"
	"github.com/tidemark/tidemark-db/internal/wal"
)

const serviceName = "tidemark-db"

func main() {
	configPath := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	application, err := initialize(*configPath)
	if err != nil {
		panic(err)
	}

	if err = application.Run(context.Background()); err != nil {
		panic(err)
	}
}

func initialize(configPath string) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	configureLogging(&cfg.Logging)

	var deps []app.Dependency

	nodeMetrics := metrics.New(prometheus.DefaultRegisterer)

	// the store owns the in-memory shards and the backup loop
	recordStore, err := store.New(&store.Config{
		RootDir:        cfg.Storage.RootDir,
		ShardCount:     cfg.Storage.ShardCount,
		BackupInterval: cfg.Storage.BackupInterval,
		MaxBackupLimit: cfg.Storage.MaxBackupLimit,
	})
	if err != nil {
		return nil, err
	}
	deps = append(deps, recordStore)

	walManager, err := wal.New(&wal.Config{
		Path: cfg.Storage.RootDir,
	})
	if err != nil {
		return nil, err
	}

	cache := versioncache.New()

	oracle, err := clock.New(&clock.Config{
		Cache:       cache,
		Store:       recordStore,
		StripeCount: cfg.Clock.StripeCount,
		OnFallback:  nodeMetrics.ClockCollisions.Inc,
	})
	if err != nil {
		return nil, err
	}

	feed, err := changefeed.New(&changefeed.Config{
		Address: cfg.ChangeFeed.Address,
		Port:    cfg.ChangeFeed.Port,
	})
	if err != nil {
		return nil, err
	}
	deps = append(deps, feed)

	if cfg.Reaper.Enabled {
		tombstoneReaper, err := reaper.New(&reaper.Config{
			Store:     recordStore,
			Interval:  cfg.Reaper.Interval,
			Retention: cfg.Reaper.Retention,
			Reaped:    nodeMetrics.TombstonesReaped,
		})
		if err != nil {
			return nil, err
		}
		deps = append(deps, tombstoneReaper)
	}

	opsManager, err := operations.New(&operations.Config{
		Oracle:  oracle,
		Store:   recordStore,
		Cache:   cache,
		WAL:     walManager,
		Feed:    feed,
		Metrics: nodeMetrics,
	})
	if err != nil {
		return nil, err
	}

	// the engine replays the WAL on Start and handles client connections
	engineHandler, err := engine.New(&engine.Config{
		Operations: opsManager,
		WAL:        walManager,
		Store:      recordStore,
		Cache:      cache,
	})
	if err != nil {
		return nil, err
	}
	deps = append(deps, engineHandler)

	serverCfg := &server.Config{
		Port:           cfg.Server.Port,
		Handler:        engineHandler,
		MaxConnections: cfg.Server.MaxConnections,
	}
	if cfg.Server.EnableTLS {
		cert, err := tls.LoadX509KeyPair(cfg.Server.CertFile, cfg.Server.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
		}
		serverCfg.EnableTLS = true
		serverCfg.Certificate = &cert
	}

	srv, err := server.New(serverCfg)
	if err != nil {
		return nil, err
	}
	deps = append(deps, srv)

	if cfg.Metrics.Enabled {
		metricsServer, err := metrics.NewServer(&metrics.ServerConfig{
			Port: cfg.Metrics.Port,
		})
		if err != nil {
			return nil, err
		}
		deps = append(deps, metricsServer)
	}

	return app.CreateApp(&app.Config{
		ServiceName: serviceName,
		StopTimeout: 30 * time.Second,
	}, deps...)
}

func configureLogging(cfg *config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Pretty {
		log.Logger = log.Output(zerolog.NewConsoleWriter())
	}
}
