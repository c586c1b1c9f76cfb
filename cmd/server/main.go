// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/reelmatch/internal/api"
	"github.com/tomtom215/reelmatch/internal/backup"
	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/discovery"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/supervisor"
	"github.com/tomtom215/reelmatch/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.Logging.Logger())

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("environment", cfg.Server.Environment).
		Str("storage", storageLabel(cfg.Storage.Path)).
		Msg("Starting Reelmatch with supervisor tree")

	watchConfig()

	db, err := catalog.OpenBadger(cfg.Storage.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open catalog store")
	}

	events := catalog.NewEvents(cfg.Catalog.EventBuffer, watermill.NewSlogLogger(logging.NewSlogLogger("events")))
	badgerStore := catalog.NewBadgerStore(db, events)
	defer func() {
		if err := events.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
		if err := badgerStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog store")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var backups *backup.Manager
	if cfg.Backup.Enabled || cfg.Backup.RestoreFrom != "" {
		backups, err = backup.NewManager(cfg.Backup, db)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize backup manager")
		}
	}
	if id := cfg.Backup.RestoreFrom; id != "" {
		restoreCatalog(ctx, backups, id, db)
	}

	if cfg.Catalog.SeedPath != "" {
		seedCatalog(ctx, badgerStore, cfg.Catalog.SeedPath)
	}

	store := catalog.NewResilientStore(badgerStore, "catalog-store", cfg.Breaker)

	svc, err := discovery.New(store, discovery.Config{
		Search:    cfg.Search.Engine(),
		Recommend: cfg.Recommend,
		CacheSize: cfg.Search.CacheSize,
		CacheTTL:  cfg.Search.CacheTTL,
	}, logging.Component("discovery"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create discovery service")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	router := api.NewRouter(api.NewHandler(svc, cfg.Server.Timeout), api.RouterConfigFrom(cfg))
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Backup.Enabled {
		tree.AddDataService(services.NewBackupService(backups, cfg.Backup, logging.Logger()))
		logging.Info().
			Str("dir", cfg.Backup.Dir).
			Dur("interval", cfg.Backup.Interval).
			Msg("Scheduled backups enabled")
	}
	tree.AddIndexService(services.NewCatalogWatcherService(events, svc, services.CatalogWatcherConfig{
		WarmOnStartup:   true,
		RefreshInterval: cfg.Catalog.RefreshInterval,
	}, logging.Logger()))
	tree.AddIndexService(services.NewInteractionWatcherService(events, svc, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("HTTP server starting")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, s := range report {
			logging.Warn().Str("service", s.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}

	logging.Info().Msg("Reelmatch stopped")
}

// restoreCatalog loads a backup into the store before it serves traffic. A
// store that already holds a catalog is left untouched.
func restoreCatalog(ctx context.Context, backups *backup.Manager, id string, db *badger.DB) {
	b, err := backups.RestoreBackup(ctx, id, db)
	switch {
	case errors.Is(err, backup.ErrTargetNotEmpty):
		logging.Warn().Str("backup_id", id).Msg("Catalog already present, restore skipped")
	case err != nil:
		logging.Fatal().Err(err).Str("backup_id", id).Msg("Failed to restore backup")
	default:
		logging.Info().Str("backup_id", id).Uint64("catalog_version", b.CatalogVersion).Msg("Catalog restored from backup")
	}
}

// seedCatalog loads the seed file into a store that has never held a
// catalog. A failed seed leaves the store empty; the service still starts and
// answers with empty results until a catalog is posted.
func seedCatalog(ctx context.Context, store *catalog.BadgerStore, path string) {
	d, err := catalog.LoadFile(path)
	if err != nil {
		logging.Error().Err(err).Str("path", path).Msg("Failed to load seed catalog")
		return
	}
	version, seeded, err := store.Seed(ctx, d)
	switch {
	case err != nil:
		logging.Error().Err(err).Str("path", path).Msg("Failed to seed catalog")
	case seeded:
		logging.Info().Str("path", path).Uint64("version", version).Int("films", len(d.Films)).Msg("Catalog seeded")
	default:
		logging.Info().Uint64("version", version).Msg("Catalog already present, seed skipped")
	}
}

// watchConfig re-applies the log level when the config file changes. Other
// settings take effect on restart.
func watchConfig() {
	path := config.FindConfigFile()
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		cfg, err := config.LoadFile(path)
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		logging.SetLevel(cfg.Logging.Level)
		logging.Info().Str("level", cfg.Logging.Level).Msg("Log level reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch disabled")
	}
}

func storageLabel(path string) string {
	if path == "" {
		return "memory"
	}
	return path
}
