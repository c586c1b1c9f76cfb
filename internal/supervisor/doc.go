// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package supervisor runs reelmatch's long-lived services under suture v4.

	RootSupervisor ("reelmatch")
	├── DataSupervisor ("data-layer")
	│   └── BackupService           scheduled Badger backups with retention
	├── IndexSupervisor ("index-layer")
	│   ├── CatalogWatcherService       warms indexes on catalog.changed and on a timer
	│   └── InteractionWatcherService   evicts cached recommendations on interaction.changed
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff. Supervisor events are logged
through sutureslog into the zerolog-backed slog handler from the logging
package:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewBackupService(backups, cfg.Backup, logger))
	tree.AddIndexService(services.NewCatalogWatcherService(events, svc, watcherCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
