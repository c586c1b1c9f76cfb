// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package logging provides the process-wide zerolog logger for Reelmatch.
//
// JSON output is the default and is what production deployments ship to
// their log pipeline. Console output is available for local development.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Uint64("version", snap.Version).Msg("Catalog loaded")
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Search failed")
//
// # Request Scope
//
// The API middleware stores a request ID in the request context. Ctx picks
// it up so every line logged while serving a request carries request_id.
//
// # slog Bridge
//
// Suture and Watermill log through log/slog. NewSlogLogger returns an
// slog.Logger whose records are written by the zerolog logger configured
// here, so supervisor and event bus output share one format.
package logging
