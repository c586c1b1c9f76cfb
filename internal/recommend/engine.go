// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

// Engine produces recommendations from a FeatureSpace. It holds no per-user state and is
// safe for concurrent use.
type Engine struct {
	config Config
	logger zerolog.Logger
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Recommend ranks films for the user described by in. Films the user rated or favorited
// never appear in the result. Users without any signal get the most voted films instead.
// limit is resolved with Config.Limit.
func (e *Engine) Recommend(space *FeatureSpace, snap *catalog.Snapshot, in catalog.Interactions, limit int) (Result, error) {
	limit = e.config.Limit(limit)

	profile, ok := BuildProfile(space, in, e.config.FavoriteWeight)
	if !ok {
		e.logger.Debug().
			Int("user_id", in.UserID).
			Int("limit", limit).
			Msg("cold start, using popularity ranking")
		return Result{Candidates: Popular(snap, limit), ColdStart: true}, nil
	}

	candidates, err := Rank(space, profile, in.Interacted(), limit)
	if err != nil {
		return Result{}, fmt.Errorf("rank films for user %d: %w", in.UserID, err)
	}

	e.logger.Debug().
		Int("user_id", in.UserID).
		Int("ratings", len(in.Ratings)).
		Int("favorites", len(in.Favorites)).
		Int("returned", len(candidates)).
		Msg("content-based ranking complete")
	return Result{Candidates: candidates}, nil
}
