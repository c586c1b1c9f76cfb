// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/discovery"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/search"
)

// Discovery is the service behind the handlers. *discovery.Service implements it.
type Discovery interface {
	DefaultSearchOptions(kind search.EntityKind) search.Options
	SearchEntities(ctx context.Context, query string, opts search.Options) ([]search.Result, error)
	SuggestTags(ctx context.Context, prefix string, limit int) ([]catalog.Tag, error)
	Recommend(ctx context.Context, userID, limit int) (recommend.Result, error)
	Film(ctx context.Context, id int) (discovery.FilmDetails, error)
	Summary(ctx context.Context) (discovery.Summary, error)
	ReplaceCatalog(ctx context.Context, d catalog.Data) (uint64, error)
	RateFilm(ctx context.Context, r catalog.Rating) error
	UnrateFilm(ctx context.Context, userID, filmID int) error
	FavoriteFilm(ctx context.Context, userID, filmID int) error
	UnfavoriteFilm(ctx context.Context, userID, filmID int) error
	Ready(ctx context.Context) error
}

var _ Discovery = (*discovery.Service)(nil)

// Handler serves the reelmatch API.
//
// Handler methods are split across files:
//   - handlers_health.go: health and readiness probes
//   - handlers_search.go: entity search and tag suggestions
//   - handlers_recommend.go: recommendations
//   - handlers_interactions.go: ratings and favorites
//   - handlers_catalog.go: catalog inspection, replacement and film lookup
type Handler struct {
	svc            Discovery
	startTime      time.Time
	requestTimeout time.Duration
}

// NewHandler creates a Handler. requestTimeout bounds each service call; zero means
// the request context alone applies.
func NewHandler(svc Discovery, requestTimeout time.Duration) *Handler {
	return &Handler{
		svc:            svc,
		startTime:      time.Now(),
		requestTimeout: requestTimeout,
	}
}

func (h *Handler) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.requestTimeout)
}
