// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/middleware"
)

// RouterConfig configures NewRouter.
type RouterConfig struct {
	Middleware           *ChiMiddlewareConfig
	MaxBodyBytes         int64
	SlowRequestThreshold time.Duration
}

// RouterConfigFrom derives router settings from the application config.
func RouterConfigFrom(cfg *config.Config) RouterConfig {
	mw := DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.RateLimitRequests = cfg.Security.RateLimitReqs
	mw.RateLimitWindow = cfg.Security.RateLimitWindow
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled

	return RouterConfig{
		Middleware:           mw,
		MaxBodyBytes:         cfg.Security.MaxBodyBytes,
		SlowRequestThreshold: middleware.DefaultSlowRequestThreshold,
	}
}

// NewRouter builds the chi router for all API routes.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	mw := NewChiMiddleware(cfg.Middleware)
	r := chi.NewRouter()

	// Global middleware, applied in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.SlowRequests(cfg.SlowRequestThreshold))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(mw.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.MaxBodyBytes(cfg.MaxBodyBytes))

		// Read endpoints
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit())
			r.Use(middleware.Compression)

			r.Get("/search", h.Search)
			r.Get("/tags/suggest", h.SuggestTags)
			r.Get("/films/{filmID}", h.GetFilm)
			r.Get("/catalog", h.GetCatalog)
			r.Get("/users/{userID}/recommendations", h.GetRecommendations)
		})

		// Interaction writes
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimitCustom(RateLimitWrite))

			r.Put("/users/{userID}/ratings/{filmID}", h.PutRating)
			r.Delete("/users/{userID}/ratings/{filmID}", h.DeleteRating)
			r.Put("/users/{userID}/favorites/{filmID}", h.PutFavorite)
			r.Delete("/users/{userID}/favorites/{filmID}", h.DeleteFavorite)
		})

		// Catalog replacement rebuilds every derived index
		r.With(mw.RateLimitCustom(RateLimitCatalog)).Post("/catalog", h.ReplaceCatalog)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
