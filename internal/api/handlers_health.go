// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/reelmatch/internal/discovery"
	"github.com/tomtom215/reelmatch/internal/logging"
)

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status  string            `json:"status"` // "healthy" or "degraded"
	Uptime  float64           `json:"uptime_seconds"`
	Catalog discovery.Summary `json:"catalog"`
	Error   string            `json:"error,omitempty"`
}

// Health handles GET /api/v1/health. It always answers 200 and reports "degraded"
// when the catalog cannot be read.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status: "healthy",
		Uptime: time.Since(h.startTime).Seconds(),
	}

	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		status.Status = "degraded"
		status.Error = err.Error()
	} else {
		status.Catalog = summary
	}
	NewResponseWriter(w, r).Success(status)
}

// HealthLive handles GET /api/v1/health/live. It answers 200 while the process runs.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /api/v1/health/ready. It answers 503 until the catalog store
// can produce a snapshot.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ready(r.Context()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
		NewResponseWriter(w, r).ServiceUnavailable("Catalog store not ready")
		return
	}
	NewResponseWriter(w, r).Success(map[string]interface{}{"ready": true})
}
