// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/reelmatch/internal/logging"
)

// DefaultSlowRequestThreshold is used when SlowRequests gets a non-positive threshold.
const DefaultSlowRequestThreshold = time.Second

// SlowRequests logs a warning for every request that takes longer than threshold.
func SlowRequests(threshold time.Duration) func(http.Handler) http.Handler {
	if threshold <= 0 {
		threshold = DefaultSlowRequestThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapper, r)

			if took := time.Since(start); took > threshold {
				logging.Ctx(r.Context()).Warn().
					Str("method", r.Method).
					Str("route", routeLabel(r)).
					Int("status", wrapper.statusCode).
					Dur("took", took).
					Dur("threshold", threshold).
					Msg("Slow request detected")
			}
		})
	}
}
