// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// BreakerConfig tunes the circuit breaker in front of store reads.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32 `koanf:"max_requests" validate:"min=1"`
	// Interval resets the closed-state counts.
	Interval time.Duration `koanf:"interval"`
	// Timeout before an open breaker turns half-open.
	Timeout time.Duration `koanf:"timeout" validate:"min=0"`
	// MinRequests before the failure ratio is considered.
	MinRequests uint32 `koanf:"min_requests" validate:"min=1"`
	// FailureRatio at or above which the breaker opens.
	FailureRatio float64 `koanf:"failure_ratio" validate:"gt=0,lte=1"`
}

// DefaultBreakerConfig opens after 60% failures over at least 10 reads and
// probes again after 30 seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// ResilientStore guards the read path of a Store with a circuit breaker.
// Writes go straight to the wrapped store.
type ResilientStore struct {
	Store
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewResilientStore wraps store. name labels metrics and logs.
func NewResilientStore(store Store, name string, cfg BreakerConfig) *ResilientStore {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("Opening circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateName(from)).
				Str("to", stateName(to)).
				Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateName(from), stateName(to)).Inc()
		},
		// Caller mistakes and cancellations say nothing about store health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrInvalidInput) ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
	})

	return &ResilientStore{Store: store, cb: cb, name: name}
}

// Snapshot reads through the breaker.
func (s *ResilientStore) Snapshot(ctx context.Context) (*Snapshot, error) {
	return guarded[*Snapshot](s, func() (any, error) {
		return s.Store.Snapshot(ctx)
	})
}

// Interactions reads through the breaker.
func (s *ResilientStore) Interactions(ctx context.Context, userID int) (Interactions, error) {
	return guarded[Interactions](s, func() (any, error) {
		return s.Store.Interactions(ctx, userID)
	})
}

// State reports the breaker state.
func (s *ResilientStore) State() string {
	return stateName(s.cb.State())
}

func (s *ResilientStore) execute(fn func() (any, error)) (any, error) {
	result, err := s.cb.Execute(fn)
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
	return result, nil
}

func guarded[T any](s *ResilientStore, fn func() (any, error)) (T, error) {
	var zero T
	result, err := s.execute(fn)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateName(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
