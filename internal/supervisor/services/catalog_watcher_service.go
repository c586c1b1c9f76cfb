// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"context"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

// ErrSubscriptionClosed is returned when the event channel closes while the
// service is still running. The supervisor restarts the service.
var ErrSubscriptionClosed = errors.New("catalog event subscription closed")

// Warmer rebuilds derived artifacts for the current catalog snapshot and
// reports its version. Satisfied by *discovery.Service.
type Warmer interface {
	Warm(ctx context.Context) (uint64, error)
}

// EventSource delivers messages for a topic. Satisfied by *catalog.Events.
type EventSource interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
}

// CatalogWatcherConfig holds the watcher's timing.
type CatalogWatcherConfig struct {
	// WarmOnStartup builds the indexes before the first event arrives.
	WarmOnStartup bool

	// RefreshInterval re-warms on a timer so writes that bypassed the event
	// bus are still picked up. Zero disables the timer.
	RefreshInterval time.Duration

	// WarmTimeout bounds a single warm-up.
	WarmTimeout time.Duration
}

// CatalogWatcherService keeps the search indexes and feature space in step
// with the store. It warms on every catalog.changed event and on each refresh
// tick.
type CatalogWatcherService struct {
	source EventSource
	warmer Warmer
	config CatalogWatcherConfig
	logger zerolog.Logger
	name   string

	lastVersion uint64
}

// NewCatalogWatcherService creates the watcher.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogWatcherService(source EventSource, warmer Warmer, cfg CatalogWatcherConfig, logger zerolog.Logger) *CatalogWatcherService {
	if cfg.WarmTimeout <= 0 {
		cfg.WarmTimeout = time.Minute
	}
	return &CatalogWatcherService{
		source: source,
		warmer: warmer,
		config: cfg,
		logger: logger.With().Str("service", "catalog-watcher").Logger(),
		name:   "catalog-watcher",
	}
}

// Serve implements suture.Service.
func (s *CatalogWatcherService) Serve(ctx context.Context) error {
	msgs, err := s.source.Subscribe(ctx, catalog.TopicCatalogChanged)
	if err != nil {
		return err
	}

	s.logger.Info().
		Bool("warm_on_startup", s.config.WarmOnStartup).
		Dur("refresh_interval", s.config.RefreshInterval).
		Msg("catalog watcher starting")

	if s.config.WarmOnStartup {
		s.warm(ctx, "startup")
	}

	var tick <-chan time.Time
	if s.config.RefreshInterval > 0 {
		ticker := time.NewTicker(s.config.RefreshInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("catalog watcher shutting down")
			return ctx.Err()

		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrSubscriptionClosed
			}
			s.handle(ctx, msg)

		case <-tick:
			s.warm(ctx, "refresh")
		}
	}
}

// handle acks every message. A failed warm-up is retried by the next event
// or refresh tick rather than by redelivery.
func (s *CatalogWatcherService) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	ev, err := catalog.DecodeCatalogChanged(msg)
	if err != nil {
		s.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping malformed catalog event")
		return
	}
	if ev.Version != 0 && ev.Version <= s.lastVersion {
		s.logger.Debug().Uint64("version", ev.Version).Msg("catalog event already applied")
		return
	}
	s.warm(ctx, ev.Reason)
}

func (s *CatalogWatcherService) warm(ctx context.Context, trigger string) {
	warmCtx, cancel := context.WithTimeout(ctx, s.config.WarmTimeout)
	defer cancel()

	start := time.Now()
	version, err := s.warmer.Warm(warmCtx)
	switch {
	case errors.Is(err, catalog.ErrEmptyCatalog):
		if version != s.lastVersion {
			s.logger.Info().Str("trigger", trigger).Uint64("version", version).Msg("catalog is empty, nothing to index")
			s.lastVersion = version
		}
		return
	case err != nil:
		s.logger.Warn().Err(err).Str("trigger", trigger).Msg("catalog warm-up failed")
		return
	case version == s.lastVersion:
		return
	}

	s.logger.Info().
		Str("trigger", trigger).
		Uint64("from_version", s.lastVersion).
		Uint64("version", version).
		Dur("duration", time.Since(start)).
		Msg("catalog indexes warmed")
	s.lastVersion = version
}

// String returns the service name for logging.
func (s *CatalogWatcherService) String() string {
	return s.name
}
