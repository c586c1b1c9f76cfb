// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// UserEvictor drops per-user cached results. Satisfied by *discovery.Service.
type UserEvictor interface {
	InvalidateUser(userID int) bool
}

// InteractionWatcherService evicts a user's cached recommendations when one
// of their ratings or favorites changes.
type InteractionWatcherService struct {
	source  EventSource
	evictor UserEvictor
	logger  zerolog.Logger
	name    string
}

// NewInteractionWatcherService creates the watcher.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewInteractionWatcherService(source EventSource, evictor UserEvictor, logger zerolog.Logger) *InteractionWatcherService {
	return &InteractionWatcherService{
		source:  source,
		evictor: evictor,
		logger:  logger.With().Str("service", "interaction-watcher").Logger(),
		name:    "interaction-watcher",
	}
}

// Serve implements suture.Service.
func (s *InteractionWatcherService) Serve(ctx context.Context) error {
	msgs, err := s.source.Subscribe(ctx, catalog.TopicInteractionChanged)
	if err != nil {
		return err
	}
	s.logger.Info().Msg("interaction watcher starting")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("interaction watcher shutting down")
			return ctx.Err()

		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrSubscriptionClosed
			}
			s.handle(msg)
		}
	}
}

func (s *InteractionWatcherService) handle(msg *message.Message) {
	defer msg.Ack()

	ev, err := catalog.DecodeInteractionChanged(msg)
	if err != nil {
		s.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping malformed interaction event")
		return
	}
	metrics.RecordInteractionEvent(ev.Kind)

	if s.evictor.InvalidateUser(ev.UserID) {
		s.logger.Debug().
			Int("user_id", ev.UserID).
			Str("kind", ev.Kind).
			Msg("cached recommendations evicted")
	}
}

// String returns the service name for logging.
func (s *InteractionWatcherService) String() string {
	return s.name
}
