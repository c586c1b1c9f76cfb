// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

// Event topics.
const (
	TopicCatalogChanged     = "catalog.changed"
	TopicInteractionChanged = "interaction.changed"
)

// CatalogChanged reasons.
const (
	ReasonReplaced = "replaced"
	ReasonSeeded   = "seeded"
)

// InteractionChanged kinds.
const (
	KindRatingPut       = "rating_put"
	KindRatingDeleted   = "rating_deleted"
	KindFavoritePut     = "favorite_put"
	KindFavoriteDeleted = "favorite_deleted"
)

// CatalogChanged is published after a catalog replacement commits.
type CatalogChanged struct {
	Version uint64 `json:"version"`
	Reason  string `json:"reason"`
}

// InteractionChanged is published after a rating or favorite mutation commits.
type InteractionChanged struct {
	UserID int    `json:"user_id"`
	FilmID int    `json:"film_id"`
	Kind   string `json:"kind"`
}

// Events is the in-process event bus for catalog changes. Messages published
// to a topic with no subscriber are dropped.
type Events struct {
	pubsub *gochannel.GoChannel
}

// NewEvents creates an event bus. buffer sizes each subscriber channel.
func NewEvents(buffer int64, logger watermill.LoggerAdapter) *Events {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Events{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: buffer}, logger),
	}
}

// Publish sends prepared messages on topic. Typed events should go through
// PublishCatalogChanged or PublishInteractionChanged.
func (e *Events) Publish(topic string, msgs ...*message.Message) error {
	if err := e.pubsub.Publish(topic, msgs...); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	for range msgs {
		metrics.RecordEventPublished(topic)
	}
	return nil
}

// Subscribe returns a channel of messages for topic. Receivers must Ack
// each message. The channel closes when ctx is done or the bus is closed.
func (e *Events) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	msgs, err := e.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", topic, err)
	}
	return msgs, nil
}

// PublishCatalogChanged publishes ev on TopicCatalogChanged.
func (e *Events) PublishCatalogChanged(ev CatalogChanged) error {
	return e.publish(TopicCatalogChanged, ev)
}

// PublishInteractionChanged publishes ev on TopicInteractionChanged.
func (e *Events) PublishInteractionChanged(ev InteractionChanged) error {
	return e.publish(TopicInteractionChanged, ev)
}

// Close shuts the bus down and closes all subscriber channels.
func (e *Events) Close() error {
	return e.pubsub.Close()
}

func (e *Events) publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}
	msg := message.NewMessage(uuid.New().String(), data)
	msg.Metadata.Set("topic", topic)

	return e.Publish(topic, msg)
}

// DecodeCatalogChanged reads a CatalogChanged payload.
func DecodeCatalogChanged(msg *message.Message) (CatalogChanged, error) {
	var ev CatalogChanged
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return CatalogChanged{}, fmt.Errorf("decode %s: %w", TopicCatalogChanged, err)
	}
	return ev, nil
}

// DecodeInteractionChanged reads an InteractionChanged payload.
func DecodeInteractionChanged(msg *message.Message) (InteractionChanged, error) {
	var ev InteractionChanged
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return InteractionChanged{}, fmt.Errorf("decode %s: %w", TopicInteractionChanged, err)
	}
	return ev, nil
}
