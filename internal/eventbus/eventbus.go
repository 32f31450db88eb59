// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

// Package eventbus is the in-process pub/sub layer between the write
// path and the recommendation engine. RSVP, connection, and feedback
// mutations publish here; a subscriber flags the engine's snapshot
// stale so the next recommendation request sees fresh data without
// the write path ever blocking on a rebuild.
package eventbus

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventmesh/eventmesh/internal/logging"
	"github.com/eventmesh/eventmesh/internal/metrics"
)

// Topics.
const (
	TopicRSVPUpdated       = "rsvp.updated"
	TopicConnectionUpdated = "connection.updated"
	TopicFeedbackCreated   = "feedback.created"
)

// RSVPEvent is published when a user's RSVP changes.
type RSVPEvent struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
	Status  string `json:"status"`
}

// ConnectionEvent is published when a connection is requested or its
// status changes.
type ConnectionEvent struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Status     string `json:"status"`
}

// FeedbackEvent is published when event feedback is recorded.
type FeedbackEvent struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
	Rating  int    `json:"rating"`
}

// Bus wraps an in-process Watermill Go-channel pub/sub.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// New creates the bus.
func New() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, zerologAdapter{logger: logging.With().Str("component", "eventbus").Logger()}),
	}
}

// Publish serializes payload as JSON and publishes it on topic.
func (b *Bus) Publish(ctx context.Context, topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", topic, err)
	}
	msg := message.NewMessage(uuid.NewString(), data)
	msg.SetContext(ctx)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.BusMessagesPublished.WithLabelValues(topic).Inc()
	return nil
}

// Subscribe returns a channel of messages on topic. The subscription
// ends when ctx is canceled.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Close shuts down the pub/sub and all subscriptions.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// StalenessMarker is the piece of the snapshot refresher the bus
// needs: flagging the snapshot for rebuild.
type StalenessMarker interface {
	MarkStale()
}

// RunInvalidator consumes every snapshot-relevant topic and marks the
// refresher stale per message, until ctx is canceled. It blocks, so
// callers run it in its own goroutine or service.
func (b *Bus) RunInvalidator(ctx context.Context, marker StalenessMarker) error {
	topics := []string{TopicRSVPUpdated, TopicConnectionUpdated, TopicFeedbackCreated}
	channels := make([]<-chan *message.Message, 0, len(topics))
	for _, topic := range topics {
		ch, err := b.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
		channels = append(channels, ch)
	}

	merged := make(chan *message.Message)
	for i, ch := range channels {
		topic := topics[i]
		go func(ch <-chan *message.Message, topic string) {
			for msg := range ch {
				msg.Metadata.Set("topic", topic)
				select {
				case merged <- msg:
				case <-ctx.Done():
					msg.Nack()
					return
				}
			}
		}(ch, topic)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-merged:
			topic := msg.Metadata.Get("topic")
			marker.MarkStale()
			msg.Ack()
			metrics.BusMessagesHandled.WithLabelValues(topic, "ok").Inc()
			logging.Debug().
				Str("component", "eventbus").
				Str("topic", topic).
				Str("message_id", msg.UUID).
				Msg("Snapshot marked stale")
		}
	}
}

// zerologAdapter bridges Watermill's logger interface onto zerolog.
type zerologAdapter struct {
	logger zerolog.Logger
}

var _ watermill.LoggerAdapter = zerologAdapter{}

func (a zerologAdapter) Error(msg string, err error, fields watermill.LogFields) {
	withFields(a.logger.Error().Err(err), fields).Msg(msg)
}

func (a zerologAdapter) Info(msg string, fields watermill.LogFields) {
	withFields(a.logger.Info(), fields).Msg(msg)
}

func (a zerologAdapter) Debug(msg string, fields watermill.LogFields) {
	withFields(a.logger.Debug(), fields).Msg(msg)
}

func (a zerologAdapter) Trace(msg string, fields watermill.LogFields) {
	withFields(a.logger.Trace(), fields).Msg(msg)
}

func (a zerologAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	ctx := a.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return zerologAdapter{logger: ctx.Logger()}
}

func withFields(e *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	return e
}
