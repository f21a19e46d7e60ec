// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/swapmatch/internal/recommend"
)

// Invalidator drops a user's cached sections. Implemented by
// *recommend.Engine.
type Invalidator interface {
	InvalidateUser(ctx context.Context, userID string) bool
}

// InvalidationService consumes weights.updated events and invalidates the
// affected user's cache entries. Every message is acked: invalidation is
// advisory and a failed attempt is only logged.
type InvalidationService struct {
	subscriber  message.Subscriber
	invalidator Invalidator
	timeout     time.Duration
	logger      zerolog.Logger
	name        string
}

// NewInvalidationService creates the worker. timeout bounds each
// invalidation; non-positive means 3s.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewInvalidationService(sub message.Subscriber, inv Invalidator, timeout time.Duration, logger zerolog.Logger) *InvalidationService {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &InvalidationService{
		subscriber:  sub,
		invalidator: inv,
		timeout:     timeout,
		logger:      logger.With().Str("service", "cache-invalidation").Logger(),
		name:        "cache-invalidation",
	}
}

// Serve implements suture.Service.
func (s *InvalidationService) Serve(ctx context.Context) error {
	msgs, err := s.subscriber.Subscribe(ctx, recommend.TopicWeightsUpdated)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", recommend.TopicWeightsUpdated, err)
	}
	s.logger.Info().Str("topic", recommend.TopicWeightsUpdated).Msg("invalidation worker running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("subscription to %s closed", recommend.TopicWeightsUpdated)
			}
			s.handle(ctx, msg)
			msg.Ack()
		}
	}
}

func (s *InvalidationService) handle(ctx context.Context, msg *message.Message) {
	var ev recommend.WeightsUpdatedEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil || ev.UserID == "" {
		s.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping malformed weights event")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if !s.invalidator.InvalidateUser(ctx, ev.UserID) {
		s.logger.Warn().Str("user_id", ev.UserID).Msg("cache invalidation incomplete, entries expire by TTL")
		return
	}
	s.logger.Debug().Str("user_id", ev.UserID).Msg("cache invalidated after weights update")
}

func (s *InvalidationService) String() string {
	return s.name
}
