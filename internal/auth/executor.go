// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// QueryFunc is a query that needs a credential.
type QueryFunc func(ctx context.Context, token string) error

// Executor runs queries with a valid credential.
type Executor struct {
	tokens *TokenSource
	logger zerolog.Logger
}

// NewExecutor returns an Executor backed by tokens.
func NewExecutor(tokens *TokenSource, logger zerolog.Logger) *Executor {
	return &Executor{
		tokens: tokens,
		logger: logger.With().Str("component", "auth_executor").Logger(),
	}
}

// Call runs fn with the current credential. If fn fails with ErrUnauthorized
// the credential is refreshed and fn runs once more; that second result is
// returned as is.
func (e *Executor) Call(ctx context.Context, fn QueryFunc) error {
	token, err := e.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain credential: %w", err)
	}

	err = fn(ctx, token)
	if err == nil || !errors.Is(err, ErrUnauthorized) {
		return err
	}

	e.logger.Debug().Err(err).Msg("Credential rejected, refreshing once")
	token, rerr := e.tokens.Refresh(ctx)
	if rerr != nil {
		return fmt.Errorf("failed to refresh credential: %w", rerr)
	}
	return fn(ctx, token)
}
