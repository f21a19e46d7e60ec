// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package recommend

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/swapmatch/internal/auth"
	"github.com/tomtom215/swapmatch/internal/database"
	"github.com/tomtom215/swapmatch/internal/metrics"
	"github.com/tomtom215/swapmatch/internal/models"
)

// ItemStore is the query backend. Every method takes the service credential.
// Implemented by *database.DB.
type ItemStore interface {
	OwnedItems(ctx context.Context, token, userID string) ([]models.Item, error)
	UserProfile(ctx context.Context, token, userID string) (*models.UserProfile, error)
	FavoriteCategoryPool(ctx context.Context, token, userID string, categories []string, limit int) ([]models.Item, error)
	CostSimilarPool(ctx context.Context, token, userID string, center, tolerance float64, limit int) ([]models.Item, error)
	RecentPool(ctx context.Context, token, userID string, limit int) ([]models.Item, error)
	RateTable(ctx context.Context, token string) (models.RateTable, error)
	SearchSimilar(ctx context.Context, token string, q models.SearchQuery) ([]models.SearchResult, error)
}

// Caller runs a query with a valid credential. Implemented by *auth.Executor.
type Caller interface {
	Call(ctx context.Context, fn auth.QueryFunc) error
}

// Source names used in logs and metrics.
const (
	sourceOwned    = "owned_items"
	sourceProfile  = "profile"
	sourceRates    = "rate_table"
	sourceFavorite = "favorite_pool"
	sourceCost     = "cost_pool"
	sourceRecent   = "recent_pool"
	sourceSearch   = "similarity_search"
)

// sources is what one computation read from the store.
type sources struct {
	owned    []models.Item
	profile  models.UserProfile
	rates    models.RateTable
	favorite []models.Item
	cost     []models.Item
	recent   []models.Item
}

// fetchSource runs one store call through the caller with the per-source
// timeout. Failures are logged and counted, and yield the zero value.
func fetchSource[T any](ctx context.Context, e *Engine, source string, fn func(context.Context, string) (T, error)) T {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.SourceTimeout)
	defer cancel()

	var out T
	err := e.caller.Call(ctx, func(ctx context.Context, token string) error {
		v, err := fn(ctx, token)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		if source == sourceProfile && errors.Is(err, database.ErrNotFound) {
			return zero
		}
		metrics.RecordSourceFailure(source)
		e.logger.Warn().Err(err).Str("source", source).Msg("Source failed, continuing without it")
		return zero
	}
	return out
}

// gather reads everything a computation needs. Sources that do not depend on
// each other run in parallel; the favorite and cost pools need the profile
// and the owned items first.
func (e *Engine) gather(ctx context.Context, userID string) *sources {
	s := &sources{}
	var profile *models.UserProfile

	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() {
		s.owned = fetchSource(ctx, e, sourceOwned, func(ctx context.Context, tok string) ([]models.Item, error) {
			return e.store.OwnedItems(ctx, tok, userID)
		})
	})
	run(func() {
		profile = fetchSource(ctx, e, sourceProfile, func(ctx context.Context, tok string) (*models.UserProfile, error) {
			return e.store.UserProfile(ctx, tok, userID)
		})
	})
	run(func() {
		s.rates = fetchSource(ctx, e, sourceRates, func(ctx context.Context, tok string) (models.RateTable, error) {
			return e.store.RateTable(ctx, tok)
		})
	})
	run(func() {
		s.recent = fetchSource(ctx, e, sourceRecent, func(ctx context.Context, tok string) ([]models.Item, error) {
			return e.store.RecentPool(ctx, tok, userID, e.cfg.PoolSize)
		})
	})
	wg.Wait()

	if profile != nil {
		s.profile = *profile
	}
	s.profile.UserID = userID
	center := meanValue(s.owned, s.rates)

	if len(s.profile.FavoriteCategories) > 0 {
		run(func() {
			s.favorite = fetchSource(ctx, e, sourceFavorite, func(ctx context.Context, tok string) ([]models.Item, error) {
				return e.store.FavoriteCategoryPool(ctx, tok, userID, s.profile.FavoriteCategories, e.cfg.PoolSize)
			})
		})
	}
	if center > 0 {
		run(func() {
			s.cost = fetchSource(ctx, e, sourceCost, func(ctx context.Context, tok string) ([]models.Item, error) {
				return e.store.CostSimilarPool(ctx, tok, userID, center, e.cfg.PriceTolerance, e.cfg.PoolSize)
			})
		})
	}
	wg.Wait()
	return s
}

// storeSearcher adapts the store's similarity search to bundle.Searcher.
type storeSearcher struct {
	e *Engine
}

func (s storeSearcher) SearchSimilar(ctx context.Context, q models.SearchQuery) ([]models.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.e.cfg.SourceTimeout)
	defer cancel()

	start := time.Now()
	var out []models.SearchResult
	err := s.e.caller.Call(ctx, func(ctx context.Context, token string) error {
		res, err := s.e.store.SearchSimilar(ctx, token, q)
		out = res
		return err
	})
	if err != nil {
		metrics.RecordSourceFailure(sourceSearch)
		s.e.logger.Debug().Err(err).Dur("elapsed", time.Since(start)).Msg("Similarity search failed")
		return nil, err
	}
	return out, nil
}
