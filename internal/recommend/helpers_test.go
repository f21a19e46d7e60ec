// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package recommend

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/swapmatch/internal/auth"
	"github.com/tomtom215/swapmatch/internal/database"
	"github.com/tomtom215/swapmatch/internal/models"
)

const (
	userID  = "user-u"
	ownerX  = "owner-x"
	ownerY  = "owner-y"
	testCat = "electronics"
)

var errSource = errors.New("source down")

func strPtr(s string) *string { return &s }

func item(id, owner string, price float64, category string, emb ...float64) models.Item {
	it := models.Item{
		ID:        id,
		OwnerID:   owner,
		Title:     id,
		Price:     models.Money{Amount: price, Currency: "USD"},
		Status:    models.ItemAvailable,
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if category != "" {
		it.CategoryID = strPtr(category)
	}
	if len(emb) > 0 {
		it.Embedding = emb
	}
	return it
}

// fakeStore serves fixed data and can fail individual sources.
type fakeStore struct {
	mu       sync.Mutex
	owned    []models.Item
	profile  *models.UserProfile
	rates    models.RateTable
	favorite []models.Item
	cost     []models.Item
	recent   []models.Item
	search   []models.SearchResult
	failing  map[string]bool
	calls    atomic.Int64
}

func (f *fakeStore) fail(source string) error {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[source] {
		return errSource
	}
	return nil
}

func (f *fakeStore) OwnedItems(_ context.Context, _, _ string) ([]models.Item, error) {
	return f.owned, f.fail(sourceOwned)
}

func (f *fakeStore) UserProfile(_ context.Context, _, _ string) (*models.UserProfile, error) {
	if err := f.fail(sourceProfile); err != nil {
		return nil, err
	}
	if f.profile == nil {
		return nil, database.ErrNotFound
	}
	return f.profile, nil
}

func (f *fakeStore) FavoriteCategoryPool(_ context.Context, _, _ string, _ []string, _ int) ([]models.Item, error) {
	return f.favorite, f.fail(sourceFavorite)
}

func (f *fakeStore) CostSimilarPool(_ context.Context, _, _ string, _, _ float64, _ int) ([]models.Item, error) {
	return f.cost, f.fail(sourceCost)
}

func (f *fakeStore) RecentPool(_ context.Context, _, _ string, _ int) ([]models.Item, error) {
	return f.recent, f.fail(sourceRecent)
}

func (f *fakeStore) RateTable(_ context.Context, _ string) (models.RateTable, error) {
	return f.rates, f.fail(sourceRates)
}

func (f *fakeStore) SearchSimilar(_ context.Context, _ string, _ models.SearchQuery) ([]models.SearchResult, error) {
	return f.search, f.fail(sourceSearch)
}

// passCaller runs queries with a fixed token.
type passCaller struct{}

func (passCaller) Call(ctx context.Context, fn auth.QueryFunc) error {
	return fn(ctx, "token")
}

// marketplace is the standard fixture: the user owns 100 and 50 and likes
// electronics; owner X lists two electronics items worth 90 and 70.
func marketplace() *fakeStore {
	x1 := item("x-headphones", ownerX, 90, testCat, 1, 0, 0)
	x2 := item("x-speaker", ownerX, 70, testCat, 0.8, 0.2, 0)
	y1 := item("y-jacket", ownerY, 140, "clothing", 0, 1, 0)
	y2 := item("y-lamp", ownerY, 20, "", 0, 0, 1)
	return &fakeStore{
		owned: []models.Item{
			item("u-camera", userID, 100, testCat, 1, 0.1, 0),
			item("u-lens", userID, 50, testCat, 0.9, 0, 0.1),
		},
		profile: &models.UserProfile{
			UserID:             userID,
			FavoriteCategories: []string{testCat},
		},
		rates:    models.RateTable{"USD": 1},
		favorite: []models.Item{x1, x2},
		cost:     []models.Item{y1, x1},
		recent:   []models.Item{y2, y1, x2},
		failing:  map[string]bool{},
	}
}

func newTestEngine(t *testing.T, store ItemStore) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Bundle.SearchRate = 0
	e, err := NewEngine(cfg, store, passCaller{}, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}
