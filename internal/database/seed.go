// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/swapmatch/internal/models"
)

// Demo user ids loaded by SeedDemo.
const (
	DemoUserID   = "6f1c2f5e-8d44-4e5c-9a8e-2b7f0a1d3c11"
	DemoTraderID = "0b9d7a52-3c1e-4f6a-8e2d-5a4b3c2d1e0f"
	DemoSellerID = "9e8d7c6b-5a4f-4e3d-8c2b-1a0f9e8d7c6b"
)

func strPtr(s string) *string { return &s }

// SeedDemo loads a small marketplace: one requesting user with two items, a
// trader holding a matching electronics pair, and a seller with assorted
// listings in other currencies.
func (db *DB) SeedDemo(ctx context.Context) error {
	berlin := &models.Point{Lat: 52.52, Lng: 13.405}
	potsdam := &models.Point{Lat: 52.39, Lng: 13.065}

	rates := map[string]float64{"USD": 1, "EUR": 1.08, "GBP": 1.27}
	for code, rate := range rates {
		if err := db.SetRate(ctx, code, rate); err != nil {
			return err
		}
	}

	users := []models.UserProfile{
		{UserID: DemoUserID, FavoriteCategories: []string{"electronics"}, Location: berlin, RadiusKm: 30},
		{UserID: DemoTraderID, Location: potsdam},
		{UserID: DemoSellerID},
	}
	for _, u := range users {
		if err := db.UpsertUser(ctx, u); err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
	}

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	items := []models.Item{
		{ID: "demo-camera", OwnerID: DemoUserID, Title: "Mirrorless camera body",
			Price: models.Money{Amount: 100, Currency: "USD"}, CategoryID: strPtr("electronics"),
			Location: berlin, Embedding: []float64{0.9, 0.1, 0.0, 0.2}, CreatedAt: base},
		{ID: "demo-lens", OwnerID: DemoUserID, Title: "50mm prime lens",
			Price: models.Money{Amount: 50, Currency: "USD"}, CategoryID: strPtr("electronics"),
			Location: berlin, Embedding: []float64{0.8, 0.2, 0.1, 0.1}, CreatedAt: base.Add(time.Hour)},

		{ID: "trader-headphones", OwnerID: DemoTraderID, Title: "Noise cancelling headphones",
			Price: models.Money{Amount: 90, Currency: "USD"}, CategoryID: strPtr("electronics"),
			Location: potsdam, Embedding: []float64{0.7, 0.3, 0.1, 0.2}, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "trader-speaker", OwnerID: DemoTraderID, Title: "Portable speaker",
			Price: models.Money{Amount: 70, Currency: "USD"}, CategoryID: strPtr("electronics"),
			Location: potsdam, Embedding: []float64{0.6, 0.3, 0.2, 0.1}, CreatedAt: base.Add(3 * time.Hour)},

		{ID: "seller-jacket", OwnerID: DemoSellerID, Title: "Wool jacket",
			Price: models.Money{Amount: 80, Currency: "EUR"}, CategoryID: strPtr("clothing"),
			Embedding: []float64{0.1, 0.9, 0.3, 0.0}, CreatedAt: base.Add(4 * time.Hour)},
		{ID: "seller-boots", OwnerID: DemoSellerID, Title: "Hiking boots",
			Price: models.Money{Amount: 60, Currency: "GBP"}, CategoryID: strPtr("clothing"),
			Embedding: []float64{0.2, 0.8, 0.4, 0.1}, CreatedAt: base.Add(5 * time.Hour)},
		{ID: "seller-lamp", OwnerID: DemoSellerID, Title: "Desk lamp",
			Price: models.Money{Amount: 35, Currency: "EUR"}, CreatedAt: base.Add(6 * time.Hour)},
	}
	for _, it := range items {
		if err := db.UpsertItem(ctx, it); err != nil {
			return fmt.Errorf("seed item: %w", err)
		}
	}

	db.logger.Info().Int("users", len(users)).Int("items", len(items)).Msg("Demo marketplace seeded")
	return nil
}
