// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package models

import "time"

// ItemStatus is the availability state of a listed item.
type ItemStatus string

const (
	ItemAvailable ItemStatus = "available"
	ItemReserved  ItemStatus = "reserved"
	ItemSwapped   ItemStatus = "swapped"
)

// Money is an amount tagged with an ISO-4217 style currency code.
// A zero Amount is treated as "no price".
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Item is a listing owned by exactly one user.
type Item struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"owner_id"`
	Title      string     `json:"title"`
	Price      Money      `json:"price"`
	CategoryID *string    `json:"category_id,omitempty"`
	Location   *Point     `json:"location,omitempty"`
	Embedding  []float64  `json:"embedding,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	Status     ItemStatus `json:"status"`
}

// HasCategory reports whether the item carries a category.
func (i *Item) HasCategory() bool {
	return i.CategoryID != nil && *i.CategoryID != ""
}

// InCategories reports whether the item's category is one of cats.
func (i *Item) InCategories(cats []string) bool {
	if !i.HasCategory() {
		return false
	}
	for _, c := range cats {
		if c == *i.CategoryID {
			return true
		}
	}
	return false
}

// UserProfile is the stored part of a user's preferences.
type UserProfile struct {
	UserID             string   `json:"user_id"`
	FavoriteCategories []string `json:"favorite_categories"`
	Location           *Point   `json:"location,omitempty"`
	RadiusKm           float64  `json:"radius_km"`
}

// UserPreference is the derived view the engine scores against.
// AggregateValue is the sum of the user's available items in the reference unit.
type UserPreference struct {
	FavoriteCategories []string `json:"favorite_categories"`
	Location           *Point   `json:"location,omitempty"`
	RadiusKm           float64  `json:"radius_km"`
	AggregateValue     float64  `json:"aggregate_value"`
}

// RateTable maps a currency code to reference units per one unit of that currency.
type RateTable map[string]float64

// SearchResult is an item returned by similarity search, annotated with its
// precomputed cosine similarity rescaled to [0,1].
type SearchResult struct {
	Item       Item    `json:"item"`
	Similarity float64 `json:"similarity"`
}

// SearchQuery describes a similarity search over listed items.
// When FavoriteCategories is non-empty the category-weighted variant is used:
// items in those categories get CategoryBoost added to their similarity.
// MaxPrice is in the reference unit; zero disables the price filter, as does
// a nil Center or zero RadiusKm for the distance filter.
type SearchQuery struct {
	Embedding          []float64
	MinSimilarity      float64
	Limit              int
	ExcludeOwnerID     string
	FavoriteCategories []string
	CategoryBoost      float64
	MaxPrice           float64
	Center             *Point
	RadiusKm           float64
}
