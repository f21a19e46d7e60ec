// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package models

// SubScores are the per-factor scores of a candidate, each in [0,1].
type SubScores struct {
	Similarity float64 `json:"similarity"`
	Category   float64 `json:"category"`
	Price      float64 `json:"price"`
	Location   float64 `json:"location"`
}

// ScoredCandidate is an item with its sub-scores and combined score in [0,1].
type ScoredCandidate struct {
	Item    Item      `json:"item"`
	Scores  SubScores `json:"scores"`
	Overall float64   `json:"overall"`
}

// BundleSource identifies how a bundle was synthesized.
type BundleSource string

const (
	BundleFromFavorites BundleSource = "favorites"
	BundleFromFallback  BundleSource = "fallback"
)

// Bundle is a synthesized pair of two items sharing one owner.
// Price is the undiscounted combined value in a display currency.
type Bundle struct {
	ID         string       `json:"id"`
	OwnerID    string       `json:"owner_id"`
	Items      [2]Item      `json:"items"`
	Price      Money        `json:"price"`
	Similarity float64      `json:"similarity"`
	Source     BundleSource `json:"source"`
}

// RecommendationKind tags the populated member of a Recommendation.
type RecommendationKind string

const (
	KindItem   RecommendationKind = "item"
	KindBundle RecommendationKind = "bundle"
)

// Recommendation is one ranked result. Exactly one of Item and Bundle is set,
// matching Kind. Score is presented on a 0-100 scale.
type Recommendation struct {
	Kind             RecommendationKind `json:"kind"`
	ID               string             `json:"id"`
	Score            float64            `json:"score"`
	Scores           *SubScores         `json:"scores,omitempty"`
	FavoriteCategory bool               `json:"favorite_category"`
	Item             *Item              `json:"item,omitempty"`
	Bundle           *Bundle            `json:"bundle,omitempty"`
}
