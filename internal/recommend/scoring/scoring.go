// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

// Package scoring computes the per-factor sub-scores of a candidate item and
// combines them into one overall score.
//
// Every function is pure and total. Missing input never produces an error;
// it resolves to Neutral so that the absence of a signal does not move an
// item up or down the ranking.
package scoring

import (
	"math"

	"github.com/tomtom215/swapmatch/internal/models"
)

const (
	// Neutral is returned by every sub-score when its input is missing.
	Neutral = 0.5

	// DefaultPriceTolerance is the relative price difference at which the
	// price score reaches 0.
	DefaultPriceTolerance = 0.3

	// DefaultMaxRadiusKm is the distance at which the location score reaches 0.
	DefaultMaxRadiusKm = 50.0

	earthRadiusKm = 6371.0
)

// Category returns 1 when category is one of favorites, 0 when it is set but
// not a favorite, and Neutral when category is nil or favorites is empty.
func Category(category *string, favorites []string) float64 {
	if category == nil || *category == "" || len(favorites) == 0 {
		return Neutral
	}
	for _, f := range favorites {
		if f == *category {
			return 1
		}
	}
	return 0
}

// Price scores how close itemPrice is to userPrice. The score is 1 at equal
// prices and decays linearly to 0 at a difference of tolerance*userPrice;
// larger differences stay at 0. Missing or non-positive prices yield Neutral.
// A non-positive tolerance uses DefaultPriceTolerance.
func Price(userPrice, itemPrice, tolerance float64) float64 {
	if userPrice <= 0 || itemPrice <= 0 || math.IsNaN(userPrice) || math.IsNaN(itemPrice) {
		return Neutral
	}
	if tolerance <= 0 {
		tolerance = DefaultPriceTolerance
	}

	ratio := math.Abs(userPrice-itemPrice) / userPrice
	return clamp(1 - ratio/tolerance)
}

// Location scores the great-circle distance between user and item. The score
// is 1 at zero distance and decays linearly to 0 at maxRadiusKm; anything
// farther stays at 0. A nil point yields Neutral. A non-positive radius uses
// DefaultMaxRadiusKm.
func Location(user, item *models.Point, maxRadiusKm float64) float64 {
	if user == nil || item == nil {
		return Neutral
	}
	if maxRadiusKm <= 0 {
		maxRadiusKm = DefaultMaxRadiusKm
	}
	return clamp(1 - HaversineKm(*user, *item)/maxRadiusKm)
}

// HaversineKm returns the great-circle distance between a and b in kilometers.
func HaversineKm(a, b models.Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Combine returns the weighted mean of the sub-scores. The two location
// weights are averaged into one. Inputs and output are clamped to [0,1] and
// an all-zero weight vector yields 0.
func Combine(s models.SubScores, w models.Weights) float64 {
	w = w.Clamp()
	loc := w.Location()

	total := w.Similarity + w.Category + w.Price + loc
	if total == 0 {
		return 0
	}

	sum := clamp(s.Similarity)*w.Similarity +
		clamp(s.Category)*w.Category +
		clamp(s.Price)*w.Price +
		clamp(s.Location)*loc
	return clamp(sum / total)
}

func clamp(v float64) float64 {
	return models.Clamp01(v)
}
