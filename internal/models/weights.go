// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package models

import "math"

// Weights are the coefficients used to combine sub-scores. Every field is
// kept in [0,1]; LocationLat and LocationLng are averaged when combined.
type Weights struct {
	Similarity  float64 `json:"similarity" koanf:"similarity"`
	Category    float64 `json:"category" koanf:"category"`
	Price       float64 `json:"price" koanf:"price"`
	LocationLat float64 `json:"location_lat" koanf:"location_lat"`
	LocationLng float64 `json:"location_lng" koanf:"location_lng"`
}

// DefaultWeights returns the built-in weights.
func DefaultWeights() Weights {
	return Weights{
		Similarity:  0.4,
		Category:    0.25,
		Price:       0.2,
		LocationLat: 0.15,
		LocationLng: 0.15,
	}
}

// Clamp returns a copy with every field forced into [0,1]. NaN becomes 0.
func (w Weights) Clamp() Weights {
	return Weights{
		Similarity:  Clamp01(w.Similarity),
		Category:    Clamp01(w.Category),
		Price:       Clamp01(w.Price),
		LocationLat: Clamp01(w.LocationLat),
		LocationLng: Clamp01(w.LocationLng),
	}
}

// Location returns the combined location weight.
func (w Weights) Location() float64 {
	return (w.LocationLat + w.LocationLng) / 2
}

// WeightsPatch is a partial update; nil fields keep their current value.
type WeightsPatch struct {
	Similarity  *float64 `json:"similarity,omitempty"`
	Category    *float64 `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	LocationLat *float64 `json:"location_lat,omitempty"`
	LocationLng *float64 `json:"location_lng,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p WeightsPatch) IsEmpty() bool {
	return p.Similarity == nil && p.Category == nil && p.Price == nil &&
		p.LocationLat == nil && p.LocationLng == nil
}

// Apply merges p over w and clamps the result.
func (w Weights) Apply(p WeightsPatch) Weights {
	out := w
	if p.Similarity != nil {
		out.Similarity = *p.Similarity
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Price != nil {
		out.Price = *p.Price
	}
	if p.LocationLat != nil {
		out.LocationLat = *p.LocationLat
	}
	if p.LocationLng != nil {
		out.LocationLng = *p.LocationLng
	}
	return out.Clamp()
}

// Clamp01 forces v into [0,1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
