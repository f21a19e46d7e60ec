// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package validation

// RecommendationsRequest is the validated form of
// GET /api/v1/users/{userID}/recommendations.
type RecommendationsRequest struct {
	UserID  string `json:"userID" validate:"required,uuid"`
	Limit   int    `json:"limit" validate:"min=1,max=100"`
	Refresh bool   `json:"refresh"`
}

// UserRequest carries only the path user.
type UserRequest struct {
	UserID string `json:"userID" validate:"required,uuid"`
}

// WeightsPatchRequest is the body of PATCH /api/v1/users/{userID}/weights.
// Values outside [0,1] are accepted and clamped downstream.
type WeightsPatchRequest struct {
	Similarity  *float64 `json:"similarity,omitempty" validate:"omitempty,finite"`
	Category    *float64 `json:"category,omitempty" validate:"omitempty,finite"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,finite"`
	LocationLat *float64 `json:"location_lat,omitempty" validate:"omitempty,finite"`
	LocationLng *float64 `json:"location_lng,omitempty" validate:"omitempty,finite"`
}
