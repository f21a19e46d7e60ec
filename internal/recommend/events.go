// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package recommend

import (
	"time"

	"github.com/tomtom215/swapmatch/internal/models"
)

// TopicWeightsUpdated carries WeightsUpdatedEvent payloads.
const TopicWeightsUpdated = "weights.updated"

// WeightsUpdatedEvent announces that a user's weights changed and their
// cached sections are stale.
type WeightsUpdatedEvent struct {
	UserID    string         `json:"user_id"`
	Weights   models.Weights `json:"weights"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// userSections are the cache namespaces keyed by user id first.
var userSections = []string{cacheNamespace}
