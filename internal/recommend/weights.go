// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package recommend

import (
	"sync/atomic"

	"github.com/tomtom215/swapmatch/internal/models"
)

// WeightStore holds the default weights and an optional override. Readers
// always see one complete value.
type WeightStore struct {
	def      models.Weights
	override atomic.Pointer[models.Weights]
}

// NewWeightStore returns a store whose default is def, clamped.
func NewWeightStore(def models.Weights) *WeightStore {
	return &WeightStore{def: def.Clamp()}
}

// Current returns the override if set, else the default.
func (s *WeightStore) Current() models.Weights {
	if w := s.override.Load(); w != nil {
		return *w
	}
	return s.def
}

// Default returns the configured default.
func (s *WeightStore) Default() models.Weights {
	return s.def
}

// Overridden reports whether an override is installed.
func (s *WeightStore) Overridden() bool {
	return s.override.Load() != nil
}

// Update merges p over the current weights, clamps every field to [0,1] and
// installs the result as the override.
func (s *WeightStore) Update(p models.WeightsPatch) models.Weights {
	for {
		old := s.override.Load()
		base := s.def
		if old != nil {
			base = *old
		}
		next := base.Apply(p)
		if s.override.CompareAndSwap(old, &next) {
			return next
		}
	}
}

// Reset drops the override.
func (s *WeightStore) Reset() {
	s.override.Store(nil)
}
