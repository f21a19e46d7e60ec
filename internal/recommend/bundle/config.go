// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package bundle

import "fmt"

// Config controls bundle synthesis.
type Config struct {
	// MaxBundles caps the number of bundles emitted per request.
	// Default: 5
	MaxBundles int `json:"max_bundles" koanf:"max_bundles"`

	// DiscountRate is the proportional discount applied to a pair's combined
	// value before the price band test.
	// Default: 0.1
	DiscountRate float64 `json:"discount_rate" koanf:"discount_rate"`

	// DiscountCap is the largest absolute discount in reference units.
	// Default: 50
	DiscountCap float64 `json:"discount_cap" koanf:"discount_cap"`

	// BandLow and BandHigh bound the discounted pair value relative to the
	// user's aggregate value.
	// Default: 0.6 and 1.6
	BandLow  float64 `json:"band_low" koanf:"band_low"`
	BandHigh float64 `json:"band_high" koanf:"band_high"`

	// BaselineSimilarity is used when no comparable embeddings exist.
	// Default: 0.6
	BaselineSimilarity float64 `json:"baseline_similarity" koanf:"baseline_similarity"`

	// SearchLimit and SearchMinSimilarity shape fallback similarity queries.
	// Default: 10 and 0.5
	SearchLimit         int     `json:"search_limit" koanf:"search_limit"`
	SearchMinSimilarity float64 `json:"search_min_similarity" koanf:"search_min_similarity"`

	// CategoryBoost is added to the similarity of favorite-category items in
	// the category-weighted fallback search.
	// Default: 0.1
	CategoryBoost float64 `json:"category_boost" koanf:"category_boost"`

	// SearchRate and SearchBurst throttle fallback similarity queries
	// (queries per second). Zero disables throttling.
	// Default: 20 and 4
	SearchRate  float64 `json:"search_rate" koanf:"search_rate"`
	SearchBurst int     `json:"search_burst" koanf:"search_burst"`
}

// DefaultConfig returns the default bundle configuration.
func DefaultConfig() Config {
	return Config{
		MaxBundles:          5,
		DiscountRate:        0.1,
		DiscountCap:         50,
		BandLow:             0.6,
		BandHigh:            1.6,
		BaselineSimilarity:  0.6,
		SearchLimit:         10,
		SearchMinSimilarity: 0.5,
		CategoryBoost:       0.1,
		SearchRate:          20,
		SearchBurst:         4,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MaxBundles < 0 {
		return fmt.Errorf("max_bundles must be non-negative, got %d", c.MaxBundles)
	}
	if c.DiscountRate < 0 || c.DiscountRate >= 1 {
		return fmt.Errorf("discount_rate must be in [0,1), got %f", c.DiscountRate)
	}
	if c.DiscountCap < 0 {
		return fmt.Errorf("discount_cap must be non-negative, got %f", c.DiscountCap)
	}
	if c.BandLow < 0 || c.BandHigh < c.BandLow {
		return fmt.Errorf("price band [%f, %f] is invalid", c.BandLow, c.BandHigh)
	}
	if c.BaselineSimilarity < 0 || c.BaselineSimilarity > 1 {
		return fmt.Errorf("baseline_similarity must be in [0,1], got %f", c.BaselineSimilarity)
	}
	if c.SearchLimit < 0 {
		return fmt.Errorf("search_limit must be non-negative, got %d", c.SearchLimit)
	}
	if c.SearchRate < 0 || c.SearchBurst < 0 {
		return fmt.Errorf("search rate and burst must be non-negative, got %f/%d", c.SearchRate, c.SearchBurst)
	}
	return nil
}
