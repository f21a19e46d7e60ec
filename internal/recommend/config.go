// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/swapmatch/internal/recommend/bundle"
	"github.com/tomtom215/swapmatch/internal/recommend/scoring"
)

// Config contains the engine settings.
type Config struct {
	// DefaultLimit applies when a request asks for no specific count.
	DefaultLimit int

	// MaxLimit caps the requested count.
	MaxLimit int

	// PoolSize is the row limit for each candidate pool.
	PoolSize int

	// SourceTimeout bounds each collaborator call.
	SourceTimeout time.Duration

	// DefaultRadiusKm applies when the profile has no radius.
	DefaultRadiusKm float64

	// PriceTolerance is the relative price difference at which the price
	// score reaches 0; it also sizes the cost-similar pool band.
	PriceTolerance float64

	// BundlesEnabled turns bundle synthesis on.
	BundlesEnabled bool

	Bundle bundle.Config
}

// DefaultConfig returns the default engine settings.
func DefaultConfig() *Config {
	return &Config{
		DefaultLimit:    20,
		MaxLimit:        100,
		PoolSize:        100,
		SourceTimeout:   5 * time.Second,
		DefaultRadiusKm: scoring.DefaultMaxRadiusKm,
		PriceTolerance:  scoring.DefaultPriceTolerance,
		BundlesEnabled:  true,
		Bundle:          bundle.DefaultConfig(),
	}
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if c.MaxLimit < 1 {
		return fmt.Errorf("max limit must be positive, got %d", c.MaxLimit)
	}
	if c.DefaultLimit < 1 || c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("default limit must be in [1,%d], got %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("pool size must be positive, got %d", c.PoolSize)
	}
	if c.SourceTimeout <= 0 {
		return fmt.Errorf("source timeout must be positive, got %v", c.SourceTimeout)
	}
	if c.DefaultRadiusKm <= 0 {
		return fmt.Errorf("default radius must be positive, got %f", c.DefaultRadiusKm)
	}
	if c.PriceTolerance <= 0 || c.PriceTolerance >= 1 {
		return fmt.Errorf("price tolerance must be in (0,1), got %f", c.PriceTolerance)
	}
	if c.BundlesEnabled {
		if err := c.Bundle.Validate(); err != nil {
			return fmt.Errorf("bundle: %w", err)
		}
	}
	return nil
}

// clampLimit maps a requested count onto [1, MaxLimit], using DefaultLimit
// for non-positive values.
func (c *Config) clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return c.DefaultLimit
	case limit > c.MaxLimit:
		return c.MaxLimit
	default:
		return limit
	}
}
