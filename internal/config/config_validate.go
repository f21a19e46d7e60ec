// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package config

import (
	"fmt"
	"strings"
)

// Validate checks that the configuration is usable. Recommendation weights are
// not validated here; they are clamped wherever they are installed.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("DUCKDB_QUERY_TIMEOUT must be positive, got %v", c.Database.QueryTimeout)
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "memory", "none":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
	case "badger":
		if c.Cache.BadgerPath == "" {
			return fmt.Errorf("CACHE_BADGER_PATH is required when CACHE_BACKEND=badger")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be memory, redis, badger or none, got %q", c.Cache.Backend)
	}
	if c.Cache.ReadTimeout <= 0 || c.Cache.WriteTimeout <= 0 || c.Cache.InvalidateTimeout <= 0 {
		return fmt.Errorf("cache timeouts must be positive")
	}
	if c.Cache.BreakerFailureRatio <= 0 || c.Cache.BreakerFailureRatio > 1 {
		return fmt.Errorf("CACHE_BREAKER_FAILURE_RATIO must be in (0,1], got %f", c.Cache.BreakerFailureRatio)
	}
	return nil
}

func (c *Config) validateAuth() error {
	if c.Auth.Secret != "" && len(c.Auth.Secret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be at least 32 characters, got %d", len(c.Auth.Secret))
	}
	if c.Auth.TokenTTL < 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must not be negative, got %v", c.Auth.TokenTTL)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if r.MaxLimit < 1 {
		return fmt.Errorf("RECOMMEND_MAX_LIMIT must be positive, got %d", r.MaxLimit)
	}
	if r.DefaultLimit < 1 || r.DefaultLimit > r.MaxLimit {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be in [1,%d], got %d", r.MaxLimit, r.DefaultLimit)
	}
	if r.PoolSize < 1 {
		return fmt.Errorf("RECOMMEND_POOL_SIZE must be positive, got %d", r.PoolSize)
	}
	if r.SourceTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_SOURCE_TIMEOUT must be positive, got %v", r.SourceTimeout)
	}
	b := &r.Bundle
	if b.MaxBundles < 0 {
		return fmt.Errorf("BUNDLE_MAX must not be negative, got %d", b.MaxBundles)
	}
	if b.BandLow < 0 || b.BandHigh < b.BandLow {
		return fmt.Errorf("bundle price band [%f, %f] is invalid", b.BandLow, b.BandHigh)
	}
	if b.DiscountRate < 0 || b.DiscountRate >= 1 {
		return fmt.Errorf("BUNDLE_DISCOUNT_RATE must be in [0,1), got %f", b.DiscountRate)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
