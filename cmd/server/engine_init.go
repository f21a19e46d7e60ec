// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/swapmatch/internal/cache"
	"github.com/tomtom215/swapmatch/internal/config"
	"github.com/tomtom215/swapmatch/internal/logging"
	"github.com/tomtom215/swapmatch/internal/recommend"
	"github.com/tomtom215/swapmatch/internal/recommend/bundle"
)

// buildEngineConfig maps file/env settings onto the engine config.
func buildEngineConfig(cfg *config.RecommendConfig) *recommend.Config {
	return &recommend.Config{
		DefaultLimit:    cfg.DefaultLimit,
		MaxLimit:        cfg.MaxLimit,
		PoolSize:        cfg.PoolSize,
		SourceTimeout:   cfg.SourceTimeout,
		DefaultRadiusKm: cfg.DefaultRadiusKm,
		PriceTolerance:  cfg.PriceTolerance,
		BundlesEnabled:  cfg.Bundle.Enabled,
		Bundle: bundle.Config{
			MaxBundles:          cfg.Bundle.MaxBundles,
			DiscountRate:        cfg.Bundle.DiscountRate,
			DiscountCap:         cfg.Bundle.DiscountCap,
			BandLow:             cfg.Bundle.BandLow,
			BandHigh:            cfg.Bundle.BandHigh,
			BaselineSimilarity:  cfg.Bundle.BaselineSimilarity,
			SearchLimit:         cfg.Bundle.SearchLimit,
			SearchMinSimilarity: cfg.Bundle.SearchMinSimilarity,
			CategoryBoost:       cfg.Bundle.CategoryBoost,
			SearchRate:          cfg.Bundle.SearchRate,
			SearchBurst:         cfg.Bundle.SearchBurst,
		},
	}
}

// newCacheLayer opens the configured backend. Redis is wrapped in a circuit
// breaker so an outage fails fast instead of spending the read timeout on
// every request. "none" yields a layer that always fetches.
func newCacheLayer(cfg *config.CacheConfig) (*cache.Layer, error) {
	logger := logging.WithComponent("cache")
	store, err := newCacheStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	layerCfg := cache.Config{
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		InvalidateTimeout: cfg.InvalidateTimeout,
		TTL:               cfg.TTL,
	}
	return cache.NewLayer(store, layerCfg, logger), nil
}

//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func newCacheStore(cfg *config.CacheConfig, logger zerolog.Logger) (cache.Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "none", "":
		logger.Info().Msg("Cache disabled")
		return nil, nil

	case "memory":
		logger.Info().Msg("Using in-memory cache")
		return cache.NewMemoryStore(time.Minute), nil

	case "redis":
		store := cache.NewRedisStore(cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}), 0)
		logger.Info().Str("addr", cfg.RedisAddr).Bool("breaker", cfg.BreakerEnabled).Msg("Using Redis cache")
		if !cfg.BreakerEnabled {
			return store, nil
		}
		breakerCfg := cache.DefaultBreakerConfig()
		breakerCfg.Timeout = cfg.BreakerTimeout
		breakerCfg.MinRequests = cfg.BreakerMinRequests
		breakerCfg.FailureRatio = cfg.BreakerFailureRatio
		return cache.NewBreakerStore("redis-cache", store, breakerCfg, logger), nil

	case "badger":
		store, err := cache.OpenBadgerStore(cfg.BadgerPath)
		if err != nil {
			return nil, fmt.Errorf("open badger cache: %w", err)
		}
		logger.Info().Str("path", cfg.BadgerPath).Msg("Using Badger cache")
		return store, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
