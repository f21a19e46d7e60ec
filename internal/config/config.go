// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

// Package config loads Swapmatch configuration with Koanf v2.
//
// Sources are layered, highest priority last:
//
//  1. Built-in defaults (defaultConfig)
//  2. YAML file from CONFIG_PATH or one of DefaultConfigPaths
//  3. Environment variables listed in envMappings
//
// Durations accept Go duration strings ("1500ms", "10m"). Slice fields accept
// comma-separated values from the environment.
package config

import (
	"time"

	"github.com/tomtom215/swapmatch/internal/models"
)

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	Auth      AuthConfig      `koanf:"auth"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig configures zerolog.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DatabaseConfig configures the DuckDB item store.
type DatabaseConfig struct {
	// Path is the database file; ":memory:" opens a transient database.
	Path         string        `koanf:"path"`
	MaxMemory    string        `koanf:"max_memory"`
	Threads      int           `koanf:"threads"`
	QueryTimeout time.Duration `koanf:"query_timeout"`

	// SeedDemoData loads a small demo marketplace on startup.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// CacheConfig selects and tunes the cache store.
type CacheConfig struct {
	// Backend is one of memory, redis, badger or none.
	Backend           string        `koanf:"backend"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	InvalidateTimeout time.Duration `koanf:"invalidate_timeout"`
	TTL               time.Duration `koanf:"ttl"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	BadgerPath string `koanf:"badger_path"`

	BreakerEnabled      bool          `koanf:"breaker_enabled"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// AuthConfig configures the service credential used for item-store queries.
type AuthConfig struct {
	// Secret signs service tokens. When empty a random secret is generated
	// at startup, which is fine for a single process.
	Secret   string        `koanf:"secret"`
	Issuer   string        `koanf:"issuer"`
	TokenTTL time.Duration `koanf:"token_ttl"`
}

// RecommendConfig tunes the recommendation engine.
type RecommendConfig struct {
	DefaultLimit    int            `koanf:"default_limit"`
	MaxLimit        int            `koanf:"max_limit"`
	PoolSize        int            `koanf:"pool_size"`
	SourceTimeout   time.Duration  `koanf:"source_timeout"`
	DefaultRadiusKm float64        `koanf:"default_radius_km"`
	PriceTolerance  float64        `koanf:"price_tolerance"`
	Weights         models.Weights `koanf:"weights"`
	Bundle          BundleConfig   `koanf:"bundle"`
}

// BundleConfig tunes bundle synthesis.
type BundleConfig struct {
	Enabled             bool    `koanf:"enabled"`
	MaxBundles          int     `koanf:"max_bundles"`
	DiscountRate        float64 `koanf:"discount_rate"`
	DiscountCap         float64 `koanf:"discount_cap"`
	BandLow             float64 `koanf:"band_low"`
	BandHigh            float64 `koanf:"band_high"`
	BaselineSimilarity  float64 `koanf:"baseline_similarity"`
	SearchLimit         int     `koanf:"search_limit"`
	SearchMinSimilarity float64 `koanf:"search_min_similarity"`
	CategoryBoost       float64 `koanf:"category_boost"`
	SearchRate          float64 `koanf:"search_rate"`
	SearchBurst         int     `koanf:"search_burst"`
}

// SecurityConfig configures CORS and rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Load reads configuration from defaults, file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
