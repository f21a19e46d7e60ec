// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/swapmatch/internal/models"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/swapmatch/config.yaml",
	"/etc/swapmatch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Path:         "/data/swapmatch.duckdb",
			MaxMemory:    "1GB",
			Threads:      0, // 0 = DuckDB default
			QueryTimeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			Backend:             "memory",
			ReadTimeout:         1500 * time.Millisecond,
			WriteTimeout:        1500 * time.Millisecond,
			InvalidateTimeout:   3 * time.Second,
			TTL:                 10 * time.Minute,
			RedisAddr:           "127.0.0.1:6379",
			BadgerPath:          "/data/cache",
			BreakerEnabled:      true,
			BreakerTimeout:      30 * time.Second,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
		},
		Auth: AuthConfig{
			Issuer:   "swapmatch",
			TokenTTL: 15 * time.Minute,
		},
		Recommend: RecommendConfig{
			DefaultLimit:    20,
			MaxLimit:        100,
			PoolSize:        100,
			SourceTimeout:   5 * time.Second,
			DefaultRadiusKm: 50,
			PriceTolerance:  0.3,
			Weights:         models.DefaultWeights(),
			Bundle: BundleConfig{
				Enabled:             true,
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
			},
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
	}
}

// LoadWithKoanf loads and validates configuration.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated environment values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"duckdb_path":          "database.path",
	"duckdb_max_memory":    "database.max_memory",
	"duckdb_threads":       "database.threads",
	"duckdb_query_timeout": "database.query_timeout",
	"seed_demo_data":       "database.seed_demo_data",

	"cache_backend":               "cache.backend",
	"cache_read_timeout":          "cache.read_timeout",
	"cache_write_timeout":         "cache.write_timeout",
	"cache_invalidate_timeout":    "cache.invalidate_timeout",
	"cache_ttl":                   "cache.ttl",
	"redis_addr":                  "cache.redis_addr",
	"redis_password":              "cache.redis_password",
	"redis_db":                    "cache.redis_db",
	"cache_badger_path":           "cache.badger_path",
	"cache_breaker_enabled":       "cache.breaker_enabled",
	"cache_breaker_timeout":       "cache.breaker_timeout",
	"cache_breaker_min_requests":  "cache.breaker_min_requests",
	"cache_breaker_failure_ratio": "cache.breaker_failure_ratio",

	"auth_secret":    "auth.secret",
	"auth_issuer":    "auth.issuer",
	"auth_token_ttl": "auth.token_ttl",

	"recommend_default_limit":       "recommend.default_limit",
	"recommend_max_limit":           "recommend.max_limit",
	"recommend_pool_size":           "recommend.pool_size",
	"recommend_source_timeout":      "recommend.source_timeout",
	"recommend_default_radius_km":   "recommend.default_radius_km",
	"recommend_price_tolerance":     "recommend.price_tolerance",
	"recommend_weight_similarity":   "recommend.weights.similarity",
	"recommend_weight_category":     "recommend.weights.category",
	"recommend_weight_price":        "recommend.weights.price",
	"recommend_weight_location_lat": "recommend.weights.location_lat",
	"recommend_weight_location_lng": "recommend.weights.location_lng",

	"bundle_enabled":               "recommend.bundle.enabled",
	"bundle_max":                   "recommend.bundle.max_bundles",
	"bundle_discount_rate":         "recommend.bundle.discount_rate",
	"bundle_discount_cap":          "recommend.bundle.discount_cap",
	"bundle_band_low":              "recommend.bundle.band_low",
	"bundle_band_high":             "recommend.bundle.band_high",
	"bundle_baseline_similarity":   "recommend.bundle.baseline_similarity",
	"bundle_search_limit":          "recommend.bundle.search_limit",
	"bundle_search_min_similarity": "recommend.bundle.search_min_similarity",
	"bundle_category_boost":        "recommend.bundle.category_boost",
	"bundle_search_rate":           "recommend.bundle.search_rate",
	"bundle_search_burst":          "recommend.bundle.search_burst",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc maps known environment variables to config paths.
// Unknown variables map to "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
