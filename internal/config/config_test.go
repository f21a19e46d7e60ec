// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaultConfig().Validate() error = %v", err)
	}
	if cfg.Cache.ReadTimeout != 1500*time.Millisecond {
		t.Errorf("Cache.ReadTimeout = %v, want 1.5s", cfg.Cache.ReadTimeout)
	}
	if cfg.Recommend.Bundle.MaxBundles != 5 {
		t.Errorf("Bundle.MaxBundles = %d, want 5", cfg.Recommend.Bundle.MaxBundles)
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("CACHE_READ_TIMEOUT", "750ms")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RECOMMEND_WEIGHT_PRICE", "0.9")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("Cache = %+v, want redis at cache:6379", cfg.Cache)
	}
	if cfg.Cache.ReadTimeout != 750*time.Millisecond {
		t.Errorf("Cache.ReadTimeout = %v, want 750ms", cfg.Cache.ReadTimeout)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v, want two trimmed origins", cfg.Security.CORSOrigins)
	}
	if cfg.Recommend.Weights.Price != 0.9 {
		t.Errorf("Weights.Price = %v, want 0.9", cfg.Recommend.Weights.Price)
	}
	if cfg.Recommend.Weights.Similarity != 0.4 {
		t.Errorf("Weights.Similarity = %v, want default 0.4", cfg.Recommend.Weights.Similarity)
	}
}

func TestLoadWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 7070
cache:
  backend: badger
  badger_path: /tmp/swapmatch-cache
recommend:
  default_limit: 10
  bundle:
    max_bundles: 3
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 || cfg.Cache.Backend != "badger" {
		t.Errorf("file values not applied: port=%d backend=%s", cfg.Server.Port, cfg.Cache.Backend)
	}
	if cfg.Recommend.DefaultLimit != 10 || cfg.Recommend.Bundle.MaxBundles != 3 {
		t.Errorf("nested file values not applied: %+v", cfg.Recommend)
	}
	if cfg.Recommend.Bundle.BandHigh != 1.6 {
		t.Errorf("unset nested value lost its default: %v", cfg.Recommend.Bundle.BandHigh)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"bad backend", func(c *Config) { c.Cache.Backend = "memcached" }, "CACHE_BACKEND"},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis"; c.Cache.RedisAddr = "" }, "REDIS_ADDR"},
		{"short secret", func(c *Config) { c.Auth.Secret = "short" }, "AUTH_SECRET"},
		{"limit above max", func(c *Config) { c.Recommend.DefaultLimit = 500 }, "RECOMMEND_DEFAULT_LIMIT"},
		{"inverted band", func(c *Config) { c.Recommend.Bundle.BandHigh = 0.1 }, "price band"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestWeightsAreNotValidated(t *testing.T) {
	cfg := defaultConfig()
	cfg.Recommend.Weights.Price = 7
	if err := cfg.Validate(); err != nil {
		t.Errorf("out-of-range weight rejected: %v", err)
	}
}
