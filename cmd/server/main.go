// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

// Package main is the entry point for the Swapmatch server.
//
// Swapmatch ranks marketplace items and synthesized two-item bundles for a
// user looking to swap. The server initializes components in this order:
//
//  1. Configuration: defaults, config.yaml, then environment (Koanf v2)
//  2. Logging: zerolog, bridged to slog for suture and watermill
//  3. Credentials: HS256 service token source and the retrying executor
//  4. Database: DuckDB item store, optionally seeded with a demo marketplace
//  5. Cache: memory, Redis (behind a circuit breaker), Badger, or none
//  6. Engine: recommendation engine, weight store and the in-process event bus
//  7. Supervisor tree: invalidation worker (data layer) and HTTP server (api layer)
//
// # Example Usage
//
//	export CACHE_BACKEND=redis
//	export REDIS_ADDR=localhost:6379
//	export SEED_DEMO_DATA=true
//	./swapmatch
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The supervisor stops the HTTP
// server (draining in-flight requests) and the invalidation worker, then the
// cache, bus and database are closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	_ "github.com/tomtom215/swapmatch/docs" // Registers the OpenAPI document
	"github.com/tomtom215/swapmatch/internal/api"
	"github.com/tomtom215/swapmatch/internal/auth"
	"github.com/tomtom215/swapmatch/internal/config"
	"github.com/tomtom215/swapmatch/internal/database"
	"github.com/tomtom215/swapmatch/internal/logging"
	"github.com/tomtom215/swapmatch/internal/recommend"
	"github.com/tomtom215/swapmatch/internal/supervisor"
	"github.com/tomtom215/swapmatch/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("cache_backend", cfg.Cache.Backend).
		Msg("Starting Swapmatch")

	// === CREDENTIALS ===

	tokens, err := newTokenSource(&cfg.Auth)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create token source")
	}
	executor := auth.NewExecutor(tokens, logging.WithComponent("auth"))

	// === DATABASE ===

	db, err := database.New(&cfg.Database, tokens)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	if cfg.Database.SeedDemoData {
		logging.Info().Msg("Demo data seeding enabled (SEED_DEMO_DATA=true)")
		if err := db.SeedDemo(context.Background()); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				logging.Error().Err(closeErr).Msg("Error closing database")
			}
			logging.Fatal().Err(err).Msg("Failed to seed demo data")
		}
	}

	// === CACHE ===

	layer, err := newCacheLayer(&cfg.Cache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize cache")
	}
	defer func() {
		if err := layer.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache")
		}
	}()

	// === ENGINE AND EVENT BUS ===

	// Not persistent: an event published while the invalidation worker is
	// (re)subscribing is dropped. Weights are part of the cache key, so a
	// dropped event only leaves unreachable entries to expire by TTL.
	bus := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logging.NewSlogLogger()),
	)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	engineLogger := logging.WithComponent("recommend")
	engine, err := recommend.NewEngine(buildEngineConfig(&cfg.Recommend), db, executor, engineLogger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}
	engine.SetCache(layer)
	engine.SetWeightStore(recommend.NewWeightStore(cfg.Recommend.Weights))
	engine.SetPublisher(bus)
	engine.SetInvalidateTimeout(cfg.Cache.InvalidateTimeout)

	// === HTTP ===

	handler := api.NewHandler(engine, db, cfg.Recommend.DefaultLimit, version)
	mw := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, mw).Setup(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	// === SUPERVISOR TREE ===

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout + 2*time.Second
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewInvalidationService(
		bus, engine, cfg.Cache.InvalidateTimeout, logging.WithComponent("invalidation"),
	))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// newTokenSource builds the service credential source. An empty secret is
// replaced by a random one, valid for this process only.
func newTokenSource(cfg *config.AuthConfig) (*auth.TokenSource, error) {
	secret := cfg.Secret
	if secret == "" {
		generated, err := auth.GenerateSecret()
		if err != nil {
			return nil, fmt.Errorf("generate secret: %w", err)
		}
		secret = generated
		logging.Warn().Msg("AUTH_SECRET not set; using a random per-process secret")
	}
	return auth.NewTokenSource(auth.Config{
		Secret:   secret,
		Issuer:   cfg.Issuer,
		TokenTTL: cfg.TokenTTL,
	})
}
