// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/swapmatch/internal/metrics"
)

// Config bounds the Layer's store calls.
type Config struct {
	// ReadTimeout bounds a cache read; slower reads count as misses.
	// Default: 1.5s
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds a write-back.
	// Default: 1.5s
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// InvalidateTimeout bounds a pattern delete.
	// Default: 3s
	InvalidateTimeout time.Duration `koanf:"invalidate_timeout"`

	// TTL is the lifetime of written entries.
	// Default: 10m
	TTL time.Duration `koanf:"ttl"`
}

// DefaultConfig returns the default layer configuration.
func DefaultConfig() Config {
	return Config{
		ReadTimeout:       1500 * time.Millisecond,
		WriteTimeout:      1500 * time.Millisecond,
		InvalidateTimeout: 3 * time.Second,
		TTL:               10 * time.Minute,
	}
}

// Layer is the cache-aside wrapper over a Store. A nil Layer, or one without
// a store, always fetches.
type Layer struct {
	store  Store
	cfg    Config
	logger zerolog.Logger
}

// NewLayer creates a Layer over store. Zero durations in cfg take defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLayer(store Store, cfg Config, logger zerolog.Logger) *Layer {
	def := DefaultConfig()
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.InvalidateTimeout <= 0 {
		cfg.InvalidateTimeout = def.InvalidateTimeout
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	return &Layer{
		store:  store,
		cfg:    cfg,
		logger: logger.With().Str("component", "cache").Logger(),
	}
}

// Cached returns the value cached under Key(prefix, params...) or, on a miss
// or when bypass is set, the result of fetch. Cache failures are never
// returned; errors from fetch are returned unchanged and nothing is written.
func Cached[T any](
	ctx context.Context,
	l *Layer,
	prefix string,
	params []interface{},
	bypass bool,
	fetch func(context.Context) (T, error),
) (T, error) {
	if l == nil || l.store == nil {
		return fetch(ctx)
	}

	key := Key(prefix, params...)
	log := l.logger.With().Str("key", key).Logger()

	if bypass {
		metrics.RecordCacheResult(prefix, "bypass")
	} else if data, ok := l.read(ctx, prefix, key, &log); ok {
		var v T
		err := json.Unmarshal(data, &v)
		if err == nil {
			metrics.RecordCacheResult(prefix, "hit")
			return v, nil
		}
		metrics.RecordCacheResult(prefix, "error")
		log.Warn().Err(err).Msg("discarding undecodable cache entry")
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	l.write(ctx, prefix, key, v, &log)
	return v, nil
}

func (l *Layer) read(ctx context.Context, prefix, key string, log *zerolog.Logger) ([]byte, bool) {
	start := time.Now()
	data, err := bounded(ctx, l.cfg.ReadTimeout, func(ctx context.Context) ([]byte, error) {
		return l.store.Get(ctx, key)
	})
	metrics.RecordCacheOperation("get", time.Since(start))

	switch {
	case err == nil:
		return data, true
	case errors.Is(err, ErrNotFound):
		metrics.RecordCacheResult(prefix, "miss")
	case errors.Is(err, context.DeadlineExceeded):
		metrics.RecordCacheResult(prefix, "timeout")
		log.Debug().Dur("timeout", l.cfg.ReadTimeout).Msg("cache read timed out")
	default:
		metrics.RecordCacheResult(prefix, "error")
		log.Debug().Err(err).Msg("cache read failed")
	}
	return nil, false
}

func (l *Layer) write(ctx context.Context, prefix, key string, v interface{}, log *zerolog.Logger) {
	data, err := json.Marshal(v)
	if err != nil {
		metrics.RecordCacheResult(prefix, "write_error")
		log.Warn().Err(err).Msg("cache value not encodable")
		return
	}

	start := time.Now()
	_, err = bounded(context.WithoutCancel(ctx), l.cfg.WriteTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, l.store.Set(ctx, key, data, l.cfg.TTL)
	})
	metrics.RecordCacheOperation("set", time.Since(start))
	if err != nil {
		metrics.RecordCacheResult(prefix, "write_error")
		log.Warn().Err(err).Msg("cache write-back failed")
	}
}

// InvalidatePattern deletes every key matching the glob pattern. It reports
// false when the store failed or did not answer in time; it never returns an
// error.
func (l *Layer) InvalidatePattern(ctx context.Context, pattern string) bool {
	if l == nil || l.store == nil {
		return true
	}

	start := time.Now()
	n, err := bounded(ctx, l.cfg.InvalidateTimeout, func(ctx context.Context) (int, error) {
		return l.store.DeletePattern(ctx, pattern)
	})
	metrics.RecordCacheOperation("delete_pattern", time.Since(start))

	log := l.logger.With().Str("pattern", pattern).Logger()
	switch {
	case err == nil:
		metrics.RecordInvalidation("ok")
		log.Debug().Int("deleted", n).Msg("cache invalidated")
		return true
	case errors.Is(err, context.DeadlineExceeded):
		metrics.RecordInvalidation("timeout")
		log.Warn().Dur("timeout", l.cfg.InvalidateTimeout).Msg("cache invalidation timed out")
	default:
		metrics.RecordInvalidation("error")
		log.Warn().Err(err).Msg("cache invalidation failed")
	}
	return false
}

// Delete removes one key, reporting whether the store confirmed it in time.
func (l *Layer) Delete(ctx context.Context, key string) bool {
	if l == nil || l.store == nil {
		return true
	}
	_, err := bounded(ctx, l.cfg.WriteTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, l.store.Delete(ctx, key)
	})
	if err != nil {
		l.logger.Debug().Err(err).Str("key", key).Msg("cache delete failed")
		return false
	}
	return true
}

// Close closes the underlying store.
func (l *Layer) Close() error {
	if l == nil || l.store == nil {
		return nil
	}
	return l.store.Close()
}

// bounded runs fn with a deadline and stops waiting when it expires, even if
// fn ignores its context.
func bounded[R any](ctx context.Context, timeout time.Duration, fn func(context.Context) (R, error)) (R, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   R
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}
