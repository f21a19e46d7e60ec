// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store := NewRedisStore(NewRedisClient(RedisConfig{Addr: mr.Addr()}), 10)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStoreGetSet(t *testing.T) {
	t.Parallel()

	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.Set(ctx, "recommendations:u1:10", []byte(`[1,2]`), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := s.Get(ctx, "recommendations:u1:10")
	if err != nil || string(got) != `[1,2]` {
		t.Fatalf("Get() = %s, %v", got, err)
	}
	if ttl := mr.TTL("recommendations:u1:10"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := s.Get(ctx, "recommendations:u1:10"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after expiry error = %v, want ErrNotFound", err)
	}
}

func TestRedisStoreDeletePattern(t *testing.T) {
	t.Parallel()

	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		_ = s.Set(ctx, fmt.Sprintf("recommendations:u1:%d", i), []byte("x"), 0)
	}
	_ = s.Set(ctx, "recommendations:u2:10", []byte("x"), 0)

	n, err := s.DeletePattern(ctx, "recommendations:u1:*")
	if err != nil {
		t.Fatalf("DeletePattern() error = %v", err)
	}
	if n != 250 {
		t.Errorf("DeletePattern() removed %d, want 250", n)
	}
	if !mr.Exists("recommendations:u2:10") {
		t.Error("unrelated key removed")
	}
	if left := mr.Keys(); len(left) != 1 {
		t.Errorf("%d keys left after DeletePattern, want 1", len(left))
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}
	s := NewRedisStore(NewRedisClient(RedisConfig{Addr: mr.Addr()}), 0)
	defer s.Close()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := s.Get(ctx, "k"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on closed server error = %v, want transport error", err)
	}
}
