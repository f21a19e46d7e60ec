// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryStoreGetSet(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(time.Minute)
	defer s.Close()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	value := []byte("value1")
	if err := s.Set(ctx, "key1", value, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value[0] = 'X'

	got, err := s.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "value1" {
		t.Errorf("Get() = %s, want value1 (store must copy)", got)
	}

	stats := s.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.TotalKeys != 1 {
		t.Errorf("Stats() = %+v, want 1 hit, 1 miss, 1 key", stats)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(time.Minute)
	defer s.Close()
	ctx := context.Background()

	_ = s.Set(ctx, "short", []byte("a"), 20*time.Millisecond)
	_ = s.Set(ctx, "long", []byte("b"), time.Hour)
	time.Sleep(40 * time.Millisecond)

	if _, err := s.Get(ctx, "short"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired entry returned err = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(ctx, "long"); err != nil {
		t.Errorf("live entry returned err = %v", err)
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(10 * time.Millisecond)
	defer s.Close()

	_ = s.Set(context.Background(), "k", []byte("v"), 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	if stats := s.Stats(); stats.TotalKeys != 0 || stats.Evictions < 1 {
		t.Errorf("Stats() after cleanup = %+v, want no keys and an eviction", stats)
	}
}

func TestMemoryStoreDeletePattern(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(time.Minute)
	defer s.Close()
	ctx := context.Background()

	for _, k := range []string{
		"recommendations:u1:10",
		"recommendations:u1:20",
		"recommendations:u2:10",
		"bundles:u1",
	} {
		_ = s.Set(ctx, k, []byte("x"), 0)
	}

	n, err := s.DeletePattern(ctx, "recommendations:u1:*")
	if err != nil {
		t.Fatalf("DeletePattern() error = %v", err)
	}
	if n != 2 {
		t.Errorf("DeletePattern() removed %d, want 2", n)
	}
	if _, err := s.Get(ctx, "recommendations:u2:10"); err != nil {
		t.Errorf("unrelated key removed: %v", err)
	}
	if _, err := s.Get(ctx, "bundles:u1"); err != nil {
		t.Errorf("other namespace removed: %v", err)
	}

	if _, err := s.DeletePattern(ctx, "bad[pattern"); err == nil {
		t.Error("expected error for malformed pattern")
	}
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(time.Minute)
	defer s.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Get(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v, want context.Canceled", err)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(time.Minute)
	defer s.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			_ = s.Set(ctx, key, []byte("v"), time.Minute)
			_, _ = s.Get(ctx, key)
			_, _ = s.DeletePattern(ctx, "k1*")
		}(i)
	}
	wg.Wait()
}
