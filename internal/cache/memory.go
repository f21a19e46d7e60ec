// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Stats tracks MemoryStore activity.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// MemoryStore is a process-local Store. A background janitor removes expired
// entries every cleanup interval until Close is called.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	stats   Stats
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryStore creates a MemoryStore. A non-positive cleanup interval
// defaults to one minute.
func NewMemoryStore(cleanup time.Duration) *MemoryStore {
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	s := &MemoryStore{
		entries: make(map[string]memEntry),
		stats:   Stats{LastCleanup: time.Now()},
		stop:    make(chan struct{}),
	}
	go s.cleanupLoop(cleanup)
	return s
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || e.expired(now) {
		s.mu.Lock()
		if ok {
			delete(s.entries, key)
			s.stats.Evictions++
		}
		s.stats.Misses++
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	s.mu.Lock()
	s.stats.Hits++
	s.mu.Unlock()

	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

// Set implements Store.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := memEntry{data: make([]byte, len(value))}
	copy(e.data, value)
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.stats.TotalKeys = int64(len(s.entries))
	s.mu.Unlock()
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.entries, key)
	s.stats.TotalKeys = int64(len(s.entries))
	s.mu.Unlock()
	return nil
}

// DeletePattern implements Store.
func (s *MemoryStore) DeletePattern(ctx context.Context, pattern string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !doublestar.ValidatePattern(pattern) {
		return 0, doublestar.ErrBadPattern
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for key := range s.entries {
		if ok, _ := doublestar.Match(pattern, key); ok {
			delete(s.entries, key)
			n++
		}
	}
	s.stats.Evictions += int64(n)
	s.stats.TotalKeys = int64(len(s.entries))
	return n, nil
}

// Stats returns a snapshot of the store counters.
func (s *MemoryStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Close stops the janitor. The store remains usable.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *MemoryStore) cleanup() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
			s.stats.Evictions++
		}
	}
	s.stats.TotalKeys = int64(len(s.entries))
	s.stats.LastCleanup = now
}
