// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var errUnavailable = errors.New("store unavailable")

// faultyStore wraps a MemoryStore and can be told to fail or hang.
type faultyStore struct {
	*MemoryStore
	mu      sync.Mutex
	fail    bool
	hang    bool
	getHits atomic.Int64
}

func newFaultyStore() *faultyStore {
	return &faultyStore{MemoryStore: NewMemoryStore(time.Minute)}
}

func (f *faultyStore) set(fail, hang bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail, f.hang = fail, hang
}

func (f *faultyStore) mode() (fail, hang bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fail, f.hang
}

// block ignores ctx on purpose to simulate an unresponsive boundary.
func (f *faultyStore) block() error {
	fail, hang := f.mode()
	if hang {
		time.Sleep(200 * time.Millisecond)
		return errUnavailable
	}
	if fail {
		return errUnavailable
	}
	return nil
}

func (f *faultyStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.getHits.Add(1)
	if err := f.block(); err != nil {
		return nil, err
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *faultyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := f.block(); err != nil {
		return err
	}
	return f.MemoryStore.Set(ctx, key, value, ttl)
}

func (f *faultyStore) DeletePattern(ctx context.Context, pattern string) (int, error) {
	if err := f.block(); err != nil {
		return 0, err
	}
	return f.MemoryStore.DeletePattern(ctx, pattern)
}

func (f *faultyStore) Delete(ctx context.Context, key string) error {
	if err := f.block(); err != nil {
		return err
	}
	return f.MemoryStore.Delete(ctx, key)
}
