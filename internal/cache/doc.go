// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

/*
Package cache implements the cache-aside layer used by the recommendation
engine and the key-value stores it can run on.

# Layer

Layer wraps a Store with the cache-aside protocol:

 1. The key is the namespace followed by each parameter, joined with ":".
    Strings and numbers are written as-is; every other parameter is written
    as canonical JSON with object keys in sorted order.
 2. Unless bypassed, the store is read with a bounded timeout. A timeout or
    any store error counts as a miss and is never returned to the caller.
 3. On a miss the fetch function runs and its result is written back with a
    bounded timeout. Write failures are logged and dropped.
 4. The freshly fetched value is returned regardless of the write outcome.

The cache is advisory: every result is correct with the store unreachable.
Concurrent misses on the same key are not coalesced, so fetch functions must
be free of side effects.

	recs, err := cache.Cached(ctx, layer, "recommendations",
	    []interface{}{userID, limit}, false,
	    func(ctx context.Context) ([]models.Recommendation, error) {
	        return engine.compute(ctx, userID, limit)
	    })

# Stores

  - MemoryStore: process-local map with TTL and a background janitor
  - RedisStore: go-redis client; pattern deletes use SCAN + DEL
  - BadgerStore: embedded BadgerDB with per-entry TTL
  - BreakerStore: gobreaker decorator that fails fast while a store is down

Pattern deletes accept glob syntax (*, ?, [...]). MemoryStore and BadgerStore
match with doublestar, which treats "/" as a separator; keys never contain it.
*/
package cache
