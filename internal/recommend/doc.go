// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

// Package recommend ranks items and synthesized bundles for one user of the
// swap marketplace.
//
// # Pipeline
//
// A request is served through the cache layer under
// "recommendations:<user>:<limit>:<weights>". On a miss the engine:
//
//  1. Fetches owned items, profile, rate table and the recent pool in
//     parallel, then the favorite-category and cost-similar pools, each
//     through the authenticated executor with its own timeout.
//  2. Derives the user preference (aggregate reference value, location,
//     radius) and the average embedding of the user's items.
//  3. Scores every pool item on similarity, category, price and location
//     and combines them with the current weights (see package scoring).
//  4. Synthesizes bundles (see package bundle).
//  5. Merges items and bundles (see package merge), truncates to the limit
//     and presents scores on a 0-100 scale.
//
// A failing source contributes nothing and is logged; Recommend never fails
// because a collaborator did. An unreachable cache only costs latency.
//
// # Weights
//
// WeightStore holds the active weights as one immutable value. UpdateWeights
// installs a new value and publishes a weights.updated event; the
// invalidation worker consumes it and drops the user's cached sections.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, db, executor, logger)
//	engine.SetCache(layer)
//	engine.SetPublisher(pubsub)
//
//	recs, err := engine.Recommend(ctx, userID, 20, false)
package recommend
