// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

// Package models defines the records shared across Swapmatch packages:
// marketplace items, user preferences, recommendation weights, scored
// candidates, synthesized bundles and the HTTP response envelope.
//
// Items are read-only from the engine's point of view. Scored candidates,
// bundles and recommendations are transient and never persisted.
package models
