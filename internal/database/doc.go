// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

/*
Package database is the DuckDB-backed item store the recommendation engine
queries: users, favorite categories, listed items with embeddings, and the
currency rate table.

Read methods take the service credential issued by auth.TokenSource and
reject invalid credentials with auth.ErrUnauthorized, so callers run them
through auth.Executor. Seeding methods (UpsertUser, UpsertItem, SetFavorites,
SetRate, SeedDemo) are trusted and take no credential.

Embeddings are stored as JSON text and cast to DOUBLE[] inside queries, so
similarity search runs on DuckDB's list_cosine_similarity.

Schema:

	users                    (id, lat, lng, radius_km)
	user_favorite_categories (user_id, category_id)
	items                    (id, owner_id, title, price, currency, category_id,
	                          lat, lng, embedding, embedding_dim, created_at, status)
	currency_rates           (code, rate)
*/
package database
