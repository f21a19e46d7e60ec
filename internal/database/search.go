// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package database

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/swapmatch/internal/models"
	"github.com/tomtom215/swapmatch/internal/recommend/scoring"
	"github.com/tomtom215/swapmatch/internal/recommend/vector"
)

// searchQuery scores every available item whose embedding has the query's
// dimension and whose reference price is within the cap (a cap <= 0 disables
// it). The CASE keeps list_cosine_similarity away from mismatched lists.
const searchQuery = `
	WITH scored AS (
		SELECT ` + itemColumns + `,
			CASE WHEN i.embedding_dim = ?
				THEN list_cosine_similarity(
					CAST(i.embedding AS DOUBLE[]),
					CAST(CAST(? AS VARCHAR) AS DOUBLE[]))
			END AS cosine
		FROM items i
		` + rateJoin + `
		WHERE i.status = 'available'
		  AND i.embedding IS NOT NULL
		  AND i.owner_id <> ?
		  AND (CAST(? AS DOUBLE) <= 0 OR ` + referencePriceExpr + ` <= CAST(? AS DOUBLE))
	)
	SELECT * FROM scored
	WHERE cosine IS NOT NULL AND NOT isnan(cosine)
	ORDER BY cosine DESC, created_at DESC, id`

// SearchSimilar returns items similar to q.Embedding with similarity rescaled
// to [0,1]. With favorite categories set, matching items get q.CategoryBoost
// added, capped at 1. Items priced above q.MaxPrice in the reference unit are
// excluded. Items outside q.RadiusKm of q.Center are dropped; items without a
// location are kept.
func (db *DB) SearchSimilar(ctx context.Context, token string, q models.SearchQuery) (results []models.SearchResult, err error) {
	start := time.Now()
	defer func() { observe("search_similar", start, err) }()

	if err := db.authorize(token); err != nil {
		return nil, err
	}
	if len(q.Embedding) == 0 || q.Limit <= 0 {
		return nil, nil
	}
	for _, v := range q.Embedding {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("query embedding contains a non-finite value")
		}
	}
	emb, err := json.Marshal(q.Embedding)
	if err != nil {
		return nil, fmt.Errorf("encode query embedding: %w", err)
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, searchQuery,
		len(q.Embedding), string(emb), q.ExcludeOwnerID, q.MaxPrice, q.MaxPrice)
	if err != nil {
		return nil, fmt.Errorf("query search_similar: %w", err)
	}
	defer rows.Close()

	boosted := len(q.FavoriteCategories) > 0 && q.CategoryBoost > 0
	for rows.Next() {
		var cosine float64
		it, err := scanItem(rows, &cosine)
		if err != nil {
			return nil, fmt.Errorf("scan search_similar: %w", err)
		}

		sim := vector.Rescale(cosine)
		if boosted && it.InCategories(q.FavoriteCategories) {
			sim = math.Min(1, sim+q.CategoryBoost)
		}
		if sim < q.MinSimilarity {
			continue
		}
		if q.Center != nil && q.RadiusKm > 0 && it.Location != nil &&
			scoring.HaversineKm(*q.Center, *it.Location) > q.RadiusKm {
			continue
		}
		results = append(results, models.SearchResult{Item: it, Similarity: sim})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search_similar: %w", err)
	}

	// Boosting can reorder rows relative to the SQL order.
	slices.SortStableFunc(results, func(a, b models.SearchResult) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		}
		return 0
	})
	if len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, nil
}
