// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

// Package merge combines candidates from several sources into one ranked,
// duplicate-free list.
package merge

import (
	"cmp"
	"slices"
)

// Candidate is one result from a source. OverallScore takes precedence over
// SimilarityScore when ranking; a candidate with neither scores 0.
type Candidate[T any] struct {
	ID               string
	OverallScore     *float64
	SimilarityScore  *float64
	FavoriteCategory bool
	Value            T
}

// Score returns the ranking score of the candidate.
func (c *Candidate[T]) Score() float64 {
	switch {
	case c.OverallScore != nil:
		return *c.OverallScore
	case c.SimilarityScore != nil:
		return *c.SimilarityScore
	default:
		return 0
	}
}

// Merge deduplicates candidates by ID and sorts them.
//
// Among duplicates the higher score wins; on equal scores a favorite-category
// entry replaces a non-favorite one. Favorite-category entries always sort
// before the rest, and each group is ordered by descending score. Equal
// entries keep their first-seen order, so Merge is idempotent.
func Merge[T any](candidates []Candidate[T]) []Candidate[T] {
	index := make(map[string]int, len(candidates))
	out := make([]Candidate[T], 0, len(candidates))

	for i := range candidates {
		c := candidates[i]
		pos, seen := index[c.ID]
		if !seen {
			index[c.ID] = len(out)
			out = append(out, c)
			continue
		}
		if replaces(&c, &out[pos]) {
			out[pos] = c
		}
	}

	slices.SortStableFunc(out, func(a, b Candidate[T]) int {
		if a.FavoriteCategory != b.FavoriteCategory {
			if a.FavoriteCategory {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.Score(), a.Score())
	})
	return out
}

func replaces[T any](next, current *Candidate[T]) bool {
	ns, cs := next.Score(), current.Score()
	if ns != cs {
		return ns > cs
	}
	return next.FavoriteCategory && !current.FavoriteCategory
}
