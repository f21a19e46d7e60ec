// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package merge

import (
	"testing"
)

func f(v float64) *float64 { return &v }

func ids[T any](cs []Candidate[T]) []string {
	out := make([]string, len(cs))
	for i := range cs {
		out[i] = cs[i].ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMergeDeduplicatesKeepingHigherScore(t *testing.T) {
	t.Parallel()

	in := []Candidate[string]{
		{ID: "a", OverallScore: f(0.4), Value: "low"},
		{ID: "b", SimilarityScore: f(0.9)},
		{ID: "a", OverallScore: f(0.7), Value: "high"},
		{ID: "c"},
	}

	got := Merge(in)
	if want := []string{"b", "a", "c"}; !equalIDs(ids(got), want) {
		t.Fatalf("Merge() ids = %v, want %v", ids(got), want)
	}
	if got[1].Value != "high" {
		t.Errorf("kept %q for id a, want the higher scoring entry", got[1].Value)
	}
}

func TestMergeOverallScoreTakesPrecedence(t *testing.T) {
	t.Parallel()

	c := Candidate[int]{OverallScore: f(0.2), SimilarityScore: f(0.9)}
	if c.Score() != 0.2 {
		t.Errorf("Score() = %v, want overall score 0.2", c.Score())
	}
}

func TestMergeTieGoesToFavorite(t *testing.T) {
	t.Parallel()

	in := []Candidate[string]{
		{ID: "x", OverallScore: f(0.5), Value: "plain"},
		{ID: "x", OverallScore: f(0.5), FavoriteCategory: true, Value: "fav"},
	}
	got := Merge(in)
	if len(got) != 1 || got[0].Value != "fav" || !got[0].FavoriteCategory {
		t.Errorf("Merge() = %+v, want the favorite-flagged duplicate", got)
	}
}

func TestMergeFavoritesSortFirst(t *testing.T) {
	t.Parallel()

	in := []Candidate[struct{}]{
		{ID: "top", OverallScore: f(0.99)},
		{ID: "fav-low", OverallScore: f(0.1), FavoriteCategory: true},
		{ID: "equal", OverallScore: f(0.5)},
		{ID: "fav-equal", OverallScore: f(0.5), FavoriteCategory: true},
	}

	got := Merge(in)
	want := []string{"fav-equal", "fav-low", "top", "equal"}
	if !equalIDs(ids(got), want) {
		t.Errorf("Merge() ids = %v, want %v", ids(got), want)
	}
}

func TestMergeIdempotent(t *testing.T) {
	t.Parallel()

	in := []Candidate[int]{
		{ID: "1", OverallScore: f(0.3)},
		{ID: "2", SimilarityScore: f(0.3), FavoriteCategory: true},
		{ID: "3", OverallScore: f(0.3)},
		{ID: "1", OverallScore: f(0.8)},
		{ID: "4"},
	}

	once := Merge(in)
	twice := Merge(once)
	if !equalIDs(ids(once), ids(twice)) {
		t.Errorf("Merge not idempotent: %v then %v", ids(once), ids(twice))
	}

	seen := map[string]bool{}
	for _, c := range twice {
		if seen[c.ID] {
			t.Errorf("duplicate id %s in output", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestMergeEmpty(t *testing.T) {
	t.Parallel()

	if got := Merge[int](nil); len(got) != 0 {
		t.Errorf("Merge(nil) = %v, want empty", got)
	}
}
