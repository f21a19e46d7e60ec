// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

// Package vector implements the embedding arithmetic used for similarity
// estimates: component-wise averaging and clamped cosine similarity.
package vector

import "math"

// Average returns the component-wise mean of vectors. Empty input yields an
// empty result and a single vector is returned unchanged. Vectors whose
// dimension differs from the first one are skipped.
func Average(vectors [][]float64) []float64 {
	switch len(vectors) {
	case 0:
		return []float64{}
	case 1:
		return vectors[0]
	}

	dim := len(vectors[0])
	sum := make([]float64, dim)
	n := 0
	for _, v := range vectors {
		if len(v) != dim {
			continue
		}
		for i, x := range v {
			sum[i] += x
		}
		n++
	}
	for i := range sum {
		sum[i] /= float64(n)
	}
	return sum
}

// Cosine returns the cosine similarity of a and b clamped to [-1,1].
// Mismatched dimensions, empty vectors and zero norms all yield 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	c := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	switch {
	case math.IsNaN(c):
		return 0
	case c > 1:
		return 1
	case c < -1:
		return -1
	}
	return c
}

// Rescale maps a cosine similarity from [-1,1] onto [0,1].
func Rescale(c float64) float64 {
	return (c + 1) / 2
}
