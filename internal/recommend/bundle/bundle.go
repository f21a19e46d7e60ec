// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

// Package bundle synthesizes two-item bundles from a single counterpart
// owner, priced near the requesting user's aggregate item value.
//
// The favorite path pairs items from owners holding at least two items in the
// user's favorite categories. When that yields nothing, the fallback path
// pairs the user's own items and looks up similar listings for each half,
// combining results that share an owner. Both paths are bounded greedy sweeps
// in discovery order; they do not search for a globally best set.
package bundle

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/swapmatch/internal/models"
	"github.com/tomtom215/swapmatch/internal/recommend/currency"
	"github.com/tomtom215/swapmatch/internal/recommend/vector"
)

// namespace seeds deterministic bundle IDs.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/tomtom215/swapmatch/bundle"))

// Searcher finds listed items similar to a query embedding.
type Searcher interface {
	SearchSimilar(ctx context.Context, q models.SearchQuery) ([]models.SearchResult, error)
}

// Input is everything needed to synthesize bundles for one user.
type Input struct {
	UserID     string
	OwnedItems []models.Item
	Pool       []models.Item
	UserValue  float64
	Rates      models.RateTable
	Favorites  []string

	// Location and RadiusKm bound fallback searches to the user's area.
	Location *models.Point
	RadiusKm float64

	// Weights are the active weights. When set and Price is exactly 0 the
	// price band test is skipped.
	Weights *models.Weights
}

// Generator synthesizes bundles. It is safe for concurrent use.
type Generator struct {
	cfg      Config
	searcher Searcher
	limiter  *rate.Limiter
	logger   zerolog.Logger
}

// NewGenerator creates a Generator. searcher may be nil, which disables the
// fallback path.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGenerator(cfg Config, searcher Searcher, logger zerolog.Logger) *Generator {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.SearchRate > 0 {
		burst := cfg.SearchBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.SearchRate), burst)
	}
	return &Generator{
		cfg:      cfg,
		searcher: searcher,
		limiter:  limiter,
		logger:   logger.With().Str("component", "bundle").Logger(),
	}
}

// Generate returns up to MaxBundles bundles. Users owning fewer than two
// items get none.
//
//nolint:gocritic // hugeParam: Input is built once per request
func (g *Generator) Generate(ctx context.Context, in Input) []models.Bundle {
	if len(in.OwnedItems) < 2 || g.cfg.MaxBundles == 0 {
		return nil
	}

	s := newSweep(g, &in)
	if len(in.Favorites) > 0 {
		g.favoritePath(s)
	}
	if len(s.out) == 0 && g.searcher != nil {
		g.fallbackPath(ctx, s)
	}
	return s.out
}

// favoritePath pairs favorite-category items per owner.
func (g *Generator) favoritePath(s *sweep) {
	for _, group := range groupByOwner(s.in.Pool, func(it *models.Item) bool {
		return it.InCategories(s.in.Favorites) && !s.isOwn(it)
	}) {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if s.full() {
					return
				}
				s.try(group[i], group[j], 0, models.BundleFromFavorites)
			}
		}
	}
}

// fallbackPath pairs the user's own items and cross-combines similar listings
// found for each half.
func (g *Generator) fallbackPath(ctx context.Context, s *sweep) {
	owned := s.in.OwnedItems
	for i := 0; i+1 < len(owned) && !s.full(); i += 2 {
		left := g.search(ctx, s.in, &owned[i])
		if len(left) == 0 {
			continue
		}
		right := g.search(ctx, s.in, &owned[i+1])
		for a := range left {
			for b := range right {
				if s.full() {
					return
				}
				x, y := &left[a], &right[b]
				if x.Item.OwnerID != y.Item.OwnerID || x.Item.ID == y.Item.ID {
					continue
				}
				if s.isOwn(&x.Item) {
					continue
				}
				s.try(x.Item, y.Item, (x.Similarity+y.Similarity)/2, models.BundleFromFallback)
			}
		}
	}
}

func (g *Generator) search(ctx context.Context, in *Input, half *models.Item) []models.SearchResult {
	if len(half.Embedding) == 0 {
		return nil
	}
	if err := g.limiter.Wait(ctx); err != nil {
		g.logger.Debug().Err(err).Msg("similarity search throttled")
		return nil
	}

	q := models.SearchQuery{
		Embedding:      half.Embedding,
		MinSimilarity:  g.cfg.SearchMinSimilarity,
		Limit:          g.cfg.SearchLimit,
		ExcludeOwnerID: in.UserID,
	}
	if len(in.Favorites) > 0 {
		q.FavoriteCategories = in.Favorites
		q.CategoryBoost = g.cfg.CategoryBoost
	}
	if in.Location != nil && in.RadiusKm > 0 {
		q.Center = in.Location
		q.RadiusKm = in.RadiusKm
	}
	q.MaxPrice = g.maxItemPrice(in)

	results, err := g.searcher.SearchSimilar(ctx, q)
	if err != nil {
		g.logger.Warn().Err(err).Str("item_id", half.ID).Msg("similarity search failed")
		return nil
	}
	return results
}

// maxItemPrice is the highest single-item price, in the reference unit, that
// can still belong to a bundle passing the band test: the discounted total is
// at least max(total*(1-DiscountRate), total-DiscountCap). Zero means no cap.
func (g *Generator) maxItemPrice(in *Input) float64 {
	if in.UserValue <= 0 || (in.Weights != nil && in.Weights.Price == 0) {
		return 0
	}
	high := in.UserValue * g.cfg.BandHigh
	limit := high + g.cfg.DiscountCap
	if g.cfg.DiscountRate < 1 {
		limit = math.Min(limit, high/(1-g.cfg.DiscountRate))
	}
	return limit
}

// sweep accumulates bundles for one Generate call.
type sweep struct {
	g      *Generator
	in     *Input
	owners map[string]bool
	seen   map[string]bool
	out    []models.Bundle
}

func newSweep(g *Generator, in *Input) *sweep {
	owners := map[string]bool{}
	if in.UserID != "" {
		owners[in.UserID] = true
	}
	for i := range in.OwnedItems {
		if id := in.OwnedItems[i].OwnerID; id != "" {
			owners[id] = true
		}
	}
	return &sweep{g: g, in: in, owners: owners, seen: map[string]bool{}}
}

func (s *sweep) full() bool {
	return len(s.out) >= s.g.cfg.MaxBundles
}

func (s *sweep) isOwn(it *models.Item) bool {
	return s.owners[it.OwnerID]
}

// try evaluates one pair and appends it when it passes the price band.
// placeholder is the similarity used when embeddings are not comparable;
// zero selects the configured baseline.
//
//nolint:gocritic // hugeParam: items are copied into the bundle anyway
func (s *sweep) try(a, b models.Item, placeholder float64, source models.BundleSource) {
	if a.OwnerID == "" || a.OwnerID != b.OwnerID || a.ID == b.ID {
		return
	}
	id := ID(a.ID, b.ID)
	if s.seen[id] {
		return
	}

	total := currency.ToReference(a.Price, s.in.Rates) + currency.ToReference(b.Price, s.in.Rates)
	if !s.inBand(total) {
		return
	}

	if placeholder == 0 {
		placeholder = s.g.cfg.BaselineSimilarity
	}

	s.seen[id] = true
	s.out = append(s.out, models.Bundle{
		ID:         id,
		OwnerID:    a.OwnerID,
		Items:      [2]models.Item{a, b},
		Price:      currency.FromReference(total, displayCurrency(&a, &b), s.in.Rates),
		Similarity: Similarity(&a, &b, s.in.OwnedItems, placeholder),
		Source:     source,
	})
}

func (s *sweep) inBand(total float64) bool {
	if s.in.Weights != nil && s.in.Weights.Price == 0 {
		return true
	}
	discount := math.Min(total*s.g.cfg.DiscountRate, s.g.cfg.DiscountCap)
	test := total - discount
	return test >= s.in.UserValue*s.g.cfg.BandLow && test <= s.in.UserValue*s.g.cfg.BandHigh
}

// Similarity estimates how close a pair is to the user's own items: the
// pair's averaged embedding is compared against every owned item of the same
// dimension and the cosines are averaged. baseline is returned when no
// comparison is possible. The result is clamped to [0,1].
func Similarity(a, b *models.Item, owned []models.Item, baseline float64) float64 {
	var vecs [][]float64
	if len(a.Embedding) > 0 {
		vecs = append(vecs, a.Embedding)
	}
	if len(b.Embedding) > 0 {
		vecs = append(vecs, b.Embedding)
	}
	if len(vecs) == 0 {
		return baseline
	}

	pair := vector.Average(vecs)
	var sum float64
	var n int
	for i := range owned {
		if len(owned[i].Embedding) != len(pair) {
			continue
		}
		sum += vector.Cosine(pair, owned[i].Embedding)
		n++
	}
	if n == 0 {
		return baseline
	}
	return models.Clamp01(sum / float64(n))
}

// ID derives a stable bundle ID from the two item IDs, independent of order.
func ID(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return uuid.NewSHA1(namespace, []byte(strings.Join(pair, "|"))).String()
}

func displayCurrency(a, b *models.Item) string {
	if a.Price.Currency != "" {
		return a.Price.Currency
	}
	return b.Price.Currency
}

// groupByOwner returns the items accepted by keep grouped by owner, with
// owners and items in first-seen order.
func groupByOwner(pool []models.Item, keep func(*models.Item) bool) [][]models.Item {
	index := map[string]int{}
	var groups [][]models.Item
	for i := range pool {
		it := &pool[i]
		if it.OwnerID == "" || !keep(it) {
			continue
		}
		pos, ok := index[it.OwnerID]
		if !ok {
			pos = len(groups)
			index[it.OwnerID] = pos
			groups = append(groups, nil)
		}
		groups[pos] = append(groups[pos], *it)
	}
	return groups
}
