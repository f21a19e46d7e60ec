// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package recommend

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/swapmatch/internal/cache"
	"github.com/tomtom215/swapmatch/internal/metrics"
	"github.com/tomtom215/swapmatch/internal/models"
	"github.com/tomtom215/swapmatch/internal/recommend/bundle"
	"github.com/tomtom215/swapmatch/internal/recommend/currency"
	"github.com/tomtom215/swapmatch/internal/recommend/merge"
	"github.com/tomtom215/swapmatch/internal/recommend/scoring"
	"github.com/tomtom215/swapmatch/internal/recommend/vector"
)

const cacheNamespace = "recommendations"

// Engine produces ranked recommendations. It is safe for concurrent use.
type Engine struct {
	cfg     *Config
	store   ItemStore
	caller  Caller
	weights *WeightStore
	bundles *bundle.Generator
	logger  zerolog.Logger

	cache             *cache.Layer
	publisher         message.Publisher
	invalidateTimeout time.Duration
}

// NewEngine creates an engine over store. Queries run through caller.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, store ItemStore, caller Caller, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil || caller == nil {
		return nil, fmt.Errorf("item store and caller are required")
	}

	e := &Engine{
		cfg:               cfg,
		store:             store,
		caller:            caller,
		weights:           NewWeightStore(models.DefaultWeights()),
		logger:            logger.With().Str("component", "recommend").Logger(),
		invalidateTimeout: 3 * time.Second,
	}
	e.bundles = bundle.NewGenerator(cfg.Bundle, storeSearcher{e: e}, logger)
	return e, nil
}

// SetCache installs the cache layer. Without one every request computes.
func (e *Engine) SetCache(l *cache.Layer) {
	e.cache = l
}

// SetWeightStore replaces the weight store, typically with one shared by the
// whole process.
func (e *Engine) SetWeightStore(s *WeightStore) {
	if s != nil {
		e.weights = s
	}
}

// SetPublisher installs the event publisher for weights.updated. Without one
// UpdateWeights invalidates in a background goroutine.
func (e *Engine) SetPublisher(p message.Publisher) {
	e.publisher = p
}

// SetInvalidateTimeout bounds background invalidation without a publisher.
func (e *Engine) SetInvalidateTimeout(d time.Duration) {
	if d > 0 {
		e.invalidateTimeout = d
	}
}

// Recommend returns up to limit ranked items and bundles for userID. refresh
// skips the cache read. A non-nil error only comes from a canceled context.
func (e *Engine) Recommend(ctx context.Context, userID string, limit int, refresh bool) ([]models.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = e.cfg.clampLimit(limit)
	w := e.weights.Current()

	return cache.Cached(ctx, e.cache, cacheNamespace, []interface{}{userID, limit, w}, refresh,
		func(ctx context.Context) ([]models.Recommendation, error) {
			return e.compute(ctx, userID, limit, w), nil
		})
}

// compute is the uncached pipeline. It reads only and is safe to run twice
// for the same key.
//
//nolint:gocritic // hugeParam: weights are a snapshot
func (e *Engine) compute(ctx context.Context, userID string, limit int, w models.Weights) []models.Recommendation {
	start := time.Now()
	log := e.logger.With().Str("user_id", userID).Int("limit", limit).Logger()

	src := e.gather(ctx, userID)
	pref := e.preference(src)
	pool := candidatePool(userID, src.favorite, src.cost, src.recent)

	items := e.scoreItems(src, pref, pool, w)

	var bundles []models.Bundle
	if e.cfg.BundlesEnabled {
		bundles = e.bundles.Generate(ctx, bundle.Input{
			UserID:     userID,
			OwnedItems: src.owned,
			Pool:       pool,
			UserValue:  pref.AggregateValue,
			Rates:      src.rates,
			Favorites:  pref.FavoriteCategories,
			Location:   pref.Location,
			RadiusKm:   pref.RadiusKm,
			Weights:    &w,
		})
		for i := range bundles {
			metrics.RecordBundle(string(bundles[i].Source))
		}
	}

	recs := present(mergeResults(items, bundles, pref.FavoriteCategories), limit)

	nItems, nBundles := 0, 0
	for i := range recs {
		if recs[i].Kind == models.KindBundle {
			nBundles++
		} else {
			nItems++
		}
	}
	metrics.RecordRecommendation(time.Since(start), nItems, nBundles)
	log.Debug().
		Int("owned", len(src.owned)).
		Int("pool", len(pool)).
		Int("items", nItems).
		Int("bundles", nBundles).
		Dur("elapsed", time.Since(start)).
		Msg("Recommendations computed")
	return recs
}

// preference derives the scoring view of the user.
func (e *Engine) preference(src *sources) models.UserPreference {
	pref := models.UserPreference{
		FavoriteCategories: src.profile.FavoriteCategories,
		Location:           src.profile.Location,
		RadiusKm:           src.profile.RadiusKm,
	}
	if pref.FavoriteCategories == nil {
		pref.FavoriteCategories = []string{}
	}
	if pref.RadiusKm <= 0 {
		pref.RadiusKm = e.cfg.DefaultRadiusKm
	}
	for i := range src.owned {
		pref.AggregateValue += currency.ToReference(src.owned[i].Price, src.rates)
	}
	return pref
}

// meanValue is the mean reference price of the priced items, 0 if none.
func meanValue(items []models.Item, rates models.RateTable) float64 {
	var sum float64
	var n int
	for i := range items {
		if v := currency.ToReference(items[i].Price, rates); v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// candidatePool concatenates the pools in priority order, dropping repeats,
// the user's own items and anything not available.
func candidatePool(userID string, pools ...[]models.Item) []models.Item {
	seen := make(map[string]struct{})
	var out []models.Item
	for _, pool := range pools {
		for i := range pool {
			it := pool[i]
			if it.OwnerID == userID || (it.Status != "" && it.Status != models.ItemAvailable) {
				continue
			}
			if _, dup := seen[it.ID]; dup {
				continue
			}
			seen[it.ID] = struct{}{}
			out = append(out, it)
		}
	}
	return out
}

// scoreItems scores every pool item against the user.
//
//nolint:gocritic // hugeParam: preference and weights are per-request snapshots
func (e *Engine) scoreItems(src *sources, pref models.UserPreference, pool []models.Item, w models.Weights) []models.ScoredCandidate {
	embeddings := make([][]float64, 0, len(src.owned))
	for i := range src.owned {
		if len(src.owned[i].Embedding) > 0 {
			embeddings = append(embeddings, src.owned[i].Embedding)
		}
	}
	userVec := vector.Average(embeddings)
	userPrice := meanValue(src.owned, src.rates)

	out := make([]models.ScoredCandidate, 0, len(pool))
	for i := range pool {
		it := pool[i]
		sim := scoring.Neutral
		if len(userVec) > 0 && len(it.Embedding) == len(userVec) {
			sim = vector.Rescale(vector.Cosine(userVec, it.Embedding))
		}
		sub := models.SubScores{
			Similarity: sim,
			Category:   scoring.Category(it.CategoryID, pref.FavoriteCategories),
			Price:      scoring.Price(userPrice, currency.ToReference(it.Price, src.rates), e.cfg.PriceTolerance),
			Location:   scoring.Location(pref.Location, it.Location, pref.RadiusKm),
		}
		out = append(out, models.ScoredCandidate{
			Item:    it,
			Scores:  sub,
			Overall: scoring.Combine(sub, w),
		})
	}
	return out
}

// entry is what the merger carries for each candidate.
type entry struct {
	item   *models.ScoredCandidate
	bundle *models.Bundle
}

// mergeResults merges scored items and bundles into one ranked list. Items
// rank by overall score, bundles by similarity.
func mergeResults(items []models.ScoredCandidate, bundles []models.Bundle, favorites []string) []merge.Candidate[entry] {
	cands := make([]merge.Candidate[entry], 0, len(items)+len(bundles))
	for i := range items {
		sc := &items[i]
		overall := sc.Overall
		cands = append(cands, merge.Candidate[entry]{
			ID:               sc.Item.ID,
			OverallScore:     &overall,
			FavoriteCategory: sc.Item.InCategories(favorites),
			Value:            entry{item: sc},
		})
	}
	for i := range bundles {
		b := &bundles[i]
		sim := b.Similarity
		cands = append(cands, merge.Candidate[entry]{
			ID:               b.ID,
			SimilarityScore:  &sim,
			FavoriteCategory: b.Items[0].InCategories(favorites) || b.Items[1].InCategories(favorites),
			Value:            entry{bundle: b},
		})
	}
	return merge.Merge(cands)
}

// present truncates to limit and converts scores to the 0-100 scale.
func present(ranked []merge.Candidate[entry], limit int) []models.Recommendation {
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]models.Recommendation, 0, len(ranked))
	for i := range ranked {
		c := &ranked[i]
		rec := models.Recommendation{
			ID:               c.ID,
			Score:            presentScore(c.Score()),
			FavoriteCategory: c.FavoriteCategory,
		}
		if c.Value.bundle != nil {
			rec.Kind = models.KindBundle
			rec.Bundle = c.Value.bundle
		} else {
			rec.Kind = models.KindItem
			rec.Item = &c.Value.item.Item
			scores := c.Value.item.Scores
			rec.Scores = &scores
		}
		out = append(out, rec)
	}
	return out
}

// presentScore maps [0,1] to [0,100] with one decimal.
func presentScore(s float64) float64 {
	return math.Round(models.Clamp01(s)*1000) / 10
}

// Weights returns the active weights. userID is accepted for symmetry; there
// is one process-wide value.
func (e *Engine) Weights(_ string) models.Weights {
	return e.weights.Current()
}

// UpdateWeights merges p over the active weights, clamps and installs the
// result, then announces the change so the user's cached sections are
// dropped in the background. It never blocks on the cache.
func (e *Engine) UpdateWeights(ctx context.Context, userID string, p models.WeightsPatch) models.Weights {
	w := e.weights.Update(p)
	metrics.WeightUpdates.Inc()
	e.logger.Info().
		Str("user_id", userID).
		Float64("similarity", w.Similarity).
		Float64("category", w.Category).
		Float64("price", w.Price).
		Float64("location", w.Location()).
		Msg("Recommendation weights updated")

	if e.publisher == nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.invalidateTimeout)
			defer cancel()
			e.InvalidateUser(ctx, userID)
		}()
		return w
	}

	payload, err := json.Marshal(WeightsUpdatedEvent{UserID: userID, Weights: w, UpdatedAt: time.Now().UTC()})
	if err != nil {
		e.logger.Error().Err(err).Msg("Failed to encode weights event")
		return w
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := e.publisher.Publish(TopicWeightsUpdated, msg); err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to publish weights event")
	}
	return w
}

// InvalidateUser drops every cached section of userID. It reports whether
// all deletions were acknowledged in time.
func (e *Engine) InvalidateUser(ctx context.Context, userID string) bool {
	if e.cache == nil {
		return true
	}
	ok := true
	for _, ns := range userSections {
		pattern := cache.Key(ns, userID) + ":*"
		if !e.cache.InvalidatePattern(ctx, pattern) {
			ok = false
		}
	}
	return ok
}
