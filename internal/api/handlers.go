// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/swapmatch/internal/models"
	"github.com/tomtom215/swapmatch/internal/validation"
)

const maxPatchBody = 4 << 10

// Recommender is the engine surface the handlers need.
type Recommender interface {
	Recommend(ctx context.Context, userID string, limit int, refresh bool) ([]models.Recommendation, error)
	Weights(userID string) models.Weights
	UpdateWeights(ctx context.Context, userID string, p models.WeightsPatch) models.Weights
}

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	Uptime            float64 `json:"uptime_seconds"`
}

// Handler serves the HTTP endpoints.
type Handler struct {
	engine       Recommender
	db           Pinger
	defaultLimit int
	version      string
	startTime    time.Time
}

// NewHandler creates a handler. db may be nil, in which case health reports
// the database as disconnected.
func NewHandler(engine Recommender, db Pinger, defaultLimit int, version string) *Handler {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &Handler{
		engine:       engine,
		db:           db,
		defaultLimit: defaultLimit,
		version:      version,
		startTime:    time.Now(),
	}
}

// Health is a liveness check. It always answers 200; a database that does
// not respond only marks the status degraded.
//
// @Summary Get service health
// @Description Reports version, uptime and database reachability. Always 200; status is "degraded" when the database does not answer.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=api.HealthStatus} "Health status"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	dbConnected := false
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		dbConnected = h.db.Ping(ctx) == nil
		cancel()
	}

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	respondSuccess(w, r, HealthStatus{
		Status:            status,
		Version:           h.version,
		DatabaseConnected: dbConnected,
		Uptime:            time.Since(h.startTime).Seconds(),
	}, start)
}

// Recommendations handles GET /api/v1/users/{userID}/recommendations.
//
// @Summary Get ranked recommendations
// @Description Returns items and two-item bundles ranked for the user, favorites first, scores on a 0-100 scale. Served from cache unless refresh is set.
// @Tags Recommendations
// @Produce json
// @Param userID path string true "User ID (UUID)"
// @Param limit query int false "Maximum results (1-100)"
// @Param refresh query bool false "Bypass the cache"
// @Success 200 {object} models.APIResponse{data=[]models.Recommendation} "Ranked recommendations"
// @Failure 400 {object} models.APIResponse "Invalid user ID or limit"
// @Failure 429 {object} models.APIResponse "Rate limited"
// @Failure 503 {object} models.APIResponse "Recommendations unavailable"
// @Router /users/{userID}/recommendations [get]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := validation.RecommendationsRequest{
		UserID:  chi.URLParam(r, "userID"),
		Limit:   getIntParam(r, "limit", h.defaultLimit),
		Refresh: getBoolParam(r, "refresh"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	recs, err := h.engine.Recommend(r.Context(), req.UserID, req.Limit, req.Refresh)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Client went away; nobody reads the response.
			return
		}
		respondError(w, r, http.StatusServiceUnavailable, "RECOMMEND_UNAVAILABLE", "Recommendations are unavailable", err)
		return
	}

	respondSuccess(w, r, recs, start)
}

// GetWeights handles GET /api/v1/users/{userID}/weights.
//
// @Summary Get scoring weights
// @Description Returns the weights currently applied to the user's recommendations.
// @Tags Weights
// @Produce json
// @Param userID path string true "User ID (UUID)"
// @Success 200 {object} models.APIResponse{data=models.Weights} "Current weights"
// @Failure 400 {object} models.APIResponse "Invalid user ID"
// @Router /users/{userID}/weights [get]
func (h *Handler) GetWeights(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := validation.UserRequest{UserID: chi.URLParam(r, "userID")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	respondSuccess(w, r, h.engine.Weights(req.UserID), start)
}

// PatchWeights handles PATCH /api/v1/users/{userID}/weights. Out-of-range
// values are clamped by the engine, not rejected.
//
// @Summary Update scoring weights
// @Description Merges the given fields over the current weights, clamps each to [0,1] and invalidates the user's cached recommendations.
// @Tags Weights
// @Accept json
// @Produce json
// @Param userID path string true "User ID (UUID)"
// @Param weights body validation.WeightsPatchRequest true "Fields to change"
// @Success 200 {object} models.APIResponse{data=models.Weights} "Updated weights"
// @Failure 400 {object} models.APIResponse "Invalid user ID or body"
// @Router /users/{userID}/weights [patch]
func (h *Handler) PatchWeights(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	user := validation.UserRequest{UserID: chi.URLParam(r, "userID")}
	if apiErr := validateRequest(&user); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	var body validation.WeightsPatchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPatchBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_BODY", "Request body must be a JSON object of weight fields", nil)
		return
	}
	if apiErr := validateRequest(&body); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	patch := models.WeightsPatch{
		Similarity:  body.Similarity,
		Category:    body.Category,
		Price:       body.Price,
		LocationLat: body.LocationLat,
		LocationLng: body.LocationLng,
	}
	if patch.IsEmpty() {
		respondSuccess(w, r, h.engine.Weights(user.UserID), start)
		return
	}

	respondSuccess(w, r, h.engine.UpdateWeights(r.Context(), user.UserID, patch), start)
}

// getIntParam extracts an integer query parameter, falling back to the default
// when it is missing or malformed.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getBoolParam(r *http.Request, key string) bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && b
}
