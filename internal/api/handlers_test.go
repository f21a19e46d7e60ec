// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/swapmatch/internal/models"
)

const testUser = "6f1c2b9e-5d1a-4c3e-9a77-0b1e2d3c4f50"

type fakeRecommender struct {
	mu       sync.Mutex
	weights  models.Weights
	recs     []models.Recommendation
	err      error
	lastUser string
	lastLim  int
	lastRef  bool
	updates  int
}

func newFakeRecommender() *fakeRecommender {
	return &fakeRecommender{
		weights: models.DefaultWeights(),
		recs: []models.Recommendation{
			{Kind: models.KindItem, ID: "item-1", Score: 87.5},
		},
	}
}

func (f *fakeRecommender) Recommend(_ context.Context, userID string, limit int, refresh bool) ([]models.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUser, f.lastLim, f.lastRef = userID, limit, refresh
	return f.recs, f.err
}

func (f *fakeRecommender) Weights(string) models.Weights {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.weights
}

func (f *fakeRecommender) UpdateWeights(_ context.Context, _ string, p models.WeightsPatch) models.Weights {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.weights = f.weights.Apply(p)
	return f.weights
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func newTestServer(t *testing.T, rec Recommender, db Pinger, mw *ChiMiddleware) http.Handler {
	t.Helper()
	if mw == nil {
		cfg := DefaultChiMiddlewareConfig()
		cfg.RateLimitDisabled = true
		mw = NewChiMiddleware(cfg)
	}
	return NewRouter(NewHandler(rec, db, 20, "test"), mw).Setup()
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, http.NoBody)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
		}
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		wantStatus string
	}{
		{"no database", nil, "degraded"},
		{"database down", fakePinger{err: errors.New("closed")}, "degraded"},
		{"database up", fakePinger{}, "healthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, newFakeRecommender(), tt.db, nil)
			rec, env := do(t, h, http.MethodGet, "/api/v1/health", "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var hs HealthStatus
			if err := json.Unmarshal(env.Data, &hs); err != nil {
				t.Fatal(err)
			}
			if hs.Status != tt.wantStatus {
				t.Errorf("health = %q, want %q", hs.Status, tt.wantStatus)
			}
		})
	}
}

func TestRecommendations(t *testing.T) {
	fake := newFakeRecommender()
	h := newTestServer(t, fake, nil, nil)

	rec, env := do(t, h, http.MethodGet, "/api/v1/users/"+testUser+"/recommendations?limit=5&refresh=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if env.Status != "success" {
		t.Errorf("envelope status = %q", env.Status)
	}
	var recs []models.Recommendation
	if err := json.Unmarshal(env.Data, &recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].ID != "item-1" || recs[0].Score != 87.5 {
		t.Errorf("recs = %+v", recs)
	}
	if fake.lastUser != testUser || fake.lastLim != 5 || !fake.lastRef {
		t.Errorf("engine called with (%q, %d, %v)", fake.lastUser, fake.lastLim, fake.lastRef)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestRecommendations_DefaultLimit(t *testing.T) {
	fake := newFakeRecommender()
	h := newTestServer(t, fake, nil, nil)

	for _, q := range []string{"", "?limit=abc"} {
		rec, _ := do(t, h, http.MethodGet, "/api/v1/users/"+testUser+"/recommendations"+q, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%q: status = %d", q, rec.Code)
		}
		if fake.lastLim != 20 || fake.lastRef {
			t.Errorf("%q: limit=%d refresh=%v, want 20/false", q, fake.lastLim, fake.lastRef)
		}
	}
}

func TestRecommendations_Validation(t *testing.T) {
	h := newTestServer(t, newFakeRecommender(), nil, nil)

	tests := []struct {
		name, target, field string
	}{
		{"bad user id", "/api/v1/users/not-a-uuid/recommendations", "userID"},
		{"zero limit", "/api/v1/users/" + testUser + "/recommendations?limit=0", "limit"},
		{"limit too large", "/api/v1/users/" + testUser + "/recommendations?limit=101", "limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodGet, tt.target, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
				t.Fatalf("error = %+v", env.Error)
			}
			if env.Error.Details["field"] != tt.field {
				t.Errorf("field = %v, want %s", env.Error.Details["field"], tt.field)
			}
		})
	}
}

func TestRecommendations_EngineError(t *testing.T) {
	fake := newFakeRecommender()
	fake.err = context.DeadlineExceeded
	h := newTestServer(t, fake, nil, nil)

	rec, env := do(t, h, http.MethodGet, "/api/v1/users/"+testUser+"/recommendations", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "RECOMMEND_UNAVAILABLE" {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestGetWeights(t *testing.T) {
	h := newTestServer(t, newFakeRecommender(), nil, nil)

	rec, env := do(t, h, http.MethodGet, "/api/v1/users/"+testUser+"/weights", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var w models.Weights
	if err := json.Unmarshal(env.Data, &w); err != nil {
		t.Fatal(err)
	}
	if w != models.DefaultWeights() {
		t.Errorf("weights = %+v", w)
	}
}

func TestPatchWeights(t *testing.T) {
	fake := newFakeRecommender()
	h := newTestServer(t, fake, nil, nil)

	rec, env := do(t, h, http.MethodPatch, "/api/v1/users/"+testUser+"/weights", `{"price":1.5,"similarity":-0.2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var w models.Weights
	if err := json.Unmarshal(env.Data, &w); err != nil {
		t.Fatal(err)
	}
	def := models.DefaultWeights()
	if w.Price != 1 || w.Similarity != 0 {
		t.Errorf("not clamped: %+v", w)
	}
	if w.Category != def.Category || w.LocationLat != def.LocationLat {
		t.Errorf("untouched fields changed: %+v", w)
	}
	if fake.updates != 1 {
		t.Errorf("updates = %d, want 1", fake.updates)
	}
}

func TestPatchWeights_EmptyBodyObject(t *testing.T) {
	fake := newFakeRecommender()
	h := newTestServer(t, fake, nil, nil)

	rec, _ := do(t, h, http.MethodPatch, "/api/v1/users/"+testUser+"/weights", `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if fake.updates != 0 {
		t.Errorf("empty patch triggered %d updates", fake.updates)
	}
}

func TestPatchWeights_BadBody(t *testing.T) {
	h := newTestServer(t, newFakeRecommender(), nil, nil)

	for _, body := range []string{`{"unknown":1}`, `not json`, `{"price":"high"}`} {
		rec, env := do(t, h, http.MethodPatch, "/api/v1/users/"+testUser+"/weights", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, rec.Code)
			continue
		}
		if env.Error == nil || env.Error.Code != "INVALID_BODY" {
			t.Errorf("%s: error = %+v", body, env.Error)
		}
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, newFakeRecommender(), nil, nil)

	rec, env := do(t, h, http.MethodGet, "/api/v1/nope", "")
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("404: code=%d error=%+v", rec.Code, env.Error)
	}

	rec, env = do(t, h, http.MethodDelete, "/api/v1/users/"+testUser+"/weights", "")
	if rec.Code != http.StatusMethodNotAllowed || env.Error == nil || env.Error.Code != "METHOD_NOT_ALLOWED" {
		t.Errorf("405: code=%d error=%+v", rec.Code, env.Error)
	}
}
