// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reelrank/reelrank/internal/config"
	"github.com/reelrank/reelrank/internal/database"
	"github.com/reelrank/reelrank/internal/models"
	"github.com/reelrank/reelrank/internal/recommend"
	"github.com/reelrank/reelrank/internal/recommend/strategy"
)

// One DuckDB at a time; concurrent CGO connection setup can hang in CI.
var testDBSemaphore = make(chan struct{}, 1)

type testEnv struct {
	db      *database.DB
	handler http.Handler
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	dbCfg := &config.DatabaseConfig{Path: ":memory:", MaxMemory: "1GB", Threads: 2}
	db, err := database.New(dbCfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	movieIDs := make([]int, 0, 3)
	for _, m := range []struct {
		title  string
		genres []string
	}{
		{"Alpha", []string{"Drama"}},
		{"Beta", []string{"Comedy"}},
		{"Gamma", []string{"Drama", "Comedy"}},
	} {
		id, err := db.InsertMovie(ctx, m.title, m.genres, 2020)
		if err != nil {
			t.Fatalf("InsertMovie() error = %v", err)
		}
		movieIDs = append(movieIDs, id)
	}
	// User 1 rated Alpha; users 2 and 3 supply corpus ratings.
	seed := []struct{ user, movie, value int }{
		{1, movieIDs[0], 5},
		{2, movieIDs[0], 4}, {2, movieIDs[1], 3}, {2, movieIDs[2], 5},
		{3, movieIDs[1], 2}, {3, movieIDs[2], 4},
	}
	for _, s := range seed {
		if err := db.UpsertRating(ctx, s.user, s.movie, s.value); err != nil {
			t.Fatalf("UpsertRating() error = %v", err)
		}
	}

	provider := database.NewProvider(db, database.ProviderConfig{})

	engineCfg := recommend.DefaultConfig()
	engine, err := recommend.NewEngine(engineCfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	engine.SetDataProvider(provider)
	engine.RegisterStrategy(strategy.NewPopularity(engineCfg.Popularity, zerolog.Nop()))

	cfg := &config.Config{
		API: config.APIConfig{
			RequestTimeout:    5 * time.Second,
			RateLimitDisabled: true,
		},
	}

	handler := NewHandler(db, provider, engine, cfg, func() (bool, int) { return false, 0 })
	router := NewRouter(handler, NewMiddleware(&MiddlewareConfig{RateLimitDisabled: true}))

	return &testEnv{db: db, handler: router.Setup()}
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, *models.APIResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp models.APIResponse
	if strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v\nbody: %s", err, rec.Body.String())
		}
	}
	return rec, &resp
}

func TestRecommendationsEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	rec, resp := doRequest(t, env.handler, http.MethodGet, "/api/v1/recommendations/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if resp.Status != "success" {
		t.Errorf("envelope status = %q", resp.Status)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want object", resp.Data)
	}
	if data["method"] != string(recommend.MethodPopularity) {
		t.Errorf("method = %v, want %s", data["method"], recommend.MethodPopularity)
	}

	recs, ok := data["recommendations"].([]interface{})
	if !ok {
		t.Fatalf("recommendations is %T, want array", data["recommendations"])
	}
	// User 1 already rated Alpha, so only Beta and Gamma remain.
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	for _, raw := range recs {
		entry := raw.(map[string]interface{})
		if entry["title"] == "Alpha" {
			t.Error("already rated movie surfaced in recommendations")
		}
	}

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestRecommendationsRejectsBadInput(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name     string
		path     string
		wantCode string
	}{
		{"non-numeric user", "/api/v1/recommendations/abc", "INVALID_USER_ID"},
		{"zero user", "/api/v1/recommendations/0", "INVALID_USER_ID"},
		{"negative limit", "/api/v1/recommendations/1?limit=-2", "INVALID_LIMIT"},
		{"non-numeric limit", "/api/v1/recommendations/1?limit=ten", "INVALID_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doRequest(t, env.handler, http.MethodGet, tt.path, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestRecommendationsLimit(t *testing.T) {
	env := setupTestEnv(t)

	rec, resp := doRequest(t, env.handler, http.MethodGet, "/api/v1/recommendations/1?limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	recs := data["recommendations"].([]interface{})
	if len(recs) != 1 {
		t.Errorf("got %d recommendations, want 1", len(recs))
	}
}

func TestRatingLifecycleEndpoints(t *testing.T) {
	env := setupTestEnv(t)

	// Movie 2 exists from seeding.
	rec, resp := doRequest(t, env.handler, http.MethodPut, "/api/v1/users/9/ratings/2", `{"value":4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", rec.Code, rec.Body.String())
	}
	if resp.Status != "success" {
		t.Errorf("PUT envelope status = %q", resp.Status)
	}

	rec, resp = doRequest(t, env.handler, http.MethodGet, "/api/v1/users/9/ratings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET ratings status = %d", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	if count, _ := data["count"].(float64); count != 1 {
		t.Errorf("ratings count = %v, want 1", data["count"])
	}

	rec, _ = doRequest(t, env.handler, http.MethodDelete, "/api/v1/users/9/ratings/2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d", rec.Code)
	}

	rec, resp = doRequest(t, env.handler, http.MethodDelete, "/api/v1/users/9/ratings/2", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second DELETE status = %d, want 404", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != "RATING_NOT_FOUND" {
		t.Errorf("error = %+v, want RATING_NOT_FOUND", resp.Error)
	}
}

func TestUpsertRatingValidation(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"value too high", "/api/v1/users/9/ratings/2", `{"value":9}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing value", "/api/v1/users/9/ratings/2", `{}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"malformed body", "/api/v1/users/9/ratings/2", `not json`, http.StatusBadRequest, "INVALID_BODY"},
		{"unknown movie", "/api/v1/users/9/ratings/9999", `{"value":3}`, http.StatusNotFound, "MOVIE_NOT_FOUND"},
		{"bad movie id", "/api/v1/users/9/ratings/abc", `{"value":3}`, http.StatusBadRequest, "INVALID_MOVIE_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doRequest(t, env.handler, http.MethodPut, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestMoviesEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	rec, resp := doRequest(t, env.handler, http.MethodGet, "/api/v1/movies", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	if count, _ := data["count"].(float64); count != 3 {
		t.Errorf("movie count = %v, want 3", data["count"])
	}
}

func TestHealthEndpoints(t *testing.T) {
	env := setupTestEnv(t)

	rec, resp := doRequest(t, env.handler, http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("live status = %d", rec.Code)
	}
	if resp.Status != "success" {
		t.Errorf("live envelope = %q", resp.Status)
	}

	rec, _ = doRequest(t, env.handler, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("ready status = %d", rec.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	rec, resp := doRequest(t, env.handler, http.MethodGet, "/api/v1/recommendations/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	if mc, _ := data["movies"].(float64); mc != 3 {
		t.Errorf("movies = %v, want 3", data["movies"])
	}
	if loaded, _ := data["model_loaded"].(bool); loaded {
		t.Error("model_loaded = true, want false")
	}
	if data["breaker_state"] != "closed" {
		t.Errorf("breaker_state = %v, want closed", data["breaker_state"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics output missing standard collectors")
	}
}

func TestNotFoundEnvelope(t *testing.T) {
	env := setupTestEnv(t)

	rec, resp := doRequest(t, env.handler, http.MethodGet, "/api/v1/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v, want NOT_FOUND", resp.Error)
	}
}
