// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reelrank/reelrank/internal/models"
	"github.com/reelrank/reelrank/internal/recommend"
)

// Recommendations handles GET /api/v1/recommendations/{userID}.
//
// An empty recommendation list is a legitimate 200 response: a user who
// has rated the whole catalog simply has nothing left to recommend.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := pathInt(chi.URLParam(r, "userID"))
	if !ok {
		respondError(w, r, http.StatusBadRequest, "INVALID_USER_ID",
			"user ID must be a positive integer", nil)
		return
	}

	limit, ok := queryInt(r, "limit", 0)
	if !ok || limit < 0 {
		respondError(w, r, http.StatusBadRequest, "INVALID_LIMIT",
			"limit must be a non-negative integer", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.API.RequestTimeout)
	defer cancel()

	resp, err := h.engine.Recommend(ctx, recommend.Request{UserID: userID, Limit: limit})
	if err != nil {
		h.respondRecommendError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   resp,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondRecommendError maps engine errors onto the API taxonomy.
func (h *Handler) respondRecommendError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidRequest):
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST",
			"invalid recommendation request", err)
	case errors.Is(err, recommend.ErrNotConfigured):
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE",
			"recommendation engine is not ready", err)
	case errors.Is(err, recommend.ErrDataUnavailable):
		respondError(w, r, http.StatusServiceUnavailable, "DATA_UNAVAILABLE",
			"ratings data is temporarily unavailable", err)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, "TIMEOUT",
			"recommendation request timed out", err)
	default:
		respondError(w, r, http.StatusInternalServerError, "RECOMMENDATION_ERROR",
			"failed to generate recommendations", err)
	}
}

// RecommendationStatus handles GET /api/v1/recommendations/status.
func (h *Handler) RecommendationStatus(w http.ResponseWriter, r *http.Request) {
	movies, ratings, err := h.db.Counts(r.Context())
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, "DATA_UNAVAILABLE",
			"failed to read corpus counts", err)
		return
	}

	modelLoaded, modelUsers := false, 0
	if h.modelStatus != nil {
		modelLoaded, modelUsers = h.modelStatus()
	}

	cfg := h.engine.Config()
	status := map[string]interface{}{
		"movies":         movies,
		"ratings":        ratings,
		"model_loaded":   modelLoaded,
		"model_users":    modelUsers,
		"breaker_state":  h.provider.BreakerState(),
		"default_limit":  cfg.DefaultLimit,
		"max_limit":      cfg.MaxLimit,
		"similarity":     cfg.Collaborative.Similarity,
		"uptime_seconds": int(time.Since(h.startTime).Seconds()),
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     status,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
