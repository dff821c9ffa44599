// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/reelrank/reelrank/internal/models"
	"github.com/reelrank/reelrank/internal/validation"
)

// RateRequest is the PUT rating body.
type RateRequest struct {
	Value int `json:"value" validate:"required,min=1,max=5"`
}

// UpsertRating handles PUT /api/v1/users/{userID}/ratings/{movieID}.
// Re-rating an already rated movie replaces the previous value.
func (h *Handler) UpsertRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(chi.URLParam(r, "userID"))
	if !ok {
		respondError(w, r, http.StatusBadRequest, "INVALID_USER_ID",
			"user ID must be a positive integer", nil)
		return
	}
	movieID, ok := pathInt(chi.URLParam(r, "movieID"))
	if !ok {
		respondError(w, r, http.StatusBadRequest, "INVALID_MOVIE_ID",
			"movie ID must be a positive integer", nil)
		return
	}

	var req RateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_BODY",
			"request body must be JSON with a value field", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	// The movie must exist; a rating against a phantom ID would poison
	// the corpus silently.
	if _, err := h.db.GetMovie(r.Context(), movieID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, r, http.StatusNotFound, "MOVIE_NOT_FOUND",
				"movie does not exist", nil)
			return
		}
		respondError(w, r, http.StatusServiceUnavailable, "DATA_UNAVAILABLE",
			"failed to look up movie", err)
		return
	}

	if err := h.db.UpsertRating(r.Context(), userID, movieID, req.Value); err != nil {
		respondError(w, r, http.StatusInternalServerError, "RATING_ERROR",
			"failed to store rating", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"user_id":  userID,
			"movie_id": movieID,
			"value":    req.Value,
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// DeleteRating handles DELETE /api/v1/users/{userID}/ratings/{movieID}.
func (h *Handler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(chi.URLParam(r, "userID"))
	if !ok {
		respondError(w, r, http.StatusBadRequest, "INVALID_USER_ID",
			"user ID must be a positive integer", nil)
		return
	}
	movieID, ok := pathInt(chi.URLParam(r, "movieID"))
	if !ok {
		respondError(w, r, http.StatusBadRequest, "INVALID_MOVIE_ID",
			"movie ID must be a positive integer", nil)
		return
	}

	deleted, err := h.db.DeleteRating(r.Context(), userID, movieID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "RATING_ERROR",
			"failed to delete rating", err)
		return
	}
	if !deleted {
		respondError(w, r, http.StatusNotFound, "RATING_NOT_FOUND",
			"no rating exists for this user and movie", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// UserRatings handles GET /api/v1/users/{userID}/ratings.
func (h *Handler) UserRatings(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(chi.URLParam(r, "userID"))
	if !ok {
		respondError(w, r, http.StatusBadRequest, "INVALID_USER_ID",
			"user ID must be a positive integer", nil)
		return
	}

	ratings, err := h.db.GetUserRatings(r.Context(), userID)
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, "DATA_UNAVAILABLE",
			"failed to read ratings", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"user_id": userID,
			"ratings": ratings,
			"count":   len(ratings),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Movies handles GET /api/v1/movies.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.db.GetMovies(r.Context())
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, "DATA_UNAVAILABLE",
			"failed to read catalog", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"movies": movies,
			"count":  len(movies),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
