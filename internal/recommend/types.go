// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package recommend

import (
	"context"
	"errors"
	"time"
)

// Method identifies which scoring strategy produced a result.
type Method string

const (
	// MethodLatent is the precomputed matrix-factorization scorer.
	MethodLatent Method = "latent-factor"
	// MethodGenre is the genre-affinity scorer.
	MethodGenre Method = "genre-based"
	// MethodCollaborative is the neighbor-weighted scorer.
	MethodCollaborative Method = "collaborative"
	// MethodPopularity is the damped global-average scorer.
	MethodPopularity Method = "popularity"
)

// Sentinel errors returned by the engine.
var (
	// ErrInvalidRequest indicates a malformed request, rejected before
	// any data fetch.
	ErrInvalidRequest = errors.New("invalid recommendation request")

	// ErrDataUnavailable indicates the backing store could not be read.
	// The engine does not retry; the caller may.
	ErrDataUnavailable = errors.New("rating data unavailable")

	// ErrNotConfigured indicates the engine is missing its data provider
	// or has no registered strategies.
	ErrNotConfigured = errors.New("recommendation engine not configured")
)

// Rating is one user's current rating of one movie. Values are integers
// 1 through 5; a re-rating replaces the previous value upstream.
type Rating struct {
	UserID  int       `json:"user_id"`
	MovieID int       `json:"movie_id"`
	Value   int       `json:"value"`
	RatedAt time.Time `json:"rated_at,omitempty"`
}

// Movie is a catalog entry. Read-only from the engine's perspective.
type Movie struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Genres []string `json:"genres"`
	Year   int      `json:"year,omitempty"`
}

// Aggregate holds a movie's rating count and sum, from which the average
// is derived on demand.
type Aggregate struct {
	Count int
	Sum   float64
}

// Average returns the mean rating and whether any ratings exist.
func (a Aggregate) Average() (float64, bool) {
	if a.Count == 0 {
		return 0, false
	}
	return a.Sum / float64(a.Count), true
}

// Recommendation is one ranked suggestion returned to the caller.
// AverageRating is nil when the movie has no ratings.
type Recommendation struct {
	MovieID       int      `json:"movie_id"`
	Title         string   `json:"title"`
	Score         float64  `json:"score"`
	Genres        []string `json:"genres"`
	Year          int      `json:"year,omitempty"`
	AverageRating *float64 `json:"average_rating"`
	TotalRatings  int      `json:"total_ratings"`
}

// Request asks for recommendations for one user. Limit <= 0 selects the
// configured default; values above the configured maximum are clamped.
type Request struct {
	UserID int
	Limit  int
}

// Response carries the ranked recommendations plus the method tag naming
// the strategy that produced them.
type Response struct {
	UserID          int              `json:"user_id"`
	Method          Method           `json:"method"`
	Recommendations []Recommendation `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// DataProvider supplies the read-only snapshot a request computes over.
// Implementations must be safe for concurrent use.
type DataProvider interface {
	// GetMovies returns the full catalog in stable catalog order.
	GetMovies(ctx context.Context) ([]Movie, error)

	// GetAllRatings returns the complete ratings corpus.
	GetAllRatings(ctx context.Context) ([]Rating, error)
}

// Scope is the per-request computation snapshot handed to strategies.
// It is built once per request and never mutated by strategies.
type Scope struct {
	// UserID is the target user.
	UserID int

	// Candidates are the movies the target user has NOT rated, in
	// catalog order. The unrated filter is applied before scoring.
	Candidates []Movie

	// Movies maps movieID to its catalog entry for the whole catalog,
	// rated movies included.
	Movies map[int]Movie

	// UserRatings maps movieID to the target user's rating value.
	UserRatings map[int]int

	// RatingsByUser maps userID to that user's movieID->value ratings,
	// for every user in the corpus including the target.
	RatingsByUser map[int]map[int]int

	// Aggregates maps movieID to its corpus-wide rating aggregate.
	Aggregates map[int]Aggregate
}

// LikedMovieIDs returns the IDs of movies the target user rated at or
// above the threshold.
func (s *Scope) LikedMovieIDs(threshold int) []int {
	liked := make([]int, 0, len(s.UserRatings))
	for movieID, value := range s.UserRatings {
		if value >= threshold {
			liked = append(liked, movieID)
		}
	}
	return liked
}

// ScoredMovie pairs a candidate movie ID with its raw strategy score.
type ScoredMovie struct {
	MovieID int
	Score   float64
}

// Strategy is one scoring policy. Score returns a scored entry per
// applicable candidate, preserving the order of Scope.Candidates so that
// downstream tie-breaking is stable. A strategy that does not apply to
// the request returns an empty (or nil) slice and no error.
type Strategy interface {
	// Name is the strategy's log-friendly identifier.
	Name() string

	// Method is the tag reported to callers when this strategy wins.
	Method() Method

	// Score computes raw scores for the scope's candidates.
	Score(ctx context.Context, scope *Scope) ([]ScoredMovie, error)
}

// ContextCancelled reports whether the context is done. Strategies call
// this inside long loops so a deadline aborts cleanly.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
