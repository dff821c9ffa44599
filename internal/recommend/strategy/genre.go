// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package strategy

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/reelrank/reelrank/internal/recommend"
)

// Genre scores candidates by how well their genres match the user's
// taste profile. The profile is a histogram of genres across the user's
// "liked" movies (rated at or above the threshold), normalized by its
// maximum count into per-genre preference weights in [0,1].
//
// A candidate's genre match is the MEAN preference weight across its own
// genre tags, not the sum, so a movie with many genres is not unfairly
// boosted. The match blends with the movie's global average:
//
//	score = clamp(match*genreWeight*5 + average*avgWeight, 1, 5)
//
// Unrated movies use a neutral average. Declines when the liked set is
// empty.
type Genre struct {
	cfg    recommend.GenreConfig
	logger zerolog.Logger
}

// NewGenre creates the genre-affinity scorer.
func NewGenre(cfg recommend.GenreConfig, logger zerolog.Logger) *Genre {
	return &Genre{
		cfg:    cfg,
		logger: logger.With().Str("component", "strategy-genre").Logger(),
	}
}

// Name implements recommend.Strategy.
func (g *Genre) Name() string { return "genre-affinity" }

// Method implements recommend.Strategy.
func (g *Genre) Method() recommend.Method { return recommend.MethodGenre }

// Score implements recommend.Strategy.
func (g *Genre) Score(ctx context.Context, scope *recommend.Scope) ([]recommend.ScoredMovie, error) {
	if recommend.ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	weights := g.preferenceWeights(scope)
	if len(weights) == 0 {
		return nil, nil
	}

	scored := make([]recommend.ScoredMovie, 0, len(scope.Candidates))
	for _, m := range scope.Candidates {
		match := genreMatch(m.Genres, weights)

		avg := g.cfg.NeutralAverage
		if a, ok := scope.Aggregates[m.ID].Average(); ok {
			avg = a
		}

		score := match*g.cfg.GenreWeight*5 + avg*g.cfg.AverageWeight
		scored = append(scored, recommend.ScoredMovie{
			MovieID: m.ID,
			Score:   clamp(score, 1, 5),
		})
	}
	return scored, nil
}

// preferenceWeights builds the normalized genre histogram from the
// user's liked movies. Empty when the user has no liked movies.
func (g *Genre) preferenceWeights(scope *recommend.Scope) map[string]float64 {
	counts := make(map[string]int)
	maxCount := 0
	for _, movieID := range scope.LikedMovieIDs(g.cfg.LikeThreshold) {
		m, ok := scope.Movies[movieID]
		if !ok {
			continue
		}
		for _, genre := range m.Genres {
			counts[genre]++
			if counts[genre] > maxCount {
				maxCount = counts[genre]
			}
		}
	}

	if maxCount == 0 {
		return nil
	}

	weights := make(map[string]float64, len(counts))
	for genre, count := range counts {
		weights[genre] = float64(count) / float64(maxCount)
	}
	return weights
}

// genreMatch is the mean preference weight over the candidate's genres.
func genreMatch(genres []string, weights map[string]float64) float64 {
	if len(genres) == 0 {
		return 0
	}
	var sum float64
	for _, genre := range genres {
		sum += weights[genre]
	}
	return sum / float64(len(genres))
}

var _ recommend.Strategy = (*Genre)(nil)
