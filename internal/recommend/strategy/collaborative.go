// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package strategy

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/reelrank/reelrank/internal/recommend"
)

// Collaborative predicts ratings from similar users. Other users sharing
// rated movies with the target are ranked by similarity, the top-K with
// positive similarity become neighbors, and each candidate's prediction
// is the similarity-weighted average of the neighbors' ratings for it.
// Candidates no neighbor rated fall back to their own global average.
//
// The prediction then blends with a popularity-damped global average:
//
//	final = predicted*predWeight + average*avgWeight*min(total/cap, 1)
//
// clamped to [1,5]. Declines when the target user has no ratings or no
// neighbor qualifies.
type Collaborative struct {
	cfg    recommend.CollaborativeConfig
	sim    recommend.SimilarityFunc
	logger zerolog.Logger
}

// NewCollaborative creates the neighbor-weighted scorer.
func NewCollaborative(cfg recommend.CollaborativeConfig, logger zerolog.Logger) *Collaborative {
	return &Collaborative{
		cfg:    cfg,
		sim:    recommend.SimilarityByName(cfg.Similarity),
		logger: logger.With().Str("component", "strategy-collaborative").Logger(),
	}
}

// Name implements recommend.Strategy.
func (c *Collaborative) Name() string { return "collaborative" }

// Method implements recommend.Strategy.
func (c *Collaborative) Method() recommend.Method { return recommend.MethodCollaborative }

// Score implements recommend.Strategy.
func (c *Collaborative) Score(ctx context.Context, scope *recommend.Scope) ([]recommend.ScoredMovie, error) {
	if len(scope.UserRatings) == 0 {
		return nil, nil
	}

	// Similarity across all users is the expensive part; bail out
	// promptly when the deadline hits.
	if recommend.ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	neighbors := recommend.TopNeighbors(scope.UserRatings, scope.RatingsByUser, scope.UserID, c.cfg.TopK, c.sim)
	if len(neighbors) == 0 {
		c.logger.Debug().Int("user_id", scope.UserID).Msg("no qualifying neighbors")
		return nil, nil
	}

	scored := make([]recommend.ScoredMovie, 0, len(scope.Candidates))
	for i, m := range scope.Candidates {
		if i%256 == 0 && recommend.ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		avg, _ := scope.Aggregates[m.ID].Average()

		predicted, ok := c.neighborPrediction(m.ID, neighbors, scope)
		if !ok {
			predicted = avg
		}

		popWeight := math.Min(float64(scope.Aggregates[m.ID].Count)/c.cfg.PopularityCap, 1)
		final := predicted*c.cfg.PredictedWeight + avg*c.cfg.AverageWeight*popWeight

		scored = append(scored, recommend.ScoredMovie{
			MovieID: m.ID,
			Score:   clamp(final, 1, 5),
		})
	}
	return scored, nil
}

// neighborPrediction is the similarity-weighted average of the ratings
// the neighbors gave this movie. ok is false when no neighbor rated it.
func (c *Collaborative) neighborPrediction(movieID int, neighbors []recommend.Neighbor, scope *recommend.Scope) (float64, bool) {
	var weightedSum, simSum float64
	for _, n := range neighbors {
		value, rated := scope.RatingsByUser[n.UserID][movieID]
		if !rated {
			continue
		}
		weightedSum += float64(value) * n.Similarity
		simSum += n.Similarity
	}

	if simSum == 0 {
		return 0, false
	}
	return weightedSum / simSum, true
}

var _ recommend.Strategy = (*Collaborative)(nil)
