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

// Popularity scores candidates by their damped global average:
// score = (count * average) / (count + k), clamped to [1,5]. The damping
// constant k keeps a single 5-star rating from outranking a movie with
// hundreds of 4-star ratings.
//
// It is the terminal fallback of the priority chain and scores every
// candidate, so it never declines unless the catalog itself is empty.
type Popularity struct {
	cfg    recommend.PopularityConfig
	logger zerolog.Logger
}

// NewPopularity creates the damped popularity scorer.
func NewPopularity(cfg recommend.PopularityConfig, logger zerolog.Logger) *Popularity {
	return &Popularity{
		cfg:    cfg,
		logger: logger.With().Str("component", "strategy-popularity").Logger(),
	}
}

// Name implements recommend.Strategy.
func (p *Popularity) Name() string { return "popularity" }

// Method implements recommend.Strategy.
func (p *Popularity) Method() recommend.Method { return recommend.MethodPopularity }

// Score implements recommend.Strategy.
func (p *Popularity) Score(ctx context.Context, scope *recommend.Scope) ([]recommend.ScoredMovie, error) {
	if recommend.ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	scored := make([]recommend.ScoredMovie, 0, len(scope.Candidates))
	for _, m := range scope.Candidates {
		agg := scope.Aggregates[m.ID]

		var damped float64
		if avg, ok := agg.Average(); ok {
			damped = float64(agg.Count) * avg / (float64(agg.Count) + p.cfg.DampingK)
		}

		scored = append(scored, recommend.ScoredMovie{
			MovieID: m.ID,
			Score:   clamp(damped, 1, 5),
		})
	}
	return scored, nil
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ recommend.Strategy = (*Popularity)(nil)
