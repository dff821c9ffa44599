// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package strategy

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/reelrank/reelrank/internal/recommend"
	"github.com/reelrank/reelrank/internal/recommend/model"
)

// Latent scores candidates with the precomputed matrix-factorization
// model. Only candidates present in the model's movie index are scored;
// the rest are silently excluded from this pass. Declines when no model
// is loaded, the user was absent at training time, or the model covers
// none of the candidates — no partial or cold prediction is attempted.
//
// Raw predictions are rescaled for display as raw*scale + offset; the
// constants are tuned to one trained artifact's output distribution and
// should be re-derived after retraining.
type Latent struct {
	cfg    recommend.LatentConfig
	model  *model.Model
	logger zerolog.Logger
}

// NewLatent creates the latent-factor scorer. A nil model is allowed and
// makes the strategy decline every request.
func NewLatent(cfg recommend.LatentConfig, m *model.Model, logger zerolog.Logger) *Latent {
	return &Latent{
		cfg:    cfg,
		model:  m,
		logger: logger.With().Str("component", "strategy-latent").Logger(),
	}
}

// Name implements recommend.Strategy.
func (l *Latent) Name() string { return "latent-factor" }

// Method implements recommend.Strategy.
func (l *Latent) Method() recommend.Method { return recommend.MethodLatent }

// Available reports whether a model artifact is loaded.
func (l *Latent) Available() bool { return l.model != nil }

// Score implements recommend.Strategy.
func (l *Latent) Score(ctx context.Context, scope *recommend.Scope) ([]recommend.ScoredMovie, error) {
	if l.model == nil {
		return nil, nil
	}

	userRow, ok := l.model.UserRow(scope.UserID)
	if !ok {
		l.logger.Debug().Int("user_id", scope.UserID).Msg("user not covered by model")
		return nil, nil
	}

	scored := make([]recommend.ScoredMovie, 0, len(scope.Candidates))
	for i, m := range scope.Candidates {
		if i%256 == 0 && recommend.ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		movieRow, covered := l.model.MovieRow(m.ID)
		if !covered {
			continue
		}

		raw := l.model.Predict(userRow, movieRow)
		scored = append(scored, recommend.ScoredMovie{
			MovieID: m.ID,
			Score:   raw*l.cfg.ScoreScale + l.cfg.ScoreOffset,
		})
	}
	return scored, nil
}

var _ recommend.Strategy = (*Latent)(nil)
