// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelrank/reelrank/internal/metrics"
)

// Engine orchestrates the scoring strategies. It is safe for concurrent
// use once configured; each request computes over its own snapshot.
type Engine struct {
	cfg    *Config
	logger zerolog.Logger

	mu         sync.RWMutex
	provider   DataProvider
	strategies []Strategy
}

// NewEngine creates an engine with the given configuration. A nil config
// uses defaults. The data provider and strategies are attached afterwards
// via SetDataProvider and RegisterStrategy.
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	return &Engine{
		cfg:    cfg,
		logger: logger.With().Str("component", "recommend-engine").Logger(),
	}, nil
}

// SetDataProvider attaches the snapshot source.
func (e *Engine) SetDataProvider(dp DataProvider) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.provider = dp
}

// RegisterStrategy appends a strategy to the priority chain. Strategies
// are tried in registration order; register highest priority first.
func (e *Engine) RegisterStrategy(s Strategy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.strategies = append(e.strategies, s)
	e.logger.Info().Str("strategy", s.Name()).Int("priority", len(e.strategies)).Msg("strategy registered")
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.cfg
}

// Recommend produces ranked suggestions for one user. The first strategy
// in the chain that yields a non-empty scored set determines the result
// and the method tag; an empty list with the popularity tag means no
// strategy could score anything, which is a legitimate outcome, not an
// error.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	limit, err := e.prepareRequest(&req)
	if err != nil {
		metrics.RecordRecommendationError("invalid_request")
		return nil, err
	}

	provider, strategies := e.snapshot()
	if provider == nil || len(strategies) == 0 {
		metrics.RecordRecommendationError("internal")
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	logger := e.logger.With().Int("user_id", req.UserID).Int("limit", limit).Logger()

	scope, err := e.buildScope(ctx, provider, req.UserID)
	if err != nil {
		metrics.RecordRecommendationError("data_unavailable")
		logger.Error().Err(err).Msg("snapshot fetch failed")
		return nil, err
	}

	scored, method, err := e.runStrategies(ctx, strategies, scope, logger)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			metrics.RecordRecommendationError("timeout")
		} else {
			metrics.RecordRecommendationError("internal")
		}
		return nil, err
	}

	resp := e.buildResponse(req.UserID, method, scope, scored, limit)

	metrics.RecordRecommendation(string(method), len(scope.Candidates), time.Since(start))
	logger.Debug().
		Str("method", string(method)).
		Int("candidates", len(scope.Candidates)).
		Int("returned", len(resp.Recommendations)).
		Dur("elapsed", time.Since(start)).
		Msg("recommendations computed")

	return resp, nil
}

// prepareRequest validates the request and resolves the effective limit.
func (e *Engine) prepareRequest(req *Request) (int, error) {
	if req.UserID < 1 {
		return 0, fmt.Errorf("%w: user ID must be a positive integer, got %d", ErrInvalidRequest, req.UserID)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxLimit {
		limit = e.cfg.MaxLimit
	}
	return limit, nil
}

// snapshot reads the provider and strategy chain under the lock.
func (e *Engine) snapshot() (DataProvider, []Strategy) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.provider, e.strategies
}

// buildScope fetches the catalog and ratings corpus and assembles the
// per-request computation snapshot. The mandatory unrated filter is
// applied here, before any scoring.
func (e *Engine) buildScope(ctx context.Context, provider DataProvider, userID int) (*Scope, error) {
	movies, err := provider.GetMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch movies: %w", ErrDataUnavailable, err)
	}

	ratings, err := provider.GetAllRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch ratings: %w", ErrDataUnavailable, err)
	}

	byUser := make(map[int]map[int]int)
	aggregates := make(map[int]Aggregate)
	for _, r := range ratings {
		userRatings, ok := byUser[r.UserID]
		if !ok {
			userRatings = make(map[int]int)
			byUser[r.UserID] = userRatings
		}
		userRatings[r.MovieID] = r.Value

		agg := aggregates[r.MovieID]
		agg.Count++
		agg.Sum += float64(r.Value)
		aggregates[r.MovieID] = agg
	}

	userRatings := byUser[userID]
	candidates := make([]Movie, 0, len(movies))
	movieByID := make(map[int]Movie, len(movies))
	for _, m := range movies {
		movieByID[m.ID] = m
		if _, rated := userRatings[m.ID]; !rated {
			candidates = append(candidates, m)
		}
	}

	return &Scope{
		UserID:        userID,
		Candidates:    candidates,
		Movies:        movieByID,
		UserRatings:   userRatings,
		RatingsByUser: byUser,
		Aggregates:    aggregates,
	}, nil
}

// runStrategies walks the priority chain until a strategy produces a
// non-empty scored set. Returns the last attempted method when every
// strategy declines.
func (e *Engine) runStrategies(ctx context.Context, strategies []Strategy, scope *Scope, logger zerolog.Logger) ([]ScoredMovie, Method, error) {
	method := strategies[len(strategies)-1].Method()

	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, method, fmt.Errorf("scoring aborted: %w", err)
		}

		scored, err := s.Score(ctx, scope)
		if err != nil {
			return nil, method, fmt.Errorf("strategy %s: %w", s.Name(), err)
		}
		if len(scored) > 0 {
			return scored, s.Method(), nil
		}
		logger.Debug().Str("strategy", s.Name()).Msg("strategy declined, falling through")
	}

	return nil, method, nil
}

// buildResponse normalizes, ranks, truncates, and decorates the scored
// set with catalog metadata.
func (e *Engine) buildResponse(userID int, method Method, scope *Scope, scored []ScoredMovie, limit int) *Response {
	// Collaborative and latent-factor raw outputs are unbounded;
	// min-max rescale them into [0,5]. Popularity and genre scores are
	// already clamped to [1,5] and must not be re-normalized.
	if method == MethodCollaborative || method == MethodLatent {
		scored = normalizeScores(scored)
	}

	// Stable sort keeps catalog order on ties; strategies return
	// scores in candidate order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	recs := make([]Recommendation, 0, len(scored))
	for _, sm := range scored {
		m := scope.Movies[sm.MovieID]
		rec := Recommendation{
			MovieID:      m.ID,
			Title:        m.Title,
			Score:        sm.Score,
			Genres:       m.Genres,
			Year:         m.Year,
			TotalRatings: scope.Aggregates[m.ID].Count,
		}
		if avg, ok := scope.Aggregates[m.ID].Average(); ok {
			rec.AverageRating = &avg
		}
		recs = append(recs, rec)
	}

	return &Response{
		UserID:          userID,
		Method:          method,
		Recommendations: recs,
		GeneratedAt:     time.Now().UTC(),
	}
}

// normalizeScores min-max rescales scores into [0,5]. When every score
// is equal the midpoint 3.5 is used for all of them.
func normalizeScores(scored []ScoredMovie) []ScoredMovie {
	if len(scored) == 0 {
		return scored
	}

	minScore, maxScore := scored[0].Score, scored[0].Score
	for _, sm := range scored[1:] {
		if sm.Score < minScore {
			minScore = sm.Score
		}
		if sm.Score > maxScore {
			maxScore = sm.Score
		}
	}

	out := make([]ScoredMovie, len(scored))
	if maxScore == minScore {
		for i, sm := range scored {
			out[i] = ScoredMovie{MovieID: sm.MovieID, Score: 3.5}
		}
		return out
	}

	span := maxScore - minScore
	for i, sm := range scored {
		out[i] = ScoredMovie{
			MovieID: sm.MovieID,
			Score:   (sm.Score - minScore) / span * 5,
		}
	}
	return out
}
