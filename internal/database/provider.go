// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package database

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/reelrank/reelrank/internal/logging"
	"github.com/reelrank/reelrank/internal/metrics"
	"github.com/reelrank/reelrank/internal/recommend"
)

// Provider exposes the database to the recommendation engine behind a
// circuit breaker. A persistently failing database trips the breaker,
// so scoring requests fail fast instead of piling up on a dead pool.
type Provider struct {
	db      *DB
	breaker *gobreaker.CircuitBreaker[interface{}]
	logger  zerolog.Logger
}

// ProviderConfig tunes breaker behaviour. Zero values get sensible
// defaults from NewProvider.
type ProviderConfig struct {
	FailureThreshold uint32
	Interval         time.Duration
	Timeout          time.Duration
}

// NewProvider wraps db in a breaker-protected recommend.DataProvider.
func NewProvider(db *DB, cfg ProviderConfig) *Provider {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Interval == 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := logging.With().Str("component", "database-provider").Logger()

	settings := gobreaker.Settings{
		Name:        "database",
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
			metrics.DBCircuitBreakerState.Set(breakerStateValue(to))
		},
	}

	return &Provider{
		db:      db,
		breaker: gobreaker.NewCircuitBreaker[interface{}](settings),
		logger:  logger,
	}
}

// GetMovies implements recommend.DataProvider.
func (p *Provider) GetMovies(ctx context.Context) ([]recommend.Movie, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.db.GetMovies(ctx)
	})
	if err != nil {
		return nil, err
	}
	movies, _ := result.([]recommend.Movie)
	return movies, nil
}

// GetAllRatings implements recommend.DataProvider.
func (p *Provider) GetAllRatings(ctx context.Context) ([]recommend.Rating, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.db.GetAllRatings(ctx)
	})
	if err != nil {
		return nil, err
	}
	ratings, _ := result.([]recommend.Rating)
	return ratings, nil
}

// BreakerState reports the breaker state for the status endpoint.
func (p *Provider) BreakerState() string {
	return p.breaker.State().String()
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

var _ recommend.DataProvider = (*Provider)(nil)
