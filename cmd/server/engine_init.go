// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package main

import (
	"fmt"

	"github.com/reelrank/reelrank/internal/api"
	"github.com/reelrank/reelrank/internal/config"
	"github.com/reelrank/reelrank/internal/logging"
	"github.com/reelrank/reelrank/internal/metrics"
	"github.com/reelrank/reelrank/internal/recommend"
	"github.com/reelrank/reelrank/internal/recommend/model"
	"github.com/reelrank/reelrank/internal/recommend/strategy"
)

// engineConfig maps the application config onto the engine's own
// config type so internal/recommend stays free of koanf concerns.
func engineConfig(cfg *config.RecommendConfig) *recommend.Config {
	return &recommend.Config{
		DefaultLimit: cfg.DefaultLimit,
		MaxLimit:     cfg.MaxLimit,
		Timeout:      cfg.Timeout,
		Popularity: recommend.PopularityConfig{
			DampingK: cfg.Popularity.DampingK,
		},
		Genre: recommend.GenreConfig{
			LikeThreshold:  cfg.Genre.LikeThreshold,
			GenreWeight:    cfg.Genre.GenreWeight,
			AverageWeight:  cfg.Genre.AverageWeight,
			NeutralAverage: cfg.Genre.NeutralAverage,
		},
		Collaborative: recommend.CollaborativeConfig{
			TopK:            cfg.Collaborative.TopK,
			Similarity:      cfg.Collaborative.Similarity,
			PredictedWeight: cfg.Collaborative.PredictedWeight,
			AverageWeight:   cfg.Collaborative.AverageWeight,
			PopularityCap:   cfg.Collaborative.PopularityCap,
		},
		Latent: recommend.LatentConfig{
			ScoreScale:  cfg.Latent.ScoreScale,
			ScoreOffset: cfg.Latent.ScoreOffset,
		},
	}
}

// loadModel reads the latent-factor artifact. A missing or broken
// artifact is non-fatal: the strategy chain simply starts at
// genre-based scoring.
func loadModel(path string) *model.Model {
	if path == "" {
		logging.Info().Msg("No latent model path configured")
		metrics.SetLatentModelInfo(false, 0)
		return nil
	}

	m, err := model.Load(path)
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Failed to load latent model, continuing without it")
		metrics.SetLatentModelInfo(false, 0)
		return nil
	}

	logging.Info().
		Str("path", path).
		Int("users", m.Users()).
		Int("movies", m.Movies()).
		Msg("Latent model loaded")
	metrics.SetLatentModelInfo(true, m.Users())
	return m
}

// initEngine builds the engine with strategies registered in priority
// order: latent-factor, genre-based, collaborative, popularity.
func initEngine(cfg *config.Config, provider recommend.DataProvider) (*recommend.Engine, api.ModelStatusFunc, error) {
	engCfg := engineConfig(&cfg.Recommend)

	engine, err := recommend.NewEngine(engCfg, logging.Logger())
	if err != nil {
		return nil, nil, fmt.Errorf("create engine: %w", err)
	}
	engine.SetDataProvider(provider)

	m := loadModel(cfg.Recommend.Latent.ModelPath)
	latent := strategy.NewLatent(engCfg.Latent, m, logging.Logger())
	if latent.Available() {
		engine.RegisterStrategy(latent)
	}
	engine.RegisterStrategy(strategy.NewGenre(engCfg.Genre, logging.Logger()))
	engine.RegisterStrategy(strategy.NewCollaborative(engCfg.Collaborative, logging.Logger()))
	engine.RegisterStrategy(strategy.NewPopularity(engCfg.Popularity, logging.Logger()))

	modelStatus := func() (bool, int) {
		if m == nil {
			return false, 0
		}
		return true, m.Users()
	}
	return engine, modelStatus, nil
}
