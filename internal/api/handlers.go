// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package api provides the HTTP surface: the recommendation endpoint,
// the supporting ratings write path, and health/status/metrics routes.
package api

import (
	"time"

	"github.com/reelrank/reelrank/internal/config"
	"github.com/reelrank/reelrank/internal/database"
	"github.com/reelrank/reelrank/internal/recommend"
)

// ModelStatusFunc reports latent-factor model availability for the
// status endpoint: whether an artifact is loaded and how many users it
// covers.
type ModelStatusFunc func() (loaded bool, users int)

// Handler carries the dependencies the HTTP handlers need.
type Handler struct {
	db          *database.DB
	provider    *database.Provider
	engine      *recommend.Engine
	config      *config.Config
	modelStatus ModelStatusFunc
	startTime   time.Time
}

// NewHandler creates the API handler. modelStatus may be nil when no
// latent model was configured.
func NewHandler(db *database.DB, provider *database.Provider, engine *recommend.Engine, cfg *config.Config, modelStatus ModelStatusFunc) *Handler {
	return &Handler{
		db:          db,
		provider:    provider,
		engine:      engine,
		config:      cfg,
		modelStatus: modelStatus,
		startTime:   time.Now(),
	}
}
