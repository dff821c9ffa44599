// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package config defines ReelRank's configuration model and its layered
// loader. Settings come from three sources with increasing precedence:
// built-in defaults, an optional YAML file, and environment variables.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the ReelRank service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Logging   LoggingConfig   `koanf:"logging"`
	API       APIConfig       `koanf:"api"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development or production
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`       // Database file path; empty or :memory: for in-memory
	MaxMemory string `koanf:"max_memory"` // DuckDB memory limit, e.g. "2GB"
	Threads   int    `koanf:"threads"`    // 0 = use runtime.NumCPU()
	SeedData  bool   `koanf:"seed_data"`  // Load bundled sample catalog on first start
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"`
}

// APIConfig holds API surface settings.
type APIConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	DefaultLimit  int                 `koanf:"default_limit"` // Recommendations returned when no limit given
	MaxLimit      int                 `koanf:"max_limit"`     // Upper bound on requested limit
	Timeout       time.Duration       `koanf:"timeout"`       // Per-request scoring deadline
	Popularity    PopularityConfig    `koanf:"popularity"`
	Genre         GenreConfig         `koanf:"genre"`
	Collaborative CollaborativeConfig `koanf:"collaborative"`
	Latent        LatentConfig        `koanf:"latent"`
}

// PopularityConfig tunes the damped popularity scorer.
type PopularityConfig struct {
	// DampingK is the Bayesian damping constant: score = (n*avg)/(n+k).
	// Larger values pull sparsely-rated movies harder toward zero.
	DampingK float64 `koanf:"damping_k"`
}

// GenreConfig tunes the genre-affinity scorer.
type GenreConfig struct {
	LikeThreshold  int     `koanf:"like_threshold"`  // Minimum rating that counts as "liked"
	GenreWeight    float64 `koanf:"genre_weight"`    // Blend weight on the genre match score
	AverageWeight  float64 `koanf:"average_weight"`  // Blend weight on the global average
	NeutralAverage float64 `koanf:"neutral_average"` // Average used for unrated movies
}

// CollaborativeConfig tunes the user-based collaborative scorer.
type CollaborativeConfig struct {
	TopK            int     `koanf:"top_k"`            // Neighbors kept per prediction
	Similarity      string  `koanf:"similarity"`       // difference or pearson
	PredictedWeight float64 `koanf:"predicted_weight"` // Blend weight on the neighbor prediction
	AverageWeight   float64 `koanf:"average_weight"`   // Blend weight on the damped average
	PopularityCap   float64 `koanf:"popularity_cap"`   // Rating count at which the popularity factor saturates
}

// LatentConfig tunes the latent-factor scorer.
type LatentConfig struct {
	ModelPath   string  `koanf:"model_path"`   // Path to the trained factor artifact; empty disables
	ScoreScale  float64 `koanf:"score_scale"`  // Display rescale: raw*scale + offset
	ScoreOffset float64 `koanf:"score_offset"`
}

// Validate checks the configuration for invalid values. It is called by
// the loader after all layers are merged.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return c.validateRecommend()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Host == "" {
		return fmt.Errorf("server.host must not be empty")
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("server.environment must be development or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be one of trace/debug/info/warn/error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs < 1 {
			return fmt.Errorf("api.rate_limit_reqs must be positive, got %d", c.API.RateLimitReqs)
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("api.rate_limit_window must be positive, got %s", c.API.RateLimitWindow)
		}
	}
	if c.API.RequestTimeout <= 0 {
		return fmt.Errorf("api.request_timeout must be positive, got %s", c.API.RequestTimeout)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend

	if r.DefaultLimit < 1 {
		return fmt.Errorf("recommend.default_limit must be positive, got %d", r.DefaultLimit)
	}
	if r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("recommend.max_limit (%d) must be >= default_limit (%d)", r.MaxLimit, r.DefaultLimit)
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("recommend.timeout must be positive, got %s", r.Timeout)
	}

	if r.Popularity.DampingK < 0 {
		return fmt.Errorf("recommend.popularity.damping_k must be non-negative, got %g", r.Popularity.DampingK)
	}

	if r.Genre.LikeThreshold < 1 || r.Genre.LikeThreshold > 5 {
		return fmt.Errorf("recommend.genre.like_threshold must be between 1 and 5, got %d", r.Genre.LikeThreshold)
	}
	if r.Genre.GenreWeight < 0 || r.Genre.AverageWeight < 0 {
		return fmt.Errorf("recommend.genre weights must be non-negative")
	}

	if r.Collaborative.TopK < 1 {
		return fmt.Errorf("recommend.collaborative.top_k must be positive, got %d", r.Collaborative.TopK)
	}
	switch r.Collaborative.Similarity {
	case "difference", "pearson":
	default:
		return fmt.Errorf("recommend.collaborative.similarity must be difference or pearson, got %q", r.Collaborative.Similarity)
	}
	if r.Collaborative.PopularityCap <= 0 {
		return fmt.Errorf("recommend.collaborative.popularity_cap must be positive, got %g", r.Collaborative.PopularityCap)
	}

	if r.Latent.ScoreScale <= 0 {
		return fmt.Errorf("recommend.latent.score_scale must be positive, got %g", r.Latent.ScoreScale)
	}

	return nil
}
