// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()

	if cfg.Server.Port != 8460 {
		t.Errorf("expected default port 8460, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %q", cfg.Logging.Level)
	}
	if cfg.Recommend.DefaultLimit != 10 {
		t.Errorf("expected default limit 10, got %d", cfg.Recommend.DefaultLimit)
	}
	if cfg.Recommend.Popularity.DampingK != 10 {
		t.Errorf("expected damping constant 10, got %g", cfg.Recommend.Popularity.DampingK)
	}
	if cfg.Recommend.Genre.LikeThreshold != 4 {
		t.Errorf("expected like threshold 4, got %d", cfg.Recommend.Genre.LikeThreshold)
	}
	if cfg.Recommend.Collaborative.TopK != 10 {
		t.Errorf("expected top_k 10, got %d", cfg.Recommend.Collaborative.TopK)
	}
	if cfg.Recommend.Collaborative.Similarity != "difference" {
		t.Errorf("expected difference similarity, got %q", cfg.Recommend.Collaborative.Similarity)
	}
	if cfg.Recommend.Latent.ScoreScale != 0.8 || cfg.Recommend.Latent.ScoreOffset != 1.0 {
		t.Errorf("expected latent rescale 0.8/1.0, got %g/%g",
			cfg.Recommend.Latent.ScoreScale, cfg.Recommend.Latent.ScoreOffset)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "empty host",
			mutate:  func(c *Config) { c.Server.Host = "" },
			wantErr: "server.host",
		},
		{
			name:    "bad environment",
			mutate:  func(c *Config) { c.Server.Environment = "staging" },
			wantErr: "server.environment",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "rate limit zero",
			mutate:  func(c *Config) { c.API.RateLimitReqs = 0 },
			wantErr: "api.rate_limit_reqs",
		},
		{
			name: "rate limit zero but disabled",
			mutate: func(c *Config) {
				c.API.RateLimitReqs = 0
				c.API.RateLimitDisabled = true
			},
			wantErr: "",
		},
		{
			name:    "zero default limit",
			mutate:  func(c *Config) { c.Recommend.DefaultLimit = 0 },
			wantErr: "recommend.default_limit",
		},
		{
			name:    "max below default",
			mutate:  func(c *Config) { c.Recommend.MaxLimit = 5 },
			wantErr: "recommend.max_limit",
		},
		{
			name:    "negative damping",
			mutate:  func(c *Config) { c.Recommend.Popularity.DampingK = -1 },
			wantErr: "damping_k",
		},
		{
			name:    "like threshold out of range",
			mutate:  func(c *Config) { c.Recommend.Genre.LikeThreshold = 6 },
			wantErr: "like_threshold",
		},
		{
			name:    "unknown similarity",
			mutate:  func(c *Config) { c.Recommend.Collaborative.Similarity = "cosine" },
			wantErr: "similarity",
		},
		{
			name:    "zero score scale",
			mutate:  func(c *Config) { c.Recommend.Latent.ScoreScale = 0 },
			wantErr: "score_scale",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected valid config, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"REELRANK_SERVER_PORT", "server.port"},
		{"REELRANK_SERVER_HOST", "server.host"},
		{"REELRANK_SERVER_READ_TIMEOUT", "server.read_timeout"},
		{"REELRANK_DATABASE_PATH", "database.path"},
		{"REELRANK_DATABASE_MAX_MEMORY", "database.max_memory"},
		{"REELRANK_LOGGING_LEVEL", "logging.level"},
		{"REELRANK_API_CORS_ORIGINS", "api.cors_origins"},
		{"REELRANK_RECOMMEND_TIMEOUT", "recommend.timeout"},
		{"REELRANK_RECOMMEND_DEFAULT_LIMIT", "recommend.default_limit"},
		{"REELRANK_RECOMMEND_POPULARITY_DAMPING_K", "recommend.popularity.damping_k"},
		{"REELRANK_RECOMMEND_COLLABORATIVE_SIMILARITY", "recommend.collaborative.similarity"},
		{"REELRANK_RECOMMEND_LATENT_MODEL_PATH", "recommend.latent.model_path"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadDefaultsOnly(t *testing.T) {
	// Ensure no config file is picked up from the working directory.
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}
	if cfg.Server.Port != 8460 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("REELRANK_SERVER_PORT", "9000")
	t.Setenv("REELRANK_LOGGING_LEVEL", "debug")
	t.Setenv("REELRANK_RECOMMEND_COLLABORATIVE_SIMILARITY", "pearson")
	t.Setenv("REELRANK_API_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected env-overridden port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Logging.Level)
	}
	if cfg.Recommend.Collaborative.Similarity != "pearson" {
		t.Errorf("expected pearson similarity, got %q", cfg.Recommend.Collaborative.Similarity)
	}
	if len(cfg.API.CORSOrigins) != 2 || cfg.API.CORSOrigins[0] != "https://a.example" {
		t.Errorf("expected split CORS origins, got %v", cfg.API.CORSOrigins)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte(`
server:
  port: 8888
recommend:
  default_limit: 25
  popularity:
    damping_k: 25
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 8888 {
		t.Errorf("expected file port 8888, got %d", cfg.Server.Port)
	}
	if cfg.Recommend.DefaultLimit != 25 {
		t.Errorf("expected file default_limit 25, got %d", cfg.Recommend.DefaultLimit)
	}
	if cfg.Recommend.Popularity.DampingK != 25 {
		t.Errorf("expected file damping_k 25, got %g", cfg.Recommend.Popularity.DampingK)
	}
	// Untouched settings keep their defaults.
	if cfg.Recommend.MaxLimit != 100 {
		t.Errorf("expected default max_limit 100, got %d", cfg.Recommend.MaxLimit)
	}
}

func TestLoadInvalidEnvValue(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("REELRANK_RECOMMEND_COLLABORATIVE_SIMILARITY", "cosine")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for unknown similarity")
	}
}

func TestRecommendTimeoutDefault(t *testing.T) {
	t.Parallel()

	if Default().Recommend.Timeout != 5*time.Second {
		t.Errorf("expected 5s scoring timeout, got %s", Default().Recommend.Timeout)
	}
}
