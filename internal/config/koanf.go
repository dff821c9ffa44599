// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelrank/config.yaml",
	"/etc/reelrank/config.yml",
}

// ConfigPathEnvVar overrides the config file search when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// Default returns a Config with sensible defaults for every setting.
// The loader applies these first, then the config file, then env vars.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8460,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/reelrank.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = use runtime.NumCPU()
			SeedData:  false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		API: APIConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			RequestTimeout:    10 * time.Second,
		},
		Recommend: RecommendConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
			Timeout:      5 * time.Second,
			Popularity: PopularityConfig{
				DampingK: 10,
			},
			Genre: GenreConfig{
				LikeThreshold:  4,
				GenreWeight:    0.7,
				AverageWeight:  0.3,
				NeutralAverage: 3.0,
			},
			Collaborative: CollaborativeConfig{
				TopK:            10,
				Similarity:      "difference",
				PredictedWeight: 0.7,
				AverageWeight:   0.3,
				PopularityCap:   100,
			},
			Latent: LatentConfig{
				ModelPath:   "", // Empty disables the latent-factor scorer
				ScoreScale:  0.8,
				ScoreOffset: 1.0,
			},
		},
	}
}

// Load builds the configuration from layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
//
// The merged result is validated before being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// REELRANK_SERVER_PORT -> server.port, REELRANK_DATABASE_PATH -> database.path
	envProvider := env.Provider("REELRANK_", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths that accept comma-separated env values.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated strings to slices for the
// known slice fields. Env vars arrive as plain strings.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice when it came from YAML or defaults.
		switch val.(type) {
		case []interface{}, []string:
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps REELRANK_* environment variables to koanf paths.
//
// Examples:
//   - REELRANK_SERVER_PORT              -> server.port
//   - REELRANK_DATABASE_PATH            -> database.path
//   - REELRANK_LOGGING_LEVEL            -> logging.level
//   - REELRANK_RECOMMEND_DEFAULT_LIMIT  -> recommend.default_limit
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "REELRANK_"))

	// Multi-word leaf names cannot be derived by splitting on every
	// underscore, so known keys are mapped explicitly.
	explicit := map[string]string{
		"server_read_timeout":     "server.read_timeout",
		"server_write_timeout":    "server.write_timeout",
		"server_shutdown_timeout": "server.shutdown_timeout",

		"database_max_memory": "database.max_memory",
		"database_seed_data":  "database.seed_data",

		"api_rate_limit_reqs":     "api.rate_limit_reqs",
		"api_rate_limit_window":   "api.rate_limit_window",
		"api_rate_limit_disabled": "api.rate_limit_disabled",
		"api_cors_origins":        "api.cors_origins",
		"api_request_timeout":     "api.request_timeout",

		"recommend_default_limit": "recommend.default_limit",
		"recommend_max_limit":     "recommend.max_limit",

		"recommend_popularity_damping_k": "recommend.popularity.damping_k",

		"recommend_genre_like_threshold":  "recommend.genre.like_threshold",
		"recommend_genre_genre_weight":    "recommend.genre.genre_weight",
		"recommend_genre_average_weight":  "recommend.genre.average_weight",
		"recommend_genre_neutral_average": "recommend.genre.neutral_average",

		"recommend_collaborative_top_k":            "recommend.collaborative.top_k",
		"recommend_collaborative_similarity":       "recommend.collaborative.similarity",
		"recommend_collaborative_predicted_weight": "recommend.collaborative.predicted_weight",
		"recommend_collaborative_average_weight":   "recommend.collaborative.average_weight",
		"recommend_collaborative_popularity_cap":   "recommend.collaborative.popularity_cap",

		"recommend_latent_model_path":   "recommend.latent.model_path",
		"recommend_latent_score_scale":  "recommend.latent.score_scale",
		"recommend_latent_score_offset": "recommend.latent.score_offset",
	}
	if path, ok := explicit[key]; ok {
		return path
	}

	// Single-word leaves: SECTION_FIELD -> section.field
	if idx := strings.Index(key, "_"); idx > 0 {
		return key[:idx] + "." + key[idx+1:]
	}
	return key
}
