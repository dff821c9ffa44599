// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package recommend

import (
	"fmt"
	"time"
)

// Similarity method names accepted by CollaborativeConfig.
const (
	// SimilarityDifference is the normalized rating-difference formula:
	// mean(1 - |a-b|/4) over commonly rated movies, bounded in [0,1].
	SimilarityDifference = "difference"
	// SimilarityPearson is centered Pearson correlation, in [-1,1].
	// Zero variance on the common set yields similarity 0.
	SimilarityPearson = "pearson"
)

// Config tunes the engine and its strategies.
type Config struct {
	// DefaultLimit is used when a request does not specify a limit.
	DefaultLimit int
	// MaxLimit caps the requested limit.
	MaxLimit int
	// Timeout bounds one request's scoring work.
	Timeout time.Duration

	Popularity    PopularityConfig
	Genre         GenreConfig
	Collaborative CollaborativeConfig
	Latent        LatentConfig
}

// PopularityConfig tunes damped popularity scoring.
type PopularityConfig struct {
	// DampingK shrinks low-sample averages: score = (n*avg)/(n+k).
	DampingK float64
}

// GenreConfig tunes genre-affinity scoring.
type GenreConfig struct {
	// LikeThreshold is the minimum rating that marks a movie "liked".
	LikeThreshold int
	// GenreWeight and AverageWeight blend the genre match score with
	// the movie's global average: match*weight*5 + avg*avgWeight.
	GenreWeight   float64
	AverageWeight float64
	// NeutralAverage substitutes for the average of unrated movies.
	NeutralAverage float64
}

// CollaborativeConfig tunes neighbor-weighted scoring.
type CollaborativeConfig struct {
	// TopK is how many neighbors are kept per request.
	TopK int
	// Similarity selects the user-similarity formula.
	Similarity string
	// PredictedWeight and AverageWeight blend the neighbor prediction
	// with the movie's damped global average.
	PredictedWeight float64
	AverageWeight   float64
	// PopularityCap is the rating count at which the popularity factor
	// min(total/cap, 1) saturates.
	PopularityCap float64
}

// LatentConfig tunes latent-factor display rescaling. The raw model
// output is mapped as raw*ScoreScale + ScoreOffset; the constants are
// tuned per trained artifact, not principled.
type LatentConfig struct {
	ScoreScale  float64
	ScoreOffset float64
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
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
			Similarity:      SimilarityDifference,
			PredictedWeight: 0.7,
			AverageWeight:   0.3,
			PopularityCap:   100,
		},
		Latent: LatentConfig{
			ScoreScale:  0.8,
			ScoreOffset: 1.0,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max limit %d below default limit %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Popularity.DampingK < 0 {
		return fmt.Errorf("damping constant must be non-negative, got %g", c.Popularity.DampingK)
	}
	if c.Genre.LikeThreshold < 1 || c.Genre.LikeThreshold > 5 {
		return fmt.Errorf("like threshold must be in [1,5], got %d", c.Genre.LikeThreshold)
	}
	if c.Collaborative.TopK < 1 {
		return fmt.Errorf("neighbor count must be positive, got %d", c.Collaborative.TopK)
	}
	switch c.Collaborative.Similarity {
	case SimilarityDifference, SimilarityPearson:
	default:
		return fmt.Errorf("unknown similarity method %q", c.Collaborative.Similarity)
	}
	if c.Collaborative.PopularityCap <= 0 {
		return fmt.Errorf("popularity cap must be positive, got %g", c.Collaborative.PopularityCap)
	}
	if c.Latent.ScoreScale <= 0 {
		return fmt.Errorf("score scale must be positive, got %g", c.Latent.ScoreScale)
	}
	return nil
}
