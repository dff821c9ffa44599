// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package model loads and serves the precomputed latent factor artifact.
//
// The artifact is produced by an offline matrix-factorization training
// process and serialized as JSON: user/item factor matrices P and Q,
// bias vectors bu and bi, the global mean mu, and two string-keyed index
// maps translating external user and movie IDs to dense matrix rows.
//
// A Model is loaded once at startup and immutable afterwards, so it is
// safe for unlimited concurrent readers. Load failure is not fatal to
// the service; the latent-factor strategy simply stays unavailable for
// the process lifetime.
package model

import (
	"fmt"
	"os"
	"strconv"

	json "github.com/goccy/go-json"
)

// artifact is the on-disk JSON layout.
type artifact struct {
	Mu         float64            `json:"mu"`
	Bu         []float64          `json:"bu"`
	Bi         []float64          `json:"bi"`
	P          [][]float64        `json:"p"`
	Q          [][]float64        `json:"q"`
	UserIndex  map[string]int     `json:"user_index"`
	MovieIndex map[string]int     `json:"movie_index"`
}

// Model is the immutable in-memory factor model.
type Model struct {
	mu         float64
	bu         []float64
	bi         []float64
	p          [][]float64
	q          [][]float64
	userIndex  map[int]int
	movieIndex map[int]int
}

// Load reads and validates a factor artifact from disk.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var art artifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}

	m := &Model{
		mu: art.Mu,
		bu: art.Bu,
		bi: art.Bi,
		p:  art.P,
		q:  art.Q,
	}

	m.userIndex, err = parseIndex(art.UserIndex, "user")
	if err != nil {
		return nil, err
	}
	m.movieIndex, err = parseIndex(art.MovieIndex, "movie")
	if err != nil {
		return nil, err
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}
	return m, nil
}

// parseIndex converts a string-keyed id map to integer keys.
func parseIndex(in map[string]int, kind string) (map[int]int, error) {
	out := make(map[int]int, len(in))
	for key, idx := range in {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("non-numeric %s id %q in index", kind, key)
		}
		out[id] = idx
	}
	return out, nil
}

// validate checks that every index points inside the matrices and that
// factor dimensions agree.
func (m *Model) validate() error {
	if len(m.p) != len(m.bu) {
		return fmt.Errorf("user factors (%d) and biases (%d) disagree", len(m.p), len(m.bu))
	}
	if len(m.q) != len(m.bi) {
		return fmt.Errorf("item factors (%d) and biases (%d) disagree", len(m.q), len(m.bi))
	}

	var dim int
	if len(m.p) > 0 {
		dim = len(m.p[0])
	}
	for i, row := range m.p {
		if len(row) != dim {
			return fmt.Errorf("user factor row %d has dimension %d, want %d", i, len(row), dim)
		}
	}
	for i, row := range m.q {
		if len(row) != dim {
			return fmt.Errorf("item factor row %d has dimension %d, want %d", i, len(row), dim)
		}
	}

	for id, idx := range m.userIndex {
		if idx < 0 || idx >= len(m.p) {
			return fmt.Errorf("user %d maps to out-of-range row %d", id, idx)
		}
	}
	for id, idx := range m.movieIndex {
		if idx < 0 || idx >= len(m.q) {
			return fmt.Errorf("movie %d maps to out-of-range row %d", id, idx)
		}
	}
	return nil
}

// UserRow returns the dense row for an external user ID, if the user was
// present at training time.
func (m *Model) UserRow(userID int) (int, bool) {
	idx, ok := m.userIndex[userID]
	return idx, ok
}

// MovieRow returns the dense row for an external movie ID.
func (m *Model) MovieRow(movieID int) (int, bool) {
	idx, ok := m.movieIndex[movieID]
	return idx, ok
}

// Predict returns the raw predicted rating for dense rows u and i:
// mu + bu[u] + bi[i] + dot(P[u], Q[i]).
func (m *Model) Predict(u, i int) float64 {
	pred := m.mu + m.bu[u] + m.bi[i]
	pu, qi := m.p[u], m.q[i]
	for d := range pu {
		pred += pu[d] * qi[d]
	}
	return pred
}

// Users returns how many users the model covers.
func (m *Model) Users() int {
	return len(m.userIndex)
}

// Movies returns how many movies the model covers.
func (m *Model) Movies() int {
	return len(m.movieIndex)
}
