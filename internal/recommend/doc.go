// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package recommend implements the recommendation scoring engine.
//
// The engine orchestrates four interchangeable scoring strategies over a
// per-request snapshot of the ratings corpus and movie catalog:
//
//   - latent-factor: precomputed matrix-factorization predictions
//   - genre-based: affinity derived from the user's highly-rated movies
//   - collaborative: similarity-weighted neighbor predictions
//   - popularity: damped global averages (cold-start fallback)
//
// Strategies are tried in that fixed priority order; the first one that
// produces a non-empty scored set wins, and its name is reported to the
// caller as the method tag. A strategy that does not apply to the request
// (no trained model, no liked movies, no neighbors) declines by returning
// an empty set, which is never an error.
//
// The engine is stateless between requests: every call fetches its own
// snapshot through a DataProvider and computes over it without shared
// mutable state, so requests run concurrently without locking. The only
// process-wide state is the optional latent factor model, loaded once at
// startup and immutable afterwards.
package recommend
