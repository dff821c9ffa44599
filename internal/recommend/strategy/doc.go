// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package strategy implements the four scoring strategies dispatched by
// the recommendation engine: latent-factor, genre-affinity,
// collaborative, and popularity.
//
// Each strategy satisfies recommend.Strategy. Scores are returned in the
// order of the scope's candidate list; a strategy that does not apply to
// the request declines by returning an empty set.
package strategy
