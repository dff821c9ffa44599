// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package recommend

import (
	"math"
	"sort"
)

// SimilarityFunc computes the similarity between two users' rating maps
// (movieID -> value) over the movies both have rated. Users with no
// common movies score 0.
type SimilarityFunc func(a, b map[int]int) float64

// SimilarityByName returns the similarity function for a configured
// method name, defaulting to normalized rating-difference.
func SimilarityByName(name string) SimilarityFunc {
	if name == SimilarityPearson {
		return PearsonSimilarity
	}
	return DifferenceSimilarity
}

// DifferenceSimilarity is mean(1 - |a-b|/4) over commonly rated movies.
// Bounded in [0,1]; robust to small overlaps. Identical ratings on the
// single shared movie yield exactly 1.
func DifferenceSimilarity(a, b map[int]int) float64 {
	var sum float64
	var common int

	for movieID, ra := range a {
		rb, ok := b[movieID]
		if !ok {
			continue
		}
		sum += 1 - math.Abs(float64(ra-rb))/4
		common++
	}

	if common == 0 {
		return 0
	}
	return sum / float64(common)
}

// PearsonSimilarity is the Pearson correlation of the two users' ratings
// over commonly rated movies, in [-1,1]. Zero variance on either side of
// the common set makes the correlation undefined; it is treated as 0.
func PearsonSimilarity(a, b map[int]int) float64 {
	var ratingsA, ratingsB []float64
	for movieID, ra := range a {
		if rb, ok := b[movieID]; ok {
			ratingsA = append(ratingsA, float64(ra))
			ratingsB = append(ratingsB, float64(rb))
		}
	}

	n := float64(len(ratingsA))
	if n == 0 {
		return 0
	}

	var meanA, meanB float64
	for i := range ratingsA {
		meanA += ratingsA[i]
		meanB += ratingsB[i]
	}
	meanA /= n
	meanB /= n

	var cov, varA, varB float64
	for i := range ratingsA {
		da := ratingsA[i] - meanA
		db := ratingsB[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}

// Neighbor is another user ranked by similarity to the target.
type Neighbor struct {
	UserID     int
	Similarity float64
}

// TopNeighbors ranks every other user by similarity to the target's
// ratings, discards non-positive similarities, and keeps the top k.
// Ties are broken by ascending user ID so the ranking is deterministic.
func TopNeighbors(target map[int]int, byUser map[int]map[int]int, targetUserID, k int, sim SimilarityFunc) []Neighbor {
	neighbors := make([]Neighbor, 0, len(byUser))
	for userID, ratings := range byUser {
		if userID == targetUserID {
			continue
		}
		s := sim(target, ratings)
		if s <= 0 {
			continue
		}
		neighbors = append(neighbors, Neighbor{UserID: userID, Similarity: s})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].UserID < neighbors[j].UserID
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}
