// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package recommend

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDifferenceSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		a, b     map[int]int
		expected float64
	}{
		{
			name:     "single common movie, identical rating",
			a:        map[int]int{1: 5},
			b:        map[int]int{1: 5, 2: 3},
			expected: 1.0,
		},
		{
			name:     "maximum disagreement",
			a:        map[int]int{1: 5},
			b:        map[int]int{1: 1},
			expected: 0.0,
		},
		{
			name:     "mixed agreement",
			a:        map[int]int{1: 5, 2: 2},
			b:        map[int]int{1: 3, 2: 2},
			expected: 0.75, // mean(1-2/4, 1-0/4)
		},
		{
			name:     "no common movies",
			a:        map[int]int{1: 5},
			b:        map[int]int{2: 5},
			expected: 0.0,
		},
		{
			name:     "empty maps",
			a:        map[int]int{},
			b:        map[int]int{},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DifferenceSimilarity(tt.a, tt.b); !almostEqual(got, tt.expected) {
				t.Errorf("DifferenceSimilarity() = %g, want %g", got, tt.expected)
			}
		})
	}
}

func TestPearsonSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		a, b     map[int]int
		expected float64
	}{
		{
			name:     "perfect positive correlation",
			a:        map[int]int{1: 1, 2: 3, 3: 5},
			b:        map[int]int{1: 2, 2: 3, 3: 4},
			expected: 1.0,
		},
		{
			name:     "perfect negative correlation",
			a:        map[int]int{1: 1, 2: 5},
			b:        map[int]int{1: 5, 2: 1},
			expected: -1.0,
		},
		{
			name:     "zero variance treated as zero, not NaN",
			a:        map[int]int{1: 5},
			b:        map[int]int{1: 5},
			expected: 0.0,
		},
		{
			name:     "one side constant",
			a:        map[int]int{1: 3, 2: 3},
			b:        map[int]int{1: 1, 2: 5},
			expected: 0.0,
		},
		{
			name:     "no overlap",
			a:        map[int]int{1: 5},
			b:        map[int]int{2: 5},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := PearsonSimilarity(tt.a, tt.b)
			if math.IsNaN(got) {
				t.Fatal("PearsonSimilarity() returned NaN")
			}
			if !almostEqual(got, tt.expected) {
				t.Errorf("PearsonSimilarity() = %g, want %g", got, tt.expected)
			}
		})
	}
}

func TestSimilarityByName(t *testing.T) {
	t.Parallel()

	a := map[int]int{1: 5, 2: 1}
	b := map[int]int{1: 1, 2: 5}

	if got := SimilarityByName(SimilarityPearson)(a, b); !almostEqual(got, -1.0) {
		t.Errorf("expected pearson function, got result %g", got)
	}
	if got := SimilarityByName(SimilarityDifference)(a, b); !almostEqual(got, 0.0) {
		t.Errorf("expected difference function, got result %g", got)
	}
	// Unknown names fall back to difference.
	if got := SimilarityByName("bogus")(map[int]int{1: 5}, map[int]int{1: 5}); !almostEqual(got, 1.0) {
		t.Errorf("expected difference fallback, got %g", got)
	}
}

func TestTopNeighbors(t *testing.T) {
	t.Parallel()

	target := map[int]int{1: 5, 2: 4}
	byUser := map[int]map[int]int{
		7:  target,              // the target user, must be skipped
		10: {1: 5, 2: 4},        // similarity 1.0
		11: {1: 4},              // similarity 0.75
		12: {1: 1, 2: 1},        // low similarity
		13: {99: 5},             // no overlap, similarity 0, dropped
		14: {1: 5, 2: 4, 3: 2},  // similarity 1.0, ties with 10
	}

	neighbors := TopNeighbors(target, byUser, 7, 3, DifferenceSimilarity)

	if len(neighbors) != 3 {
		t.Fatalf("expected 3 neighbors, got %d", len(neighbors))
	}
	// Tie between users 10 and 14 at similarity 1.0 breaks by user ID.
	if neighbors[0].UserID != 10 || neighbors[1].UserID != 14 {
		t.Errorf("expected tie-break order [10, 14], got [%d, %d]", neighbors[0].UserID, neighbors[1].UserID)
	}
	if neighbors[2].UserID != 11 {
		t.Errorf("expected user 11 third, got %d", neighbors[2].UserID)
	}
	for _, n := range neighbors {
		if n.UserID == 7 {
			t.Error("target user must not be its own neighbor")
		}
		if n.Similarity <= 0 {
			t.Errorf("non-positive similarity %g kept for user %d", n.Similarity, n.UserID)
		}
	}
}

func TestTopNeighborsDiscardsNonPositive(t *testing.T) {
	t.Parallel()

	target := map[int]int{1: 5}
	byUser := map[int]map[int]int{
		2: {1: 1}, // difference similarity 0
	}

	if got := TopNeighbors(target, byUser, 1, 10, DifferenceSimilarity); len(got) != 0 {
		t.Errorf("expected no neighbors, got %v", got)
	}
}
