// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dncmaduro/vote-mcd/models"
)

func options(labels ...string) []models.Option {
	out := make([]models.Option, len(labels))
	for i, l := range labels {
		out[i] = models.Option{ID: l, Label: l, SortOrder: i + 1}
	}
	return out
}

func TestRank(t *testing.T) {
	tests := []struct {
		name      string
		counts    []models.VoteCount
		wantOrder []string
		wantRanks []int
	}{
		{
			name:      "no votes keeps display order",
			counts:    nil,
			wantOrder: []string{"a", "b", "c"},
			wantRanks: []int{1, 1, 1},
		},
		{
			name: "votes descending",
			counts: []models.VoteCount{
				{OptionID: "a", Count: 1},
				{OptionID: "b", Count: 5},
				{OptionID: "c", Count: 3},
			},
			wantOrder: []string{"b", "c", "a"},
			wantRanks: []int{1, 2, 3},
		},
		{
			name: "ties share a rank and keep display order",
			counts: []models.VoteCount{
				{OptionID: "c", Count: 4},
				{OptionID: "b", Count: 4},
			},
			wantOrder: []string{"b", "c", "a"},
			wantRanks: []int{1, 1, 3},
		},
		{
			name: "counts for unknown options are ignored",
			counts: []models.VoteCount{
				{OptionID: "zzz", Count: 9},
				{OptionID: "c", Count: 1},
			},
			wantOrder: []string{"c", "a", "b"},
			wantRanks: []int{1, 2, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(options("a", "b", "c"), tt.counts)
			require.Len(t, got, 3)

			order := make([]string, len(got))
			ranks := make([]int, len(got))
			for i, s := range got {
				order[i] = s.OptionID
				ranks[i] = s.Rank
			}
			assert.Equal(t, tt.wantOrder, order)
			assert.Equal(t, tt.wantRanks, ranks)
		})
	}
}

func TestNonZeroAndTotal(t *testing.T) {
	standings := Rank(options("a", "b", "c"), []models.VoteCount{
		{OptionID: "a", Count: 2},
		{OptionID: "c", Count: 6},
	})

	assert.Equal(t, int64(8), Total(standings))

	nonzero := NonZero(standings)
	require.Len(t, nonzero, 2)
	assert.Equal(t, "c", nonzero[0].OptionID)
	assert.Equal(t, "a", nonzero[1].OptionID)

	assert.InDelta(t, 75.0, Share(6, 8), 0.001)
	assert.Zero(t, Share(3, 0))
}

func TestApply(t *testing.T) {
	counts := []models.VoteCount{{OptionID: "a", Count: 1}}

	counts = Apply(counts, models.VoteCount{OptionID: "a", Count: 2})
	counts = Apply(counts, models.VoteCount{OptionID: "b", Count: 1})
	counts = Apply(counts, models.VoteCount{OptionID: "b", Count: 1})

	assert.Equal(t, []models.VoteCount{
		{OptionID: "a", Count: 2},
		{OptionID: "b", Count: 1},
	}, counts)
}
