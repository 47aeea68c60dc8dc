// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tally ranks vote counts into the standings shown on the results
// board.
package tally

import (
	"sort"

	"github.com/dncmaduro/vote-mcd/models"
)

// Rank orders options by votes and assigns competition ranks (1, 1, 3).
// options must already be in display order; that order breaks ties.
// Options without a count row rank with zero votes.
func Rank(options []models.Option, counts []models.VoteCount) []models.Standing {
	votes := make(map[string]int64, len(counts))
	for _, c := range counts {
		votes[c.OptionID] = c.Count
	}

	standings := make([]models.Standing, len(options))
	for i, o := range options {
		standings[i] = models.Standing{
			OptionID:  o.ID,
			Label:     o.Label,
			SortOrder: o.SortOrder,
			Votes:     votes[o.ID],
		}
	}

	// Stable sort keeps display order for equal votes
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Votes > standings[j].Votes
	})

	for i := range standings {
		if i > 0 && standings[i].Votes == standings[i-1].Votes {
			standings[i].Rank = standings[i-1].Rank
			continue
		}
		standings[i].Rank = i + 1
	}

	return standings
}

// NonZero drops standings nobody voted for.
func NonZero(standings []models.Standing) []models.Standing {
	out := make([]models.Standing, 0, len(standings))
	for _, s := range standings {
		if s.Votes > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Total sums the votes across standings.
func Total(standings []models.Standing) int64 {
	var total int64
	for _, s := range standings {
		total += s.Votes
	}
	return total
}

// Share returns votes as a percentage of total, or 0 when nothing was cast.
func Share(votes, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(votes) * 100 / float64(total)
}

// Apply replaces the row for c.OptionID in counts, appending it when absent.
// Pushed counts are absolute, so applying the same change twice is harmless.
func Apply(counts []models.VoteCount, c models.VoteCount) []models.VoteCount {
	for i := range counts {
		if counts[i].OptionID == c.OptionID {
			counts[i].Count = c.Count
			return counts
		}
	}
	return append(counts, c)
}
