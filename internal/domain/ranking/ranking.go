// Package ranking derives the spot leaderboard and category winners from the
// full rating set. Nothing is cached here: every call recomputes from input.
package ranking

import (
	"sort"

	"github.com/okian/pizzarank/internal/domain/model"
	"github.com/okian/pizzarank/internal/domain/scoring"
)

// tally accumulates per-spot sums in first-seen order.
type tally struct {
	spot  string
	count int
	sum   model.Scores
}

// Build groups ratings by spot, averages each category, ranks spots by
// average score descending and picks category winners.
//
// Spots without ratings never appear. Spots with equal average score keep
// the order in which they were first seen in ratings.
func Build(ratings []model.Rating) model.Leaderboard {
	tallies := group(ratings)

	entries := make([]model.LeaderboardEntry, 0, len(tallies))
	for _, t := range tallies {
		entries = append(entries, average(t))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AverageScore > entries[j].AverageScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return model.Leaderboard{
		Entries: entries,
		Winners: Winners(entries),
	}
}

// Winners scans entries in the given order and, per category, keeps the
// first entry holding the strict maximum average. It returns nil for an
// empty input.
func Winners(entries []model.LeaderboardEntry) []model.CategoryWinner {
	if len(entries) == 0 {
		return nil
	}
	winners := make([]model.CategoryWinner, 0, len(scoring.Categories))
	for _, def := range scoring.Categories {
		best := model.CategoryWinner{Category: string(def.Category)}
		for i, e := range entries {
			v := def.Value(categoryAverages(e))
			if i == 0 || v > best.Average {
				best.SpotName = e.SpotName
				best.Average = v
			}
		}
		winners = append(winners, best)
	}
	return winners
}

func group(ratings []model.Rating) []*tally {
	index := make(map[string]*tally)
	order := make([]*tally, 0)
	for _, r := range ratings {
		t, ok := index[r.SpotName]
		if !ok {
			t = &tally{spot: r.SpotName}
			index[r.SpotName] = t
			order = append(order, t)
		}
		t.count++
		t.sum.Crust += r.Crust
		t.sum.Sauce += r.Sauce
		t.sum.Cheese += r.Cheese
		t.sum.Flavor += r.Flavor
	}
	return order
}

// average turns a tally into an entry. averageScore is the mean of the four
// category means.
func average(t *tally) model.LeaderboardEntry {
	n := float64(t.count)
	e := model.LeaderboardEntry{
		SpotName:      t.spot,
		Ratings:       t.count,
		AverageCrust:  t.sum.Crust / n,
		AverageSauce:  t.sum.Sauce / n,
		AverageCheese: t.sum.Cheese / n,
		AverageFlavor: t.sum.Flavor / n,
	}
	e.AverageScore = (e.AverageCrust + e.AverageSauce + e.AverageCheese + e.AverageFlavor) / float64(len(scoring.Categories))
	return e
}

func categoryAverages(e model.LeaderboardEntry) model.Scores {
	return model.Scores{
		Crust:  e.AverageCrust,
		Sauce:  e.AverageSauce,
		Cheese: e.AverageCheese,
		Flavor: e.AverageFlavor,
	}
}
