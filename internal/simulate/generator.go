package simulate

import (
	"fmt"
	"math"
	"math/rand"
)

// Score profiles, picked per submission, keep the leaderboard spread out.
var profiles = []struct{ min, max float64 }{
	{3, 7},   // average, most common
	{3, 7},   //
	{7, 9},   // good
	{0, 3},   // poor
	{9, 10},  // great, rare
	{0, 10},  // anything
}

// generateSubmissions picks perUser distinct spots for every code, then adds
// resubmits overwriting randomly chosen earlier pairs.
func generateSubmissions(rng *rand.Rand, runID string, codes, spots []string, perUser, resubmits int) []Submission {
	if perUser > len(spots) {
		perUser = len(spots)
	}
	subs := make([]Submission, 0, len(codes)*perUser+resubmits)
	for _, c := range codes {
		for _, i := range rng.Perm(len(spots))[:perUser] {
			subs = append(subs, randomSubmission(rng, runID, c, spots[i]))
		}
	}
	first := len(subs)
	for i := 0; i < resubmits && first > 0; i++ {
		prev := subs[rng.Intn(first)]
		subs = append(subs, randomSubmission(rng, runID, prev.Code, prev.SpotName))
	}
	return subs
}

func randomSubmission(rng *rand.Rand, runID, code, spot string) Submission {
	p := profiles[rng.Intn(len(profiles))]
	score := func() float64 {
		return math.Round((p.min+rng.Float64()*(p.max-p.min))*10) / 10
	}
	return Submission{
		Code:     code,
		SpotName: spot,
		Crust:    score(),
		Sauce:    score(),
		Cheese:   score(),
		Flavor:   score(),
		Notes:    fmt.Sprintf("simulated run %s", runID),
	}
}

// latest keeps the last submission per (code, spot) in first-submission
// order, which is what the server stores.
func latest(subs []Submission) []Submission {
	type key struct{ code, spot string }
	index := make(map[key]int, len(subs))
	out := make([]Submission, 0, len(subs))
	for _, s := range subs {
		k := key{s.Code, s.SpotName}
		if i, ok := index[k]; ok {
			out[i] = s
			continue
		}
		index[k] = len(out)
		out = append(out, s)
	}
	return out
}
