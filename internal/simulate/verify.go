package simulate

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/okian/pizzarank/internal/domain/model"
	"github.com/okian/pizzarank/internal/domain/ranking"
)

// epsilon absorbs float noise from JSON round trips.
const epsilon = 1e-9

// verifyUsers checks every identity's stored ratings against what was sent.
func verifyUsers(ctx context.Context, c *client, sent []Submission) error {
	want := make(map[string]map[string]Submission)
	for _, s := range sent {
		if want[s.Code] == nil {
			want[s.Code] = make(map[string]Submission)
		}
		want[s.Code][s.SpotName] = s
	}
	for code, bySpot := range want {
		var got []model.Rating
		if err := c.do(ctx, http.MethodGet, "/ratings/mine", code, nil, &got, http.StatusOK); err != nil {
			return err
		}
		if len(got) != len(bySpot) {
			return fmt.Errorf("%s: server holds %d ratings, sent %d", code, len(got), len(bySpot))
		}
		for _, r := range got {
			s, ok := bySpot[r.SpotName]
			if !ok {
				return fmt.Errorf("%s: unexpected rating for %q", code, r.SpotName)
			}
			if r.Scores != s.rating().Scores {
				return fmt.Errorf("%s/%s: stored %+v, sent %+v", code, r.SpotName, r.Scores, s.rating().Scores)
			}
		}
	}
	return nil
}

// verifyLeaderboard rebuilds the leaderboard locally and compares it with the
// served one. Spots with equal scores may legitimately swap places, so the
// comparison is by spot, plus a check that the order is non-increasing.
func verifyLeaderboard(got model.Leaderboard, sent []Submission) error {
	ratings := make([]model.Rating, len(sent))
	for i, s := range sent {
		ratings[i] = s.rating()
	}
	want := ranking.Build(ratings)

	if len(got.Entries) != len(want.Entries) {
		return fmt.Errorf("leaderboard has %d entries, expected %d", len(got.Entries), len(want.Entries))
	}
	byName := make(map[string]model.LeaderboardEntry, len(want.Entries))
	for _, e := range want.Entries {
		byName[e.SpotName] = e
	}
	for i, e := range got.Entries {
		w, ok := byName[e.SpotName]
		if !ok {
			return fmt.Errorf("unexpected spot %q on leaderboard", e.SpotName)
		}
		if e.Ratings != w.Ratings || !approxEqual(e.AverageScore, w.AverageScore) {
			return fmt.Errorf("%s: got %d ratings averaging %.4f, expected %d averaging %.4f",
				e.SpotName, e.Ratings, e.AverageScore, w.Ratings, w.AverageScore)
		}
		if i > 0 && e.AverageScore > got.Entries[i-1].AverageScore+epsilon {
			return fmt.Errorf("leaderboard not sorted at position %d", i+1)
		}
	}
	for _, w := range want.Winners {
		g, ok := got.Winner(w.Category)
		if !ok || !approxEqual(g.Average, w.Average) {
			return fmt.Errorf("%s winner: got %+v, expected average %.4f", w.Category, g, w.Average)
		}
	}
	return nil
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}
