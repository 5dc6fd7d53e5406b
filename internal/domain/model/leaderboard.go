package model

// LeaderboardEntry is the derived aggregate for one spot.
type LeaderboardEntry struct {
	Rank          int     `json:"rank"`
	SpotName      string  `json:"spot_name"`
	Ratings       int     `json:"ratings"`
	AverageScore  float64 `json:"average_score"`
	AverageCrust  float64 `json:"average_crust"`
	AverageSauce  float64 `json:"average_sauce"`
	AverageCheese float64 `json:"average_cheese"`
	AverageFlavor float64 `json:"average_overall_flavor"`
}

// CategoryWinner names the spot holding the best average in one category.
type CategoryWinner struct {
	Category string  `json:"category"`
	SpotName string  `json:"spot_name"`
	Average  float64 `json:"average"`
}

// Leaderboard is the ranked list of spots plus per-category winners.
// Winners is empty when Entries is empty.
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
	Winners []CategoryWinner   `json:"winners,omitempty"`
}

// Winner returns the winner for category, if one exists.
func (l Leaderboard) Winner(category string) (CategoryWinner, bool) {
	for _, w := range l.Winners {
		if w.Category == category {
			return w, true
		}
	}
	return CategoryWinner{}, false
}

// Position returns the 1-based rank of spotName, or 0 if it is not ranked.
func (l Leaderboard) Position(spotName string) int {
	for i, e := range l.Entries {
		if e.SpotName == spotName {
			return i + 1
		}
	}
	return 0
}

// UserStats is the derived personal summary for one identity.
type UserStats struct {
	DisplayName     string  `json:"display_name"`
	TotalSpotsRated int     `json:"total_spots_rated"`
	AverageCrust    float64 `json:"average_crust"`
	AverageSauce    float64 `json:"average_sauce"`
	AverageCheese   float64 `json:"average_cheese"`
	AverageFlavor   float64 `json:"average_overall_flavor"`
	FavoriteSpot    string  `json:"favorite_spot"`
	FavoriteRank    int     `json:"favorite_rank"`
	TitleCategory   string  `json:"title_category"`
	Title           string  `json:"title"`
	Headline        string  `json:"headline"`
}

// SpotStatus is a catalog spot annotated with the caller's completion state.
type SpotStatus struct {
	Spot
	Completed bool `json:"completed"`
}

// SpotListing is the ListSpots result: the catalog plus the caller's ratings.
type SpotListing struct {
	Spots     []SpotStatus `json:"spots"`
	Responses []Rating     `json:"responses"`
}
