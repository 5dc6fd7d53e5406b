// Package simulate drives a running pizzarank server through its HTTP API:
// it issues identity codes, submits random ratings concurrently and checks
// the served leaderboard against a local aggregation of what it sent.
package simulate

import (
	"time"

	"github.com/okian/pizzarank/internal/domain/model"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL        string        // Base URL of the service
	Identities     int           // Number of identity codes to issue
	RatingsPerUser int           // Spots each identity rates, capped at the catalog size
	Resubmits      int           // Extra submissions that overwrite an earlier rating
	Workers        int           // Number of concurrent workers
	Timeout        time.Duration // HTTP request timeout
	Seed           int64         // Random seed; 0 picks one from the clock
	OutputFile     string        // Optional JSON dump of the submissions
}

// Submission is one rating sent to the server.
type Submission struct {
	Code     string  `json:"code"`
	SpotName string  `json:"spot_name"`
	Crust    float64 `json:"crust"`
	Sauce    float64 `json:"sauce"`
	Cheese   float64 `json:"cheese"`
	Flavor   float64 `json:"flavor"`
	Notes    string  `json:"notes"`
}

func (s Submission) rating() model.Rating {
	return model.Rating{
		Code:     s.Code,
		SpotName: s.SpotName,
		Scores:   model.Scores{Crust: s.Crust, Sauce: s.Sauce, Cheese: s.Cheese, Flavor: s.Flavor},
		Notes:    s.Notes,
	}
}

// Stats holds run statistics.
type Stats struct {
	RunID              string
	CodesIssued        int
	RatingsSubmitted   int
	RatingsSuccessful  int
	RatingsFailed      int
	LeaderboardEntries int
	Verified           bool
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
