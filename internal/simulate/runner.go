package simulate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/pizzarank/internal/domain/model"
	"github.com/okian/pizzarank/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// ErrNoSpots is returned when the server's catalog is empty.
var ErrNoSpots = errors.New("server has no spots to rate")

// Run executes a complete simulation against cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{RunID: uuid.NewString(), StartTime: time.Now()}
	log := logger.Named("simulate")
	c := newClient(cfg.BaseURL, cfg.Timeout)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // simulated scores

	log.Info(ctx, "starting simulation",
		logger.String("runID", stats.RunID),
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("identities", cfg.Identities),
		logger.Int("workers", cfg.Workers),
		logger.Int64("seed", seed),
	)

	// Step 1: Check service health
	if err := c.do(ctx, http.MethodGet, "/healthz", "", nil, nil, http.StatusOK); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Read the catalog and the baseline counts
	var listing model.SpotListing
	if err := c.do(ctx, http.MethodGet, "/spots", "", nil, &listing, http.StatusOK); err != nil {
		return stats, fmt.Errorf("list spots: %w", err)
	}
	if len(listing.Spots) == 0 {
		return stats, ErrNoSpots
	}
	spots := make([]string, len(listing.Spots))
	for i, s := range listing.Spots {
		spots[i] = s.Name
	}
	var baseline map[string]any
	if err := c.do(ctx, http.MethodGet, "/stats", "", nil, &baseline, http.StatusOK); err != nil {
		return stats, fmt.Errorf("read stats: %w", err)
	}

	// Step 3: Issue identity codes
	codes, err := issueCodes(ctx, c, cfg)
	if err != nil {
		return stats, fmt.Errorf("issue codes: %w", err)
	}
	stats.CodesIssued = len(codes)

	// Step 4: Generate and submit ratings concurrently
	subs := generateSubmissions(rng, stats.RunID, codes, spots, cfg.RatingsPerUser, cfg.Resubmits)
	submitAll(ctx, c, cfg, subs, stats, log)

	// Step 5: Verify
	var lb model.Leaderboard
	if err := c.do(ctx, http.MethodGet, "/leaderboard", "", nil, &lb, http.StatusOK); err != nil {
		return stats, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	stats.LeaderboardEntries = len(lb.Entries)

	if stats.RatingsFailed > 0 {
		return stats, fmt.Errorf("%d of %d submissions failed", stats.RatingsFailed, stats.RatingsSubmitted)
	}
	if err := verifyUsers(ctx, c, latest(subs)); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}
	if ratings, _ := baseline["ratings"].(float64); ratings == 0 {
		if err := verifyLeaderboard(lb, latest(subs)); err != nil {
			return stats, fmt.Errorf("result verification failed: %w", err)
		}
		stats.Verified = true
	} else {
		log.Warn(ctx, "server already had ratings; skipping full leaderboard comparison",
			logger.Float64("ratings", ratings))
	}

	// Step 6: Save submissions
	if cfg.OutputFile != "" {
		if err := saveSubmissions(cfg.OutputFile, subs); err != nil {
			log.Warn(ctx, "failed to save submissions", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "simulation completed",
		logger.Int("codesIssued", stats.CodesIssued),
		logger.Int("ratingsSubmitted", stats.RatingsSubmitted),
		logger.Int("ratingsFailed", stats.RatingsFailed),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.Bool("verified", stats.Verified),
		logger.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// issueCodes asks the server for cfg.Identities fresh codes.
func issueCodes(ctx context.Context, c *client, cfg *Config) ([]string, error) {
	codes := make([]string, 0, cfg.Identities)
	for i := 0; i < cfg.Identities; i++ {
		var resp struct {
			Code string `json:"code"`
		}
		if err := c.do(ctx, http.MethodPost, "/codes", "", nil, &resp, http.StatusCreated); err != nil {
			return codes, err
		}
		codes = append(codes, resp.Code)
	}
	return codes, nil
}

// submitAll posts submissions with a worker pool. Submissions for the same
// code are sent by the same worker, in order, so overwrites land last.
func submitAll(ctx context.Context, c *client, cfg *Config, subs []Submission, stats *Stats, log logger.Logger) {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	queues := make([]chan Submission, workers)
	for i := range queues {
		queues[i] = make(chan Submission, workers*2)
	}
	owner := make(map[string]int)

	var ok, failed int64
	var wg sync.WaitGroup
	for i := range queues {
		wg.Add(1)
		go func(in <-chan Submission) {
			defer wg.Done()
			for s := range in {
				body := map[string]any{
					"spot_name": s.SpotName,
					"crust":     s.Crust,
					"sauce":     s.Sauce,
					"cheese":    s.Cheese,
					"flavor":    s.Flavor,
					"notes":     s.Notes,
				}
				if err := c.do(ctx, http.MethodPost, "/ratings", s.Code, body, nil, http.StatusOK); err != nil {
					atomic.AddInt64(&failed, 1)
					log.Debug(ctx, "submission failed", logger.String("spot", s.SpotName), logger.Error(err))
					continue
				}
				atomic.AddInt64(&ok, 1)
			}
		}(queues[i])
	}

	for _, s := range subs {
		w, seen := owner[s.Code]
		if !seen {
			w = len(owner) % workers
			owner[s.Code] = w
		}
		select {
		case <-ctx.Done():
		case queues[w] <- s:
		}
	}
	for _, q := range queues {
		close(q)
	}
	wg.Wait()

	stats.RatingsSubmitted = len(subs)
	stats.RatingsSuccessful = int(ok)
	stats.RatingsFailed = int(failed)
}

func saveSubmissions(filename string, subs []Submission) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, filePermission)
}
