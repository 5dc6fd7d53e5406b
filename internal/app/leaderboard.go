package service

import (
	"context"
	"time"

	"github.com/okian/pizzarank/internal/adapters/repository"
	"github.com/okian/pizzarank/internal/domain/model"
	"github.com/okian/pizzarank/internal/domain/ranking"
	"github.com/okian/pizzarank/internal/domain/stats"
	"github.com/okian/pizzarank/pkg/logger"
	"github.com/okian/pizzarank/pkg/metrics"
)

// Leaderboard cache results reported to metrics.
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// GetLeaderboard ranks every rated spot. With a cache configured, a value
// computed since the last rating write is served as is.
func (s *Service) GetLeaderboard(ctx context.Context) (model.Leaderboard, error) {
	cached, version, err := s.cache.Get(ctx)
	switch {
	case err != nil:
		metrics.RecordLeaderboardCache(cacheError)
		s.logger.Warn(ctx, "leaderboard cache read failed", logger.Error(err))
	case cached != nil:
		metrics.RecordLeaderboardCache(cacheHit)
		return *cached, nil
	case s.cache.Enabled():
		metrics.RecordLeaderboardCache(cacheMiss)
	}

	start := time.Now()
	ratings, err := s.store.ListAll(ctx)
	if err != nil {
		return model.Leaderboard{}, err
	}
	lb := ranking.Build(ratings)
	metrics.RecordLeaderboardComputation(float64(time.Since(start).Nanoseconds()) / 1e6)
	metrics.UpdateRankedSpotsTotal(len(lb.Entries))

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, version, lb); err != nil {
			metrics.RecordLeaderboardCache(cacheError)
			s.logger.Warn(ctx, "leaderboard cache write failed", logger.Error(err))
		}
	}
	return lb, nil
}

// GetUserStats summarizes the caller's ratings. It returns nil when the
// caller has not rated anything. A leaderboard failure only leaves
// FavoriteRank at 0.
func (s *Service) GetUserStats(ctx context.Context, session model.Session) (*model.UserStats, error) {
	ratings, err := s.GetUserRatings(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, nil
	}
	name, _, err := s.store.GetDisplayName(ctx, session.Code)
	if err != nil {
		return nil, err
	}

	st := stats.Compute(name, ratings)
	// The rank is display only; without a leaderboard it stays 0.
	if lb, err := s.GetLeaderboard(ctx); err != nil {
		s.logger.Warn(ctx, "favorite rank unavailable", logger.Error(err))
	} else {
		st.FavoriteRank = lb.Position(st.FavoriteSpot)
	}

	metrics.RecordUserStatsComputation()
	return st, nil
}

func updateCountGauges(c repository.Counts, spots int) {
	metrics.UpdateIdentitiesTotal(c.Identities)
	metrics.UpdateRatingsTotal(c.Ratings)
	metrics.UpdateSpotsTotal(spots)
}
