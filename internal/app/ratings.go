package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/okian/pizzarank/internal/domain/model"
	"github.com/okian/pizzarank/internal/domain/scoring"
	"github.com/okian/pizzarank/pkg/logger"
	"github.com/okian/pizzarank/pkg/metrics"
)

// Rejection reasons reported to metrics.
const (
	rejectInvalidInput = "invalid_input"
	rejectUnknownSpot  = "unknown_spot"
	rejectOutOfRange   = "out_of_range"
	rejectNotesLength  = "notes_too_long"
)

// SubmitRating validates and stores the caller's rating for spotName,
// replacing any earlier rating for the same spot. Nothing is written when
// validation fails.
func (s *Service) SubmitRating(ctx context.Context, session model.Session, spotName string, scores model.Scores, notes string) error {
	if err := requireSession(session); err != nil {
		metrics.RecordRatingRejected(rejectInvalidInput)
		return err
	}
	if strings.TrimSpace(spotName) == "" {
		metrics.RecordRatingRejected(rejectInvalidInput)
		return fmt.Errorf("spot name is required: %w", model.ErrInvalidInput)
	}
	if err := scoring.Validate(scores); err != nil {
		metrics.RecordRatingRejected(rejectOutOfRange)
		return err
	}
	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) > s.maxNotesLength {
		metrics.RecordRatingRejected(rejectNotesLength)
		return fmt.Errorf("notes longer than %d characters: %w", s.maxNotesLength, model.ErrInvalidInput)
	}
	if _, ok, err := s.catalog.Get(ctx, spotName); err != nil {
		return err
	} else if !ok {
		metrics.RecordRatingRejected(rejectUnknownSpot)
		return fmt.Errorf("%q: %w", spotName, model.ErrUnknownSpot)
	}

	rating := model.Rating{
		Code:     session.Code,
		SpotName: spotName,
		Scores:   scoring.Normalize(scores),
		Notes:    notes,
	}
	if err := s.store.UpsertRating(ctx, rating); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		metrics.RecordLeaderboardCache(cacheError)
		s.logger.Warn(ctx, "failed to invalidate leaderboard cache", logger.Error(err))
	}

	metrics.RecordRatingSubmitted()
	s.logger.Debug(ctx, "rating stored",
		logger.String("spot", spotName),
		logger.Float64("sum", rating.Sum()),
	)
	return nil
}

// GetRating returns the caller's rating for spotName, or nil when absent.
func (s *Service) GetRating(ctx context.Context, session model.Session, spotName string) (*model.Rating, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	if strings.TrimSpace(spotName) == "" {
		return nil, fmt.Errorf("spot name is required: %w", model.ErrInvalidInput)
	}
	return s.store.GetRating(ctx, session.Code, spotName)
}

// GetUserRatings returns the caller's ratings in submission order.
func (s *Service) GetUserRatings(ctx context.Context, session model.Session) ([]model.Rating, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	ratings, err := s.store.ListByCode(ctx, session.Code)
	if err != nil {
		return nil, err
	}
	if ratings == nil {
		ratings = []model.Rating{}
	}
	return ratings, nil
}

// ListSpots returns the catalog with the caller's completion state and the
// caller's ratings. An empty session lists the catalog with nothing completed.
func (s *Service) ListSpots(ctx context.Context, session model.Session) (model.SpotListing, error) {
	spots, err := s.catalog.List(ctx)
	if err != nil {
		return model.SpotListing{}, err
	}

	responses := []model.Rating{}
	if !session.Empty() {
		responses, err = s.GetUserRatings(ctx, session)
		if err != nil {
			return model.SpotListing{}, err
		}
	}

	done := make(map[string]struct{}, len(responses))
	for _, r := range responses {
		done[r.SpotName] = struct{}{}
	}
	listing := model.SpotListing{
		Spots:     make([]model.SpotStatus, 0, len(spots)),
		Responses: responses,
	}
	for _, sp := range spots {
		_, completed := done[sp.Name]
		listing.Spots = append(listing.Spots, model.SpotStatus{Spot: sp, Completed: completed})
	}
	return listing, nil
}
