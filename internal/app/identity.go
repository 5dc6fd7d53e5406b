package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/okian/pizzarank/internal/domain/code"
	"github.com/okian/pizzarank/internal/domain/model"
	"github.com/okian/pizzarank/pkg/logger"
	"github.com/okian/pizzarank/pkg/metrics"
)

// Code validation outcomes reported to metrics.
const (
	outcomeValid   = "valid"
	outcomeUnknown = "unknown"
	outcomeInvalid = "invalid"
	outcomeNoOp    = "noop"
	outcomeError   = "error"
)

// IssueCode hands out a code that has no records yet.
func (s *Service) IssueCode(ctx context.Context) (model.Session, error) {
	c, attempts, err := s.codes.Issue(ctx)
	if err != nil {
		if errors.Is(err, model.ErrCodeSpaceExhausted) {
			s.logger.Warn(ctx, "code space exhausted", logger.Int("attempts", attempts))
		}
		return model.Session{}, err
	}
	metrics.RecordCodeIssued(attempts)
	s.logger.Debug(ctx, "issued identity code", logger.Int("attempts", attempts))
	return model.Session{Code: c}, nil
}

// ValidateCode reports whether candidate has any records. It never reveals
// what those records are.
func (s *Service) ValidateCode(ctx context.Context, session model.Session, candidate string) (bool, error) {
	valid, err := code.Validate(ctx, session, candidate, s.store)
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		metrics.RecordCodeValidation(outcomeInvalid)
	case errors.Is(err, model.ErrNoOpCode):
		metrics.RecordCodeValidation(outcomeNoOp)
	case err != nil:
		metrics.RecordCodeValidation(outcomeError)
	case valid:
		metrics.RecordCodeValidation(outcomeValid)
	default:
		metrics.RecordCodeValidation(outcomeUnknown)
	}
	return valid, err
}

// SetDisplayName upserts the caller's display name, creating the identity
// when it does not exist yet.
func (s *Service) SetDisplayName(ctx context.Context, session model.Session, name string) error {
	if err := requireSession(session); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("display name must not be blank: %w", model.ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > s.maxNameLength {
		return fmt.Errorf("display name longer than %d characters: %w", s.maxNameLength, model.ErrInvalidInput)
	}
	if err := s.store.SetDisplayName(ctx, session.Code, name); err != nil {
		return err
	}
	metrics.RecordDisplayNameSet()
	return nil
}

// GetDisplayName returns the caller's name, or ok=false when none is set.
func (s *Service) GetDisplayName(ctx context.Context, session model.Session) (string, bool, error) {
	if err := requireSession(session); err != nil {
		return "", false, err
	}
	return s.store.GetDisplayName(ctx, session.Code)
}
