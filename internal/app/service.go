// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/pizzarank/internal/adapters/cache"
	"github.com/okian/pizzarank/internal/adapters/catalog"
	repository "github.com/okian/pizzarank/internal/adapters/repository"
	"github.com/okian/pizzarank/internal/domain/code"
	"github.com/okian/pizzarank/internal/domain/dedupe"
	"github.com/okian/pizzarank/internal/domain/model"
	"github.com/okian/pizzarank/pkg/logger"
)

const (
	defaultMaxNotesLength   = 2000
	defaultMaxNameLength    = 64
	defaultCodeMaxAttempts  = 16
	defaultIssuedCodeMemory = 4096
)

// Service implements the API dependencies for the rating system.
// It holds no per-user state: every operation takes the caller's session.
type Service struct {
	// Core components
	store   repository.Store
	catalog catalog.Catalog
	cache   cache.Leaderboard
	codes   *code.Generator

	// Configuration
	maxNotesLength   int
	maxNameLength    int
	codeMaxAttempts  int
	issuedCodeMemory int

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the identity and rating store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCatalog sets the spot catalog.
func WithCatalog(c catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithCache sets the leaderboard cache.
func WithCache(c cache.Leaderboard) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithGenerator replaces the code generator. The caller is responsible for
// wiring its known-code checker.
func WithGenerator(g *code.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.codes = g
		}
	}
}

// WithMaxNotesLength caps rating notes, in runes.
func WithMaxNotesLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxNotesLength = n
		}
	}
}

// WithMaxNameLength caps display names, in runes.
func WithMaxNameLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxNameLength = n
		}
	}
}

// WithCodeMaxAttempts bounds retries when issuing a fresh code.
func WithCodeMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.codeMaxAttempts = n
		}
	}
}

// WithIssuedCodeMemory sets how many issued codes the process remembers.
func WithIssuedCodeMemory(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.issuedCodeMemory = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Service. Without options it runs on an in-memory store,
// an empty catalog and no cache.
func New(opts ...Option) *Service {
	s := &Service{
		maxNotesLength:   defaultMaxNotesLength,
		maxNameLength:    defaultMaxNameLength,
		codeMaxAttempts:  defaultCodeMaxAttempts,
		issuedCodeMemory: defaultIssuedCodeMemory,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.catalog == nil {
		empty, _ := catalog.NewStatic(nil)
		s.catalog = empty
	}
	if s.cache == nil {
		s.cache = cache.Noop{}
	}
	if s.codes == nil {
		s.codes = code.NewGenerator(
			code.WithKnownChecker(s.store),
			code.WithMaxAttempts(s.codeMaxAttempts),
			code.WithIssued(dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.issuedCodeMemory))),
		)
	}
	return s
}

// Ping checks the store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close releases the cache and the store.
func (s *Service) Close() error {
	s.logger.Info(context.Background(), "stopping rating service...")
	err := errors.Join(s.cache.Close(), s.store.Close())
	s.logger.Info(context.Background(), "rating service stopped")
	return err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) (map[string]any, error) {
	counts, err := s.store.Counts(ctx)
	if err != nil {
		return nil, err
	}
	spots, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	lb, err := s.GetLeaderboard(ctx)
	if err != nil {
		return nil, err
	}

	updateCountGauges(counts, len(spots))

	return map[string]any{
		"storeDriver":  s.store.Driver(),
		"cacheEnabled": s.cache.Enabled(),
		"identities":   counts.Identities,
		"ratings":      counts.Ratings,
		"spots":        len(spots),
		"rankedSpots":  len(lb.Entries),
		"codeSpace":    s.codes.Space(),
	}, nil
}

// RefreshGauges sets the identity, rating and spot gauges from store counts.
// It does not rank anything; the ranked spots gauge moves with real
// leaderboard computations.
func (s *Service) RefreshGauges(ctx context.Context) error {
	counts, err := s.store.Counts(ctx)
	if err != nil {
		return err
	}
	spots, err := s.catalog.List(ctx)
	if err != nil {
		return err
	}
	updateCountGauges(counts, len(spots))
	return nil
}

func requireSession(session model.Session) error {
	if strings.TrimSpace(session.Code) == "" {
		return fmt.Errorf("identity code is required: %w", model.ErrInvalidInput)
	}
	return nil
}
