package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/pizzarank/internal/domain/model"
)

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

type ratingKey struct {
	code string
	spot string
}

// MemoryStore keeps everything in process memory. Ratings live in a slice in
// first-submission order; the index points each (code, spot) at its slot so
// resubmissions overwrite in place.
type MemoryStore struct {
	mu      sync.RWMutex
	names   map[string]string
	ratings []model.Rating
	index   map[ratingKey]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		names: make(map[string]string),
		index: make(map[ratingKey]int),
	}
}

func (s *MemoryStore) Driver() string { return DriverMemory }

func (s *MemoryStore) SetDisplayName(_ context.Context, code, name string) error {
	defer observe(DriverMemory, "set_display_name", time.Now(), nil)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[code] = name
	return nil
}

func (s *MemoryStore) GetDisplayName(_ context.Context, code string) (string, bool, error) {
	defer observe(DriverMemory, "get_display_name", time.Now(), nil)
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.names[code]
	if !ok || name == "" {
		return "", false, nil
	}
	return name, true, nil
}

func (s *MemoryStore) UpsertRating(_ context.Context, r model.Rating) error {
	defer observe(DriverMemory, "upsert_rating", time.Now(), nil)
	s.mu.Lock()
	defer s.mu.Unlock()
	k := ratingKey{code: r.Code, spot: r.SpotName}
	if i, ok := s.index[k]; ok {
		s.ratings[i] = r
		return nil
	}
	s.index[k] = len(s.ratings)
	s.ratings = append(s.ratings, r)
	return nil
}

func (s *MemoryStore) GetRating(_ context.Context, code, spotName string) (*model.Rating, error) {
	defer observe(DriverMemory, "get_rating", time.Now(), nil)
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[ratingKey{code: code, spot: spotName}]
	if !ok {
		return nil, nil
	}
	r := s.ratings[i]
	return &r, nil
}

func (s *MemoryStore) ListByCode(_ context.Context, code string) ([]model.Rating, error) {
	defer observe(DriverMemory, "list_by_code", time.Now(), nil)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Rating, 0)
	for _, r := range s.ratings {
		if r.Code == code {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]model.Rating, error) {
	defer observe(DriverMemory, "list_all", time.Now(), nil)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Rating, len(s.ratings))
	copy(out, s.ratings)
	return out, nil
}

func (s *MemoryStore) IsKnown(_ context.Context, code string) (bool, error) {
	defer observe(DriverMemory, "is_known", time.Now(), nil)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.names[code]; ok {
		return true, nil
	}
	for k := range s.index {
		if k.code == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) Counts(_ context.Context) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make(map[string]struct{}, len(s.names))
	for c := range s.names {
		codes[c] = struct{}{}
	}
	for k := range s.index {
		codes[k.code] = struct{}{}
	}
	return Counts{Identities: len(codes), Ratings: len(s.ratings)}, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
