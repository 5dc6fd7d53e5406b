// Package repository holds the Identity Store and Rating Store contracts and
// their memory, SQLite and PostgreSQL implementations.
package repository

import (
	"context"

	"github.com/okian/pizzarank/internal/domain/model"
)

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// IdentityStore maps identity codes to display names.
type IdentityStore interface {
	// SetDisplayName upserts the name for code, creating the identity if absent.
	SetDisplayName(ctx context.Context, code, name string) error
	// GetDisplayName returns the stored name and whether one exists.
	GetDisplayName(ctx context.Context, code string) (string, bool, error)
}

// RatingStore keeps at most one rating per (code, spot).
type RatingStore interface {
	// UpsertRating atomically replaces the row for (r.Code, r.SpotName).
	// A replaced rating keeps its original position in list order.
	UpsertRating(ctx context.Context, r model.Rating) error
	// GetRating returns nil, nil when no rating exists.
	GetRating(ctx context.Context, code, spotName string) (*model.Rating, error)
	// ListByCode returns one identity's ratings in first-submission order.
	ListByCode(ctx context.Context, code string) ([]model.Rating, error)
	// ListAll returns every rating in first-submission order.
	ListAll(ctx context.Context) ([]model.Rating, error)
}

// Counts summarizes store contents.
type Counts struct {
	Identities int `json:"identities"`
	Ratings    int `json:"ratings"`
}

// Store is the full persistence surface used by the service.
// Every failure from the underlying driver wraps model.ErrStoreUnavailable.
type Store interface {
	IdentityStore
	RatingStore

	// IsKnown reports whether code has an identity or at least one rating.
	IsKnown(ctx context.Context, code string) (bool, error)
	Counts(ctx context.Context) (Counts, error)
	Ping(ctx context.Context) error
	Close() error
	Driver() string
}
