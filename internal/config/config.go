// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - All functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/pizzarank/internal/domain/model"
)

// Store drivers understood by the repository package.
const (
	driverMemory   = "memory"
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text, json or tint.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects persistence: memory, sqlite or postgres.
	StoreDriver string `koanf:"store_driver"`

	// StoreDSN is the sqlite file path or the postgres URL.
	StoreDSN string `koanf:"store_dsn"`

	// StoreMaxOpenConns caps the SQL connection pool.
	StoreMaxOpenConns int `koanf:"store_max_open_conns"`

	// RedisURL enables the leaderboard cache when set.
	RedisURL string `koanf:"redis_url"`

	// CacheTTLSeconds bounds how long a cached leaderboard lives.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// CodeMaxAttempts bounds retries when issuing a fresh identity code.
	CodeMaxAttempts int `koanf:"code_max_attempts"`

	// IssuedCodeMemory is how many issued codes the process remembers.
	IssuedCodeMemory int `koanf:"issued_code_memory"`

	// MaxNotesLength caps rating notes, in runes.
	MaxNotesLength int `koanf:"max_notes_length"`

	// MaxNameLength caps display names, in runes.
	MaxNameLength int `koanf:"max_name_length"`

	// Spots is the ratable catalog.
	Spots []model.Spot `koanf:"spots"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8080",
		StoreDriver:       driverMemory,
		StoreMaxOpenConns: 10,
		CacheTTLSeconds:   30,
		CodeMaxAttempts:   16,
		IssuedCodeMemory:  4096,
		MaxNotesLength:    2000,
		MaxNameLength:     64,
		Spots:             defaultSpots(),
	}
}

func defaultSpots() []model.Spot {
	return []model.Spot{
		{Name: "Joe's Pizza", Address: "7 Carmine St", Description: "Thin New York slice, no frills."},
		{Name: "Lucali", Address: "575 Henry St", Description: "Candle-lit plain pies, BYOB."},
		{Name: "Di Fara", Address: "1424 Avenue J", Description: "Hand-cut basil over every pie."},
		{Name: "Prince Street", Address: "27 Prince St", Description: "Square pepperoni cups."},
		{Name: "L&B Spumoni Gardens", Address: "2725 86th St", Description: "Sauce-on-top Sicilian squares."},
	}
}

// Validate checks cross-field constraints. Errors wrap ErrInvalidConfig.
func (c *Config) Validate(_ context.Context) error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("addr must not be empty: %w", ErrInvalidConfig)
	case c.CodeMaxAttempts <= 0:
		return fmt.Errorf("code_max_attempts must be positive: %w", ErrInvalidConfig)
	case c.MaxNotesLength <= 0:
		return fmt.Errorf("max_notes_length must be positive: %w", ErrInvalidConfig)
	case c.MaxNameLength <= 0:
		return fmt.Errorf("max_name_length must be positive: %w", ErrInvalidConfig)
	case c.CacheTTLSeconds <= 0:
		return fmt.Errorf("cache_ttl_seconds must be positive: %w", ErrInvalidConfig)
	}

	switch c.StoreDriver {
	case driverMemory:
	case driverSQLite, driverPostgres:
		if c.StoreDSN == "" {
			return fmt.Errorf("store_dsn is required for %s: %w", c.StoreDriver, ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("unknown store_driver %q: %w", c.StoreDriver, ErrInvalidConfig)
	}

	if len(c.Spots) == 0 {
		return fmt.Errorf("at least one spot is required: %w", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.Spots))
	for _, s := range c.Spots {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("spot name must not be blank: %w", ErrInvalidConfig)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("duplicate spot %q: %w", s.Name, ErrInvalidConfig)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}
