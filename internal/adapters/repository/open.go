package repository

import (
	"context"
	"fmt"
)

// Open builds the store selected by driver.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		if dsn == "" {
			return nil, fmt.Errorf("%s: %w", driver, ErrMissingDSN)
		}
		return NewSQLite(ctx, dsn, opts...)
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("%s: %w", driver, ErrMissingDSN)
		}
		return NewPostgres(ctx, dsn, opts...)
	default:
		return nil, fmt.Errorf("%q: %w", driver, ErrUnknownDriver)
	}
}
