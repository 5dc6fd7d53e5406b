package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var postgresDialect = dialect{ //nolint:gochecknoglobals // immutable dialect description
	name:       DriverPostgres,
	idColumn:   "BIGSERIAL PRIMARY KEY",
	realType:   "DOUBLE PRECISION",
	numberedPH: true,
}

// NewPostgres connects to dsn (a postgres:// URL) and runs migrations.
func NewPostgres(ctx context.Context, dsn string, opts ...Option) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newSQLStore(ctx, db, postgresDialect, newOptions(opts))
}
