package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

var sqliteDialect = dialect{ //nolint:gochecknoglobals // immutable dialect description
	name:     DriverSQLite,
	idColumn: "INTEGER PRIMARY KEY AUTOINCREMENT",
	realType: "REAL",
}

// NewSQLite opens (creating if needed) the database at dbPath and runs
// migrations. ":memory:" keeps the database in process for the lifetime of
// the store.
func NewSQLite(ctx context.Context, dbPath string, opts ...Option) (*SQLStore, error) {
	memory := isMemoryDSN(dbPath)
	if !memory {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer, and ":memory:" is private to a connection.
	o := newOptions(opts)
	o.maxOpenConns = 1
	if memory {
		// The database dies with its connection, so the connection is never recycled.
		o.connMaxLifetime = 0
		o.connMaxIdleTime = 0
	}
	return newSQLStore(ctx, db, sqliteDialect, o)
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
