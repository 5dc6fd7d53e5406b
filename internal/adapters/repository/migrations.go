package repository

import (
	"context"
	"database/sql"
	"strings"
)

// schemaTemplate creates both tables. {{id}} and {{real}} are replaced per
// dialect. Ratings are ordered by id, which an upsert never changes.
const schemaTemplate = `
CREATE TABLE IF NOT EXISTS identities (
    code TEXT PRIMARY KEY,
    display_name TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS ratings (
    id {{id}},
    code TEXT NOT NULL,
    spot_name TEXT NOT NULL,
    crust {{real}} NOT NULL,
    sauce {{real}} NOT NULL,
    cheese {{real}} NOT NULL,
    flavor {{real}} NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL,
    UNIQUE (code, spot_name)
);

CREATE INDEX IF NOT EXISTS idx_ratings_code ON ratings(code);
`

func runMigrations(ctx context.Context, db *sql.DB, d dialect) error {
	schema := strings.NewReplacer("{{id}}", d.idColumn, "{{real}}", d.realType).Replace(schemaTemplate)
	_, err := db.ExecContext(ctx, schema)
	return err
}
