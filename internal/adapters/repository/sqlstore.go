package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/okian/pizzarank/internal/domain/model"
)

// dialect captures the few differences between SQLite and PostgreSQL.
type dialect struct {
	name       string
	idColumn   string
	realType   string
	numberedPH bool // $1, $2 instead of ?
}

// SQLStore implements Store on database/sql. Queries are written with '?'
// placeholders and rebound for the active dialect.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// Ensure SQLStore implements Store.
var _ Store = (*SQLStore)(nil)

func newSQLStore(ctx context.Context, db *sql.DB, d dialect, o options) (*SQLStore, error) {
	db.SetMaxOpenConns(o.maxOpenConns)
	db.SetMaxIdleConns(o.maxOpenConns)
	db.SetConnMaxLifetime(o.connMaxLifetime)
	db.SetConnMaxIdleTime(o.connMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, unavailable(d.name+".ping", err)
	}
	if err := runMigrations(ctx, db, d); err != nil {
		_ = db.Close()
		return nil, unavailable(d.name+".migrate", err)
	}
	return &SQLStore{db: db, dialect: d}, nil
}

func (s *SQLStore) Driver() string { return s.dialect.name }

// rebind converts '?' placeholders to '$n' for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if !s.dialect.numberedPH {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) SetDisplayName(ctx context.Context, code, name string) (err error) {
	const op = "set_display_name"
	defer func(start time.Time) { observe(s.dialect.name, op, start, err) }(time.Now())

	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO identities (code, display_name, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (code) DO UPDATE SET display_name = excluded.display_name, updated_at = excluded.updated_at`),
		code, name, now, now,
	)
	return unavailable(op, err)
}

func (s *SQLStore) GetDisplayName(ctx context.Context, code string) (name string, ok bool, err error) {
	const op = "get_display_name"
	defer func(start time.Time) { observe(s.dialect.name, op, start, err) }(time.Now())

	err = s.db.QueryRowContext(ctx, s.rebind(`SELECT display_name FROM identities WHERE code = ?`), code).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable(op, err)
	}
	if name == "" {
		return "", false, nil
	}
	return name, true, nil
}

func (s *SQLStore) UpsertRating(ctx context.Context, r model.Rating) (err error) {
	const op = "upsert_rating"
	defer func(start time.Time) { observe(s.dialect.name, op, start, err) }(time.Now())

	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO ratings (code, spot_name, crust, sauce, cheese, flavor, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (code, spot_name) DO UPDATE SET
			crust = excluded.crust,
			sauce = excluded.sauce,
			cheese = excluded.cheese,
			flavor = excluded.flavor,
			notes = excluded.notes,
			updated_at = excluded.updated_at`),
		r.Code, r.SpotName, r.Crust, r.Sauce, r.Cheese, r.Flavor, r.Notes, now, now,
	)
	return unavailable(op, err)
}

const ratingColumns = `code, spot_name, crust, sauce, cheese, flavor, notes`

func (s *SQLStore) GetRating(ctx context.Context, code, spotName string) (_ *model.Rating, err error) {
	const op = "get_rating"
	defer func(start time.Time) { observe(s.dialect.name, op, start, err) }(time.Now())

	var r model.Rating
	err = s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+ratingColumns+` FROM ratings WHERE code = ? AND spot_name = ?`),
		code, spotName,
	).Scan(&r.Code, &r.SpotName, &r.Crust, &r.Sauce, &r.Cheese, &r.Flavor, &r.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable(op, err)
	}
	return &r, nil
}

func (s *SQLStore) ListByCode(ctx context.Context, code string) (_ []model.Rating, err error) {
	const op = "list_by_code"
	defer func(start time.Time) { observe(s.dialect.name, op, start, err) }(time.Now())

	out, err := s.queryRatings(ctx, `SELECT `+ratingColumns+` FROM ratings WHERE code = ? ORDER BY id`, code)
	return out, unavailable(op, err)
}

func (s *SQLStore) ListAll(ctx context.Context) (_ []model.Rating, err error) {
	const op = "list_all"
	defer func(start time.Time) { observe(s.dialect.name, op, start, err) }(time.Now())

	out, err := s.queryRatings(ctx, `SELECT `+ratingColumns+` FROM ratings ORDER BY id`)
	return out, unavailable(op, err)
}

func (s *SQLStore) queryRatings(ctx context.Context, query string, args ...any) ([]model.Rating, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Rating, 0)
	for rows.Next() {
		var r model.Rating
		if err := rows.Scan(&r.Code, &r.SpotName, &r.Crust, &r.Sauce, &r.Cheese, &r.Flavor, &r.Notes); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) IsKnown(ctx context.Context, code string) (_ bool, err error) {
	const op = "is_known"
	defer func(start time.Time) { observe(s.dialect.name, op, start, err) }(time.Now())

	var n int
	err = s.db.QueryRowContext(ctx, s.rebind(`
		SELECT (SELECT COUNT(*) FROM identities WHERE code = ?) + (SELECT COUNT(*) FROM ratings WHERE code = ?)`),
		code, code,
	).Scan(&n)
	if err != nil {
		return false, unavailable(op, err)
	}
	return n > 0, nil
}

func (s *SQLStore) Counts(ctx context.Context) (c Counts, err error) {
	const op = "counts"
	defer func(start time.Time) { observe(s.dialect.name, op, start, err) }(time.Now())

	err = s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM (SELECT code FROM identities UNION SELECT code FROM ratings) AS codes),
			(SELECT COUNT(*) FROM ratings)`,
	).Scan(&c.Identities, &c.Ratings)
	if err != nil {
		return Counts{}, unavailable(op, err)
	}
	return c, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return unavailable("ping", s.db.PingContext(ctx))
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
