package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/postroom/editorsearch/internal/model"
)

// Pool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it
// for unit testing.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Tests inject pgxmock here.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS editors (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	specialties JSONB NOT NULL DEFAULT '[]',
	networks    JSONB NOT NULL DEFAULT '[]',
	awards      JSONB NOT NULL DEFAULT '[]',
	start_year  INTEGER,
	city        TEXT,
	region      TEXT,
	country     TEXT,
	remote_ok   BOOLEAN NOT NULL DEFAULT FALSE,
	status      TEXT NOT NULL DEFAULT 'unknown',
	verified    BOOLEAN NOT NULL DEFAULT FALSE,
	provenance  JSONB NOT NULL DEFAULT '[]',
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_editors_name ON editors(name);
CREATE INDEX IF NOT EXISTS idx_editors_status ON editors(status);
CREATE INDEX IF NOT EXISTS idx_editors_updated_at ON editors(updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_editors_specialties ON editors USING GIN (specialties);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const postgresEditorColumns = `id, name, specialties, networks, awards, start_year,
	city, region, country, remote_ok, status, verified, provenance, updated_at`

// buildPostgresWhere translates a Query into a WHERE clause with numbered
// placeholders.
func buildPostgresWhere(q Query) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, st := range q.Statuses {
			statuses[i] = string(st)
		}
		clauses = append(clauses, "status = ANY("+arg(statuses)+")")
	}
	if q.MinStartYear > 0 {
		clauses = append(clauses, "start_year >= "+arg(q.MinStartYear))
	}
	if q.MaxStartYear > 0 {
		clauses = append(clauses, "start_year <= "+arg(q.MaxStartYear))
	}
	if q.City != "" {
		clauses = append(clauses, "lower(city) = lower("+arg(q.City)+")")
	}
	if q.Region != "" {
		clauses = append(clauses, "lower(region) = lower("+arg(q.Region)+")")
	}
	if q.Country != "" {
		clauses = append(clauses, "lower(country) = lower("+arg(q.Country)+")")
	}
	if q.RemoteOnly {
		clauses = append(clauses, "remote_ok")
	}
	if q.VerifiedOnly {
		clauses = append(clauses, "verified")
	}
	if q.AwardOnly {
		clauses = append(clauses, "jsonb_array_length(awards) > 0")
	}
	if len(q.Specialties) > 0 {
		clauses = append(clauses,
			"EXISTS (SELECT 1 FROM jsonb_array_elements_text(specialties) v WHERE lower(v) = ANY("+arg(lowerAll(q.Specialties))+"))")
	}
	if len(q.Networks) > 0 {
		clauses = append(clauses,
			"EXISTS (SELECT 1 FROM jsonb_array_elements_text(networks) v WHERE lower(v) = ANY("+arg(lowerAll(q.Networks))+"))")
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

func (s *PostgresStore) QueryEditors(ctx context.Context, q Query) ([]model.Editor, int, error) {
	where, args := buildPostgresWhere(q)

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM editors"+where, args...).Scan(&total); err != nil {
		return nil, 0, eris.Wrap(err, "postgres: count editors")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	args = append(args, limit)
	query := "SELECT " + postgresEditorColumns + " FROM editors" + where +
		fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, eris.Wrap(err, "postgres: query editors")
	}
	defer rows.Close()

	var editors []model.Editor
	for rows.Next() {
		e, err := scanPostgresEditor(rows)
		if err != nil {
			return nil, 0, err
		}
		editors = append(editors, *e)
	}
	return editors, total, eris.Wrap(rows.Err(), "postgres: query editors iterate")
}

func (s *PostgresStore) GetEditor(ctx context.Context, id string) (*model.Editor, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+postgresEditorColumns+" FROM editors WHERE id = $1", id)

	e, err := scanPostgresEditor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (s *PostgresStore) UpsertEditor(ctx context.Context, e *model.Editor) error {
	if e.ID == "" {
		return eris.New("postgres: upsert editor without id")
	}
	if len(e.Provenance) == 0 {
		return eris.Errorf("postgres: editor %s has empty provenance", e.ID)
	}

	specialties, err := json.Marshal(e.Specialties)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal specialties")
	}
	networks, err := json.Marshal(e.Networks)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal networks")
	}
	awards, err := json.Marshal(e.Awards)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal awards")
	}
	provenance, err := json.Marshal(e.Provenance)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal provenance")
	}

	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}

	_, err = s.pool.Exec(ctx, `
INSERT INTO editors (id, name, specialties, networks, awards, start_year,
	city, region, country, remote_ok, status, verified, provenance, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	specialties = EXCLUDED.specialties,
	networks = EXCLUDED.networks,
	awards = EXCLUDED.awards,
	start_year = EXCLUDED.start_year,
	city = EXCLUDED.city,
	region = EXCLUDED.region,
	country = EXCLUDED.country,
	remote_ok = EXCLUDED.remote_ok,
	status = EXCLUDED.status,
	verified = EXCLUDED.verified,
	provenance = EXCLUDED.provenance,
	updated_at = EXCLUDED.updated_at`,
		e.ID, e.Name, specialties, networks, awards,
		nullableInt(e.StartYear), e.Location.City, e.Location.Region, e.Location.Country,
		e.Location.RemoteOK, string(e.Status), e.Verified, provenance, e.UpdatedAt.UTC(),
	)
	return eris.Wrapf(err, "postgres: upsert editor %s", e.ID)
}

func scanPostgresEditor(row pgx.Row) (*model.Editor, error) {
	var (
		e                                         model.Editor
		specialties, networks, awards, provenance []byte
		startYear                                 *int
		city, region, country                     *string
	)

	err := row.Scan(&e.ID, &e.Name, &specialties, &networks, &awards, &startYear,
		&city, &region, &country, &e.Location.RemoteOK, &e.Status, &e.Verified,
		&provenance, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan editor")
	}

	if startYear != nil {
		e.StartYear = *startYear
	}
	if city != nil {
		e.Location.City = *city
	}
	if region != nil {
		e.Location.Region = *region
	}
	if country != nil {
		e.Location.Country = *country
	}

	if err := json.Unmarshal(specialties, &e.Specialties); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal specialties")
	}
	if err := json.Unmarshal(networks, &e.Networks); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal networks")
	}
	if err := json.Unmarshal(awards, &e.Awards); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal awards")
	}
	if err := json.Unmarshal(provenance, &e.Provenance); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal provenance")
	}

	return &e, nil
}
