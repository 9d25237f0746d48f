package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/postroom/editorsearch/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS editors (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	specialties TEXT NOT NULL DEFAULT '[]',
	networks    TEXT NOT NULL DEFAULT '[]',
	awards      TEXT NOT NULL DEFAULT '[]',
	start_year  INTEGER,
	city        TEXT,
	region      TEXT,
	country     TEXT,
	remote_ok   INTEGER NOT NULL DEFAULT 0,
	status      TEXT NOT NULL DEFAULT 'unknown',
	verified    INTEGER NOT NULL DEFAULT 0,
	provenance  TEXT NOT NULL DEFAULT '[]',
	updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_editors_name ON editors(name);
CREATE INDEX IF NOT EXISTS idx_editors_status ON editors(status);
CREATE INDEX IF NOT EXISTS idx_editors_updated_at ON editors(updated_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteEditorColumns = `id, name, specialties, networks, awards, start_year,
	city, region, country, remote_ok, status, verified, provenance, updated_at`

// buildSQLiteWhere translates a Query into a WHERE clause and args.
func buildSQLiteWhere(q Query) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if len(q.Statuses) > 0 {
		ph := make([]string, len(q.Statuses))
		for i, st := range q.Statuses {
			ph[i] = "?"
			args = append(args, string(st))
		}
		clauses = append(clauses, "status IN ("+strings.Join(ph, ", ")+")")
	}
	if q.MinStartYear > 0 {
		clauses = append(clauses, "start_year >= ?")
		args = append(args, q.MinStartYear)
	}
	if q.MaxStartYear > 0 {
		clauses = append(clauses, "start_year <= ?")
		args = append(args, q.MaxStartYear)
	}
	if q.City != "" {
		clauses = append(clauses, "lower(city) = lower(?)")
		args = append(args, q.City)
	}
	if q.Region != "" {
		clauses = append(clauses, "lower(region) = lower(?)")
		args = append(args, q.Region)
	}
	if q.Country != "" {
		clauses = append(clauses, "lower(country) = lower(?)")
		args = append(args, q.Country)
	}
	if q.RemoteOnly {
		clauses = append(clauses, "remote_ok = 1")
	}
	if q.VerifiedOnly {
		clauses = append(clauses, "verified = 1")
	}
	if q.AwardOnly {
		clauses = append(clauses, "json_array_length(awards) > 0")
	}
	if len(q.Specialties) > 0 {
		clauses = append(clauses, jsonAnyOfSQLite("specialties", q.Specialties, &args))
	}
	if len(q.Networks) > 0 {
		clauses = append(clauses, jsonAnyOfSQLite("networks", q.Networks, &args))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// jsonAnyOfSQLite builds a set-membership predicate over a JSON array column.
func jsonAnyOfSQLite(column string, values []string, args *[]any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = "EXISTS (SELECT 1 FROM json_each(editors." + column + ") WHERE lower(json_each.value) = lower(?))"
		*args = append(*args, v)
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func (s *SQLiteStore) QueryEditors(ctx context.Context, q Query) ([]model.Editor, int, error) {
	where, args := buildSQLiteWhere(q)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM editors"+where, args...).Scan(&total); err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: count editors")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	query := "SELECT " + sqliteEditorColumns + " FROM editors" + where +
		" ORDER BY updated_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: query editors")
	}
	defer rows.Close()

	var editors []model.Editor
	for rows.Next() {
		e, err := scanSQLiteEditor(rows)
		if err != nil {
			return nil, 0, err
		}
		editors = append(editors, *e)
	}
	return editors, total, eris.Wrap(rows.Err(), "sqlite: query editors iterate")
}

func (s *SQLiteStore) GetEditor(ctx context.Context, id string) (*model.Editor, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+sqliteEditorColumns+" FROM editors WHERE id = ?", id)

	e, err := scanSQLiteEditor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (s *SQLiteStore) UpsertEditor(ctx context.Context, e *model.Editor) error {
	if e.ID == "" {
		return eris.New("sqlite: upsert editor without id")
	}
	if len(e.Provenance) == 0 {
		return eris.Errorf("sqlite: editor %s has empty provenance", e.ID)
	}

	specialties, err := json.Marshal(e.Specialties)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal specialties")
	}
	networks, err := json.Marshal(e.Networks)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal networks")
	}
	awards, err := json.Marshal(e.Awards)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal awards")
	}
	provenance, err := json.Marshal(e.Provenance)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal provenance")
	}

	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO editors (id, name, specialties, networks, awards, start_year,
	city, region, country, remote_ok, status, verified, provenance, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name = excluded.name,
	specialties = excluded.specialties,
	networks = excluded.networks,
	awards = excluded.awards,
	start_year = excluded.start_year,
	city = excluded.city,
	region = excluded.region,
	country = excluded.country,
	remote_ok = excluded.remote_ok,
	status = excluded.status,
	verified = excluded.verified,
	provenance = excluded.provenance,
	updated_at = excluded.updated_at`,
		e.ID, e.Name, string(specialties), string(networks), string(awards),
		nullableInt(e.StartYear), e.Location.City, e.Location.Region, e.Location.Country,
		boolToInt(e.Location.RemoteOK), string(e.Status), boolToInt(e.Verified),
		string(provenance), e.UpdatedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: upsert editor %s", e.ID)
}

// helpers

func nullableInt(v int) any {
	if v <= 0 {
		return nil
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSQLiteEditor(row scannable) (*model.Editor, error) {
	var (
		e                                         model.Editor
		specialties, networks, awards, provenance string
		startYear                                 sql.NullInt64
		city, region, country                     sql.NullString
		remoteOK, verified                        int
	)

	err := row.Scan(&e.ID, &e.Name, &specialties, &networks, &awards, &startYear,
		&city, &region, &country, &remoteOK, &e.Status, &verified, &provenance, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan editor")
	}

	if startYear.Valid {
		e.StartYear = int(startYear.Int64)
	}
	e.Location = model.Location{
		City:     city.String,
		Region:   region.String,
		Country:  country.String,
		RemoteOK: remoteOK == 1,
	}
	e.Verified = verified == 1

	if err := json.Unmarshal([]byte(specialties), &e.Specialties); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal specialties")
	}
	if err := json.Unmarshal([]byte(networks), &e.Networks); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal networks")
	}
	if err := json.Unmarshal([]byte(awards), &e.Awards); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal awards")
	}
	if err := json.Unmarshal([]byte(provenance), &e.Provenance); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal provenance")
	}

	return &e, nil
}
