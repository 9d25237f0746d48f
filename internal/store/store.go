// Package store persists editor records behind a predicate-query interface
// with interchangeable SQLite and Postgres drivers.
package store

import (
	"context"

	"github.com/postroom/editorsearch/internal/model"
)

// Query expresses the predicate constraints the storage layer supports:
// equality, range, and set membership over record fields. Free-text matching
// is deliberately absent; the query engine applies it as a residual filter.
type Query struct {
	Specialties  []string       `json:"specialties,omitempty"` // any-of, case-insensitive
	Networks     []string       `json:"networks,omitempty"`    // any-of, case-insensitive
	Statuses     []model.Status `json:"statuses,omitempty"`
	MinStartYear int            `json:"min_start_year,omitempty"`
	MaxStartYear int            `json:"max_start_year,omitempty"`
	City         string         `json:"city,omitempty"`
	Region       string         `json:"region,omitempty"`
	Country      string         `json:"country,omitempty"`
	RemoteOnly   bool           `json:"remote_only,omitempty"`
	VerifiedOnly bool           `json:"verified_only,omitempty"`
	AwardOnly    bool           `json:"award_only,omitempty"`
	Limit        int            `json:"limit,omitempty"`
}

// Store defines the persistence interface for editor records. No
// transactions are required; each upsert is a small idempotent write.
type Store interface {
	// QueryEditors returns a page of matching records ordered by most
	// recently updated, plus the total match count.
	QueryEditors(ctx context.Context, q Query) ([]model.Editor, int, error)

	// GetEditor returns the record with the given ID, or nil when absent.
	GetEditor(ctx context.Context, id string) (*model.Editor, error)

	// UpsertEditor writes a record by identifier, inserting or replacing.
	UpsertEditor(ctx context.Context, e *model.Editor) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

const defaultQueryLimit = 100
