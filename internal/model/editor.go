// Package model defines the core domain types shared across the search,
// discovery, and resolution packages.
package model

import "time"

// Status is the availability status of an editor record.
type Status string

// Editor availability statuses.
const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusUnknown     Status = "unknown"
)

// Location describes where an editor is based.
type Location struct {
	City     string `json:"city,omitempty"`
	Region   string `json:"region,omitempty"`
	Country  string `json:"country,omitempty"`
	RemoteOK bool   `json:"remote_ok,omitempty"`
}

// ProvenanceEntry records one origin that contributed data to a record.
type ProvenanceEntry struct {
	OriginID      string    `json:"origin_id"`
	ContributedAt time.Time `json:"contributed_at"`
}

// Editor is a resolved, persisted professional record.
//
// ID is immutable once assigned. Provenance must be non-empty for any
// persisted record. UpdatedAt increases monotonically on every mutation.
type Editor struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Specialties []string          `json:"specialties,omitempty"`
	Networks    []string          `json:"networks,omitempty"`
	Awards      []string          `json:"awards,omitempty"`
	StartYear   int               `json:"start_year,omitempty"`
	Location    Location          `json:"location"`
	Status      Status            `json:"status"`
	Provenance  []ProvenanceEntry `json:"provenance"`
	Verified    bool              `json:"verified"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// YearsActive returns the editor's experience in years relative to now,
// or 0 when no start year is known.
func (e *Editor) YearsActive(now time.Time) int {
	if e.StartYear <= 0 {
		return 0
	}
	years := now.Year() - e.StartYear
	if years < 0 {
		return 0
	}
	return years
}

// HasOrigin reports whether the given origin already appears in provenance.
func (e *Editor) HasOrigin(originID string) bool {
	for _, p := range e.Provenance {
		if p.OriginID == originID {
			return true
		}
	}
	return false
}

// AddOrigin appends an origin to provenance if absent. Returns true if the
// provenance set changed.
func (e *Editor) AddOrigin(originID string, at time.Time) bool {
	if e.HasOrigin(originID) {
		return false
	}
	e.Provenance = append(e.Provenance, ProvenanceEntry{OriginID: originID, ContributedAt: at})
	return true
}

// AddSpecialties unions the given tags into the editor's specialty set.
// Returns the number of tags actually added.
func (e *Editor) AddSpecialties(tags []string) int {
	existing := make(map[string]bool, len(e.Specialties))
	for _, s := range e.Specialties {
		existing[s] = true
	}
	added := 0
	for _, t := range tags {
		if t == "" || existing[t] {
			continue
		}
		e.Specialties = append(e.Specialties, t)
		existing[t] = true
		added++
	}
	return added
}

// DistinctOrigins returns the number of distinct origins in provenance.
func (e *Editor) DistinctOrigins() int {
	seen := make(map[string]bool, len(e.Provenance))
	for _, p := range e.Provenance {
		seen[p.OriginID] = true
	}
	return len(seen)
}
