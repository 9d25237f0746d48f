package search

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/postroom/editorsearch/internal/model"
	"github.com/postroom/editorsearch/internal/store"
)

// defaultMaxScan caps how many rows a free-text query pulls from storage
// for residual filtering.
const defaultMaxScan = 50000

// Engine answers filters from local storage only. Structured constraints
// are pushed down to the store as predicates; free text is applied here as
// a residual substring filter over name and specialties.
type Engine struct {
	store   store.Store
	maxScan int
	now     func() time.Time
}

// NewEngine creates an Engine over the given store. A non-positive maxScan
// falls back to the default.
func NewEngine(st store.Store, maxScan int) *Engine {
	if maxScan <= 0 {
		maxScan = defaultMaxScan
	}
	return &Engine{store: st, maxScan: maxScan, now: time.Now}
}

// Query runs the filter against local storage. A storage failure returns a
// non-nil error, never an empty result set.
func (e *Engine) Query(ctx context.Context, f model.SearchFilter) ([]model.Editor, int, error) {
	q := e.buildStoreQuery(f)

	editors, total, err := e.store.QueryEditors(ctx, q)
	if err != nil {
		return nil, 0, eris.Wrap(err, "search: local query")
	}

	if f.HasText() {
		editors = filterText(editors, f.Text)
		// Residual filtering invalidates the storage total; the caller's
		// limit applies to the filtered set, not the scanned one.
		total = len(editors)
		if f.Limit > 0 && len(editors) > f.Limit {
			editors = editors[:f.Limit]
		}
	}
	return editors, total, nil
}

// buildStoreQuery translates a filter into store predicates. Experience
// bounds become start-year bounds relative to the current year.
func (e *Engine) buildStoreQuery(f model.SearchFilter) store.Query {
	q := store.Query{
		Specialties:  f.Specialties,
		Networks:     f.Networks,
		Statuses:     f.Statuses,
		City:         f.City,
		Region:       f.Region,
		Country:      f.Country,
		RemoteOnly:   f.RemoteOnly,
		VerifiedOnly: f.VerifiedOnly,
		AwardOnly:    f.AwardOnly,
		Limit:        f.Limit,
	}
	year := e.now().Year()
	if f.MinYears > 0 {
		q.MaxStartYear = year - f.MinYears
	}
	if f.MaxYears > 0 {
		q.MinStartYear = year - f.MaxYears
	}
	if f.HasText() {
		// The residual filter must see the full candidate set, not one
		// storage page of it.
		q.Limit = e.maxScan
	}
	return q
}

// filterText keeps records whose name or specialties contain the text,
// case-insensitively.
func filterText(editors []model.Editor, text string) []model.Editor {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return editors
	}
	out := editors[:0:0]
	for _, e := range editors {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			out = append(out, e)
			continue
		}
		for _, s := range e.Specialties {
			if strings.Contains(strings.ToLower(s), needle) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// BuildFacets computes aggregate counts over a returned result set. Facets
// describe what was returned, not the whole corpus.
func BuildFacets(editors []model.Editor, now time.Time) model.Facets {
	facets := model.Facets{
		Specialties: make(map[string]int),
		Networks:    make(map[string]int),
		Locations:   make(map[string]int),
		Experience:  make(map[string]int),
	}
	for i := range editors {
		e := &editors[i]
		for _, s := range e.Specialties {
			facets.Specialties[strings.ToLower(s)]++
		}
		for _, n := range e.Networks {
			facets.Networks[strings.ToLower(n)]++
		}
		if loc := locationKey(e.Location); loc != "" {
			facets.Locations[loc]++
		}
		facets.Experience[experienceBucket(e.YearsActive(now))]++
	}
	return facets
}

func locationKey(l model.Location) string {
	parts := make([]string, 0, 2)
	if l.City != "" {
		parts = append(parts, strings.ToLower(l.City))
	}
	if l.Country != "" {
		parts = append(parts, strings.ToLower(l.Country))
	}
	return strings.Join(parts, ", ")
}

func experienceBucket(years int) string {
	switch {
	case years >= 20:
		return "20+"
	case years >= 10:
		return "10-19"
	case years >= 5:
		return "5-9"
	default:
		return "0-4"
	}
}
