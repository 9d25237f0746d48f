package search

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/postroom/editorsearch/internal/model"
	"github.com/postroom/editorsearch/internal/registry"
	"github.com/postroom/editorsearch/internal/store"
	"github.com/postroom/editorsearch/pkg/jina"
)

// fakeStore is an in-memory Store with predicate filtering close enough to
// the real drivers for engine and hybrid tests.
type fakeStore struct {
	mu       sync.Mutex
	editors  map[string]model.Editor
	queryErr error
	upserts  int
}

func newFakeStore(seed ...model.Editor) *fakeStore {
	st := &fakeStore{editors: make(map[string]model.Editor)}
	for _, e := range seed {
		st.editors[e.ID] = e
	}
	return st
}

func (s *fakeStore) QueryEditors(ctx context.Context, q store.Query) ([]model.Editor, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queryErr != nil {
		return nil, 0, s.queryErr
	}
	var out []model.Editor
	for _, e := range s.editors {
		if matches(e, q) {
			out = append(out, e)
		}
	}
	// Page like the real drivers: newest first, default limit when unset.
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	total := len(out)
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func matches(e model.Editor, q store.Query) bool {
	if len(q.Specialties) > 0 && !anyOf(e.Specialties, q.Specialties) {
		return false
	}
	if len(q.Networks) > 0 && !anyOf(e.Networks, q.Networks) {
		return false
	}
	if len(q.Statuses) > 0 {
		found := false
		for _, st := range q.Statuses {
			if e.Status == st {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if q.MinStartYear > 0 && (e.StartYear == 0 || e.StartYear < q.MinStartYear) {
		return false
	}
	if q.MaxStartYear > 0 && (e.StartYear == 0 || e.StartYear > q.MaxStartYear) {
		return false
	}
	if q.VerifiedOnly && !e.Verified {
		return false
	}
	if q.RemoteOnly && !e.Location.RemoteOK {
		return false
	}
	if q.AwardOnly && len(e.Awards) == 0 {
		return false
	}
	return true
}

func anyOf(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (s *fakeStore) GetEditor(ctx context.Context, id string) (*model.Editor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.editors[id]; ok {
		cp := e
		return &cp, nil
	}
	return nil, nil
}

func (s *fakeStore) UpsertEditor(ctx context.Context, e *model.Editor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editors[e.ID] = *e
	s.upserts++
	return nil
}

func (s *fakeStore) Migrate(ctx context.Context) error { return nil }
func (s *fakeStore) Close() error                      { return nil }

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.editors)
}

// fakeSearcher is a scripted jina.Client keyed by substrings of the query.
type fakeSearcher struct {
	mu       sync.Mutex
	pages    map[string]string // content served for any query
	err      error
	searches int
}

func (f *fakeSearcher) Search(ctx context.Context, query string) (*jina.SearchResponse, error) {
	f.mu.Lock()
	f.searches++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	resp := &jina.SearchResponse{}
	for url, content := range f.pages {
		resp.Data = append(resp.Data, jina.SearchResult{URL: url, Content: content})
	}
	return resp, nil
}

func (f *fakeSearcher) Read(ctx context.Context, targetURL string) (*jina.ReadResponse, error) {
	return &jina.ReadResponse{}, nil
}

func mustRegistry() *registry.Registry {
	reg, err := registry.Load()
	if err != nil {
		panic(err)
	}
	return reg
}

func seedEditor(id, name string, specialties []string, updated time.Time) model.Editor {
	return model.Editor{
		ID:          id,
		Name:        name,
		Specialties: specialties,
		Status:      model.StatusUnknown,
		Provenance: []model.ProvenanceEntry{
			{OriginID: "curated-directory", ContributedAt: updated},
		},
		UpdatedAt: updated,
	}
}
