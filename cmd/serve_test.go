package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postroom/editorsearch/internal/config"
	"github.com/postroom/editorsearch/internal/model"
	"github.com/postroom/editorsearch/internal/registry"
	"github.com/postroom/editorsearch/internal/search"
	"github.com/postroom/editorsearch/internal/store"
	"github.com/postroom/editorsearch/pkg/jina"
)

func testHybrid(t *testing.T) *search.Hybrid {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "serve.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	now := time.Now().UTC()
	for _, name := range []string{"Maria Gonzales", "Kirk Baxter"} {
		e := &model.Editor{
			ID:     strings.ToLower(strings.ReplaceAll(name, " ", "-")),
			Name:   name,
			Status: model.StatusUnknown,
			Provenance: []model.ProvenanceEntry{
				{OriginID: "curated-directory", ContributedAt: now},
			},
			UpdatedAt: now,
		}
		require.NoError(t, st.UpsertEditor(context.Background(), e))
	}

	reg, err := registry.Load()
	require.NoError(t, err)

	c := &config.Config{
		Search:  config.SearchConfig{FallbackMinResults: 2, DefaultLimit: 20},
		Resolve: config.ResolveConfig{FuzzyThreshold: 0.8},
		Discovery: config.DiscoveryConfig{
			TargetRole: "television editor", DomainNoun: "television",
			ExcludeRole: "actor", OriginID: "web-discovery", MinYear: 1950,
			RoleKeywords: []string{"editor"},
		},
	}
	return search.NewHybrid(st, jina.NewClient("unused"), reg, c)
}

func TestRouter_Health(t *testing.T) {
	srv := httptest.NewServer(newRouter(testHybrid(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Search(t *testing.T) {
	srv := httptest.NewServer(newRouter(testHybrid(t)))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/search", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result model.SearchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Len(t, result.Editors, 2)
	assert.Equal(t, 2, result.Total)
}

func TestRouter_SearchBadBody(t *testing.T) {
	srv := httptest.NewServer(newRouter(testHybrid(t)))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/search", "application/json", strings.NewReader(`{nope`))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
