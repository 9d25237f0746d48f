package jina

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postroom/editorsearch/internal/resilience"
)

func TestSearch_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"data":[{"title":"Credits","url":"https://a.test","content":"body"}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient("test-key", WithSearchBaseURL(srv.URL))
	resp, err := c.Search(context.Background(), "drama television editor")
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Credits", resp.Data[0].Title)
	assert.Equal(t, "body", resp.Data[0].Content)
}

func TestSearch_NoResultsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient("k", WithSearchBaseURL(srv.URL))
	resp, err := c.Search(context.Background(), "no such thing")
	require.NoError(t, err, "an empty result set is not a failure")
	assert.Empty(t, resp.Data)
}

func TestSearch_RetryableStatusMarkedTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("k", WithSearchBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestSearch_ClientErrorNotTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("k", WithSearchBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "q")
	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
}

func TestRead_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "markdown", r.Header.Get("X-Return-Format"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"data":{"title":"Page","url":"https://a.test","content":"# Page"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	resp, err := c.Read(context.Background(), "https://a.test")
	require.NoError(t, err)
	assert.Equal(t, "# Page", resp.Data.Content)
}

func TestRead_ServerErrorTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.Read(context.Background(), "https://a.test")
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestSearch_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient("k", WithSearchBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "q")
	assert.Error(t, err)
}
