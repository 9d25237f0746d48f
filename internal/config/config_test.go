package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "editorsearch.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 2, cfg.Search.FallbackMinResults)
	assert.Equal(t, 20, cfg.Search.DefaultLimit)
	assert.Equal(t, 50000, cfg.Search.MaxExistingScan)
	assert.Equal(t, 0.8, cfg.Resolve.FuzzyThreshold)
	assert.Equal(t, 3, cfg.Discovery.MaxQueries)
	assert.Equal(t, 5, cfg.Discovery.MaxPagesPerQuery)
	assert.Equal(t, 3, cfg.Discovery.Workers)
	assert.Equal(t, "television editor", cfg.Discovery.TargetRole)
	assert.Equal(t, "actor", cfg.Discovery.ExcludeRole)
	assert.Equal(t, "web-discovery", cfg.Discovery.OriginID)
	assert.Equal(t, 1950, cfg.Discovery.MinYear)
	assert.NotEmpty(t, cfg.Discovery.RoleKeywords)
	assert.NotEmpty(t, cfg.Discovery.NameDenylist)
	assert.Contains(t, cfg.Discovery.NameDenylist, "Jane Doe")
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("EDITORSEARCH_STORE_DRIVER", "postgres")
	t.Setenv("EDITORSEARCH_SEARCH_DEFAULT_LIMIT", "50")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 50, cfg.Search.DefaultLimit)
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nonsense", Format: "json"}))
}
