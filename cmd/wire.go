package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/postroom/editorsearch/internal/registry"
	"github.com/postroom/editorsearch/internal/search"
	"github.com/postroom/editorsearch/internal/store"
	"github.com/postroom/editorsearch/pkg/jina"
)

// initStore opens the configured storage backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initHybrid builds the full search stack over an open store.
func initHybrid(st store.Store) (*search.Hybrid, *registry.Registry, error) {
	reg, err := registry.LoadFile(cfg.Registry.SourcesPath)
	if err != nil {
		return nil, nil, err
	}
	client := jina.NewClient(cfg.Jina.Key,
		jina.WithBaseURL(cfg.Jina.BaseURL),
		jina.WithSearchBaseURL(cfg.Jina.SearchBaseURL),
	)
	return search.NewHybrid(st, client, reg, cfg), reg, nil
}
