package discovery

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/postroom/editorsearch/internal/config"
	"github.com/postroom/editorsearch/internal/resilience"
	"github.com/postroom/editorsearch/pkg/jina"
)

// Page is one unit of fetched content attributed to the query that found it.
type Page struct {
	Query   string
	URL     string
	Title   string
	Content string
}

// Fetcher executes a single search query against the discovery collaborator
// and returns up to maxPages of page content. The rate limiter is shared
// across all concurrent fetches so the external endpoint sees one budget.
type Fetcher struct {
	client   jina.Client
	limiter  *rate.Limiter
	maxPages int
	retry    resilience.RetryConfig
}

// NewFetcher creates a Fetcher. The limiter must be shared by every Fetcher
// talking to the same endpoint.
func NewFetcher(client jina.Client, limiter *rate.Limiter, cfg *config.DiscoveryConfig) *Fetcher {
	maxPages := cfg.MaxPagesPerQuery
	if maxPages <= 0 {
		maxPages = 5
	}
	retry := resilience.DefaultRetryConfig()
	retry.ShouldRetry = resilience.IsTransient
	return &Fetcher{
		client:   client,
		limiter:  limiter,
		maxPages: maxPages,
		retry:    retry,
	}
}

// FetchQuery searches for the query and returns page content for the top
// results. The search call failing fails the whole query; an individual page
// fetch failing only skips that page.
func (f *Fetcher) FetchQuery(ctx context.Context, query string) ([]Page, error) {
	log := zap.L().With(zap.String("query", query))

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := resilience.DoVal(ctx, f.retry, "discovery search", func(ctx context.Context) (*jina.SearchResponse, error) {
		return f.client.Search(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	pages := make([]Page, 0, f.maxPages)
	for _, res := range resp.Data {
		if len(pages) >= f.maxPages {
			break
		}
		if res.Content != "" {
			pages = append(pages, Page{Query: query, URL: res.URL, Title: res.Title, Content: res.Content})
			continue
		}
		if res.URL == "" {
			continue
		}

		// The search index had no cached body; fetch the page itself.
		if err := f.limiter.Wait(ctx); err != nil {
			return pages, err
		}
		read, err := resilience.DoVal(ctx, f.retry, "discovery read", func(ctx context.Context) (*jina.ReadResponse, error) {
			return f.client.Read(ctx, res.URL)
		})
		if err != nil {
			if ctx.Err() != nil {
				return pages, ctx.Err()
			}
			log.Warn("page fetch failed, skipping", zap.String("url", res.URL), zap.Error(err))
			continue
		}
		pages = append(pages, Page{Query: query, URL: res.URL, Title: read.Data.Title, Content: read.Data.Content})
	}

	log.Debug("query fetched", zap.Int("pages", len(pages)), zap.Int("results", len(resp.Data)))
	return pages, nil
}
