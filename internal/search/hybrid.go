package search

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/postroom/editorsearch/internal/config"
	"github.com/postroom/editorsearch/internal/discovery"
	"github.com/postroom/editorsearch/internal/model"
	"github.com/postroom/editorsearch/internal/registry"
	"github.com/postroom/editorsearch/internal/reliability"
	"github.com/postroom/editorsearch/internal/resolve"
	"github.com/postroom/editorsearch/internal/store"
	"github.com/postroom/editorsearch/pkg/jina"
)

// Hybrid orchestrates local retrieval with the external discovery fallback.
// Local results always come first; discovery runs only when the fallback
// policy says the local answer is insufficient.
type Hybrid struct {
	store    store.Store
	engine   *Engine
	policy   FallbackPolicy
	builder  *discovery.QueryBuilder
	fetcher  *discovery.Fetcher
	parser   *discovery.Parser
	resolver *resolve.Resolver
	merger   *discovery.Merger
	scorer   *reliability.Scorer

	workers      int
	maxScan      int
	defaultLimit int
	originID     string
	now          func() time.Time
}

// NewHybrid wires a Hybrid from its collaborators and configuration. The
// rate limiter is created here so every query worker shares one budget.
func NewHybrid(st store.Store, client jina.Client, reg *registry.Registry, cfg *config.Config) *Hybrid {
	workers := cfg.Discovery.Workers
	if workers <= 0 {
		workers = 3
	}
	maxScan := cfg.Search.MaxExistingScan
	if maxScan <= 0 {
		maxScan = defaultMaxScan
	}
	defaultLimit := cfg.Search.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	rps := cfg.Discovery.RateLimit
	if rps <= 0 {
		rps = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), 1)

	return &Hybrid{
		store:        st,
		engine:       NewEngine(st, maxScan),
		policy:       NewFallbackPolicy(cfg.Search.FallbackMinResults),
		builder:      discovery.NewQueryBuilder(&cfg.Discovery),
		fetcher:      discovery.NewFetcher(client, limiter, &cfg.Discovery),
		parser:       discovery.NewParser(&cfg.Discovery),
		resolver:     resolve.NewResolver(cfg.Resolve.FuzzyThreshold),
		merger:       discovery.NewMerger(st),
		scorer:       reliability.NewScorer(reg),
		workers:      workers,
		maxScan:      maxScan,
		defaultLimit: defaultLimit,
		originID:     cfg.Discovery.OriginID,
		now:          time.Now,
	}
}

// Search answers a filter, falling back to external discovery when local
// results are insufficient. A context deadline during discovery yields
// whatever was merged so far without error; only a local storage failure
// returns an error.
func (h *Hybrid) Search(ctx context.Context, f model.SearchFilter) (*model.SearchResult, error) {
	if f.Limit <= 0 {
		f.Limit = h.defaultLimit
	}

	local, total, err := h.engine.Query(ctx, f)
	if err != nil {
		return nil, err
	}

	if !h.policy.ShouldDiscover(len(local), f) {
		return h.finalize(local, total, ""), nil
	}

	run := h.discover(ctx, f, local)

	warning := ""
	if run.failures > 0 && run.failures == run.queries && len(local) == 0 {
		warning = "external discovery unavailable, showing local results only"
	}

	blended := discovery.Blend(local, run.touchedList(), f.Limit)
	return h.finalize(blended, total+run.created, warning), nil
}

// discover runs the external fallback: build queries, fetch and parse pages
// concurrently, resolve and merge candidates. Every failure inside is soft;
// the run returns whatever it managed to merge.
func (h *Hybrid) discover(ctx context.Context, f model.SearchFilter, local []model.Editor) *runState {
	queries := h.builder.Build(f)
	hint := h.builder.SpecialtyHint(f)
	log := zap.L().With(zap.Int("queries", len(queries)))

	run := newRunState(len(queries))
	run.existing = h.loadExisting(ctx, local)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.workers)
	for _, query := range queries {
		g.Go(func() error {
			pages, err := h.fetcher.FetchQuery(gctx, query)
			if err != nil {
				if gctx.Err() == nil {
					log.Warn("discovery query failed", zap.String("query", query), zap.Error(err))
					run.recordFailure()
				}
				return nil
			}
			pctx := discovery.PageContext{OriginID: h.originID, SpecialtyHint: hint}
			for _, page := range pages {
				if gctx.Err() != nil {
					return nil
				}
				pctx.SourceURL = page.URL
				for _, cand := range h.parser.Parse(page.Content, pctx) {
					if gctx.Err() != nil {
						return nil
					}
					h.mergeCandidate(gctx, run, cand)
				}
			}
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers only ever return nil

	log.Debug("discovery run finished",
		zap.Int("created", run.created),
		zap.Int("touched", len(run.touched)),
		zap.Int("failed_queries", run.failures))
	return run
}

// loadExisting snapshots the record set candidates resolve against. A read
// failure here degrades resolution to the local result set rather than
// failing the search.
func (h *Hybrid) loadExisting(ctx context.Context, local []model.Editor) []model.Editor {
	all, _, err := h.store.QueryEditors(ctx, store.Query{Limit: h.maxScan})
	if err != nil {
		zap.L().Warn("loading existing records for resolution failed", zap.Error(err))
		return local
	}
	return all
}

// mergeCandidate resolves and merges one candidate under that candidate's
// name lock, so concurrent observations of the same person create at most
// one record.
func (h *Hybrid) mergeCandidate(ctx context.Context, run *runState, cand model.Candidate) {
	norm := resolve.NormalizeName(cand.RawName)
	if norm == "" {
		return
	}
	unlock := run.lockName(norm)
	defer unlock()

	match := h.resolver.Resolve(cand, run.snapshot())
	var target *model.Editor
	if match.Kind != model.MatchNone {
		target = run.editorCopy(match.EditorID)
	}

	e, created, err := h.merger.Merge(ctx, cand, match, target, h.now())
	if err != nil {
		zap.L().Warn("candidate merge failed", zap.String("name", cand.RawName), zap.Error(err))
		return
	}
	run.commit(e, created)
}

// finalize scores, facets, and packages a result list.
func (h *Hybrid) finalize(editors []model.Editor, total int, warning string) *model.SearchResult {
	now := h.now()
	scored := make([]model.ScoredEditor, 0, len(editors))
	for i := range editors {
		sc := h.scorer.Score(&editors[i])
		scored = append(scored, model.ScoredEditor{
			Editor:         editors[i],
			Confidence:     sc.Overall,
			Recommendation: string(sc.Recommendation),
		})
	}
	if total < len(editors) {
		total = len(editors)
	}
	return &model.SearchResult{
		Editors: scored,
		Total:   total,
		Facets:  BuildFacets(editors, now),
		Warning: warning,
	}
}

// runState is the mutable shared state of one discovery run. It is never
// stored on the Hybrid; each run gets a fresh instance.
type runState struct {
	mu        sync.Mutex
	nameLocks map[string]*sync.Mutex
	existing  []model.Editor
	touched   map[string]*model.Editor
	order     []string
	created   int
	failures  int
	queries   int
}

func newRunState(queries int) *runState {
	return &runState{
		nameLocks: make(map[string]*sync.Mutex),
		touched:   make(map[string]*model.Editor),
		queries:   queries,
	}
}

// lockName acquires the mutex for a normalized name, creating it on first
// use, and returns the unlock func.
func (r *runState) lockName(norm string) func() {
	r.mu.Lock()
	l, ok := r.nameLocks[norm]
	if !ok {
		l = &sync.Mutex{}
		r.nameLocks[norm] = l
	}
	r.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// snapshot returns the current resolution set. The returned slice header is
// safe to read while other goroutines append under mu.
func (r *runState) snapshot() []model.Editor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.existing
}

// editorCopy returns a private copy of the record with the given ID,
// preferring the already-touched version.
func (r *runState) editorCopy(id string) *model.Editor {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.touched[id]; ok {
		cp := *t
		return &cp
	}
	for i := range r.existing {
		if r.existing[i].ID == id {
			cp := r.existing[i]
			return &cp
		}
	}
	return nil
}

// commit records a merge outcome. Newly created records join the resolution
// set so later candidates in this run resolve against them.
func (r *runState) commit(e *model.Editor, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.touched[e.ID]; !ok {
		r.order = append(r.order, e.ID)
	}
	r.touched[e.ID] = e
	if created {
		r.existing = append(r.existing, *e)
		r.created++
	}
}

func (r *runState) recordFailure() {
	r.mu.Lock()
	r.failures++
	r.mu.Unlock()
}

// touchedList returns every record this run created or updated, in first
// touch order.
func (r *runState) touchedList() []model.Editor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Editor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.touched[id])
	}
	return out
}
