package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gitseeker/pkg/cache"
	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/observability"
	"github.com/matzehuels/gitseeker/pkg/project"
	"github.com/matzehuels/gitseeker/pkg/rank"
)

// Aggregator fans a query out to the configured adapters, merges their
// results and ranks them.
//
// An Aggregator holds no per-query state; multiple goroutines can search
// through the same Aggregator concurrently.
type Aggregator struct {
	Logger *log.Logger
	// Now supplies the reference time for recency scoring.
	Now func() time.Time

	adapters map[project.Source]Adapter
	order    []project.Source

	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewAggregator creates an aggregator over adapters. A later adapter for the
// same source replaces an earlier one.
func NewAggregator(logger *log.Logger, adapters ...Adapter) *Aggregator {
	a := &Aggregator{
		Logger:   orDefault(logger),
		Now:      time.Now,
		adapters: make(map[project.Source]Adapter, len(adapters)),
	}
	for _, ad := range adapters {
		if _, ok := a.adapters[ad.Source()]; !ok {
			a.order = append(a.order, ad.Source())
		}
		a.adapters[ad.Source()] = ad
	}
	return a
}

// WithCache caches ranked search results in c for ttl. Results are keyed by
// the trimmed query, the sorted source set and the mode.
func (a *Aggregator) WithCache(c cache.Cache, keyer cache.Keyer, ttl time.Duration) *Aggregator {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	a.cache, a.keyer, a.ttl = c, keyer, ttl
	return a
}

// Sources returns the configured sources in registration order.
func (a *Aggregator) Sources() []project.Source {
	return append([]project.Source(nil), a.order...)
}

// Has reports whether an adapter is configured for s.
func (a *Aggregator) Has(s project.Source) bool {
	_, ok := a.adapters[s]
	return ok
}

// Search queries every selected source in parallel and returns the merged
// projects ranked by relevance.
//
// Caller errors (empty query, empty or unknown source set) are returned as
// [*errs.Error] before any request is made. Registry failures are not
// errors: a failing source contributes nothing, so a total outage yields an
// empty, non-nil slice.
func (a *Aggregator) Search(ctx context.Context, query string, sources []project.Source, deep bool) ([]project.Project, error) {
	q, err := errs.ValidateQuery(query)
	if err != nil {
		return nil, err
	}
	selected, err := a.selection(sources)
	if err != nil {
		return nil, err
	}

	names := sourceNames(selected)
	key := ""
	if a.cache != nil {
		key = a.keyer.SearchKey(q, names, deep)
		if cached, ok := a.cached(ctx, key); ok {
			return cached, nil
		}
	}

	start := time.Now()
	hooks := observability.Search()
	hooks.OnSearchStart(ctx, q, names, deep)

	results := a.fanOut(ctx, q, selected, deep)

	total := 0
	for _, r := range results {
		total += len(r.Projects)
	}
	merged := make([]project.Project, 0, total)
	for _, r := range results {
		merged = append(merged, r.Projects...)
	}
	rank.Sort(merged, q, a.Now())

	hooks.OnSearchComplete(ctx, q, len(merged), time.Since(start))
	a.Logger.Debug("search complete", "query", q, "sources", len(selected), "results", len(merged), "duration", time.Since(start))

	// Empty results usually mean every registry failed; don't pin that.
	if key != "" && len(merged) > 0 {
		if data, err := json.Marshal(merged); err == nil {
			if a.cache.Set(ctx, key, data, a.ttl) == nil {
				observability.Cache().OnCacheSet(ctx, "search", len(data))
			}
		}
	}
	return merged, nil
}

func (a *Aggregator) cached(ctx context.Context, key string) ([]project.Project, bool) {
	data, ok, err := a.cache.Get(ctx, key)
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, "search")
		return nil, false
	}
	var ps []project.Project
	if json.Unmarshal(data, &ps) != nil {
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "search")
	return ps, true
}

func (a *Aggregator) selection(sources []project.Source) ([]project.Source, error) {
	if len(sources) == 0 {
		return nil, errs.New(errs.ErrCodeNoSources, "at least one source must be selected")
	}
	seen := make(map[project.Source]bool, len(sources))
	out := make([]project.Source, 0, len(sources))
	for _, s := range sources {
		if !s.Valid() {
			return nil, errs.New(errs.ErrCodeInvalidSource, "unknown source %q", s)
		}
		if !a.Has(s) {
			return nil, errs.New(errs.ErrCodeInvalidSource, "source %q is not configured", s)
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out, nil
}

// fanOut runs one adapter per source. Every goroutine writes only its own
// slot and returns nil, so Wait returns once all sources have settled.
func (a *Aggregator) fanOut(ctx context.Context, query string, selected []project.Source, deep bool) []project.Result {
	results := make([]project.Result, len(selected))
	var g errgroup.Group
	for i, s := range selected {
		ad := a.adapters[s]
		g.Go(func() error {
			results[i] = a.runAdapter(ctx, ad, query, deep)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (a *Aggregator) runAdapter(ctx context.Context, ad Adapter, query string, deep bool) (res project.Result) {
	src := ad.Source()
	hooks := observability.Search()
	hooks.OnSourceStart(ctx, string(src), query, deep)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error("adapter panicked", "source", src, "panic", fmt.Sprint(r))
			res = project.Empty(src)
		}
		if res.Projects == nil {
			res.Projects = []project.Project{}
		}
		hooks.OnSourceComplete(ctx, string(src), len(res.Projects), time.Since(start))
	}()

	return ad.Search(ctx, query, deep)
}

func sourceNames(srcs []project.Source) []string {
	out := make([]string, len(srcs))
	for i, s := range srcs {
		out[i] = string(s)
	}
	return out
}
