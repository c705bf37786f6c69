package sources

import (
	"context"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gitseeker/pkg/project"
)

// TrendingLimit is the display budget of the trending sample.
const TrendingLimit = 60

// TrendingBatch is a set of seed terms searched against one source. Each
// term keeps at most PerQuery of its top results.
type TrendingBatch struct {
	Source   project.Source
	Terms    []string
	PerQuery int
}

// DefaultTrending samples popular ecosystems across every source.
var DefaultTrending = []TrendingBatch{
	{Source: project.GitHub, Terms: []string{"react", "vue", "nextjs", "typescript", "python", "rust", "go", "docker", "kubernetes", "vscode"}, PerQuery: 3},
	{Source: project.HuggingFace, Terms: []string{"llm", "text-generation", "image-generation", "transformers"}, PerQuery: 3},
	{Source: project.NPM, Terms: []string{"react", "vue", "express", "next", "typescript"}, PerQuery: 2},
	{Source: project.PyPI, Terms: []string{"django", "fastapi", "pandas", "numpy", "tensorflow"}, PerQuery: 2},
	{Source: project.GitLab, Terms: []string{"ci-cd", "devops", "kubernetes"}, PerQuery: 2},
}

// TrendingOptions configures [Aggregator.Trending]. The zero value uses
// [DefaultTrending], [TrendingLimit] and a uniform random shuffle.
type TrendingOptions struct {
	Batches []TrendingBatch
	Limit   int
	// Shuffle permutes n elements through swap. Tests inject a seeded
	// shuffle for reproducible output.
	Shuffle func(n int, swap func(i, j int))
}

func (o TrendingOptions) withDefaults() TrendingOptions {
	if o.Batches == nil {
		o.Batches = DefaultTrending
	}
	if o.Limit <= 0 {
		o.Limit = TrendingLimit
	}
	if o.Shuffle == nil {
		o.Shuffle = rand.Shuffle
	}
	return o
}

type trendingTerm struct {
	source   project.Source
	term     string
	perQuery int
}

// Trending samples popular projects by running every batch term as a
// shallow single-source search. Terms run concurrently; a failing term
// contributes nothing. The merged sample is deduped by id, shuffled and
// truncated to the limit. Batches for unconfigured sources are skipped.
func (a *Aggregator) Trending(ctx context.Context, opts TrendingOptions) []project.Project {
	opts = opts.withDefaults()

	var terms []trendingTerm
	for _, b := range opts.Batches {
		if !a.Has(b.Source) {
			a.Logger.Debug("skipping trending batch", "source", b.Source)
			continue
		}
		for _, t := range b.Terms {
			terms = append(terms, trendingTerm{source: b.Source, term: t, perQuery: b.PerQuery})
		}
	}

	slots := make([][]project.Project, len(terms))
	var g errgroup.Group
	for i, t := range terms {
		g.Go(func() error {
			ps, err := a.Search(ctx, t.term, []project.Source{t.source}, false)
			if err != nil {
				a.Logger.Debug("trending term failed", "source", t.source, "term", t.term, "err", err)
				return nil
			}
			slots[i] = ps[:min(len(ps), t.perQuery)]
			return nil
		})
	}
	_ = g.Wait()

	var merged []project.Project
	for _, s := range slots {
		merged = append(merged, s...)
	}
	merged = dedupe(merged, func(p project.Project) string { return p.ID })

	opts.Shuffle(len(merged), func(i, j int) { merged[i], merged[j] = merged[j], merged[i] })
	return merged[:min(len(merged), opts.Limit)]
}
