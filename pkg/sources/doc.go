// Package sources searches the supported registries and merges their
// results into one ranked list.
//
// # Adapters
//
// Each registry has an [Adapter] (GitHub, HuggingFace, GitLab, NPM, PyPI)
// that issues the registry requests through a client from
// pkg/integrations and maps the raw responses onto [project.Project].
// Adapters never return errors; a failing registry contributes an empty or
// partial result.
//
// Shallow searches make exactly one request per registry. Deep searches make
// several request variants in sequence, spaced [DeepInterval] apart, and stop
// early when the registry rate limits.
//
// # Aggregation
//
// [Aggregator.Search] validates the query and source selection, runs the
// selected adapters concurrently and waits for all of them, then ranks the
// flattened results with [rank.Sort]:
//
//	d := sources.NewDefault(sources.Config{GitHubToken: token})
//	projects, err := d.Search(ctx, "react", project.DefaultSources(), true)
//
// [Aggregator.Trending] samples popular projects from fixed seed terms.
//
// [rank.Sort]: github.com/matzehuels/gitseeker/pkg/rank.Sort
package sources
