// Package pkg provides the core libraries for GitSeeker project discovery.
//
// # Overview
//
// GitSeeker searches GitHub, Hugging Face, GitLab, npm and PyPI in
// parallel, merges the results into one relevance-ranked list and can
// summarize a project's README with an AI model. The pkg directory is
// organized into these areas:
//
//  1. [project] - The unified project entity and source names
//  2. [integrations] - Registry API clients (GitHub, Hugging Face, GitLab, npm, PyPI)
//  3. [sources] - Per-source adapters, the aggregator, trending and README lookup
//  4. [rank] - Relevance scoring across heterogeneous sources
//  5. [ai] - Streaming chat providers and the analysis session
//  6. [cache], [prefs] - Response caching and stored AI preferences
//  7. [server] - The HTTP API
//
// # Architecture
//
// The typical data flow of a search:
//
//	query + selected sources
//	         ↓
//	    [sources] adapters (query variants per registry, paced)
//	         ↓
//	    [integrations] clients (HTTP + cache)
//	         ↓
//	    [rank] package (score, sort, filter)
//	         ↓
//	    []project.Project
//
// An analysis fetches the README through [sources.ReadmeFetcher], builds
// the prompt with [ai.AnalysisMessages] and streams tokens from an
// [ai.Session].
//
// # Quick Start
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/matzehuels/gitseeker/pkg/cache"
//	    "github.com/matzehuels/gitseeker/pkg/project"
//	    "github.com/matzehuels/gitseeker/pkg/sources"
//	)
//
//	c, _ := cache.NewMemoryCache(1024)
//	engine := sources.NewDefault(sources.Config{Cache: c})
//
//	projects, err := engine.Search(context.Background(), "vector database",
//	    []project.Source{project.GitHub, project.PyPI}, true)
//	if err != nil {
//	    return err
//	}
//	for _, p := range projects {
//	    fmt.Println(p.Source.Label(), p.FullName, p.Stars)
//	}
//
// # Observability
//
// Libraries report activity through [observability] hooks. Register
// implementations at startup to collect timings, cache statistics or HTTP
// traces; the defaults are no-ops.
//
// # Error Handling
//
// Errors carry a machine-readable code from [errors]; use errors.Is,
// errors.As and [errors.GetCode] to inspect them. Caller mistakes (an
// empty query, an unknown source) are reported through
// [errors.IsCallerError].
package pkg
