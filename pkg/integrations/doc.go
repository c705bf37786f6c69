// Package integrations provides HTTP clients for project registry APIs.
//
// # Overview
//
// This package contains low-level API clients for the registries gitseeker
// searches. Each registry has its own subpackage:
//
//   - [github]: GitHub repository search and READMEs
//   - [huggingface]: Hugging Face Hub models and datasets
//   - [gitlab]: GitLab project search and READMEs
//   - [npm]: npm registry search and package documents
//   - [pypi]: Python Package Index JSON API
//
// # Client Pattern
//
// All registry clients follow a consistent pattern:
//
//	client := npm.NewClient(backend, 6*time.Hour)
//	res, err := client.Search(ctx, "react", 0, 50)
//
// Clients handle:
//   - HTTP requests with shared default headers
//   - Response caching through any [cache.Cache] backend
//   - API-specific response structs
//
// Clients never retry. Quota exhaustion is reported as [ErrRateLimited] so
// callers can stop issuing requests for the rest of an operation.
//
// # Shared Infrastructure
//
// The [Client] type provides shared HTTP functionality used by all registry
// clients, including response caching and status classification.
//
// [github]: github.com/matzehuels/gitseeker/pkg/integrations/github
// [huggingface]: github.com/matzehuels/gitseeker/pkg/integrations/huggingface
// [gitlab]: github.com/matzehuels/gitseeker/pkg/integrations/gitlab
// [npm]: github.com/matzehuels/gitseeker/pkg/integrations/npm
// [pypi]: github.com/matzehuels/gitseeker/pkg/integrations/pypi
// [cache.Cache]: github.com/matzehuels/gitseeker/pkg/cache.Cache
package integrations
