// Package github provides an HTTP client for the GitHub API.
//
// # Overview
//
// This package searches repositories through https://api.github.com and
// reads README files from raw.githubusercontent.com.
//
// # Usage
//
//	client := github.NewClient(backend, token, cache.TTLSearch)
//
//	page, err := client.SearchRepositories(ctx, "react in:name,description,topics", 1, 50)
//	if err != nil {
//	    return err
//	}
//	for _, repo := range page.Items {
//	    fmt.Println(repo.FullName, repo.Stars)
//	}
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Unauthenticated search is limited to 10 requests per minute.
// Exhausted quotas surface as [integrations.ErrRateLimited].
//
// # Caching
//
// Search pages are cached with the client TTL and READMEs for
// [cache.TTLReadme]. When a token is configured, cache keys are scoped to a
// hash of the token.
package github
