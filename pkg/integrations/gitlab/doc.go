// Package gitlab provides an HTTP client for the GitLab API.
//
// # Overview
//
// This package searches public projects on gitlab.com through
// GET /api/v4/projects and reads README files through the raw file route.
//
// # Usage
//
//	client := gitlab.NewClient(backend, token, cache.TTLSearch)
//
//	projects, err := client.SearchProjects(ctx, gitlab.SearchOptions{
//	    Query:   "gitlab-runner",
//	    PerPage: 50,
//	})
//
// # Authentication
//
// A GitLab personal access token is optional and sent as PRIVATE-TOKEN.
// Without a token only public projects are visible.
package gitlab
