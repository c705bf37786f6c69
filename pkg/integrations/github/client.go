package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/gitseeker/pkg/cache"
	"github.com/matzehuels/gitseeker/pkg/integrations"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultRawURL  = "https://raw.githubusercontent.com"
)

// readmeNames are tried in order on the main branch.
var readmeNames = []string{"README.md", "readme.md", "Readme.md"}

// Client provides access to the GitHub repository search API and raw README
// files. It handles HTTP requests with caching and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
	rawURL  string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
// Authenticated responses are cached under a token-scoped key so they are
// never served to anonymous callers.
func NewClient(backend cache.Cache, token string, cacheTTL time.Duration) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	base := integrations.NewClient(backend, "github:", cacheTTL, headers)
	if token != "" {
		base.WithKeyer(cache.NewScopedKeyer(cache.NewDefaultKeyer(), "token:"+cache.Hash([]byte(token))[:12]+":"))
	}
	return &Client{
		Client:  base,
		baseURL: defaultBaseURL,
		rawURL:  defaultRawURL,
	}
}

// WithBaseURL points the client at a different API and raw-content host.
// An empty raw URL leaves the raw host unchanged.
func (c *Client) WithBaseURL(api, raw string) *Client {
	if api != "" {
		c.baseURL = api
	}
	if raw != "" {
		c.rawURL = raw
	}
	return c
}

// SearchRepositories runs one page of the repository search, sorted by stars
// descending. q is passed through verbatim, so search qualifiers such as
// "in:name,description" are honored.
func (c *Client) SearchRepositories(ctx context.Context, q string, page, perPage int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	key := "search:" + params.Encode()
	var data SearchResponse
	err := c.Cached(ctx, key, false, &data, func() error {
		return c.Get(ctx, c.baseURL+"/search/repositories?"+params.Encode(), &data)
	})
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// FetchReadme returns the README of owner/repo on the main branch, trying
// the common file name spellings in order.
func (c *Client) FetchReadme(ctx context.Context, owner, repo string) (string, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return "", fmt.Errorf("%w: %v", integrations.ErrNotFound, err)
	}

	var text string
	err := c.CachedFor(ctx, "readme:"+owner+"/"+repo, cache.TTLReadme, false, &text, func() error {
		for _, name := range readmeNames {
			u := fmt.Sprintf("%s/%s/%s/main/%s", c.rawURL, owner, repo, name)
			body, err := c.GetText(ctx, u)
			if err == nil {
				text = body
				return nil
			}
			if !errors.Is(err, integrations.ErrNotFound) {
				return err
			}
		}
		return fmt.Errorf("%w: github readme %s/%s", integrations.ErrNotFound, owner, repo)
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// SearchResponse is one page of GET /search/repositories.
type SearchResponse struct {
	TotalCount int    `json:"total_count"`
	Items      []Repo `json:"items"`
}

// Repo is a repository as returned by the search API.
type Repo struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Stars       int64     `json:"stargazers_count"`
	Language    string    `json:"language"`
	Topics      []string  `json:"topics"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       Owner     `json:"owner"`
	License     *License  `json:"license"`
}

// Owner is the repository owner.
type Owner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// License is the detected repository license.
type License struct {
	Name   string `json:"name"`
	SPDXID string `json:"spdx_id"`
}
