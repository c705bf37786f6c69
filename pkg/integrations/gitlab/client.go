package gitlab

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/gitseeker/pkg/cache"
	"github.com/matzehuels/gitseeker/pkg/integrations"
)

const defaultBaseURL = "https://gitlab.com"

// Client provides access to the GitLab projects API and raw repository files.
// It handles HTTP requests with caching and optional authentication.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitLab API client with optional authentication.
//
// Parameters:
//   - backend: Cache backend for HTTP response caching (nil or [cache.NewNullCache] for no caching)
//   - token: GitLab personal access token (empty string for unauthenticated)
//   - cacheTTL: How long search responses are cached
//
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, token string, cacheTTL time.Duration) *Client {
	var headers map[string]string
	if token != "" {
		headers = map[string]string{"PRIVATE-TOKEN": token}
	}
	base := integrations.NewClient(backend, "gitlab:", cacheTTL, headers)
	if token != "" {
		base.WithKeyer(cache.NewScopedKeyer(cache.NewDefaultKeyer(), "token:"+cache.Hash([]byte(token))[:12]+":"))
	}
	return &Client{Client: base, baseURL: defaultBaseURL}
}

// WithBaseURL points the client at a different GitLab instance.
func (c *Client) WithBaseURL(u string) *Client {
	if u != "" {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
	return c
}

// SearchOptions selects one page of a project search.
type SearchOptions struct {
	Query string
	// SearchNamespaces also matches the namespace path, not just the project name.
	SearchNamespaces bool
	Page             int
	PerPage          int
}

// SearchProjects lists public projects matching the query, most starred first.
func (c *Client) SearchProjects(ctx context.Context, opts SearchOptions) ([]Project, error) {
	params := url.Values{}
	params.Set("search", opts.Query)
	params.Set("order_by", "star_count")
	params.Set("sort", "desc")
	params.Set("page", strconv.Itoa(max(opts.Page, 1)))
	params.Set("per_page", strconv.Itoa(opts.PerPage))
	if opts.SearchNamespaces {
		params.Set("search_namespaces", "true")
	}

	var data []Project
	err := c.Cached(ctx, "projects:"+params.Encode(), false, &data, func() error {
		return c.Get(ctx, c.baseURL+"/api/v4/projects?"+params.Encode(), &data)
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// FetchReadme returns README.md from the main branch of the project at
// fullName (its path_with_namespace, which may include nested groups).
func (c *Client) FetchReadme(ctx context.Context, fullName string) (string, error) {
	path, err := escapeProjectPath(fullName)
	if err != nil {
		return "", err
	}

	var text string
	err = c.CachedFor(ctx, "readme:"+strings.ToLower(fullName), cache.TTLReadme, false, &text, func() error {
		body, err := c.GetText(ctx, c.baseURL+"/"+path+"/-/raw/main/README.md")
		text = body
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func escapeProjectPath(fullName string) (string, error) {
	parts := strings.Split(fullName, "/")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: gitlab project %q", integrations.ErrNotFound, fullName)
	}
	for i, p := range parts {
		if p == "" || p == "." || p == ".." {
			return "", fmt.Errorf("%w: gitlab project %q", integrations.ErrNotFound, fullName)
		}
		parts[i] = integrations.PathEscape(p)
	}
	return strings.Join(parts, "/"), nil
}

// Project is a project as returned by GET /api/v4/projects.
type Project struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	PathWithNamespace string     `json:"path_with_namespace"`
	Description       string     `json:"description"`
	WebURL            string     `json:"web_url"`
	StarCount         int64      `json:"star_count"`
	Topics            []string   `json:"topics"`
	TagList           []string   `json:"tag_list"`
	LastActivityAt    time.Time  `json:"last_activity_at"`
	Namespace         *Namespace `json:"namespace"`
	Owner             *Namespace `json:"owner"`
}

// Namespace is the group or user owning a project. Owner payloads share the
// name and avatar fields.
type Namespace struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	AvatarURL string `json:"avatar_url"`
}
