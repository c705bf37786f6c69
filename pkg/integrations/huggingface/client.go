package huggingface

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

const defaultBaseURL = "https://huggingface.co"

// Kind selects a Hub repository type.
type Kind string

const (
	KindModel   Kind = "models"
	KindDataset Kind = "datasets"
)

// Client provides access to the Hugging Face Hub listing API and raw
// repository files.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Hub client. An optional token is sent as a bearer
// token and raises the anonymous rate limit.
func NewClient(backend cache.Cache, token string, cacheTTL time.Duration) *Client {
	headers := map[string]string{"Accept": "application/json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	base := integrations.NewClient(backend, "huggingface:", cacheTTL, headers)
	if token != "" {
		base.WithKeyer(cache.NewScopedKeyer(cache.NewDefaultKeyer(), "token:"+cache.Hash([]byte(token))[:12]+":"))
	}
	return &Client{Client: base, baseURL: defaultBaseURL}
}

// WithBaseURL points the client at a different Hub endpoint.
func (c *Client) WithBaseURL(u string) *Client {
	if u != "" {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
	return c
}

// ListModels searches models, most downloaded first.
func (c *Client) ListModels(ctx context.Context, search string, limit int) ([]Repo, error) {
	return c.list(ctx, KindModel, search, limit)
}

// ListDatasets searches datasets, most downloaded first.
func (c *Client) ListDatasets(ctx context.Context, search string, limit int) ([]Repo, error) {
	return c.list(ctx, KindDataset, search, limit)
}

func (c *Client) list(ctx context.Context, kind Kind, search string, limit int) ([]Repo, error) {
	params := url.Values{}
	params.Set("search", search)
	params.Set("sort", "downloads")
	params.Set("direction", "-1")
	params.Set("limit", strconv.Itoa(limit))

	var data []Repo
	err := c.Cached(ctx, string(kind)+":"+params.Encode(), false, &data, func() error {
		return c.Get(ctx, c.baseURL+"/api/"+string(kind)+"?"+params.Encode(), &data)
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// FetchReadme returns README.md from the main revision of a repository.
// Dataset ids carry a "datasets/" prefix, matching their web URL.
func (c *Client) FetchReadme(ctx context.Context, id string) (string, error) {
	path, err := escapeRepoID(id)
	if err != nil {
		return "", err
	}

	var text string
	err = c.CachedFor(ctx, "readme:"+id, cache.TTLReadme, false, &text, func() error {
		body, err := c.GetText(ctx, c.baseURL+"/"+path+"/raw/main/README.md")
		text = body
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func escapeRepoID(id string) (string, error) {
	parts := strings.Split(id, "/")
	if len(parts) > 3 {
		return "", fmt.Errorf("%w: huggingface repo %q", integrations.ErrNotFound, id)
	}
	for i, p := range parts {
		if p == "" || p == "." || p == ".." {
			return "", fmt.Errorf("%w: huggingface repo %q", integrations.ErrNotFound, id)
		}
		parts[i] = integrations.PathEscape(p)
	}
	return strings.Join(parts, "/"), nil
}

// Repo is a model or dataset as returned by the listing endpoints.
type Repo struct {
	ID           string    `json:"id"`
	Author       string    `json:"author"`
	Description  string    `json:"description"`
	PipelineTag  string    `json:"pipeline_tag"`
	LibraryName  string    `json:"library_name"`
	Likes        int64     `json:"likes"`
	Downloads    int64     `json:"downloads"`
	Tags         []string  `json:"tags"`
	LastModified time.Time `json:"lastModified"`
}

// License returns the license id from a "license:<id>" tag.
func (r Repo) License() string {
	for _, t := range r.Tags {
		if id, ok := strings.CutPrefix(t, "license:"); ok {
			return id
		}
	}
	return ""
}
