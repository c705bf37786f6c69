package npm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/gitseeker/pkg/cache"
	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/integrations"
)

const defaultBaseURL = "https://registry.npmjs.org"

// Client provides access to the npm registry search API and package documents.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates an npm registry client. cacheTTL applies to search
// responses; package documents are cached for [cache.TTLPackage].
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "npm:", cacheTTL, nil),
		baseURL: defaultBaseURL,
	}
}

// WithBaseURL points the client at a different registry.
func (c *Client) WithBaseURL(u string) *Client {
	if u != "" {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
	return c
}

// Search runs the registry full-text search. text may carry search
// qualifiers such as "keywords:react".
func (c *Client) Search(ctx context.Context, text string, size int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("text", text)
	params.Set("size", strconv.Itoa(size))

	var data SearchResponse
	err := c.Cached(ctx, "search:"+params.Encode(), false, &data, func() error {
		return c.Get(ctx, c.baseURL+"/-/v1/search?"+params.Encode(), &data)
	})
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// FetchPackage retrieves the package document of name, including its README.
// If refresh is true, cached data is bypassed.
func (c *Client) FetchPackage(ctx context.Context, name string, refresh bool) (*Package, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if err := errs.ValidateNpmPackageName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", integrations.ErrNotFound, err)
	}

	var pkg Package
	err := c.CachedFor(ctx, "package:"+name, cache.TTLPackage, refresh, &pkg, func() error {
		return c.fetch(ctx, name, &pkg)
	})
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (c *Client) fetch(ctx context.Context, name string, pkg *Package) error {
	// Scoped names keep the "@" but escape the separator.
	path := strings.Replace(name, "/", "%2F", 1)

	var data registryResponse
	if err := c.Get(ctx, c.baseURL+"/"+path, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: npm package %s", err, name)
		}
		return err
	}

	*pkg = Package{
		Name:        data.Name,
		Description: data.Description,
		Readme:      data.Readme,
		License:     extractField(data.License, "type"),
		Repository:  integrations.NormalizeRepoURL(extractField(data.Repository, "url")),
		HomePage:    data.HomePage,
		Version:     data.DistTags.Latest,
	}
	return nil
}

// extractField reads fields that npm publishes either as a bare string or as
// an object, e.g. "license": "MIT" vs "license": {"type": "MIT"}.
func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}

// Package is the subset of a registry package document gitseeker uses.
type Package struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Readme      string `json:"readme"`
	License     string `json:"license"`
	Repository  string `json:"repository"`
	HomePage    string `json:"homepage"`
}

// SearchResponse is the body of GET /-/v1/search.
type SearchResponse struct {
	Total   int            `json:"total"`
	Objects []SearchObject `json:"objects"`
}

// SearchObject is one search hit.
type SearchObject struct {
	Package   SearchPackage `json:"package"`
	Score     Score         `json:"score"`
	Downloads *Downloads    `json:"downloads,omitempty"`
}

// SearchPackage is the package summary embedded in a search hit.
type SearchPackage struct {
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Description string     `json:"description"`
	Keywords    []string   `json:"keywords"`
	Date        time.Time  `json:"date"`
	License     string     `json:"license"`
	Links       Links      `json:"links"`
	Publisher   *Publisher `json:"publisher"`
	Author      *Person    `json:"author"`
}

// Links holds the package's web locations.
type Links struct {
	NPM        string `json:"npm"`
	Homepage   string `json:"homepage"`
	Repository string `json:"repository"`
}

// Publisher is the account that published the latest version.
type Publisher struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Avatars  Avatars `json:"avatars"`
}

// Avatars holds publisher avatar URLs by size.
type Avatars struct {
	Small string `json:"small"`
}

// Person is the author field of package.json.
type Person struct {
	Name string `json:"name"`
}

// Score is the registry's composite package score.
type Score struct {
	Final  float64     `json:"final"`
	Detail ScoreDetail `json:"detail"`
}

// ScoreDetail breaks the score down into its components, each in [0, 1].
type ScoreDetail struct {
	Quality     float64 `json:"quality"`
	Popularity  float64 `json:"popularity"`
	Maintenance float64 `json:"maintenance"`
}

// Downloads holds download counts reported alongside search hits.
type Downloads struct {
	Monthly int64 `json:"monthly"`
	Weekly  int64 `json:"weekly"`
}

type registryResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Readme      string   `json:"readme"`
	License     any      `json:"license"`
	Repository  any      `json:"repository"`
	HomePage    string   `json:"homepage"`
	DistTags    distTags `json:"dist-tags"`
}

type distTags struct {
	Latest string `json:"latest"`
}
