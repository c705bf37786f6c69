package pypi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/gitseeker/pkg/cache"
	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/integrations"
)

const defaultBaseURL = "https://pypi.org/pypi"

// PackageInfo holds metadata for a Python package from PyPI.
//
// Zero values: all string fields are empty, Keywords is nil and UpdatedAt is
// the zero time when the release has no files.
type PackageInfo struct {
	Name        string    `json:"name"`        // Display name as published (e.g., "Flask")
	Version     string    `json:"version"`     // Latest version
	Summary     string    `json:"summary"`     // One-line description
	Description string    `json:"description"` // Long description, usually the README
	Keywords    []string  `json:"keywords"`    // Comma-split, trimmed keywords
	ProjectURL  string    `json:"projectUrl"`  // PyPI project page
	HomePage    string    `json:"homePage"`    // Homepage URL (may be empty)
	Author      string    `json:"author"`      // Author name (may be empty)
	License     string    `json:"license"`     // License name or expression (may be empty)
	UpdatedAt   time.Time `json:"updatedAt"`   // Newest upload time among the release files
}

// Client provides access to the PyPI JSON API. PyPI has no search endpoint,
// so the only operation is an exact name lookup.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a PyPI client with the given cache backend.
//
// Parameters:
//   - backend: Cache backend for HTTP response caching (nil or [cache.NewNullCache] for no caching)
//   - cacheTTL: How long package documents are cached (typical: [cache.TTLPackage])
//
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "pypi:", cacheTTL, nil),
		baseURL: defaultBaseURL,
	}
}

// WithBaseURL points the client at a different index.
func (c *Client) WithBaseURL(u string) *Client {
	if u != "" {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
	return c
}

// FetchPackage retrieves metadata for a Python package from PyPI.
//
// The pkg parameter is normalized automatically (case-insensitive, underscores→hyphens).
// Names that are not valid Python package names are rejected without a request.
//
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - PackageInfo populated with metadata on success
//   - [integrations.ErrNotFound] if the package doesn't exist or the name is invalid
//   - [integrations.ErrRateLimited] if PyPI throttles the caller
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = integrations.NormalizePkgName(pkg)
	if err := errs.ValidatePythonPackageName(pkg); err != nil {
		return nil, fmt.Errorf("%w: %v", integrations.ErrNotFound, err)
	}

	var info PackageInfo
	err := c.Cached(ctx, pkg, refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data apiResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: pypi package %s", err, pkg)
		}
		return err
	}

	*info = PackageInfo{
		Name:        data.Info.Name,
		Version:     data.Info.Version,
		Summary:     data.Info.Summary,
		Description: data.Info.Description,
		Keywords:    splitKeywords(data.Info.Keywords),
		ProjectURL:  data.Info.ProjectURL,
		HomePage:    data.Info.HomePage,
		Author:      data.Info.Author,
		License:     extractLicenseType(data.Info.License, data.Info.Classifiers),
		UpdatedAt:   latestUpload(data.URLs),
	}
	return nil
}

func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func latestUpload(files []releaseFile) time.Time {
	var newest time.Time
	for _, f := range files {
		if f.UploadTime.After(newest) {
			newest = f.UploadTime
		}
	}
	return newest
}

type apiResponse struct {
	Info apiInfo       `json:"info"`
	URLs []releaseFile `json:"urls"`
}

type apiInfo struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Keywords    string   `json:"keywords"`
	License     string   `json:"license"`
	Classifiers []string `json:"classifiers"`
	ProjectURL  string   `json:"project_url"`
	HomePage    string   `json:"home_page"`
	Author      string   `json:"author"`
}

type releaseFile struct {
	UploadTime time.Time `json:"upload_time_iso_8601"`
}

// extractLicenseType extracts a short license identifier from PyPI data.
// It prefers a short license field and falls back to the first license
// classifier (e.g., "License :: OSI Approved :: MIT License" -> "MIT License").
func extractLicenseType(license string, classifiers []string) string {
	license = strings.TrimSpace(license)
	if license != "" && len(license) < 100 && !strings.Contains(license, "\n") {
		return license
	}

	for _, c := range classifiers {
		if strings.HasPrefix(c, "License :: ") {
			parts := strings.Split(c, " :: ")
			if len(parts) >= 3 {
				return parts[len(parts)-1]
			}
		}
	}

	// Full license texts usually open with the license name.
	if license != "" {
		if firstLine := strings.TrimSpace(strings.Split(license, "\n")[0]); len(firstLine) < 50 {
			return firstLine
		}
	}
	return ""
}
