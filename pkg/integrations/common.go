package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Registry calls are interactive; a slow registry must not hold a search
// hostage past this.
const httpTimeout = 10 * time.Second

// Errors returned by every registry client, wrapped with context where
// useful. Search adapters stop querying a registry on ErrRateLimited and
// skip the failed request on the others.
var (
	ErrNotFound    = errors.New("not found")
	ErrNetwork     = errors.New("network error")
	ErrRateLimited = errors.New("rate limited")
	ErrDecode      = errors.New("malformed response")
)

// NewHTTPClient returns the client registry requests use by default.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NormalizePkgName lowercases name and maps "_" to "-" (PEP 503), so
// "Typing_Extensions" and "typing-extensions" hit the same PyPI document.
func NormalizePkgName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
	"git@gitlab.com:", "https://gitlab.com/",
)

// NormalizeRepoURL rewrites the git+, git@ and git:// forms found in package
// metadata to a browsable https URL without the .git suffix.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	return strings.TrimSuffix(s, ".git")
}

// PathEscape percent-encodes a string for use as a single URL path segment.
func PathEscape(s string) string { return url.PathEscape(s) }
