package sources

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitseeker/pkg/cache"
	"github.com/matzehuels/gitseeker/pkg/integrations/github"
	"github.com/matzehuels/gitseeker/pkg/integrations/gitlab"
	"github.com/matzehuels/gitseeker/pkg/integrations/huggingface"
	"github.com/matzehuels/gitseeker/pkg/integrations/npm"
	"github.com/matzehuels/gitseeker/pkg/integrations/pypi"
)

var errNotConfigured = errors.New("source not configured")

// Config holds the settings for [NewDefault].
type Config struct {
	// Cache stores HTTP responses and ranked results. Nil disables caching.
	Cache cache.Cache

	GitHubToken      string
	GitLabToken      string
	HuggingFaceToken string

	// SearchTTL bounds how long search responses are reused.
	// Defaults to [cache.TTLSearch].
	SearchTTL time.Duration

	Logger *log.Logger

	// BaseURLs overrides registry endpoints, keyed by source name. The
	// github entry also serves raw README files.
	BaseURLs map[string]string
}

// Default bundles the wired aggregator and README fetcher.
type Default struct {
	*Aggregator
	Readme *ReadmeFetcher
}

// NewDefault wires all five registry clients, their adapters and a README
// fetcher over the configured cache backend.
func NewDefault(cfg Config) *Default {
	backend := cfg.Cache
	if backend == nil {
		backend = cache.NewNullCache()
	}
	ttl := cfg.SearchTTL
	if ttl <= 0 {
		ttl = cache.TTLSearch
	}
	logger := orDefault(cfg.Logger)

	gh := github.NewClient(backend, cfg.GitHubToken, ttl).WithBaseURL(cfg.BaseURLs["github"], cfg.BaseURLs["github"])
	hf := huggingface.NewClient(backend, cfg.HuggingFaceToken, ttl).WithBaseURL(cfg.BaseURLs["huggingface"])
	gl := gitlab.NewClient(backend, cfg.GitLabToken, ttl).WithBaseURL(cfg.BaseURLs["gitlab"])
	np := npm.NewClient(backend, ttl).WithBaseURL(cfg.BaseURLs["npm"])
	py := pypi.NewClient(backend, cache.TTLPackage).WithBaseURL(cfg.BaseURLs["pypi"])

	agg := NewAggregator(logger,
		NewGitHub(gh, logger),
		NewHuggingFace(hf, logger),
		NewGitLab(gl, logger),
		NewNPM(np, logger),
		NewPyPI(py, logger),
	)
	if cfg.Cache != nil {
		agg.WithCache(cfg.Cache, nil, ttl)
	}

	return &Default{
		Aggregator: agg,
		Readme: &ReadmeFetcher{
			GitHub:      gh,
			HuggingFace: hf,
			GitLab:      gl,
			NPM:         np,
			PyPI:        py,
			Logger:      logger,
		},
	}
}
