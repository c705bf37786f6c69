package sources

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitseeker/pkg/httputil"
	"github.com/matzehuels/gitseeker/pkg/integrations"
	"github.com/matzehuels/gitseeker/pkg/project"
)

const (
	// PageSize is the page size of every primary registry request.
	PageSize = 50

	// DeepInterval spaces successive requests of one deep search.
	DeepInterval = 100 * time.Millisecond
)

// Adapter searches one registry and maps its responses onto [project.Project].
//
// Search never fails: transport, status and parse failures are logged and
// yield an empty or partial result. Shallow mode issues exactly one request;
// deep mode issues several variants in sequence and dedupes them by the
// registry-native id.
type Adapter interface {
	Source() project.Source
	Search(ctx context.Context, query string, deep bool) project.Result
}

// dedupe keeps the first item for every key, preserving order.
func dedupe[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

// sequence runs the requests of one adapter call. Each request starts at
// least the pacer interval after the previous one finished. The sequence
// stops for good once the registry rate limits or ctx ends.
type sequence struct {
	logger  *log.Logger
	source  project.Source
	query   string
	pacer   *httputil.Pacer
	stopped bool
}

func newSequence(logger *log.Logger, source project.Source, query string, interval time.Duration) *sequence {
	return &sequence{
		logger: logger,
		source: source,
		query:  query,
		pacer:  httputil.NewPacer(interval),
	}
}

// step runs one request. It reports whether further requests may follow.
// A failed request that is neither a rate limit nor a cancellation only
// skips that request's contribution.
func (s *sequence) step(ctx context.Context, variant string, fn func(context.Context) error) bool {
	if s.stopped {
		return false
	}
	if err := s.pacer.Wait(ctx); err != nil {
		s.stopped = true
		return false
	}
	err := fn(ctx)
	s.pacer.Done()
	switch {
	case err == nil:
		return true
	case errors.Is(err, integrations.ErrRateLimited):
		s.logger.Warn("rate limited, returning partial results", "source", s.source, "variant", variant)
		s.stopped = true
	case ctx.Err() != nil:
		s.logger.Debug("request cancelled", "source", s.source, "variant", variant)
		s.stopped = true
	case errors.Is(err, integrations.ErrNotFound):
		s.logger.Debug("no match", "source", s.source, "variant", variant, "query", s.query)
	default:
		s.logger.Warn("request failed", "source", s.source, "variant", variant, "query", s.query, "err", err)
	}
	return !s.stopped
}

func orDefault(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.Default()
	}
	return logger
}
