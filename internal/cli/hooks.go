package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitseeker/pkg/observability"
)

// logHooks reports search, cache, HTTP and AI activity at debug level.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetSearchHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
	observability.SetAIHooks(h)
}

func (h logHooks) OnSearchStart(_ context.Context, query string, sources []string, deep bool) {
	h.logger.Debug("search", "query", query, "sources", sources, "deep", deep)
}

func (h logHooks) OnSourceStart(_ context.Context, source, query string, deep bool) {
	h.logger.Debug("source start", "source", source, "query", query, "deep", deep)
}

func (h logHooks) OnSourceComplete(_ context.Context, source string, count int, d time.Duration) {
	h.logger.Debug("source done", "source", source, "results", count, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnSearchComplete(_ context.Context, query string, count int, d time.Duration) {
	h.logger.Debug("search done", "query", query, "results", count, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http done", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

func (h logHooks) OnChatStart(_ context.Context, provider, model string) {
	h.logger.Debug("chat", "provider", provider, "model", model)
}

func (h logHooks) OnChatComplete(_ context.Context, provider string, tokens int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("chat ended", "provider", provider, "tokens", tokens, "took", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("chat done", "provider", provider, "tokens", tokens, "took", d.Round(time.Millisecond))
}
