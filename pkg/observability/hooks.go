// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through globally registered hook interfaces; the
// defaults are no-ops. Hooks are registered by main (the CLI registers
// logging hooks under --verbose), never by libraries, which keeps the
// search core free of any observability backend.
//
// Register hooks at application startup:
//
//	observability.SetSearchHooks(&mySearchHooks{})
//	observability.SetHTTPHooks(&myHTTPHooks{})
//
// Libraries call hooks to emit events:
//
//	observability.Search().OnSourceStart(ctx, "github", query, deep)
//	// ... run adapter ...
//	observability.Search().OnSourceComplete(ctx, "github", count, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Search Hooks
// =============================================================================

// SearchHooks receives events from the aggregation controller.
type SearchHooks interface {
	// OnSearchStart records a fan-out over sources.
	OnSearchStart(ctx context.Context, query string, sources []string, deep bool)

	// OnSourceStart records an adapter starting.
	OnSourceStart(ctx context.Context, source, query string, deep bool)

	// OnSourceComplete records an adapter finishing with count projects.
	OnSourceComplete(ctx context.Context, source string, count int, duration time.Duration)

	// OnSearchComplete records the ranked result size.
	OnSearchComplete(ctx context.Context, query string, count int, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// AI Hooks
// =============================================================================

// AIHooks receives events from the AI worker.
type AIHooks interface {
	// OnChatStart records a chat handed to the provider.
	OnChatStart(ctx context.Context, provider, model string)

	// OnChatComplete records a finished chat. err is nil on success and
	// the abort error when the chat was stopped.
	OnChatComplete(ctx context.Context, provider string, tokens int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSearchHooks is a no-op implementation of SearchHooks.
type NoopSearchHooks struct{}

func (NoopSearchHooks) OnSearchStart(context.Context, string, []string, bool)        {}
func (NoopSearchHooks) OnSourceStart(context.Context, string, string, bool)          {}
func (NoopSearchHooks) OnSourceComplete(context.Context, string, int, time.Duration) {}
func (NoopSearchHooks) OnSearchComplete(context.Context, string, int, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// NoopAIHooks is a no-op implementation of AIHooks.
type NoopAIHooks struct{}

func (NoopAIHooks) OnChatStart(context.Context, string, string)                       {}
func (NoopAIHooks) OnChatComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	searchHooks   SearchHooks   = NoopSearchHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	aiHooks       AIHooks       = NoopAIHooks{}
	hooksMu       sync.RWMutex
)

// SetSearchHooks registers custom search hooks.
// This should be called once at application startup before any search.
func SetSearchHooks(h SearchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		searchHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetAIHooks registers custom AI hooks.
func SetAIHooks(h AIHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		aiHooks = h
	}
}

// Search returns the registered search hooks.
func Search() SearchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return searchHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// AI returns the registered AI hooks.
func AI() AIHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return aiHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	searchHooks = NoopSearchHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
	aiHooks = NoopAIHooks{}
}
