package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Search hooks
	s := NoopSearchHooks{}
	s.OnSearchStart(ctx, "react", []string{"github", "npm"}, true)
	s.OnSourceStart(ctx, "github", "react", true)
	s.OnSourceComplete(ctx, "github", 42, time.Second)
	s.OnSearchComplete(ctx, "react", 60, time.Second)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "http")
	c.OnCacheMiss(ctx, "readme")
	c.OnCacheSet(ctx, "search", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "api.github.com", "/search/repositories")
	h.OnResponse(ctx, "GET", "api.github.com", "/search/repositories", 200, time.Second)
	h.OnError(ctx, "GET", "api.github.com", "/search/repositories", nil)

	a := NoopAIHooks{}
	a.OnChatStart(ctx, "openai", "gpt-4o-mini")
	a.OnChatComplete(ctx, "openai", 12, time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Search().(NoopSearchHooks); !ok {
		t.Error("Search() should return NoopSearchHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customSearch := &testSearchHooks{}
	SetSearchHooks(customSearch)
	if Search() != customSearch {
		t.Error("SetSearchHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	SetAIHooks(nil)
	if _, ok := AI().(NoopAIHooks); !ok {
		t.Error("SetAIHooks(nil) should keep the default")
	}

	// Reset and verify
	Reset()
	if _, ok := Search().(NoopSearchHooks); !ok {
		t.Error("Reset() should restore NoopSearchHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testSearchHooks{}
	SetSearchHooks(custom)

	// Setting nil should be ignored
	SetSearchHooks(nil)

	if Search() != custom {
		t.Error("SetSearchHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testSearchHooks struct{ NoopSearchHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
