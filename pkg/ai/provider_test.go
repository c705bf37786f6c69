package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/gitseeker/pkg/errors"
)

type capturedRequest struct {
	method string
	path   string
	header http.Header
	body   map[string]any
}

// sseServer replies to every request with the given events and reports
// each request on the returned channel.
func sseServer(t *testing.T, status int, events ...string) (*httptest.Server, <-chan capturedRequest) {
	t.Helper()
	reqs := make(chan capturedRequest, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		reqs <- capturedRequest{method: r.Method, path: r.URL.Path, header: r.Header.Clone(), body: body}

		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error":{"message":"invalid api key"}}`)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, ev := range events {
			fmt.Fprint(w, ev, "\n\n")
		}
	}))
	t.Cleanup(srv.Close)
	return srv, reqs
}

func collect(t *testing.T, p Provider, msgs []Message) ([]string, error) {
	t.Helper()
	var tokens []string
	err := p.Stream(context.Background(), "test-model", msgs, func(tok string) {
		tokens = append(tokens, tok)
	})
	return tokens, err
}

func TestParseProvider(t *testing.T) {
	for _, name := range []string{"openai", "Anthropic", " openrouter "} {
		_, err := ParseProvider(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseProvider("webllm")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
}

func TestConfigResolvedModel(t *testing.T) {
	tests := []struct {
		cfg  Config
		want string
	}{
		{Config{Provider: OpenAI}, "gpt-3.5-turbo"},
		{Config{Provider: Anthropic}, "claude-3-haiku-20240307"},
		{Config{Provider: OpenRouter}, "meta-llama/llama-3-8b-instruct"},
		{Config{Provider: OpenAI, Model: "gpt-4o"}, "gpt-4o"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cfg.ResolvedModel())
	}
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider(Config{Provider: OpenAI})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeConfig))

	p, err := NewProvider(Config{Provider: Anthropic, APIKeys: map[string]string{Anthropic: "k"}})
	require.NoError(t, err)
	assert.Equal(t, Anthropic, p.Name())

	p, err = NewProvider(Config{Provider: OpenRouter, APIKeys: map[string]string{OpenRouter: "k"}})
	require.NoError(t, err)
	assert.Equal(t, OpenRouter, p.Name())
}

func TestValidateKeyRejectsBadInput(t *testing.T) {
	err := ValidateKey(context.Background(), "nope", "key")
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))

	err = ValidateKey(context.Background(), OpenAI, "")
	assert.True(t, errs.Is(err, errs.ErrCodeConfig))
}

func TestOpenAIStream(t *testing.T) {
	srv, reqs := sseServer(t, http.StatusOK,
		`data: {"choices":[{"delta":{"role":"assistant"}}]}`,
		`data: {"choices":[{"delta":{"content":"Hel"}}]}`,
		`data: {"choices":[{"delta":{"content":"lo"}}]}`,
		`data: [DONE]`,
		`data: {"choices":[{"delta":{"content":"ignored"}}]}`,
	)

	p := NewOpenAI("sk-test").WithBaseURL(srv.URL)
	tokens, err := collect(t, p, []Message{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo"}, tokens)

	req := <-reqs
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/chat/completions", req.path)
	assert.Equal(t, "Bearer sk-test", req.header.Get("Authorization"))
	assert.Equal(t, "test-model", req.body["model"])
	assert.Equal(t, true, req.body["stream"])
	assert.InDelta(t, 0.7, req.body["temperature"], 1e-9)
	assert.InDelta(t, 2000, req.body["max_tokens"], 1e-9)
	assert.Empty(t, req.header.Get("X-Title"))
}

func TestOpenRouterHeaders(t *testing.T) {
	srv, reqs := sseServer(t, http.StatusOK, `data: {"choices":[{"delta":{"content":"ok"}}]}`, `data: [DONE]`)

	p := NewOpenRouter("or-key").WithBaseURL(srv.URL)
	tokens, err := collect(t, p, []Message{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, tokens)

	req := <-reqs
	assert.Equal(t, "GitSeeker", req.header.Get("X-Title"))
	assert.Equal(t, "Bearer or-key", req.header.Get("Authorization"))
}

func TestOpenAIStreamError(t *testing.T) {
	srv, _ := sseServer(t, http.StatusOK, `data: {"error":{"message":"overloaded"}}`)
	_, err := collect(t, NewOpenAI("k").WithBaseURL(srv.URL), nil)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeAIProvider))
	assert.Contains(t, err.Error(), "overloaded")

	srv, _ = sseServer(t, http.StatusOK, `data: {not json`)
	_, err = collect(t, NewOpenAI("k").WithBaseURL(srv.URL), nil)
	assert.True(t, errs.Is(err, errs.ErrCodeAIProvider))
}

func TestProviderStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		code   errs.Code
	}{
		{http.StatusUnauthorized, errs.ErrCodeUnauthorized},
		{http.StatusTooManyRequests, errs.ErrCodeAIProvider},
		{http.StatusInternalServerError, errs.ErrCodeAIProvider},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv, _ := sseServer(t, tt.status)
			for _, p := range []Provider{
				NewOpenAI("k").WithBaseURL(srv.URL),
				NewAnthropic("k").WithBaseURL(srv.URL),
			} {
				_, err := collect(t, p, []Message{{Role: RoleUser, Content: "hi"}})
				require.Error(t, err)
				assert.Equal(t, tt.code, errs.GetCode(err), p.Name())

				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, tt.status, se.Status)
				assert.Contains(t, se.Body, "invalid api key")
			}
		})
	}
}

func TestStreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	err := NewOpenAI("k").WithBaseURL(srv.URL).Stream(ctx, "m", nil, func(string) { cancel() })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnthropicStream(t *testing.T) {
	srv, reqs := sseServer(t, http.StatusOK,
		"event: message_start\ndata: {\"type\":\"message_start\"}",
		"event: content_block_start\ndata: {\"type\":\"content_block_start\"}",
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"• fast\"}}",
		"event: ping\ndata: {\"type\":\"ping\"}",
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\" parser\"}}",
		"event: message_stop\ndata: {\"type\":\"message_stop\"}",
	)

	p := NewAnthropic("ant-key").WithBaseURL(srv.URL)
	tokens, err := collect(t, p, []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "analyze"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"• fast", " parser"}, tokens)

	req := <-reqs
	assert.Equal(t, "/messages", req.path)
	assert.Equal(t, "ant-key", req.header.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", req.header.Get("anthropic-version"))
	assert.Equal(t, "be brief", req.body["system"])
	msgs, ok := req.body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
	assert.InDelta(t, 2000, req.body["max_tokens"], 1e-9)
}

func TestAnthropicErrorEvent(t *testing.T) {
	srv, _ := sseServer(t, http.StatusOK,
		"event: error\ndata: {\"type\":\"error\",\"error\":{\"type\":\"overloaded_error\",\"message\":\"Overloaded\"}}",
	)
	_, err := collect(t, NewAnthropic("k").WithBaseURL(srv.URL), nil)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeAIProvider))
	assert.Contains(t, err.Error(), "Overloaded")
}

func TestSplitSystem(t *testing.T) {
	system, rest := splitSystem([]Message{
		{Role: RoleSystem, Content: "a"},
		{Role: RoleUser, Content: "q"},
		{Role: RoleSystem, Content: "b"},
		{Role: RoleAssistant, Content: "r"},
	})
	assert.Equal(t, "a\n\nb", system)
	assert.Equal(t, []Message{{Role: RoleUser, Content: "q"}, {Role: RoleAssistant, Content: "r"}}, rest)
}

func TestValidate(t *testing.T) {
	srv, reqs := sseServer(t, http.StatusOK)
	require.NoError(t, NewOpenAI("k").WithBaseURL(srv.URL).Validate(context.Background()))
	req := <-reqs
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/models", req.path)

	bad, _ := sseServer(t, http.StatusUnauthorized)
	err := NewOpenRouter("k").WithBaseURL(bad.URL).Validate(context.Background())
	assert.True(t, errs.Is(err, errs.ErrCodeUnauthorized))

	// The messages API answers 400 to a well-authenticated but odd request.
	accepted, reqs := sseServer(t, http.StatusBadRequest)
	require.NoError(t, NewAnthropic("k").WithBaseURL(accepted.URL).Validate(context.Background()))
	req = <-reqs
	assert.Equal(t, http.MethodPost, req.method)
	assert.InDelta(t, 1, req.body["max_tokens"], 1e-9)

	err = NewAnthropic("k").WithBaseURL(bad.URL).Validate(context.Background())
	assert.True(t, errs.Is(err, errs.ErrCodeUnauthorized))
}
