package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/httputil"
	"github.com/matzehuels/gitseeker/pkg/observability"
)

const maxErrorBody = 512

// StatusError is the cause attached to provider errors for non-2xx
// responses.
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// endpoint is the shared request plumbing of the chat providers.
type endpoint struct {
	name    string
	baseURL string
	headers map[string]string
	client  *http.Client
}

func (e *endpoint) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode %s request", e.name)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, rd)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "build %s request", e.name)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range e.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, req.URL.Host, req.URL.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errs.Wrap(errs.ErrCodeAIProvider, err, "%s request failed", e.name)
	}
	hooks.OnResponse(ctx, method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))
	if err := e.checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func (e *endpoint) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	cause := &StatusError{
		Provider: e.name,
		Status:   resp.StatusCode,
		Body:     httputil.Snippet(resp.Body, maxErrorBody),
	}
	code := errs.ErrCodeAIProvider
	if resp.StatusCode == http.StatusUnauthorized {
		code = errs.ErrCodeUnauthorized
	}
	return errs.Wrap(code, cause, "%s request failed", e.name)
}

// stream posts body and hands every server-sent event to fn.
func (e *endpoint) stream(ctx context.Context, path string, body any, fn func(httputil.Event) error) error {
	resp, err := e.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	err = httputil.ReadEvents(resp.Body, fn)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		var typed *errs.Error
		if errors.As(err, &typed) {
			return err
		}
		return errs.Wrap(errs.ErrCodeAIProvider, err, "%s stream interrupted", e.name)
	}
	return nil
}

func decodeChunk(provider, data string, v any) error {
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return errs.Wrap(errs.ErrCodeAIProvider, err, "malformed %s stream chunk", provider)
	}
	return nil
}
