package huggingface

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/gitseeker/pkg/cache"
	"github.com/matzehuels/gitseeker/pkg/integrations"
)

func TestListModels(t *testing.T) {
	var path, raw string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, raw = r.URL.Path, r.URL.RawQuery
		w.Write([]byte(`[{
			"id": "meta-llama/Llama-3.1-8B-Instruct",
			"author": "meta-llama",
			"pipeline_tag": "text-generation",
			"library_name": "transformers",
			"likes": 4200,
			"downloads": 5000000,
			"tags": ["transformers", "llama", "license:llama3.1"],
			"lastModified": "2026-02-03T04:05:06.000Z"
		}]`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	models, err := c.ListModels(context.Background(), "llama", 50)
	if err != nil {
		t.Fatalf("ListModels() error: %v", err)
	}
	if path != "/api/models" {
		t.Errorf("path = %q", path)
	}
	if raw != "direction=-1&limit=50&search=llama&sort=downloads" {
		t.Errorf("query = %q", raw)
	}
	if len(models) != 1 {
		t.Fatalf("models = %d, want 1", len(models))
	}
	m := models[0]
	if m.Likes != 4200 || m.Downloads != 5000000 || m.PipelineTag != "text-generation" {
		t.Errorf("unexpected model: %+v", m)
	}
	if m.License() != "llama3.1" {
		t.Errorf("License() = %q", m.License())
	}
	if m.LastModified.IsZero() {
		t.Error("lastModified not decoded")
	}
}

func TestListDatasets(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`[{"id": "openai/gsm8k", "likes": 900}]`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	sets, err := c.ListDatasets(context.Background(), "gsm8k", 20)
	if err != nil {
		t.Fatalf("ListDatasets() error: %v", err)
	}
	if path != "/api/datasets" {
		t.Errorf("path = %q", path)
	}
	if len(sets) != 1 || sets[0].ID != "openai/gsm8k" {
		t.Errorf("datasets = %+v", sets)
	}
}

func TestListModelsRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	if _, err := c.ListModels(context.Background(), "x", 50); !errors.Is(err, integrations.ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited", err)
	}
}

func TestFetchReadme(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/gpt2/raw/main/README.md":
			w.Write([]byte("model card"))
		case "/datasets/openai/gsm8k/raw/main/README.md":
			w.Write([]byte("dataset card"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	for id, want := range map[string]string{
		"gpt2":                  "model card",
		"datasets/openai/gsm8k": "dataset card",
	} {
		got, err := c.FetchReadme(context.Background(), id)
		if err != nil {
			t.Fatalf("FetchReadme(%q) error: %v", id, err)
		}
		if got != want {
			t.Errorf("FetchReadme(%q) = %q, want %q", id, got, want)
		}
	}

	if _, err := c.FetchReadme(context.Background(), "../secret"); !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("traversal error = %v, want ErrNotFound", err)
	}
}

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	return NewClient(cache.NewNullCache(), "", time.Hour).WithBaseURL(serverURL)
}
