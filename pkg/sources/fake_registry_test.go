package sources

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitseeker/pkg/cache"
	"github.com/matzehuels/gitseeker/pkg/project"
)

// fakeRegistry serves the endpoints of all five registries from one
// httptest server and counts requests per source.
type fakeRegistry struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	hits     map[project.Source]int
	times    map[project.Source][]time.Time
	ends     map[project.Source][]time.Time
	delay    map[project.Source]time.Duration
	limitAt  map[project.Source]int // 1-based request number that is rate limited
	failAll  map[project.Source]bool
	pypiPkgs map[string]bool
}

func newFakeRegistry(t *testing.T) *fakeRegistry {
	t.Helper()
	f := &fakeRegistry{
		t:        t,
		hits:     make(map[project.Source]int),
		times:    make(map[project.Source][]time.Time),
		ends:     make(map[project.Source][]time.Time),
		delay:    make(map[project.Source]time.Duration),
		limitAt:  make(map[project.Source]int),
		failAll:  make(map[project.Source]bool),
		pypiPkgs: map[string]bool{"flask": true, "python-flask": true},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeRegistry) count(s project.Source) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[s]
}

func (f *fakeRegistry) record(s project.Source) (n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits[s]++
	f.times[s] = append(f.times[s], time.Now())
	return f.hits[s]
}

func (f *fakeRegistry) finish(s project.Source) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ends[s] = append(f.ends[s], time.Now())
}

func (f *fakeRegistry) serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	var src project.Source
	switch {
	case path == "/search/repositories":
		src = project.GitHub
	case strings.HasPrefix(path, "/api/models"), strings.HasPrefix(path, "/api/datasets"):
		src = project.HuggingFace
	case path == "/api/v4/projects":
		src = project.GitLab
	case path == "/-/v1/search":
		src = project.NPM
	case strings.HasPrefix(path, "/pypi/"):
		src = project.PyPI
	default:
		f.serveRaw(w, r)
		return
	}

	n := f.record(src)
	f.mu.Lock()
	limited := f.limitAt[src] == n
	failed := f.failAll[src]
	delay := f.delay[src]
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	defer f.finish(src)
	if limited {
		w.WriteHeader(http.StatusTooManyRequests)
		return
	}
	if failed {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	switch src {
	case project.GitHub:
		items := []map[string]any{ghRepo(1, "react", "facebook/react", 230000)}
		if strings.Contains(q.Get("q"), "in:") {
			items = append(items, ghRepo(3, "react-router", "remix-run/react-router", 54000))
		} else {
			items = append(items, ghRepo(2, "react-native", "facebook/react-native", 120000))
		}
		writeJSON(w, map[string]any{"total_count": len(items), "items": items})
	case project.HuggingFace:
		if strings.HasPrefix(path, "/api/datasets") {
			writeJSON(w, []map[string]any{{"id": "org/react-data", "likes": 3}})
			return
		}
		writeJSON(w, []map[string]any{
			{"id": "org/react-model", "likes": 12, "downloads": 900, "tags": []string{"license:mit"}},
			{"id": "org/react-model", "likes": 12},
		})
	case project.GitLab:
		writeJSON(w, []map[string]any{{
			"id": 7, "name": "react-app", "path_with_namespace": "group/react-app",
			"web_url": "https://gitlab.com/group/react-app", "star_count": 40,
			"tag_list": []string{"react"},
			"namespace": map[string]any{"name": "Group"},
		}})
	case project.NPM:
		objs := []map[string]any{npmObject("react", 0.82)}
		if strings.HasPrefix(q.Get("text"), "keywords:") {
			objs = append(objs, npmObject("react-dom", 0.8), npmObject("react", 0.82))
		}
		writeJSON(w, map[string]any{"total": len(objs), "objects": objs})
	case project.PyPI:
		name := strings.TrimSuffix(strings.TrimPrefix(path, "/pypi/"), "/json")
		if !f.pypiPkgs[name] {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, map[string]any{
			"info": map[string]any{"name": name, "summary": name + " package", "keywords": "web,wsgi", "license": "BSD"},
			"urls": []map[string]any{{"upload_time_iso_8601": "2026-01-01T00:00:00Z"}},
		})
	}
}

// serveRaw stands in for the raw README hosts.
func (f *fakeRegistry) serveRaw(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/facebook/react/main/README.md":
		io.WriteString(w, "# React")
	case "/org/react-model/raw/main/README.md":
		io.WriteString(w, "model card")
	case "/group/react-app/-/raw/main/README.md":
		io.WriteString(w, "gitlab readme")
	case "/react":
		writeJSON(w, map[string]any{"name": "react", "readme": "npm readme"})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeRegistry) baseURLs() map[string]string {
	return map[string]string{
		"github":      f.srv.URL,
		"huggingface": f.srv.URL,
		"gitlab":      f.srv.URL,
		"npm":         f.srv.URL,
		"pypi":        f.srv.URL + "/pypi",
	}
}

// wire builds the default wiring against the fake registry with pacing
// disabled unless interval is positive.
func (f *fakeRegistry) wire(interval time.Duration) *Default {
	d := NewDefault(Config{
		Cache:    cache.NewNullCache(),
		BaseURLs: f.baseURLs(),
		Logger:   quietLogger(),
	})
	for _, s := range d.Sources() {
		switch a := d.adapters[s].(type) {
		case *GitHub:
			a.Interval = interval
		case *HuggingFace:
			a.Interval = interval
		case *GitLab:
			a.Interval = interval
		case *NPM:
			a.Interval = interval
		case *PyPI:
			a.Interval = interval
		}
	}
	return d
}

func ghRepo(id int64, name, full string, stars int64) map[string]any {
	owner, _, _ := strings.Cut(full, "/")
	return map[string]any{
		"id": id, "name": name, "full_name": full,
		"html_url":         "https://github.com/" + full,
		"stargazers_count": stars,
		"updated_at":       "2026-01-01T00:00:00Z",
		"owner":            map[string]any{"login": owner},
		"license":          map[string]any{"name": "MIT License"},
	}
}

func npmObject(name string, quality float64) map[string]any {
	return map[string]any{
		"package": map[string]any{
			"name": name, "date": "2026-01-01T00:00:00Z",
			"links":     map[string]any{"npm": "https://www.npmjs.com/package/" + name},
			"publisher": map[string]any{"username": "bot"},
		},
		"score":     map[string]any{"detail": map[string]any{"quality": quality}},
		"downloads": map[string]any{"monthly": 1000},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
