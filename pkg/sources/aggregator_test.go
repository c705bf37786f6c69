package sources

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/gitseeker/pkg/cache"
	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/project"
)

type stubAdapter struct {
	source project.Source
	search func(query string, deep bool) []project.Project
	calls  atomic.Int32
}

func (s *stubAdapter) Source() project.Source { return s.source }

func (s *stubAdapter) Search(_ context.Context, query string, deep bool) project.Result {
	s.calls.Add(1)
	if s.search == nil {
		return project.Empty(s.source)
	}
	return project.NewResult(s.source, s.search(query, deep))
}

func stubProject(source project.Source, native, name string, stars int64) project.Project {
	p := project.New(source, native)
	p.Name = name
	p.FullName = name
	p.Stars = stars
	return p
}

func fixed(ps ...project.Project) func(string, bool) []project.Project {
	return func(string, bool) []project.Project {
		out := make([]project.Project, len(ps))
		copy(out, ps)
		return out
	}
}

func TestSearchCallerErrors(t *testing.T) {
	gh := &stubAdapter{source: project.GitHub}
	a := NewAggregator(quietLogger(), gh)

	tests := []struct {
		name    string
		query   string
		sources []project.Source
		code    errs.Code
	}{
		{"empty query", "", []project.Source{project.GitHub}, errs.ErrCodeInvalidQuery},
		{"whitespace query", "  \t ", []project.Source{project.GitHub}, errs.ErrCodeInvalidQuery},
		{"no sources", "react", nil, errs.ErrCodeNoSources},
		{"unknown source", "react", []project.Source{"sourceforge"}, errs.ErrCodeInvalidSource},
		{"unconfigured source", "react", []project.Source{project.NPM}, errs.ErrCodeInvalidSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Search(context.Background(), tt.query, tt.sources, true)
			if !errs.Is(err, tt.code) {
				t.Errorf("Search() error = %v, want code %s", err, tt.code)
			}
		})
	}
	if n := gh.calls.Load(); n != 0 {
		t.Errorf("adapter called %d times on caller errors, want 0", n)
	}
}

func TestSearchFanOutIsolation(t *testing.T) {
	ok := &stubAdapter{source: project.GitHub, search: fixed(
		stubProject(project.GitHub, "1", "alpha", 10),
		stubProject(project.GitHub, "2", "beta", 5),
	)}
	failing := &stubAdapter{source: project.NPM}
	panicking := &stubAdapter{source: project.GitLab, search: func(string, bool) []project.Project {
		panic("boom")
	}}
	a := NewAggregator(quietLogger(), ok, failing, panicking)

	got, err := a.Search(context.Background(), "zzz", []project.Source{project.GitHub, project.NPM, project.GitLab}, true)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Search() = %d projects, want exactly the ok adapter's 2", len(got))
	}
	for _, p := range got {
		if p.Source != project.GitHub {
			t.Errorf("unexpected project from %s", p.Source)
		}
	}
}

func TestSearchTotalFailureIsEmptyNotError(t *testing.T) {
	a := NewAggregator(quietLogger(), &stubAdapter{source: project.GitHub}, &stubAdapter{source: project.NPM})

	got, err := a.Search(context.Background(), "react", []project.Source{project.GitHub, project.NPM}, false)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Search() = %v, want empty non-nil slice", got)
	}
}

func TestSearchRanksAcrossSources(t *testing.T) {
	gh := &stubAdapter{source: project.GitHub, search: fixed(
		stubProject(project.GitHub, "1", "react-helpers", 10),
	)}
	np := &stubAdapter{source: project.NPM, search: fixed(
		stubProject(project.NPM, "react", "react", 10),
	)}
	a := NewAggregator(quietLogger(), gh, np)

	got, err := a.Search(context.Background(), "react", []project.Source{project.GitHub, project.NPM}, false)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "react" {
		t.Errorf("exact match should rank first, got %v", names(got))
	}
}

func TestSearchCollapsesDuplicateSources(t *testing.T) {
	gh := &stubAdapter{source: project.GitHub, search: fixed(stubProject(project.GitHub, "1", "a", 1))}
	a := NewAggregator(quietLogger(), gh)

	got, err := a.Search(context.Background(), "a", []project.Source{project.GitHub, project.GitHub}, false)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if gh.calls.Load() != 1 {
		t.Errorf("adapter calls = %d, want 1", gh.calls.Load())
	}
	if len(got) != 1 {
		t.Errorf("results = %d, want 1", len(got))
	}
}

func TestSearchNoCrossSourceDedup(t *testing.T) {
	gh := &stubAdapter{source: project.GitHub, search: fixed(stubProject(project.GitHub, "react", "react", 1))}
	np := &stubAdapter{source: project.NPM, search: fixed(stubProject(project.NPM, "react", "react", 1))}
	a := NewAggregator(quietLogger(), gh, np)

	got, _ := a.Search(context.Background(), "react", []project.Source{project.GitHub, project.NPM}, false)
	if len(got) != 2 {
		t.Errorf("results = %d, want 2 (same name on two sources is two projects)", len(got))
	}
}

func TestSearchResultCache(t *testing.T) {
	gh := &stubAdapter{source: project.GitHub, search: fixed(stubProject(project.GitHub, "1", "react", 1))}
	mem, err := cache.NewMemoryCache(16)
	if err != nil {
		t.Fatal(err)
	}
	a := NewAggregator(quietLogger(), gh).WithCache(mem, nil, time.Minute)

	for range 3 {
		got, err := a.Search(context.Background(), " React ", []project.Source{project.GitHub}, true)
		if err != nil {
			t.Fatalf("Search() error: %v", err)
		}
		if len(got) != 1 || got[0].ID != "github-1" {
			t.Fatalf("Search() = %v", names(got))
		}
	}
	if gh.calls.Load() != 1 {
		t.Errorf("adapter calls = %d, want 1 (cached)", gh.calls.Load())
	}

	if _, err := a.Search(context.Background(), "react", []project.Source{project.GitHub}, false); err != nil {
		t.Fatal(err)
	}
	if gh.calls.Load() != 2 {
		t.Errorf("shallow mode should not share the deep cache entry")
	}
}

func TestSourcesKeepsRegistrationOrder(t *testing.T) {
	a := NewAggregator(nil,
		&stubAdapter{source: project.NPM},
		&stubAdapter{source: project.GitHub},
		&stubAdapter{source: project.NPM},
	)
	got := a.Sources()
	if len(got) != 2 || got[0] != project.NPM || got[1] != project.GitHub {
		t.Errorf("Sources() = %v", got)
	}
}

func TestSearchAgainstRegistries(t *testing.T) {
	reg := newFakeRegistry(t)
	d := reg.wire(0)

	got, err := d.Search(context.Background(), "react", project.DefaultSources(), false)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	bySource := make(map[project.Source]int)
	for _, p := range got {
		bySource[p.Source]++
	}
	for _, s := range project.DefaultSources() {
		if bySource[s] == 0 {
			t.Errorf("no results from %s", s)
		}
		if reg.count(s) != 1 {
			t.Errorf("%s requests = %d, want 1", s, reg.count(s))
		}
	}
	if reg.count(project.PyPI) != 0 {
		t.Error("pypi should not be queried unless selected")
	}
	if got[0].FullName != "facebook/react" {
		t.Errorf("top result = %q, want facebook/react", got[0].FullName)
	}
}

func names(ps []project.Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p.Source) + ":" + p.Name
	}
	return out
}
