// Package project defines the unified entity every registry normalizes into.
//
// Adapters in [github.com/matzehuels/gitseeker/pkg/sources] map raw registry
// responses onto [Project]. Projects are created fresh per query, never
// persisted, and are not mutated after ranking.
package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/gitseeker/pkg/errors"
)

// Source identifies the registry a project was found in.
type Source string

const (
	GitHub      Source = "github"
	HuggingFace Source = "huggingface"
	GitLab      Source = "gitlab"
	NPM         Source = "npm"
	PyPI        Source = "pypi"
)

var allSources = []Source{GitHub, HuggingFace, GitLab, NPM, PyPI}

var labels = map[Source]string{
	GitHub:      "GitHub",
	HuggingFace: "Hugging Face",
	GitLab:      "GitLab",
	NPM:         "npm",
	PyPI:        "PyPI",
}

// AllSources returns every supported source in display order.
func AllSources() []Source {
	out := make([]Source, len(allSources))
	copy(out, allSources)
	return out
}

// DefaultSources returns the sources searched when the caller selects none.
// PyPI is opt-in because it only supports exact-name lookup.
func DefaultSources() []Source {
	return []Source{GitHub, HuggingFace, GitLab, NPM}
}

// Valid reports whether s is one of the supported sources.
func (s Source) Valid() bool {
	_, ok := labels[s]
	return ok
}

// Label returns the human-readable registry name.
func (s Source) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// ParseSource converts a user-supplied name to a Source.
// Matching is case-insensitive; "hf" is accepted for Hugging Face.
func ParseSource(name string) (Source, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "hf" {
		return HuggingFace, nil
	}
	s := Source(n)
	if !s.Valid() {
		return "", errors.New(errors.ErrCodeInvalidSource, "unknown source %q (valid: %s)", name, joinSources(allSources))
	}
	return s, nil
}

// ParseSources parses a list of names, dropping duplicates while keeping
// the first occurrence's position.
func ParseSources(names []string) ([]Source, error) {
	seen := make(map[Source]bool, len(names))
	out := make([]Source, 0, len(names))
	for _, n := range names {
		s, err := ParseSource(n)
		if err != nil {
			return nil, err
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out, nil
}

func joinSources(srcs []Source) string {
	parts := make([]string, len(srcs))
	for i, s := range srcs {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// Author is the owner or publisher of a project.
type Author struct {
	Name   string `json:"name" yaml:"name"`
	Avatar string `json:"avatar" yaml:"avatar,omitempty"`
}

// Project is the unified representation of a repository, model or package.
//
// Stars carries a different meaning per source (star count, likes, or a
// synthesized quality score); compare across sources only through the
// ranking package.
type Project struct {
	ID          string    `json:"id" yaml:"id"`
	Source      Source    `json:"source" yaml:"source"`
	Name        string    `json:"name" yaml:"name"`
	FullName    string    `json:"fullName" yaml:"fullName"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string    `json:"url" yaml:"url"`
	Stars       int64     `json:"stars" yaml:"stars"`
	Downloads   int64     `json:"downloads,omitempty" yaml:"downloads,omitempty"`
	Language    string    `json:"language,omitempty" yaml:"language,omitempty"`
	Topics      []string  `json:"topics" yaml:"topics"`
	Author      Author    `json:"author" yaml:"author"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
	License     string    `json:"license,omitempty" yaml:"license,omitempty"`
}

// New returns a project with its id derived from the source and the
// registry-native identifier.
func New(source Source, nativeID string) Project {
	return Project{
		ID:     ID(source, nativeID),
		Source: source,
		Topics: []string{},
	}
}

// ID builds the globally unique project id.
func ID(source Source, nativeID string) string {
	return fmt.Sprintf("%s-%s", source, nativeID)
}

// Normalize enforces the entity invariants: non-negative counters and a
// non-nil topic list.
func (p *Project) Normalize() {
	if p.Stars < 0 {
		p.Stars = 0
	}
	if p.Downloads < 0 {
		p.Downloads = 0
	}
	if p.Topics == nil {
		p.Topics = []string{}
	}
}

// Owner returns the first segment of FullName, or the author name when
// FullName has no owner part.
func (p Project) Owner() string {
	if i := strings.Index(p.FullName, "/"); i > 0 {
		return p.FullName[:i]
	}
	return p.Author.Name
}

// Result is the output of one adapter for one query.
type Result struct {
	Projects   []Project `json:"projects"`
	TotalCount int       `json:"totalCount"`
	Source     Source    `json:"source"`
}

// Empty returns a result with no projects for source.
func Empty(source Source) Result {
	return Result{Projects: []Project{}, Source: source}
}

// NewResult wraps projects, normalizing each and setting TotalCount.
func NewResult(source Source, projects []Project) Result {
	if projects == nil {
		projects = []Project{}
	}
	for i := range projects {
		projects[i].Normalize()
	}
	return Result{Projects: projects, TotalCount: len(projects), Source: source}
}
