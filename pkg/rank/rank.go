// Package rank orders unified projects by relevance to a free-text query.
//
// The score is a sum of independent components, each a pure function of a
// project and a [Query]. Components are listed in [Components] in priority
// order; each can be tested and tuned on its own. The sum is clamped to be
// non-negative.
//
// Popularity is scaled logarithmically so a better textual match can
// outrank a much more popular project:
//
//	rank.Sort(projects, "react", time.Now())
package rank

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/matzehuels/gitseeker/pkg/project"
)

// Query is a search query pre-processed for scoring.
type Query struct {
	Raw   string
	Lower string    // trimmed, lowercased
	Words []string  // lowercase whitespace-split words longer than one character
	Now   time.Time // reference time for recency
}

// NewQuery prepares raw for scoring against projects at time now.
func NewQuery(raw string, now time.Time) Query {
	lower := strings.ToLower(strings.TrimSpace(raw))
	var words []string
	for _, w := range strings.Fields(lower) {
		if utf8.RuneCountInString(w) > 1 {
			words = append(words, w)
		}
	}
	return Query{Raw: raw, Lower: lower, Words: words, Now: now}
}

// Component is one additive sub-score.
type Component struct {
	Name  string
	Score func(p *project.Project, q Query) float64
}

// Components lists every sub-score in priority order.
var Components = []Component{
	{"name", nameTier},
	{"coverage", wordCoverage},
	{"overlap", wordOverlap},
	{"full_name", fullNameMatch},
	{"description", descriptionMatch},
	{"topics", topicMatch},
	{"author", authorMatch},
	{"popularity", popularity},
	{"recency", recency},
	{"source", sourcePrior},
	{"license", licensePreference},
	{"language", languageMatch},
	{"docs", docsQuality},
}

// Score returns the relevance of p for q. It is deterministic and never
// negative.
func Score(p project.Project, q Query) float64 {
	var total float64
	for _, c := range Components {
		total += c.Score(&p, q)
	}
	return max(total, 0)
}

// Breakdown returns each component's contribution, keyed by component name.
func Breakdown(p project.Project, q Query) map[string]float64 {
	out := make(map[string]float64, len(Components))
	for _, c := range Components {
		out[c.Name] = c.Score(&p, q)
	}
	return out
}

// Sort orders projects by descending score for query. The sort is stable:
// projects with equal scores keep their input order.
func Sort(projects []project.Project, query string, now time.Time) {
	q := NewQuery(query, now)
	scored := make([]scoredProject, len(projects))
	for i, p := range projects {
		scored[i] = scoredProject{p: p, score: Score(p, q)}
	}
	slices.SortStableFunc(scored, func(a, b scoredProject) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})
	for i := range scored {
		projects[i] = scored[i].p
	}
}

type scoredProject struct {
	p     project.Project
	score float64
}
