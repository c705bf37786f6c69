package rank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gitseeker/pkg/project"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) time.Time {
	return now.Add(-time.Duration(d) * 24 * time.Hour)
}

func TestNewQuery(t *testing.T) {
	q := NewQuery("  Machine  Learning a ", now)
	assert.Equal(t, "machine  learning a", q.Lower)
	assert.Equal(t, []string{"machine", "learning"}, q.Words)
	assert.Equal(t, now, q.Now)
}

func TestNewQueryCountsCharacters(t *testing.T) {
	q := NewQuery("é 中 café 中文", now)
	assert.Equal(t, []string{"café", "中文"}, q.Words)
}

func TestNameTier(t *testing.T) {
	tests := []struct {
		name string
		want float64
	}{
		{"react", tierExact},
		{"React", tierExact},
		{"re-act", tierNoSeparators},
		{"reactive", tierPrefix},
		{"preact", tierSuffix},
		{"awesome-react-hooks", tierWholeSegment},
		{"superreactor", tierSubstring},
		{"vue", 0},
	}

	q := NewQuery("react", now)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := project.Project{Name: tt.name}
			assert.Equal(t, tt.want, nameTier(&p, q))
		})
	}
}

func TestWordCoverage(t *testing.T) {
	tests := []struct {
		query string
		name  string
		want  float64
	}{
		{"machine learning", "machine-learning-toolkit", 2*coveragePerWord + coverageAllWords},
		{"machine vision", "machine-learning", coveragePerWord},
		{"react", "react", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query+"/"+tt.name, func(t *testing.T) {
			p := project.Project{Name: tt.name}
			assert.Equal(t, tt.want, wordCoverage(&p, NewQuery(tt.query, now)))
		})
	}
}

func TestWordOverlap(t *testing.T) {
	p := project.Project{Name: "react-hooks-form"}
	assert.Equal(t, float64(2*overlapEqual), wordOverlap(&p, NewQuery("react hooks", now)))

	p = project.Project{Name: "typescript-types"}
	assert.Equal(t, float64(2*overlapPrefix), wordOverlap(&p, NewQuery("type", now)))

	p = project.Project{Name: "preactjs"}
	assert.Equal(t, float64(overlapContains), wordOverlap(&p, NewQuery("react", now)))
}

func TestFullNameMatch(t *testing.T) {
	p := project.Project{FullName: "facebook/react-native"}
	assert.Equal(t, float64(2*fullNamePerWord), fullNameMatch(&p, NewQuery("react native", now)))
	assert.Equal(t, float64(fullNamePhrase+fullNamePerWord), fullNameMatch(&p, NewQuery("react", now)))
}

func TestDescriptionMatch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		desc  string
		want  float64
	}{
		{"empty description", "fast", "", 0},
		// "fast" twice (300) and first seen at token 1 (180); "api" absent.
		{"occurrences and position", "fast api", "A fast web framework. Fast and simple.", 480},
		// phrase 800, six occurrences capped at 600, token 0 gives 200.
		{"capped occurrences", "go", "go go go go go go", 1600},
		// phrase 800, all words 600, each word once (2x150), positions 0 and 1 (200+180).
		{"phrase and all words", "web framework", "web framework for go", 2080},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := project.Project{Description: tt.desc}
			assert.Equal(t, tt.want, descriptionMatch(&p, NewQuery(tt.query, now)))
		})
	}
}

func TestTopicMatch(t *testing.T) {
	p := project.Project{Topics: []string{"React", "react-native", "vue"}}
	want := float64(topicExact+topicContains+topicPerWord) + float64(topicContains+topicPerWord)
	assert.Equal(t, want, topicMatch(&p, NewQuery("react", now)))
}

func TestAuthorMatch(t *testing.T) {
	p := project.Project{Author: project.Author{Name: "Facebook"}}
	assert.Equal(t, float64(authorContains), authorMatch(&p, NewQuery("facebook", now)))
	assert.Zero(t, authorMatch(&p, NewQuery("google", now)))
}

func TestPopularity(t *testing.T) {
	tests := []struct {
		name      string
		stars     int64
		downloads int64
		want      float64
	}{
		{"none", 0, 0, 0},
		{"99 stars", 99, 0, 400},
		{"100k stars", 100000, 0, 1000 + 2*starStepBonus},
		{"capped stars", 1_000_000_000_000, 0, starCap + 2*starStepBonus},
		{"downloads only", 0, 999, 450},
		{"capped downloads", 0, 1_000_000_000_000, downloadCap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := project.Project{Stars: tt.stars, Downloads: tt.downloads}
			assert.InDelta(t, tt.want, popularity(&p, Query{}), 0.01)
		})
	}
}

func TestRecency(t *testing.T) {
	tests := []struct {
		days int
		want float64
	}{
		{0, 500},
		{3, 500},
		{20, 300},
		{60, 150},
		{120, 50},
		{200, 0},
		{365, 0},
		{400, -200},
		{730, -200},
		{800, -500},
	}

	q := NewQuery("x", now)
	for _, tt := range tests {
		p := project.Project{UpdatedAt: daysAgo(tt.days)}
		assert.Equal(t, tt.want, recency(&p, q), "days=%d", tt.days)
	}

	unknown := project.Project{}
	assert.Zero(t, recency(&unknown, q))
}

func TestSourcePrior(t *testing.T) {
	gh := project.Project{Source: project.GitHub}
	npm := project.Project{Source: project.NPM}
	gl := project.Project{Source: project.GitLab}
	assert.Greater(t, sourcePrior(&gh, Query{}), sourcePrior(&npm, Query{}))
	assert.Greater(t, sourcePrior(&npm, Query{}), sourcePrior(&gl, Query{}))
}

func TestLicensePreference(t *testing.T) {
	tests := []struct {
		license string
		want    float64
	}{
		{"MIT License", 100},
		{"Apache-2.0", 100},
		{"BSD-3-Clause", 80},
		{"GNU General Public License v3.0 (GPL)", 60},
		{"MPL-2.0", 40},
		{"Proprietary", 0},
		{"", 0},
	}

	for _, tt := range tests {
		p := project.Project{License: tt.license}
		assert.Equal(t, tt.want, licensePreference(&p, Query{}), tt.license)
	}
}

func TestLanguageMatch(t *testing.T) {
	p := project.Project{Language: "Python"}
	assert.Equal(t, float64(languageOverlap), languageMatch(&p, NewQuery("python web", now)))

	p = project.Project{Language: "JavaScript"}
	assert.Zero(t, languageMatch(&p, NewQuery("react", now)))

	p = project.Project{}
	assert.Zero(t, languageMatch(&p, NewQuery("react", now)))
}

func TestDocsQuality(t *testing.T) {
	long := "An extensive description that easily runs past the fifty character threshold."
	p := project.Project{Topics: []string{"a", "b", "c", "d"}, Description: long}
	assert.Equal(t, float64(100+150), docsQuality(&p, Query{}))

	p = project.Project{Topics: make([]string, 7), Description: long + long}
	assert.Equal(t, float64(200+250), docsQuality(&p, Query{}))
}

func TestScoreDeterministic(t *testing.T) {
	p := project.Project{
		Source:      project.GitHub,
		Name:        "fastapi",
		FullName:    "tiangolo/fastapi",
		Description: "FastAPI framework, high performance, easy to learn",
		Stars:       70000,
		Topics:      []string{"python", "api", "async"},
		UpdatedAt:   daysAgo(2),
		License:     "MIT",
		Language:    "Python",
	}
	q := NewQuery("fastapi", now)

	first := Score(p, q)
	for range 10 {
		require.Equal(t, first, Score(p, q))
	}
	assert.Positive(t, first)
}

func TestScoreNonNegative(t *testing.T) {
	stale := project.Project{
		Source:    project.GitLab,
		Name:      "",
		License:   "Proprietary",
		UpdatedAt: daysAgo(3000),
	}
	for _, query := range []string{"zzz", "a", "two words", "日本"} {
		q := NewQuery(query, now)
		assert.Zero(t, Score(stale, q), query)
		assert.Less(t, sumBreakdown(stale, q), 0.0, query)
	}
}

func TestExactMatchDominance(t *testing.T) {
	base := project.Project{
		Source:    project.NPM,
		FullName:  "pkg",
		Stars:     10,
		UpdatedAt: daysAgo(10),
	}
	exact, substring := base, base
	exact.Name = "react"
	substring.Name = "preactjs"

	q := NewQuery("react", now)
	assert.Greater(t, Score(exact, q), Score(substring, q))
}

func TestReactScenario(t *testing.T) {
	cli := project.Project{
		ID:        "github-2",
		Source:    project.GitHub,
		Name:      "react-native-cli",
		FullName:  "react-native-community/react-native-cli",
		Stars:     3000,
		UpdatedAt: daysAgo(1),
	}
	react := project.Project{
		ID:        "github-1",
		Source:    project.GitHub,
		Name:      "react",
		FullName:  "facebook/react",
		Stars:     200000,
		UpdatedAt: daysAgo(1),
	}

	ps := []project.Project{cli, react}
	Sort(ps, "react", now)
	assert.Equal(t, "github-1", ps[0].ID)
}

func TestStalePenalty(t *testing.T) {
	fresh := project.Project{Source: project.GitHub, Name: "lib", Stars: 500, UpdatedAt: daysAgo(3)}
	stale := fresh
	stale.UpdatedAt = daysAgo(800)

	q := NewQuery("lib", now)
	assert.Less(t, Score(stale, q), Score(fresh, q))
	assert.Equal(t, -500.0, Breakdown(stale, q)["recency"])
}

func TestSortStable(t *testing.T) {
	mk := func(id string) project.Project {
		return project.Project{ID: id, Source: project.NPM, Name: "same", FullName: "same"}
	}
	ps := []project.Project{mk("npm-c"), mk("npm-a"), mk("npm-b")}
	ps = append(ps, project.Project{ID: "npm-top", Source: project.NPM, Name: "query"})

	Sort(ps, "query", now)
	ids := func() []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.ID
		}
		return out
	}
	want := []string{"npm-top", "npm-c", "npm-a", "npm-b"}
	assert.Equal(t, want, ids())

	Sort(ps, "query", now)
	assert.Equal(t, want, ids())
}

func TestSortEmpty(t *testing.T) {
	var ps []project.Project
	Sort(ps, "anything", now)
	assert.Empty(t, ps)
}

func TestBreakdownCoversComponents(t *testing.T) {
	b := Breakdown(project.Project{}, NewQuery("x", now))
	assert.Len(t, b, len(Components))
}

func sumBreakdown(p project.Project, q Query) float64 {
	var total float64
	for _, v := range Breakdown(p, q) {
		total += v
	}
	return total
}
