package rank

import (
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/gitseeker/pkg/project"
)

// Name match tiers. Only the highest applicable tier is awarded.
const (
	tierExact         = 15000
	tierNoSeparators  = 12000
	tierPrefix        = 8000
	tierSuffix        = 6000
	tierWholeSegment  = 5000
	tierSubstring     = 3000
	coverageAllWords  = 4000
	coveragePerWord   = 1000
	overlapEqual      = 1200
	overlapPrefix     = 800
	overlapContains   = 400
	fullNamePhrase    = 600
	fullNamePerWord   = 250
	descPhrase        = 800
	descAllWords      = 600
	descPerOccurrence = 150
	descOccurrenceCap = 600
	descEarlyWindow   = 10
	descEarlyStep     = 20
	topicExact        = 2000
	topicContains     = 800
	topicPerWord      = 500
	authorContains    = 400
	languageOverlap   = 600
)

// Popularity scaling.
const (
	starScale     = 200
	starCap       = 2000
	starStep1     = 10000
	starStep2     = 50000
	starStepBonus = 500
	downloadScale = 150
	downloadCap   = 1500
)

var sourceBonus = map[project.Source]float64{
	project.GitHub:      150,
	project.HuggingFace: 140,
	project.NPM:         120,
	project.PyPI:        120,
	project.GitLab:      100,
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
}

// segments splits a lowercase name on separator runs.
func segments(s string) []string {
	return strings.FieldsFunc(s, isSeparator)
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if isSeparator(r) {
			return -1
		}
		return r
	}, s)
}

func nameTier(p *project.Project, q Query) float64 {
	if q.Lower == "" {
		return 0
	}
	name := strings.ToLower(p.Name)
	switch {
	case name == q.Lower:
		return tierExact
	case stripSeparators(name) == stripSeparators(q.Lower):
		return tierNoSeparators
	case strings.HasPrefix(name, q.Lower):
		return tierPrefix
	case strings.HasSuffix(name, q.Lower):
		return tierSuffix
	case slices.Contains(segments(name), q.Lower):
		return tierWholeSegment
	case strings.Contains(name, q.Lower):
		return tierSubstring
	}
	return 0
}

// wordCoverage rewards multi-word queries whose words each match some name
// segment, in either containment direction.
func wordCoverage(p *project.Project, q Query) float64 {
	if len(q.Words) <= 1 {
		return 0
	}
	segs := segments(strings.ToLower(p.Name))
	matched := 0
	for _, w := range q.Words {
		for _, s := range segs {
			if strings.Contains(s, w) || strings.Contains(w, s) {
				matched++
				break
			}
		}
	}
	score := float64(matched * coveragePerWord)
	if matched == len(q.Words) {
		score += coverageAllWords
	}
	return score
}

// wordOverlap is summed over every (word, segment) pair.
func wordOverlap(p *project.Project, q Query) float64 {
	segs := segments(strings.ToLower(p.Name))
	var score float64
	for _, w := range q.Words {
		for _, s := range segs {
			switch {
			case s == w:
				score += overlapEqual
			case strings.HasPrefix(s, w):
				score += overlapPrefix
			case strings.Contains(s, w):
				score += overlapContains
			}
		}
	}
	return score
}

func fullNameMatch(p *project.Project, q Query) float64 {
	full := strings.ToLower(p.FullName)
	var score float64
	if q.Lower != "" && strings.Contains(full, q.Lower) {
		score += fullNamePhrase
	}
	for _, w := range q.Words {
		if strings.Contains(full, w) {
			score += fullNamePerWord
		}
	}
	return score
}

func descriptionMatch(p *project.Project, q Query) float64 {
	if p.Description == "" {
		return 0
	}
	desc := strings.ToLower(p.Description)
	tokens := strings.Fields(desc)

	var score float64
	if q.Lower != "" && strings.Contains(desc, q.Lower) {
		score += descPhrase
	}
	if len(q.Words) > 1 {
		all := true
		for _, w := range q.Words {
			if !strings.Contains(desc, w) {
				all = false
				break
			}
		}
		if all {
			score += descAllWords
		}
	}
	for _, w := range q.Words {
		score += min(float64(strings.Count(desc, w)*descPerOccurrence), descOccurrenceCap)
		for i, tok := range tokens {
			if i >= descEarlyWindow {
				break
			}
			if strings.Contains(tok, w) {
				score += float64((descEarlyWindow - i) * descEarlyStep)
				break
			}
		}
	}
	return score
}

func topicMatch(p *project.Project, q Query) float64 {
	var score float64
	for _, t := range p.Topics {
		topic := strings.ToLower(t)
		if q.Lower != "" {
			if topic == q.Lower {
				score += topicExact
			}
			if strings.Contains(topic, q.Lower) {
				score += topicContains
			}
		}
		for _, w := range q.Words {
			if strings.Contains(topic, w) {
				score += topicPerWord
			}
		}
	}
	return score
}

func authorMatch(p *project.Project, q Query) float64 {
	if q.Lower != "" && strings.Contains(strings.ToLower(p.Author.Name), q.Lower) {
		return authorContains
	}
	return 0
}

// popularity scales stars and downloads logarithmically and independently.
func popularity(p *project.Project, _ Query) float64 {
	var score float64
	if p.Stars > 0 {
		score += min(math.Log10(float64(p.Stars)+1)*starScale, starCap)
		if p.Stars > starStep1 {
			score += starStepBonus
		}
		if p.Stars > starStep2 {
			score += starStepBonus
		}
	}
	if p.Downloads > 0 {
		score += min(math.Log10(float64(p.Downloads)+1)*downloadScale, downloadCap)
	}
	return score
}

// recency uses whole days since the last update. Unknown update times
// contribute nothing.
func recency(p *project.Project, q Query) float64 {
	if p.UpdatedAt.IsZero() {
		return 0
	}
	days := int(math.Floor(q.Now.Sub(p.UpdatedAt).Hours() / 24))
	switch {
	case days < 7:
		return 500
	case days < 30:
		return 300
	case days < 90:
		return 150
	case days < 180:
		return 50
	case days > 730:
		return -500
	case days > 365:
		return -200
	}
	return 0
}

func sourcePrior(p *project.Project, _ Query) float64 {
	return sourceBonus[p.Source]
}

func licensePreference(p *project.Project, _ Query) float64 {
	if p.License == "" {
		return 0
	}
	l := strings.ToLower(p.License)
	switch {
	case strings.Contains(l, "mit"), strings.Contains(l, "apache"):
		return 100
	case strings.Contains(l, "bsd"):
		return 80
	case strings.Contains(l, "gpl"):
		return 60
	case !strings.Contains(l, "proprietary"):
		return 40
	}
	return 0
}

func languageMatch(p *project.Project, q Query) float64 {
	if p.Language == "" || q.Lower == "" {
		return 0
	}
	lang := strings.ToLower(p.Language)
	if strings.Contains(q.Lower, lang) || strings.Contains(lang, q.Lower) {
		return languageOverlap
	}
	return 0
}

// docsQuality treats tagging and description length as weak signals of a
// maintained project.
func docsQuality(p *project.Project, _ Query) float64 {
	var score float64
	if len(p.Topics) > 3 {
		score += 100
	}
	if len(p.Topics) > 6 {
		score += 100
	}
	n := utf8.RuneCountInString(p.Description)
	if n > 50 {
		score += 150
	}
	if n > 150 {
		score += 100
	}
	return score
}
