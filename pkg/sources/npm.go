package sources

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitseeker/pkg/integrations/npm"
	"github.com/matzehuels/gitseeker/pkg/project"
)

// NPM searches the npm registry.
//
// Mapping from [npm.SearchObject]:
//
//	native id   package name
//	name        package name
//	fullName    package name (including any @scope/)
//	url         links.npm, else npmjs.com/package/<name>
//	stars       round(score.detail.quality * 1000); npm has no stars
//	downloads   downloads.monthly when reported
//	language    "JavaScript"
//	topics      keywords
//	author      publisher.username, else author.name, else "Unknown"; avatar publisher.avatars.small
//	updatedAt   date
//	license     license
type NPM struct {
	Client   *npm.Client
	Logger   *log.Logger
	Interval time.Duration
}

// NewNPM creates the npm adapter.
func NewNPM(client *npm.Client, logger *log.Logger) *NPM {
	return &NPM{Client: client, Logger: orDefault(logger), Interval: DeepInterval}
}

// Source returns [project.NPM].
func (a *NPM) Source() project.Source { return project.NPM }

// Search runs the full-text search; deep mode adds a keywords: search.
func (a *NPM) Search(ctx context.Context, query string, deep bool) project.Result {
	variants := []string{query}
	if deep {
		variants = append(variants, "keywords:"+query)
	}

	seq := newSequence(a.Logger, project.NPM, query, a.Interval)
	var hits []npm.SearchObject
	for _, text := range variants {
		if !seq.step(ctx, text, func(ctx context.Context) error {
			res, err := a.Client.Search(ctx, text, PageSize)
			if err != nil {
				return err
			}
			hits = append(hits, res.Objects...)
			return nil
		}) {
			break
		}
	}

	hits = dedupe(hits, func(o npm.SearchObject) string { return o.Package.Name })
	out := make([]project.Project, 0, len(hits))
	for _, h := range hits {
		if h.Package.Name == "" {
			continue
		}
		out = append(out, mapNPM(h))
	}
	return project.NewResult(project.NPM, out)
}

func mapNPM(o npm.SearchObject) project.Project {
	pkg := o.Package
	p := project.New(project.NPM, pkg.Name)
	p.Name = pkg.Name
	p.FullName = pkg.Name
	p.Description = pkg.Description
	p.URL = firstNonEmpty(pkg.Links.NPM, "https://www.npmjs.com/package/"+pkg.Name)
	p.Stars = int64(math.Round(o.Score.Detail.Quality * 1000))
	if o.Downloads != nil {
		p.Downloads = o.Downloads.Monthly
	}
	p.Language = "JavaScript"
	if pkg.Keywords != nil {
		p.Topics = pkg.Keywords
	}
	p.Author = project.Author{Name: "Unknown"}
	switch {
	case pkg.Publisher != nil && pkg.Publisher.Username != "":
		p.Author = project.Author{Name: pkg.Publisher.Username, Avatar: pkg.Publisher.Avatars.Small}
	case pkg.Author != nil && pkg.Author.Name != "":
		p.Author.Name = pkg.Author.Name
	}
	p.UpdatedAt = pkg.Date
	p.License = pkg.License
	return p
}
