package sources

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitseeker/pkg/integrations/gitlab"
	"github.com/matzehuels/gitseeker/pkg/project"
)

// GitLab searches public gitlab.com projects.
//
// Mapping from [gitlab.Project]:
//
//	native id   numeric project id
//	name        name
//	fullName    path_with_namespace
//	url         web_url
//	stars       star_count
//	language    none; the search API does not report it
//	topics      topics, else tag_list
//	author      namespace.name, else owner.name, else "Unknown"; avatar likewise
//	updatedAt   last_activity_at
type GitLab struct {
	Client   *gitlab.Client
	Logger   *log.Logger
	Interval time.Duration
}

// NewGitLab creates the GitLab adapter.
func NewGitLab(client *gitlab.Client, logger *log.Logger) *GitLab {
	return &GitLab{Client: client, Logger: orDefault(logger), Interval: DeepInterval}
}

// Source returns [project.GitLab].
func (a *GitLab) Source() project.Source { return project.GitLab }

// Search matches project names; deep mode adds a pass that also matches
// namespace paths.
func (a *GitLab) Search(ctx context.Context, query string, deep bool) project.Result {
	variants := []gitlab.SearchOptions{{Query: query, Page: 1, PerPage: PageSize}}
	if deep {
		variants = append(variants, gitlab.SearchOptions{Query: query, Page: 1, PerPage: PageSize, SearchNamespaces: true})
	}

	seq := newSequence(a.Logger, project.GitLab, query, a.Interval)
	var found []gitlab.Project
	for _, opts := range variants {
		name := "projects"
		if opts.SearchNamespaces {
			name = "namespaces"
		}
		if !seq.step(ctx, name, func(ctx context.Context) error {
			ps, err := a.Client.SearchProjects(ctx, opts)
			if err != nil {
				return err
			}
			found = append(found, ps...)
			return nil
		}) {
			break
		}
	}

	found = dedupe(found, func(p gitlab.Project) int64 { return p.ID })
	out := make([]project.Project, 0, len(found))
	for _, g := range found {
		if g.ID == 0 {
			continue
		}
		out = append(out, mapGitLab(g))
	}
	return project.NewResult(project.GitLab, out)
}

func mapGitLab(g gitlab.Project) project.Project {
	p := project.New(project.GitLab, strconv.FormatInt(g.ID, 10))
	p.Name = g.Name
	p.FullName = g.PathWithNamespace
	p.Description = g.Description
	p.URL = g.WebURL
	p.Stars = g.StarCount
	switch {
	case len(g.Topics) > 0:
		p.Topics = g.Topics
	case len(g.TagList) > 0:
		p.Topics = g.TagList
	}
	p.Author = project.Author{Name: "Unknown"}
	for _, ns := range []*gitlab.Namespace{g.Namespace, g.Owner} {
		if ns != nil && ns.Name != "" {
			p.Author = project.Author{Name: ns.Name, Avatar: ns.AvatarURL}
			break
		}
	}
	p.UpdatedAt = g.LastActivityAt
	return p
}
