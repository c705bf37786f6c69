package sources

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitseeker/pkg/integrations/github"
	"github.com/matzehuels/gitseeker/pkg/project"
)

// GitHub searches repositories through the GitHub search API.
//
// Mapping from [github.Repo]:
//
//	native id   numeric repository id
//	name        name
//	fullName    full_name ("owner/repo")
//	url         html_url
//	stars       stargazers_count
//	language    language
//	topics      topics
//	author      owner.login; avatar owner.avatar_url, else github.com/<login>.png?size=96
//	updatedAt   updated_at
//	license     license.name
type GitHub struct {
	Client   *github.Client
	Logger   *log.Logger
	Interval time.Duration
}

// NewGitHub creates the GitHub adapter.
func NewGitHub(client *github.Client, logger *log.Logger) *GitHub {
	return &GitHub{Client: client, Logger: orDefault(logger), Interval: DeepInterval}
}

// Source returns [project.GitHub].
func (a *GitHub) Source() project.Source { return project.GitHub }

// Search runs "<q>" in shallow mode. Deep mode first restricts matching to
// name, description and topics, then runs the plain query.
func (a *GitHub) Search(ctx context.Context, query string, deep bool) project.Result {
	variants := []string{query}
	if deep {
		variants = []string{query + " in:name,description,topics", query}
	}

	seq := newSequence(a.Logger, project.GitHub, query, a.Interval)
	var repos []github.Repo
	for _, q := range variants {
		if !seq.step(ctx, q, func(ctx context.Context) error {
			page, err := a.Client.SearchRepositories(ctx, q, 1, PageSize)
			if err != nil {
				return err
			}
			repos = append(repos, page.Items...)
			return nil
		}) {
			break
		}
	}

	repos = dedupe(repos, func(r github.Repo) int64 { return r.ID })
	out := make([]project.Project, 0, len(repos))
	for _, r := range repos {
		if r.ID == 0 {
			continue
		}
		out = append(out, mapGitHub(r))
	}
	return project.NewResult(project.GitHub, out)
}

func mapGitHub(r github.Repo) project.Project {
	p := project.New(project.GitHub, strconv.FormatInt(r.ID, 10))
	p.Name = r.Name
	p.FullName = r.FullName
	p.Description = r.Description
	p.URL = r.HTMLURL
	p.Stars = r.Stars
	p.Language = r.Language
	if r.Topics != nil {
		p.Topics = r.Topics
	}
	p.Author = project.Author{Name: r.Owner.Login, Avatar: r.Owner.AvatarURL}
	if p.Author.Avatar == "" && r.Owner.Login != "" {
		p.Author.Avatar = "https://github.com/" + r.Owner.Login + ".png?size=96"
	}
	p.UpdatedAt = r.UpdatedAt
	if r.License != nil {
		p.License = r.License.Name
	}
	return p
}
