package sources

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitseeker/pkg/integrations/github"
	"github.com/matzehuels/gitseeker/pkg/integrations/gitlab"
	"github.com/matzehuels/gitseeker/pkg/integrations/huggingface"
	"github.com/matzehuels/gitseeker/pkg/integrations/npm"
	"github.com/matzehuels/gitseeker/pkg/integrations/pypi"
	"github.com/matzehuels/gitseeker/pkg/project"
)

// ReadmeFetcher retrieves project documentation. A nil client disables its
// source.
type ReadmeFetcher struct {
	GitHub      *github.Client
	HuggingFace *huggingface.Client
	GitLab      *gitlab.Client
	NPM         *npm.Client
	PyPI        *pypi.Client
	Logger      *log.Logger
}

// Fetch returns the README of p. It never fails; ok is false when no
// documentation could be retrieved.
//
//	github       raw README.md, readme.md or Readme.md on main
//	huggingface  the model or dataset card
//	gitlab       raw README.md on main
//	npm          the package document's readme field
//	pypi         the long description
func (f *ReadmeFetcher) Fetch(ctx context.Context, p project.Project) (string, bool) {
	text, err := f.fetch(ctx, p)
	if err != nil {
		orDefault(f.Logger).Debug("readme unavailable", "source", p.Source, "project", p.FullName, "err", err)
		return "", false
	}
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

// FetchByName fetches documentation for a project identified only by its
// source and full name, e.g. ("github", "facebook/react").
func (f *ReadmeFetcher) FetchByName(ctx context.Context, source project.Source, fullName string) (string, bool) {
	p := project.New(source, fullName)
	p.FullName = fullName
	p.Name = fullName
	return f.Fetch(ctx, p)
}

func (f *ReadmeFetcher) fetch(ctx context.Context, p project.Project) (string, error) {
	switch p.Source {
	case project.GitHub:
		if f.GitHub == nil {
			return "", errNotConfigured
		}
		owner, repo, err := github.SplitFullName(p.FullName)
		if err != nil {
			return "", err
		}
		return f.GitHub.FetchReadme(ctx, owner, repo)
	case project.HuggingFace:
		if f.HuggingFace == nil {
			return "", errNotConfigured
		}
		return f.HuggingFace.FetchReadme(ctx, p.FullName)
	case project.GitLab:
		if f.GitLab == nil {
			return "", errNotConfigured
		}
		return f.GitLab.FetchReadme(ctx, p.FullName)
	case project.NPM:
		if f.NPM == nil {
			return "", errNotConfigured
		}
		pkg, err := f.NPM.FetchPackage(ctx, packageName(p), false)
		if err != nil {
			return "", err
		}
		return pkg.Readme, nil
	case project.PyPI:
		if f.PyPI == nil {
			return "", errNotConfigured
		}
		info, err := f.PyPI.FetchPackage(ctx, packageName(p), false)
		if err != nil {
			return "", err
		}
		return info.Description, nil
	}
	return "", errNotConfigured
}

func packageName(p project.Project) string {
	return firstNonEmpty(p.Name, p.FullName)
}
