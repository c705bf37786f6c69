package sources

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/integrations"
	"github.com/matzehuels/gitseeker/pkg/integrations/pypi"
	"github.com/matzehuels/gitseeker/pkg/project"
)

const (
	pypiVariantThreshold = 10
	pypiPopularThreshold = 5
	pypiPopularLimit     = 5
)

// popularPyPI seeds deep lookups for queries that name no exact package.
var popularPyPI = []string{
	"django", "flask", "fastapi", "requests", "numpy", "pandas",
	"tensorflow", "pytorch", "scikit-learn", "matplotlib", "pytest",
	"sqlalchemy", "celery", "redis", "pillow", "beautifulsoup4",
}

// PyPI looks packages up by exact name. PyPI has no search endpoint, so
// this is best-effort recall rather than search.
//
// Mapping from [pypi.PackageInfo]:
//
//	native id   info.name
//	name        info.name
//	fullName    info.name
//	url         project_url, else home_page, else pypi.org/project/<name>
//	stars       0 (not exposed)
//	downloads   0 (not exposed)
//	language    "Python"
//	topics      keywords split on ","
//	author      author, else "Unknown"
//	updatedAt   newest upload among the release files
//	license     license, else the first License :: classifier
type PyPI struct {
	Client   *pypi.Client
	Logger   *log.Logger
	Interval time.Duration
}

// NewPyPI creates the PyPI adapter.
func NewPyPI(client *pypi.Client, logger *log.Logger) *PyPI {
	return &PyPI{Client: client, Logger: orDefault(logger), Interval: DeepInterval}
}

// Source returns [project.PyPI].
func (a *PyPI) Source() project.Source { return project.PyPI }

// Search looks up the query as a package name. Deep mode then tries the
// <q>-python, python-<q> and py<q> spellings while fewer than 10 packages
// were found, and finally up to 5 related popular packages while fewer
// than 5 were found.
func (a *PyPI) Search(ctx context.Context, query string, deep bool) project.Result {
	q := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(query)), " ", "-")

	seq := newSequence(a.Logger, project.PyPI, query, a.Interval)
	var found []pypi.PackageInfo
	seen := make(map[string]bool)

	lookup := func(name string) bool {
		if errs.ValidatePythonPackageName(name) != nil {
			a.Logger.Debug("skipping invalid package name", "source", project.PyPI, "name", name)
			return true
		}
		return seq.step(ctx, name, func(ctx context.Context) error {
			info, err := a.Client.FetchPackage(ctx, name, false)
			if err != nil {
				return err
			}
			if info.Name != "" && !seen[info.Name] {
				seen[info.Name] = true
				found = append(found, *info)
			}
			return nil
		})
	}

	ok := lookup(q)
	if deep && ok && len(found) < pypiVariantThreshold {
		for _, v := range []string{q + "-python", "python-" + q, "py" + q} {
			if ok = lookup(v); !ok {
				break
			}
		}
	}
	if deep && ok && len(found) < pypiPopularThreshold {
		for _, name := range relatedPopular(q) {
			if !lookup(name) {
				break
			}
		}
	}

	out := make([]project.Project, 0, len(found))
	for _, info := range found {
		out = append(out, mapPyPI(info))
	}
	return project.NewResult(project.PyPI, out)
}

// relatedPopular returns at most pypiPopularLimit popular names that contain
// q or are contained in it.
func relatedPopular(q string) []string {
	if q == "" {
		return nil
	}
	var out []string
	for _, name := range popularPyPI {
		if strings.Contains(name, q) || strings.Contains(q, name) {
			out = append(out, name)
			if len(out) == pypiPopularLimit {
				break
			}
		}
	}
	return out
}

func mapPyPI(info pypi.PackageInfo) project.Project {
	p := project.New(project.PyPI, info.Name)
	p.Name = info.Name
	p.FullName = info.Name
	p.Description = info.Summary
	p.URL = firstNonEmpty(info.ProjectURL, info.HomePage, "https://pypi.org/project/"+integrations.NormalizePkgName(info.Name))
	p.Language = "Python"
	if info.Keywords != nil {
		p.Topics = info.Keywords
	}
	p.Author = project.Author{Name: firstNonEmpty(info.Author, "Unknown")}
	p.UpdatedAt = info.UpdatedAt
	p.License = info.License
	return p
}
