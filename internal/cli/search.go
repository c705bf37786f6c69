package cli

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/project"
)

type searchOptions struct {
	sources     []string
	shallow     bool
	limit       int
	output      string
	interactive bool
	noCache     bool
}

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	opts := searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search all registries and print a ranked list",
		Long: `Search GitHub, Hugging Face, GitLab, npm and PyPI in parallel and merge the
results into one list ranked by relevance.

Sources default to search.sources from the config file (github, huggingface,
gitlab and npm unless configured otherwise). Deep search runs a few query
variants per source; --shallow runs only the literal query.`,
		Example: `  gitseeker search react
  gitseeker search "vector database" -s github -s pypi
  gitseeker search llama --source hf -o json
  gitseeker search fastapi -i`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd.Context(), strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.sources, "source", "s", nil, "sources to search (github, huggingface|hf, gitlab, npm, pypi)")
	cmd.Flags().BoolVar(&opts.shallow, "shallow", false, "run only the literal query per source")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "maximum results to print (default: search.limit)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", formatTable, "output format: table, json, yaml")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick a result and analyze it")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("source", completeSources)

	return cmd
}

func (c *CLI) runSearch(ctx context.Context, query string, opts searchOptions) error {
	format, err := parseFormat(opts.output)
	if err != nil {
		return err
	}
	s := c.settings()
	srcs, err := resolveSources(opts.sources, s.Sources)
	if err != nil {
		return err
	}
	limit := opts.limit
	if limit <= 0 {
		limit = s.Limit
	}
	deep := s.Deep && !opts.shallow

	engine, ch, err := c.newEngine(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Searching "+sourceLabels(srcs)+"...")
	spinner.Start()
	projects, err := engine.Search(ctx, query, srcs, deep)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("Search complete", "results", len(projects))

	if len(projects) == 0 {
		printWarning("No results for %q", query)
		return nil
	}
	if limit > 0 && len(projects) > limit {
		projects = projects[:limit]
	}

	if opts.interactive {
		picked, err := pickProject(projects)
		if err != nil || picked == nil {
			return err
		}
		return c.analyze(ctx, engine.Readme, *picked)
	}
	if err := writeProjects(c.Out, projects, format); err != nil {
		return err
	}
	if format == formatTable {
		printNextStep("Analyze a result", "gitseeker analyze <source> <project>")
	}
	return nil
}

// resolveSources turns --source values, which may be repeated or comma
// separated, into sources. None falls back to the configured list.
func resolveSources(flags, configured []string) ([]project.Source, error) {
	names := splitList(flags)
	if len(names) == 0 {
		names = splitList(configured)
	}
	if len(names) == 0 {
		return project.DefaultSources(), nil
	}
	srcs, err := project.ParseSources(names)
	if err != nil {
		return nil, err
	}
	if len(srcs) == 0 {
		return nil, errs.New(errs.ErrCodeNoSources, "no sources selected")
	}
	return srcs, nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// pickProject runs the interactive picker. A nil project means the user quit.
func pickProject(projects []project.Project) (*project.Project, error) {
	final, err := tea.NewProgram(newProjectListModel(projects)).Run()
	if err != nil {
		return nil, err
	}
	return final.(projectListModel).Selected, nil
}

func sourceLabels(srcs []project.Source) string {
	labels := make([]string, len(srcs))
	for i, s := range srcs {
		labels[i] = s.Label()
	}
	return strings.Join(labels, ", ")
}
