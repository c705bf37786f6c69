package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitseeker/pkg/ai"
	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/prefs"
	"github.com/matzehuels/gitseeker/pkg/project"
)

type analyzeOptions struct {
	provider string
	model    string
	noCache  bool
}

// readmeSource is the part of the README fetcher analysis needs.
type readmeSource interface {
	Fetch(ctx context.Context, p project.Project) (string, bool)
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	opts := analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <source> <full-name>",
		Short: "Summarize a project's README with an AI model",
		Long: `Fetch a project's README and stream a short AI analysis of what it does,
its key features and who it is for.

The provider, model and API key come from the stored preferences
(see "gitseeker config"). --provider and --model override them for one run.
Press Ctrl-C to stop the analysis; text received so far is kept.`,
		Example: `  gitseeker analyze github facebook/react
  gitseeker analyze hf meta-llama/Llama-3.1-8B --provider openrouter
  gitseeker analyze pypi fastapi --model gpt-4o-mini`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeSourceArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := projectRef(args[0], args[1])
			if err != nil {
				return err
			}
			engine, ch, err := c.newEngine(cmd.Context(), opts.noCache)
			if err != nil {
				return err
			}
			defer ch.Close()
			return c.analyzeWith(cmd.Context(), engine.Readme, p, opts)
		},
	}

	cmd.Flags().StringVar(&opts.provider, "provider", "", "AI provider for this run (openai, anthropic, openrouter)")
	cmd.Flags().StringVar(&opts.model, "model", "", "model for this run")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("provider", completeProviders)

	return cmd
}

// projectRef builds a minimal project from a source name and full name.
func projectRef(source, fullName string) (project.Project, error) {
	src, err := project.ParseSource(source)
	if err != nil {
		return project.Project{}, err
	}
	if err := errs.ValidateProjectName(fullName); err != nil {
		return project.Project{}, err
	}
	p := project.New(src, fullName)
	p.Name = fullName
	p.FullName = fullName
	p.Normalize()
	return p, nil
}

func (c *CLI) analyze(ctx context.Context, readme readmeSource, p project.Project) error {
	return c.analyzeWith(ctx, readme, p, analyzeOptions{})
}

func (c *CLI) analyzeWith(ctx context.Context, readme readmeSource, p project.Project, opts analyzeOptions) error {
	cfg, err := c.aiConfig(ctx, opts)
	if err != nil {
		return err
	}
	provider, err := c.newProvider(cfg)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Fetching documentation for "+p.FullName+"...")
	spinner.Start()
	text, ok := readme.Fetch(ctx, p)
	spinner.Stop()
	if !ok {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errs.New(errs.ErrCodeNotFound, "Could not find documentation for this project.")
	}

	session := ai.NewSession(provider, c.Logger)
	defer session.Close()

	loading := newSpinnerWithContext(ctx, "Preparing "+cfg.ResolvedModel()+"...")
	session.OnProgress = func(fraction float64, text string) {
		loading.SetMessage("%3.0f%% %s", fraction*100, text)
	}
	loading.Start()
	err = session.Init(ctx, cfg.ResolvedModel())
	loading.Stop()
	if err != nil {
		return err
	}

	printInfo("Analyzing %s with %s (%s)", StyleHighlight.Render(p.FullName), provider.Name(), cfg.ResolvedModel())
	printNewline()

	_, err = session.Chat(ctx, ai.AnalysisMessages(p, text), func(tok string) {
		fmt.Fprint(c.Out, tok)
	})
	fmt.Fprintln(c.Out)

	if errors.Is(err, ai.ErrAborted) {
		fmt.Fprintln(c.Out, StyleDim.Render("\n[Analysis stopped]"))
		return nil
	}
	return err
}

// aiConfig loads the stored AI preferences and applies per-run overrides.
func (c *CLI) aiConfig(ctx context.Context, opts analyzeOptions) (ai.Config, error) {
	store, err := c.newPrefs(ctx)
	if err != nil {
		return ai.Config{}, err
	}
	defer store.Close()

	cfg, err := prefs.LoadAIConfig(ctx, store)
	if err != nil {
		return ai.Config{}, err
	}
	if opts.provider != "" {
		p, err := ai.ParseProvider(opts.provider)
		if err != nil {
			return ai.Config{}, err
		}
		if p != cfg.Provider {
			cfg.Model = ""
		}
		cfg.Provider = p
	}
	if opts.model != "" {
		cfg.Model = opts.model
	}
	return cfg, nil
}
