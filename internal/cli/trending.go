package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gitseeker/pkg/sources"
)

// trendingCommand creates the trending command.
func (c *CLI) trendingCommand() *cobra.Command {
	var (
		limit       int
		output      string
		interactive bool
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Show a shuffled sample of popular projects",
		Long: `Search a fixed set of popular terms on every registry, keep the top few
results per term and print them in random order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format, err := parseFormat(output)
			if err != nil {
				return err
			}
			engine, ch, err := c.newEngine(ctx, noCache)
			if err != nil {
				return err
			}
			defer ch.Close()

			spinner := newSpinnerWithContext(ctx, "Collecting trending projects...")
			spinner.Start()
			projects := engine.Trending(ctx, sources.TrendingOptions{Limit: limit})
			spinner.Stop()
			if spinner.Cancelled() {
				return ctx.Err()
			}
			if len(projects) == 0 {
				printWarning("No trending projects available")
				return nil
			}

			if interactive {
				picked, err := pickProject(projects)
				if err != nil || picked == nil {
					return err
				}
				return c.analyze(ctx, engine.Readme, *picked)
			}
			return writeProjects(c.Out, projects, format)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", sources.TrendingLimit, "maximum projects to show")
	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "output format: table, json, yaml")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a project and analyze it")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
