package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/gitseeker/pkg/errors"
)

// readmeCommand creates the readme command.
func (c *CLI) readmeCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "readme <source> <full-name>",
		Short: "Print a project's README",
		Example: `  gitseeker readme github facebook/react
  gitseeker readme npm express
  gitseeker readme hf openai/whisper-large-v3`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeSourceArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := projectRef(args[0], args[1])
			if err != nil {
				return err
			}
			engine, ch, err := c.newEngine(ctx, noCache)
			if err != nil {
				return err
			}
			defer ch.Close()

			text, ok := engine.Readme.Fetch(ctx, p)
			if !ok {
				return errs.New(errs.ErrCodeNotFound, "no README found for %s %s", p.Source, p.FullName)
			}
			_, err = fmt.Fprintln(c.Out, text)
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
