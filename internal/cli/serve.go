package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gitseeker/pkg/server"
)

// serveCommand creates the serve command, which exposes the engine over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve search, trending, README and analysis over HTTP",
		Example: `  gitseeker serve
  gitseeker serve --addr 127.0.0.1:9000
  GITSEEKER_CACHE_BACKEND=redis gitseeker serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.settings().ServerAddr
			}

			engine, ch, err := c.newEngine(ctx, noCache)
			if err != nil {
				return err
			}
			defer ch.Close()

			store, err := c.newPrefs(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			return server.New(engine, engine.Readme, store, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
