package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitseeker/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the registry response cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached registry response and README",
			Long: `Remove cached entries from the configured backend (cache.backend).
The file and redis backends are cleared in place; the memory backend only
lives inside a running "gitseeker serve" and has nothing to clear here.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.clearCache(cmd)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the file cache directory",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				dir, err := cacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(c.Out, dir)
				return nil
			},
		},
	)
	return cmd
}

func (c *CLI) clearCache(cmd *cobra.Command) error {
	s := c.settings()
	switch s.CacheBackend {
	case cacheMemory, cacheNone:
		printWarning("Cache backend %q keeps nothing on disk", s.CacheBackend)
		return nil
	}

	ch, err := newCache(cmd.Context(), s.CacheBackend, s.RedisURL)
	if err != nil {
		return err
	}
	defer ch.Close()

	clearer, ok := ch.(cache.Clearer)
	if !ok {
		printWarning("Cache backend %q cannot be cleared", s.CacheBackend)
		return nil
	}
	n, err := clearer.Clear(cmd.Context())
	if err != nil {
		return err
	}
	printSuccess("Cleared %d cached entries", n)
	if fc, ok := ch.(*cache.FileCache); ok {
		printDetail("Directory: %s", fc.Dir())
	}
	return nil
}
