package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/gitseeker/pkg/ai"
	"github.com/matzehuels/gitseeker/pkg/buildinfo"
	"github.com/matzehuels/gitseeker/pkg/cache"
	"github.com/matzehuels/gitseeker/pkg/prefs"
	"github.com/matzehuels/gitseeker/pkg/sources"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gitseeker"

	// memoryCacheEntries bounds the in-process cache backend.
	memoryCacheEntries = 2048
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command results; status lines and logs go to stderr.
	Out io.Writer

	v       *viper.Viper
	cfgFile string
	verbose bool

	newProvider func(ai.Config) (ai.Provider, error)
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		v:      viper.New(),

		newProvider: ai.NewProvider,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Search GitHub, Hugging Face, GitLab, npm and PyPI at once",
		Long: `gitseeker searches several code and package registries in parallel, merges
the results into one list ranked by relevance, and can summarize a project's
README with an AI model of your choice.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				registerLogHooks(c.Logger)
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/gitseeker/config.yaml)")

	root.AddCommand(c.searchCommand())
	root.AddCommand(c.trendingCommand())
	root.AddCommand(c.readmeCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Engine Factory
// =============================================================================

// newEngine wires the aggregator and README fetcher over the configured
// cache backend. Close the returned cache when done.
func (c *CLI) newEngine(ctx context.Context, noCache bool) (*sources.Default, cache.Cache, error) {
	s := c.settings()
	backend := s.CacheBackend
	if noCache {
		backend = "none"
	}
	ch, err := newCache(ctx, backend, s.RedisURL)
	if err != nil {
		return nil, nil, err
	}

	engine := sources.NewDefault(sources.Config{
		Cache:            ch,
		GitHubToken:      s.GitHubToken,
		GitLabToken:      s.GitLabToken,
		HuggingFaceToken: s.HuggingFaceToken,
		SearchTTL:        s.CacheTTL,
		Logger:           c.Logger,
		BaseURLs:         s.Registries,
	})
	return engine, ch, nil
}

// newPrefs opens the configured preferences store.
func (c *CLI) newPrefs(ctx context.Context) (prefs.Store, error) {
	s := c.settings()
	return prefs.Open(ctx, prefs.Options{
		Backend:       s.PrefsBackend,
		Path:          s.PrefsPath,
		MongoURI:      s.MongoURI,
		MongoDatabase: s.MongoDatabase,
	})
}
