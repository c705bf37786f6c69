package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitseeker/pkg/ai"
	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/prefs"
)

// configCommand creates the config command for AI preferences.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage AI provider, model and API keys",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configSetCommand())
	cmd.AddCommand(c.configClearKeyCommand())

	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored AI preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newPrefs(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			cfg, err := prefs.LoadAIConfig(ctx, store)
			if err != nil {
				return err
			}

			printKeyValue(c.Out, "Provider", cfg.Provider)
			printKeyValue(c.Out, "Model", cfg.ResolvedModel())
			for _, p := range ai.Providers() {
				printKeyValue(c.Out, "Key "+p, maskKey(cfg.APIKeys[p]))
			}
			if fs, ok := store.(*prefs.FileStore); ok {
				printKeyValue(c.Out, "File", fs.Path())
			}
			if used := c.v.ConfigFileUsed(); used != "" {
				printKeyValue(c.Out, "Config", used)
			}
			return nil
		},
	}
}

func (c *CLI) configSetCommand() *cobra.Command {
	var (
		provider string
		model    string
		apiKey   string
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the AI provider, model or an API key",
		Long: `Store AI preferences. Only the given flags are changed.

Switching provider without --model resets the model to that provider's
default. --api-key applies to the selected provider (or --provider when given).`,
		Example: `  gitseeker config set --provider anthropic --api-key sk-ant-...
  gitseeker config set --model gpt-4o-mini
  gitseeker config set --provider openrouter --api-key sk-or-... --validate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider == "" && model == "" && apiKey == "" {
				return errs.New(errs.ErrCodeInvalidInput, "nothing to set (use --provider, --model or --api-key)")
			}
			return c.setAIConfig(cmd.Context(), provider, model, apiKey, validate)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "AI provider (openai, anthropic, openrouter)")
	cmd.Flags().StringVar(&model, "model", "", "model name")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the provider")
	cmd.Flags().BoolVar(&validate, "validate", false, "check the API key against the provider before saving")
	_ = cmd.RegisterFlagCompletionFunc("provider", completeProviders)

	return cmd
}

func (c *CLI) setAIConfig(ctx context.Context, provider, model, apiKey string, validate bool) error {
	store, err := c.newPrefs(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg, err := prefs.LoadAIConfig(ctx, store)
	if err != nil {
		return err
	}

	if provider != "" {
		p, err := ai.ParseProvider(provider)
		if err != nil {
			return err
		}
		if p != cfg.Provider && model == "" {
			cfg.Model = ""
		}
		cfg.Provider = p
	}
	if model != "" {
		cfg.Model = model
	}

	// Write only the key being changed.
	update := ai.Config{Provider: cfg.Provider, Model: cfg.Model}
	if apiKey = strings.TrimSpace(apiKey); apiKey != "" {
		if validate {
			spinner := newSpinnerWithContext(ctx, "Validating API key...")
			spinner.Start()
			if err := ai.ValidateKey(ctx, cfg.Provider, apiKey); err != nil {
				spinner.StopWithError("API key rejected by " + cfg.Provider)
				return err
			}
			spinner.StopWithSuccess("API key accepted by " + cfg.Provider)
		}
		update.APIKeys = map[string]string{cfg.Provider: apiKey}
	}

	if err := prefs.SaveAIConfig(ctx, store, update); err != nil {
		return err
	}
	printSuccess("Saved preferences")
	printDetail("provider=%s model=%s", update.Provider, update.ResolvedModel())
	if update.APIKeys != nil {
		printDetail("api key %s", maskKey(apiKey))
	}
	return nil
}

func (c *CLI) configClearKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "clear-key <provider>",
		Short:     "Remove a stored API key",
		Args:      cobra.ExactArgs(1),
		ValidArgs: ai.Providers(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newPrefs(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := prefs.ClearAPIKey(ctx, store, args[0]); err != nil {
				return err
			}
			printSuccess("Removed API key for %s", args[0])
			return nil
		},
	}
}

// maskKey shows only the last four characters of a key.
func maskKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 8:
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}
