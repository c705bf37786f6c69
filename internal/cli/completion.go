package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitseeker/pkg/ai"
	"github.com/matzehuels/gitseeker/pkg/project"
)

func (c *CLI) completionCommand() *cobra.Command {
	generators := map[string]func(root *cobra.Command, w io.Writer) error{
		"bash":       func(r *cobra.Command, w io.Writer) error { return r.GenBashCompletionV2(w, true) },
		"zsh":        func(r *cobra.Command, w io.Writer) error { return r.GenZshCompletion(w) },
		"fish":       func(r *cobra.Command, w io.Writer) error { return r.GenFishCompletion(w, true) },
		"powershell": func(r *cobra.Command, w io.Writer) error { return r.GenPowerShellCompletionWithDesc(w) },
	}

	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Print a shell completion script",
		Long: `Print a completion script for the given shell. Source and source names
(github, hf, npm, ...) and AI provider names complete as well.

  bash:       source <(gitseeker completion bash)
  zsh:        gitseeker completion zsh > "${fpath[1]}/_gitseeker"
  fish:       gitseeker completion fish > ~/.config/fish/completions/gitseeker.fish
  powershell: gitseeker completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []cobra.Completion{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generators[args[0]](cmd.Root(), c.Out)
		},
	}
}

func completeSources(_ *cobra.Command, _ []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	var out []cobra.Completion
	for _, src := range project.AllSources() {
		out = append(out, cobra.CompletionWithDesc(string(src), src.Label()))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeSourceArg completes the <source> positional of readme and analyze.
func completeSourceArg(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeSources(cmd, args, toComplete)
}

func completeProviders(*cobra.Command, []string, string) ([]cobra.Completion, cobra.ShellCompDirective) {
	return ai.Providers(), cobra.ShellCompDirectiveNoFileComp
}
