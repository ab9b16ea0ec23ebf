package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arnet/pkg/layout"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for arnet.

Bash:
  $ source <(arnet completion bash)

Zsh:
  $ arnet completion zsh > "${fpath[1]}/_arnet"

Fish:
  $ arnet completion fish > ~/.config/fish/completions/arnet.fish

PowerShell:
  PS> arnet completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// registerEngineCompletions completes the --strategy flag with the
// registered layout strategies.
func registerEngineCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("strategy", fixedCompletions(layout.Names()...))
}

// fixedCompletions completes a flag from a fixed list. Comma-separated
// flags complete their last element.
func fixedCompletions(values ...string) cobra.CompletionFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		head := ""
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			head = toComplete[:i+1]
		}
		out := make([]string, 0, len(values))
		for _, v := range values {
			out = append(out, head+v)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
