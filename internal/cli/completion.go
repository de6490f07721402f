package cli

import (
	"github.com/spf13/cobra"
)

// completionCmd generates shell completion scripts.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for quorum.

Bash loads completions with "source <(quorum completion bash)". Zsh needs
compinit enabled and the script placed on $fpath as _quorum. Fish reads
completions from ~/.config/fish/completions/quorum.fish. PowerShell can pipe the
script through Out-String | Invoke-Expression from the profile.`,
	Example: `  source <(quorum completion bash)
  quorum completion zsh > "${fpath[1]}/_quorum"
  quorum completion fish > ~/.config/fish/completions/quorum.fish
  quorum completion powershell | Out-String | Invoke-Expression`,
	GroupID:               groupConfig,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:                  runCompletion,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
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
}
