package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for stepmotion.

To load completions:

Bash:
  $ source <(stepmotion completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ stepmotion completion bash > /etc/bash_completion.d/stepmotion
  # macOS:
  $ stepmotion completion bash > $(brew --prefix)/etc/bash_completion.d/stepmotion

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ stepmotion completion zsh > "${fpath[1]}/_stepmotion"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ stepmotion completion fish | source

  # To load completions for each session, execute once:
  $ stepmotion completion fish > ~/.config/fish/completions/stepmotion.fish

PowerShell:
  PS> stepmotion completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> stepmotion completion powershell > stepmotion.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
