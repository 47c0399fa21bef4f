package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// documentExts are the layout document extensions offered by completion.
var documentExts = []string{"json", "toml"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for flexdock.

Document arguments complete to .json and .toml files.

  bash:        source <(flexdock completion bash)
  zsh:         flexdock completion zsh > "${fpath[1]}/_flexdock"
  fish:        flexdock completion fish | source
  powershell:  flexdock completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// completeDocuments gives every command that takes a layout document file
// completion for its positional arguments.
func completeDocuments(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		if cmd.ValidArgsFunction != nil || !strings.Contains(cmd.Use, "layout.json") {
			continue
		}
		cmd.ValidArgsFunction = documentArgs
	}
}

// documentArgs completes the first argument to layout documents and any
// later one (the actions file of apply) to JSON.
func documentArgs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return documentExts, cobra.ShellCompDirectiveFilterFileExt
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}
