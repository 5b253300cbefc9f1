package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rainbowsmoke/pkg/core/frontier"
	"github.com/matzehuels/rainbowsmoke/pkg/sink"
)

// imageExts are offered when completing --image and output file names.
var imageExts = []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for rainbowsmoke.

Besides commands and flags, the scripts complete --strategy with the frontier
strategies, --format with the supported image formats, and --image or
--output with image files.

Load them for the current shell:

  $ source <(rainbowsmoke completion bash)
  $ rainbowsmoke completion fish | source
  PS> rainbowsmoke completion powershell | Out-String | Invoke-Expression

For zsh, write the script into your fpath once:

  $ rainbowsmoke completion zsh > "${fpath[1]}/_rainbowsmoke"
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}

// completeStrategies completes --strategy from the registered frontiers.
func completeStrategies(_ *cobra.Command, _ []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	var out []cobra.Completion
	for _, s := range frontier.Strategies {
		if strings.HasPrefix(string(s), toComplete) {
			out = append(out, cobra.Completion(s))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes --format from the encoders in pkg/sink.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	var out []cobra.Completion
	for _, f := range sink.Formats {
		if strings.HasPrefix(string(f), toComplete) {
			out = append(out, cobra.Completion(f))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// registerCompletions wires value completion for whichever of the shared
// flags cmd defines.
func registerCompletions(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Lookup("strategy") != nil {
		_ = cmd.RegisterFlagCompletionFunc("strategy", completeStrategies)
	}
	if flags.Lookup("format") != nil {
		_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	}
	for _, name := range []string{"image", "output"} {
		if flags.Lookup(name) != nil {
			_ = cmd.MarkFlagFilename(name, imageExts...)
		}
	}
	if flags.Lookup("out-dir") != nil {
		_ = cmd.MarkFlagDirname("out-dir")
	}
}
