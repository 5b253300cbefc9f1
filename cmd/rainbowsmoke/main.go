// Command rainbowsmoke paints images in which every palette color is used
// exactly once.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rainbowsmoke/internal/cli"
	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
)

// exitInterrupted follows the shell convention of 128+SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		os.Exit(exitInterrupted)
	default:
		msg := errs.UserMessage(err)
		fmt.Fprintln(os.Stderr, "Error:", msg)
		if detail := err.Error(); detail != msg {
			fmt.Fprintln(os.Stderr, "  "+detail)
		}
		os.Exit(1)
	}
}

// execute builds the command tree with a --verbose flag that takes effect
// before the root pre-run loads config and starts logging.
func execute(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	verbose := root.PersistentFlags().BoolP("verbose", "v", false, "log debug output")
	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if loadConfig == nil {
			return nil
		}
		return loadConfig(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
