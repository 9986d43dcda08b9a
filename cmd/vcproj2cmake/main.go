package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/willibrandon/vcproj2cmake/cmd/vcproj2cmake/cli"
	"github.com/willibrandon/vcproj2cmake/cmd/vcproj2cmake/commands"
)

// Version information (set via ldflags during build)
var (
	version = "0.0.0-dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

var setupOnce sync.Once

func setup() {
	// Set version info
	cli.Version = version
	cli.Commit = commit
	cli.Date = date
	cli.BuiltBy = builtBy

	// Setup version after variables are set
	cli.SetupVersion()

	// Register commands
	cli.AddCommand(commands.NewVersionCommand(cli.Console))
	cli.SetDefaultCommand(commands.NewConvertCommand(cli.Console))
}

func run(args []string) int {
	setupOnce.Do(setup)

	// Cancel the conversion on interrupt; nothing is committed for a
	// project whose conversion did not finish.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx, args); err != nil {
		// Print error to stderr since SilenceErrors is true in rootCmd
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
