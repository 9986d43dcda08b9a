package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/willibrandon/vcproj2cmake/cmd/vcproj2cmake/output"
)

var rootCmd = &cobra.Command{
	Use:   "vcproj2cmake [<PROJECT|SOLUTION>] [<OUTPUT>] [<MASTER_DIR>]",
	Short: "Convert Visual Studio projects to CMakeLists.txt",
	Long: `vcproj2cmake converts Visual Studio project files (.vcproj, .vcxproj, .vfproj)
into CMakeLists.txt files. Running it with a project path is the same as
running "vcproj2cmake convert" with that path.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		// Show help when no command is provided
		_ = cmd.Help()
	},
}

// Console is the global console for CLI commands
var Console *output.Console

// defaultCommand receives positional arguments that name no command
var defaultCommand string

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background(), os.Args[1:])
}

// ExecuteContext runs the root command with args
func ExecuteContext(ctx context.Context, args []string) error {
	rootCmd.SetArgs(withDefaultCommand(rootCmd, defaultCommand, args))
	return rootCmd.ExecuteContext(ctx)
}

// withDefaultCommand prepends name to args when they carry a positional
// argument but no command.
func withDefaultCommand(root *cobra.Command, name string, args []string) []string {
	if name == "" {
		return args
	}
	hasPositional := false
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			hasPositional = true
			break
		}
	}
	if !hasPositional {
		return args
	}
	if cmd, _, err := root.Find(args); err == nil && cmd != root {
		return args
	}
	return append([]string{name}, args...)
}

func init() {
	// Initialize console
	Console = output.DefaultConsole()

	rootCmd.PersistentFlags().String("settings", "", "Settings file to use (default: <MASTER_DIR>/vcproj2cmake.yaml)")
	rootCmd.PersistentFlags().String("verbosity", "normal", "Display verbosity (quiet, minimal, normal, detailed, diagnostic)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}

// SetupVersion configures version information after variables are set
func SetupVersion() {
	rootCmd.SetVersionTemplate(GetFullVersion() + "\n")
	rootCmd.Version = GetVersion()
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetDefaultCommand adds cmd and makes it receive bare positional arguments
func SetDefaultCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
	defaultCommand = cmd.Name()
}
