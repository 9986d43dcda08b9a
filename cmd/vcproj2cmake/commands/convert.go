package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/willibrandon/vcproj2cmake/cmd/vcproj2cmake/cli"
	"github.com/willibrandon/vcproj2cmake/cmd/vcproj2cmake/config"
	"github.com/willibrandon/vcproj2cmake/cmd/vcproj2cmake/output"
	"github.com/willibrandon/vcproj2cmake/convert"
	"github.com/willibrandon/vcproj2cmake/observability"
)

type convertFlags struct {
	strict        bool
	noStrict      bool
	authoritative string
	jobs          int
	commentsLevel int
	metricsFile   string
	trace         string
	otlpEndpoint  string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(console *output.Console) *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert <PROJECT|SOLUTION> [<OUTPUT>] [<MASTER_DIR>]",
		Short: "Convert a project or solution to CMakeLists.txt",
		Long: `Converts a Visual Studio project file into a CMakeLists.txt.

PROJECT may omit its extension; .vcxproj, .vcproj and .vfproj are tried in
turn. OUTPUT defaults to the CMakeLists.txt next to the project. MASTER_DIR is
the root of the source tree holding the master mapping files and the
vcproj2cmake CMake modules (default: current directory).

A .sln or .slnx solution converts every C/C++ and Fortran project it lists,
each into its own CMakeLists.txt.

Examples:
  vcproj2cmake app.vcproj
  vcproj2cmake src/app/app.vcxproj src/app/CMakeLists.txt .
  vcproj2cmake convert all.sln --jobs 4
  vcproj2cmake convert app.vcproj --no-strict --verbosity detailed`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, flags, console)
		},
	}

	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Fail when a listed source file does not exist")
	cmd.Flags().BoolVar(&flags.noStrict, "no-strict", false, "Only warn about missing source files")
	cmd.Flags().StringVar(&flags.authoritative, "authoritative", "", "Build type whose settings apply where CMake has no per-configuration equivalent")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "Projects converted concurrently from a solution (0: number of CPUs)")
	cmd.Flags().IntVar(&flags.commentsLevel, "comments-level", 0, "Explanatory comments in the output, 0..4")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "Write conversion metrics in Prometheus text format to this file")
	cmd.Flags().StringVar(&flags.trace, "trace", "none", "Trace exporter: none, stdout or otlp")
	cmd.Flags().StringVar(&flags.otlpEndpoint, "otlp-endpoint", "localhost:4317", "OTLP collector endpoint for --trace otlp")
	cmd.MarkFlagsMutuallyExclusive("strict", "no-strict")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string, flags *convertFlags, console *output.Console) error {
	verbosityFlag, _ := cmd.Flags().GetString("verbosity")
	verbosity, err := output.ParseVerbosity(verbosityFlag)
	if err != nil {
		return err
	}
	console.SetVerbosity(verbosity)
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		console.SetColors(false)
	}
	level, err := observability.ParseLogLevel(verbosityFlag)
	if err != nil {
		return err
	}

	masterDir := "."
	if len(args) > 2 {
		masterDir = args[2]
	}
	settingsFile, _ := cmd.Flags().GetString("settings")
	settings, err := config.Find(settingsFile, masterDir)
	if err != nil {
		return err
	}

	opts := convert.DefaultOptions()
	settings.Apply(opts)
	opts.MasterDir = masterDir
	opts.MetricsFile = flags.metricsFile
	opts.Log = observability.NewLogger(console.ErrWriter(), level)
	if err := flags.apply(cmd, opts); err != nil {
		return err
	}

	ctx := cmd.Context()
	shutdown, err := setupTracing(ctx, flags, console.ErrWriter())
	if err != nil {
		return err
	}
	defer shutdown()

	return convert.Run(ctx, args, opts, console)
}

// apply overrides settings with the flags given on the command line.
func (f *convertFlags) apply(cmd *cobra.Command, opts *convert.Options) error {
	changed := cmd.Flags().Changed
	if changed("strict") && f.strict {
		opts.ValidateFiles = true
		opts.AbortOnError = true
	}
	if changed("no-strict") && f.noStrict {
		opts.AbortOnError = false
	}
	if changed("authoritative") {
		opts.Authoritative = f.authoritative
	}
	if changed("jobs") {
		if f.jobs < 0 {
			return fmt.Errorf("--jobs must not be negative, got %d", f.jobs)
		}
		opts.Jobs = f.jobs
	}
	if changed("comments-level") {
		if f.commentsLevel < 0 || f.commentsLevel > 4 {
			return fmt.Errorf("--comments-level must be within 0..4, got %d", f.commentsLevel)
		}
		opts.CommentsLevel = f.commentsLevel
	}
	return nil
}

func setupTracing(ctx context.Context, flags *convertFlags, w io.Writer) (func(), error) {
	if flags.trace == "none" {
		return func() {}, nil
	}
	tc := observability.DefaultTracerConfig()
	tc.ServiceVersion = cli.GetVersion()
	tc.ExporterType = flags.trace
	tc.OTLPEndpoint = flags.otlpEndpoint
	tc.Writer = w
	tp, err := observability.SetupTracing(ctx, tc)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}
	return func() { _ = observability.ShutdownTracing(context.Background(), tp) }, nil
}
