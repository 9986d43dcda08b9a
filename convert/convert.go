// Package convert runs the conversion pipeline: it locates the input,
// loads the mapping tables, parses the project, renders CMakeLists.txt and
// commits it through the safe-write controller.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/willibrandon/vcproj2cmake/generator"
	"github.com/willibrandon/vcproj2cmake/mapping"
	"github.com/willibrandon/vcproj2cmake/model"
	"github.com/willibrandon/vcproj2cmake/observability"
	"github.com/willibrandon/vcproj2cmake/parser"
	"github.com/willibrandon/vcproj2cmake/safewrite"
	"github.com/willibrandon/vcproj2cmake/solution"
)

// OutputFileName is the name of the generated file next to each project.
const OutputFileName = "CMakeLists.txt"

// ErrOutputWithSolution is returned when an explicit output path is given
// together with a solution input.
var ErrOutputWithSolution = errors.New("an output file cannot be given when converting a solution")

// ErrSharedOutput is returned when two projects of a solution would write
// the same CMakeLists.txt.
var ErrSharedOutput = errors.New("projects share an output file")

// Console receives the per-project commit reports (injected from the CLI).
type Console interface {
	Printf(format string, args ...any)
	Error(format string, args ...any)
	Warning(format string, args ...any)
}

// Options control a conversion run.
type Options struct {
	// MasterDir is the root of the source tree, holding the master
	// mappings and the CMake support modules. Defaults to the working directory.
	MasterDir string

	ConfigDirLocal string
	ModulePathRoot string

	// ValidateFiles checks that every listed source file exists
	ValidateFiles bool

	// AbortOnError turns a failed file validation into a fatal error
	AbortOnError bool

	CommentsLevel int
	IndentStep    int

	// Perm is applied to written CMakeLists.txt files
	Perm fs.FileMode

	// Authoritative overrides the build type used for settings CMake cannot
	// express per configuration
	Authoritative string

	// ScriptLocation is the converter location relative to MasterDir.
	// Derived from the running executable when empty.
	ScriptLocation string

	// Jobs bounds concurrent conversions of a solution; 0 means GOMAXPROCS
	Jobs int

	// MetricsFile receives the conversion metrics after the run, if set
	MetricsFile string

	Log observability.Logger
}

// DefaultOptions returns the options matching the shipped settings.
func DefaultOptions() *Options {
	return &Options{
		ConfigDirLocal: generator.DefaultConfigDirLocal,
		ModulePathRoot: generator.DefaultModulePathRoot,
		ValidateFiles:  true,
		AbortOnError:   true,
		CommentsLevel:  generator.DefaultCommentsLevel,
		IndentStep:     generator.DefaultIndentStep,
		Perm:           safewrite.DefaultPerm,
	}
}

// Outcome describes one converted project.
type Outcome struct {
	Project string
	Output  string
	Result  safewrite.Result
}

// Run converts the input named by args: "<input> [<output>] [<master dir>]".
// A solution input converts every C/C++ and Fortran project it lists.
func Run(ctx context.Context, args []string, opts *Options, console Console) (err error) {
	if len(args) == 0 {
		return errors.New("no input project given")
	}
	if opts.MetricsFile != "" {
		defer func() {
			if werr := observability.WriteMetricsFile(opts.MetricsFile); werr != nil {
				err = errors.Join(err, fmt.Errorf("failed to write metrics: %w", werr))
			}
		}()
	}

	input := args[0]
	var output string
	if len(args) > 1 {
		output = args[1]
	}
	if len(args) > 2 {
		opts.MasterDir = args[2]
	}

	env, err := newEnvironment(opts)
	if err != nil {
		return err
	}

	if solution.IsSolutionFile(input) {
		if output != "" {
			return ErrOutputWithSolution
		}
		return env.runSolution(ctx, input, console)
	}

	projectPath, err := parser.Locate(input)
	if err != nil {
		return err
	}
	outcome, err := env.project(ctx, projectPath, output)
	if err != nil {
		return err
	}
	report(console, outcome)
	return nil
}

// Project converts a single project file. An empty outputPath selects the
// CMakeLists.txt next to the project.
func Project(ctx context.Context, projectPath, outputPath string, opts *Options) (Outcome, error) {
	env, err := newEnvironment(opts)
	if err != nil {
		return Outcome{}, err
	}
	return env.project(ctx, projectPath, outputPath)
}

// environment holds what all projects of one run share. Nothing in it is
// mutated after construction.
type environment struct {
	opts      Options
	masterDir string
	log       observability.Logger
	gen       generator.Options
	commit    *safewrite.Controller
}

func newEnvironment(opts *Options) (*environment, error) {
	o := *opts
	if o.Log == nil {
		o.Log = observability.NewNullLogger()
	}
	if o.ConfigDirLocal == "" {
		o.ConfigDirLocal = generator.DefaultConfigDirLocal
	}
	if o.MasterDir == "" {
		o.MasterDir = "."
	}
	masterDir, err := filepath.Abs(o.MasterDir)
	if err != nil {
		return nil, fmt.Errorf("invalid master directory %q: %w", o.MasterDir, err)
	}
	if st, err := os.Stat(masterDir); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("master directory %s does not exist", masterDir)
	}
	if o.ScriptLocation == "" {
		o.ScriptLocation = scriptLocation(masterDir)
	}

	return &environment{
		opts:      o,
		masterDir: masterDir,
		log:       o.Log,
		gen: generator.Options{
			Log:            o.Log,
			CommentsLevel:  o.CommentsLevel,
			IndentStep:     o.IndentStep,
			ConfigDirLocal: o.ConfigDirLocal,
			ModulePathRoot: o.ModulePathRoot,
			ScriptLocation: o.ScriptLocation,
		},
		commit: safewrite.New(o.Perm, o.Log),
	}, nil
}

// scriptLocation returns the running executable relative to masterDir, or
// "" to keep the generator default.
func scriptLocation(masterDir string) string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(masterDir, exe)
	if err != nil {
		return ""
	}
	return filepath.ToSlash(rel)
}

func (e *environment) project(ctx context.Context, projectPath, outputPath string) (outcome Outcome, err error) {
	ctx, span := observability.StartConvertSpan(ctx, projectPath)
	defer func() {
		observability.EndSpanWithError(span, err)
		if err != nil {
			observability.ProjectsConvertedTotal.WithLabelValues("failed").Inc()
		}
	}()

	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(projectPath), OutputFileName)
	}
	outcome = Outcome{Project: projectPath, Output: outputPath}
	log := e.log.ForContext("Project", projectPath)

	mappings, err := mapping.LoadSet(filepath.Dir(projectPath), e.masterDir, e.opts.ConfigDirLocal)
	if err != nil {
		return outcome, fmt.Errorf("failed to load mappings: %w", err)
	}

	start := time.Now()
	project, err := parser.ParseFile(ctx, projectPath, parser.Options{
		Log:                 log,
		ValidateFiles:       e.opts.ValidateFiles,
		AbortOnMissing:      e.opts.AbortOnError,
		AuthoritativeConfig: e.opts.Authoritative,
	})
	observability.PhaseDuration.WithLabelValues("parse").Observe(time.Since(start).Seconds())
	if err != nil {
		return outcome, err
	}

	genOpts := e.gen
	genOpts.Log = log
	genOpts.Mappings = mappings
	data, err := render(ctx, generator.New(genOpts), project)
	if err != nil {
		return outcome, err
	}

	start = time.Now()
	_, commitSpan := observability.StartCommitSpan(ctx, outputPath, len(data))
	outcome.Result, err = e.commit.Commit(data, outputPath)
	commitSpan.SetAttributes(observability.AttrResult.String(outcome.Result.String()))
	observability.EndSpanWithError(commitSpan, err)
	observability.PhaseDuration.WithLabelValues("commit").Observe(time.Since(start).Seconds())
	if err != nil {
		return outcome, err
	}

	observability.ProjectsConvertedTotal.WithLabelValues(outcome.Result.String()).Inc()
	log.Debug("{Project}: {Result} {Output}", projectPath, outcome.Result, outputPath)
	return outcome, nil
}

// render generates every target of project into one document. Any error
// leaves nothing to commit.
func render(ctx context.Context, gen *generator.Generator, project *model.Project) ([]byte, error) {
	start := time.Now()
	defer func() {
		observability.PhaseDuration.WithLabelValues("generate").Observe(time.Since(start).Seconds())
	}()

	var buf bytes.Buffer
	for _, target := range project.Targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		_, span := observability.StartGenerateSpan(ctx, target.Name, len(project.Configs))
		data, err := gen.Generate(project, target)
		observability.EndSpanWithError(span, err)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

func (e *environment) runSolution(ctx context.Context, path string, console Console) error {
	sol, err := solution.ParseSolution(path)
	if err != nil {
		return fmt.Errorf("failed to parse solution: %w", err)
	}
	projects := sol.GetCppProjects()
	if len(projects) == 0 {
		console.Warning("%s lists no Visual C++ projects", path)
		return nil
	}

	if err := checkOutputs(projects); err != nil {
		return err
	}

	jobs := e.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, projectPath := range projects {
		projectPath := projectPath
		g.Go(func() error {
			outcome, err := e.project(ctx, projectPath, "")
			if err != nil {
				return fmt.Errorf("%s: %w", projectPath, err)
			}
			report(console, outcome)
			return nil
		})
	}
	return g.Wait()
}

// checkOutputs rejects project lists in which two projects live in the same
// directory, since each output must have a single writer.
func checkOutputs(projects []string) error {
	owners := make(map[string]string, len(projects))
	for _, projectPath := range projects {
		output := filepath.Clean(filepath.Join(filepath.Dir(projectPath), OutputFileName))
		if other, ok := owners[output]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", ErrSharedOutput, other, projectPath, output)
		}
		owners[output] = projectPath
	}
	return nil
}

func report(console Console, o Outcome) {
	if o.Result == safewrite.Unchanged {
		console.Printf("No settings changed, %s not updated.\n", o.Output)
		return
	}
	console.Printf("Wrote %s\n", o.Output)
	console.Printf("Finished. You should make sure to have all important v2c settings includes such as vcproj2cmake_defs.cmake somewhere in your CMAKE_MODULE_PATH\n")
}
