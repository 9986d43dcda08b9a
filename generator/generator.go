// Package generator renders a parsed project model as a CMakeLists.txt.
package generator

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/willibrandon/vcproj2cmake/mapping"
	"github.com/willibrandon/vcproj2cmake/model"
	"github.com/willibrandon/vcproj2cmake/observability"
	"github.com/willibrandon/vcproj2cmake/translate"
)

// Defaults mirror the settings shipped with the CMake support modules.
const (
	DefaultConfigDirLocal = "./cmake/vcproj2cmake"
	DefaultModulePathRoot = "cmake/Modules"
	DefaultCommentsLevel  = 2
	DefaultIndentStep     = 2
	DefaultScriptLocation = "cmake/vcproj2cmake/vcproj2cmake"
)

const (
	funcModule        = "vcproj2cmake_func.cmake"
	notProvidedMarker = "V2C_NOT_PROVIDED"
)

const (
	kindNoSources   = "no_sources"
	kindUtilityType = "utility_type"
)

const temporaryMarker = `#
# TEMPORARY Build file, AUTO-GENERATED by http://vcproj2cmake.sf.net
# DO NOT CHECK INTO VERSION CONTROL OR APPLY "PERMANENT" MODIFICATIONS!!
#

`

const masterDefaultsComment = `
# this part is for including a file which contains
# _globally_ applicable settings for all sub projects of a master project
# (compiler flags, path settings, platform stuff, ...)
# e.g. have vcproj2cmake-specific MasterProjectDefaults_vcproj2cmake
# which then _also_ includes a global MasterProjectDefaults module
# for _all_ CMakeLists.txt. This needs to sit post-project()
# since e.g. compiler info is dependent on a valid project.
`

const utilityTypeWarning = "Project type 0 (typeUnknown - utility) is a _custom command_ type and thus probably cannot be supported easily. " +
	"We will not abort and thus do write out a file, but it probably needs fixup (hook scripts?) to work properly. " +
	"If this project type happens to use VCNMakeTool tool, then I would suggest to examine " +
	"BuildCommandLine/ReBuildCommandLine/CleanCommandLine attributes for clues on how to proceed."

var whitespaceRegex = regexp.MustCompile(`\s`)

// Options configure the generated output.
type Options struct {
	// Log receives diagnostics; nil discards them
	Log observability.Logger

	// Mappings translate defines, dependencies and directories; nil maps
	// every token to itself
	Mappings *mapping.Set

	// CommentsLevel selects how many explanatory comments are written, 0..4
	CommentsLevel int

	IndentStep     int
	ConfigDirLocal string
	ModulePathRoot string

	// ScriptLocation is the converter location relative to the master
	// directory, used by the generated rebuild logic
	ScriptLocation string
}

// UnsupportedTypeError reports a configuration type no CMake target kind
// exists for.
type UnsupportedTypeError struct {
	Target    string
	BuildType string
	Type      model.ConfigurationType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s (%s): Project type %d not supported.", e.Target, e.BuildType, int(e.Type))
}

// Generator renders targets. It keeps no state between calls, so one
// instance may serve concurrent conversions.
type Generator struct {
	opts Options
}

// New creates a generator, filling in defaults for unset options.
func New(opts Options) *Generator {
	if opts.Log == nil {
		opts.Log = observability.NewNullLogger()
	}
	if opts.Mappings == nil {
		opts.Mappings = &mapping.Set{}
	}
	if opts.IndentStep <= 0 {
		opts.IndentStep = DefaultIndentStep
	}
	if opts.ConfigDirLocal == "" {
		opts.ConfigDirLocal = DefaultConfigDirLocal
	}
	if opts.ModulePathRoot == "" {
		opts.ModulePathRoot = DefaultModulePathRoot
	}
	if opts.ScriptLocation == "" {
		opts.ScriptLocation = DefaultScriptLocation
	}
	return &Generator{opts: opts}
}

// genContext is the state of rendering one target.
type genContext struct {
	opts    Options
	w       *cmakeWriter
	log     observability.Logger
	project *model.Project
	target  *model.Target
	tr      *translate.Translator

	includeDirs map[*model.CompilerInfo][]string
	libDirs     map[*model.LinkerInfo][]string
	snippets    []string

	// targetCreated is set once any configuration declared the target
	targetCreated bool
}

// Generate renders target of project as CMakeLists.txt content. The output
// depends on nothing but the arguments and the generator options.
func (g *Generator) Generate(project *model.Project, target *model.Target) ([]byte, error) {
	gc := &genContext{
		opts:        g.opts,
		w:           newCMakeWriter(g.opts.IndentStep, g.opts.CommentsLevel),
		log:         g.opts.Log.ForContext("Target", target.Name),
		project:     project,
		target:      target,
		tr:          translate.New(g.opts.Log, filepath.Base(project.Path)),
		includeDirs: make(map[*model.CompilerInfo][]string),
		libDirs:     make(map[*model.LinkerInfo][]string),
	}
	if err := gc.generate(); err != nil {
		return nil, err
	}
	return gc.w.Bytes(), nil
}

func (g *genContext) generate() error {
	g.translatePaths()

	g.putFileHeader()
	g.putProject()
	g.putMasterProjectDefaults()
	g.putHookProject()

	var sourcesVar string
	if g.target.Files != nil {
		sourcesVar = g.putFileList(g.target.Files, "", true)
	}
	if sourcesVar == "" {
		g.log.Warn("{Target}: no source files at all!? (header-based project?)", g.target.Name)
		observability.DiagnosticsTotal.WithLabelValues(kindNoSources).Inc()
	}

	g.w.BlankLine()
	g.w.Command("include_directories", `BEFORE "${PROJECT_SOURCE_DIR}"`)
	g.w.Include("${V2C_HOOK_POST_SOURCES}", true)

	g.putSnippets()

	if g.target.HasBuildUnits {
		elems := []string{"${V2C_SOURCES}"}
		if sourcesVar != "" {
			elems = append([]string{"${" + sourcesVar + "}"}, elems...)
		}
		g.w.BlankLine()
		g.w.CommandListQuoted("set", "SOURCES", elems)
	}

	g.putConfigSelectors()
	for _, cfg := range g.project.Configs {
		if err := g.putConfig(cfg); err != nil {
			return err
		}
	}

	if g.targetCreated {
		g.putTargetProperties()
		g.putSCC()
	}

	g.putHookPostTarget()
	g.putScriptLocation()
	g.putPostSetup()
	return nil
}

// translatePaths translates the macros of all directory lists up front, so
// that the helper snippets they need can be written before any of them is
// used.
func (g *genContext) translatePaths() {
	seen := make(map[string]bool)
	tr := func(values []string) []string {
		out := make([]string, len(values))
		for i, v := range values {
			var snippets []string
			out[i], snippets = g.tr.Translate(v)
			for _, s := range snippets {
				if !seen[s] {
					seen[s] = true
					g.snippets = append(g.snippets, s)
				}
			}
		}
		return out
	}
	for _, cfg := range g.project.Configs {
		for _, c := range cfg.Compilers {
			g.includeDirs[c] = tr(c.IncludeDirPaths())
		}
		for _, l := range cfg.Linkers {
			g.libDirs[l] = tr(l.LibDirs)
		}
	}
}

func (g *genContext) putFileHeader() {
	w := g.w
	w.Raw(temporaryMarker)

	w.Comment(1, ">= 2.6 due to crucial set_property(... COMPILE_DEFINITIONS_* ...)")
	w.Command("cmake_minimum_required", "VERSION 2.6")

	const cond = "COMMAND cmake_policy"
	w.If(cond)
	g.putPolicy(5, true, "automatic quoting of brackets")
	g.putPolicy(11, false, "we do want the includer to be affected by our updates,\nsince it might define project-global settings.")
	g.putPolicy(15, true, ".vcproj contains relative paths to additional library directories,\nthus we need to be able to cope with that")
	w.EndIf(cond)

	w.BlankLine()
	w.SetVar("V2C_MASTER_PROJECT_DIR", `"${CMAKE_SOURCE_DIR}"`)
	w.SetVar("CMAKE_MODULE_PATH", `"${V2C_MASTER_PROJECT_DIR}/`+g.opts.ModulePathRoot+`" ${CMAKE_MODULE_PATH}`)
	w.SetVar("V2C_CONFIG_DIR_LOCAL", `"`+g.opts.ConfigDirLocal+`"`)

	w.BlankLine()
	w.Comment(2, "include the main file for pre-defined vcproj2cmake helper functions\n"+
		"This module will also include the configuration settings definitions module")
	w.Include("vcproj2cmake_func", false)
	w.Include("${V2C_CONFIG_DIR_LOCAL}/hook_pre.txt", true)
}

func (g *genContext) putPolicy(num int, setNew bool, comment string) {
	policy := fmt.Sprintf("CMP%04d", num)
	cond := "POLICY " + policy
	setting := "OLD"
	if setNew {
		setting = "NEW"
	}
	g.w.If(cond)
	g.w.Comment(3, comment)
	g.w.Command("cmake_policy", "SET "+policy+" "+setting)
	g.w.EndIf(cond)
}

func (g *genContext) putProject() {
	args := append([]string{g.target.Name}, g.target.Languages()...)
	g.w.Command("project", strings.Join(args, " "))
}

func (g *genContext) putMasterProjectDefaults() {
	if g.opts.CommentsLevel >= 2 {
		g.w.Raw(masterDefaultsComment)
		g.w.Block("# MasterProjectDefaults_vcproj2cmake is supposed to define generic settings\n" +
			"# (such as V2C_HOOK_PROJECT, defined as e.g.\n" +
			"# " + g.opts.ConfigDirLocal + "/hook_project.txt,\n" +
			"# and other hook include variables below).\n" +
			"# NOTE: it usually should also reset variables\n" +
			"# V2C_LIBS, V2C_SOURCES etc. as used below since they should contain\n" +
			"# directory-specific contents only, not accumulate!")
	}
	g.w.Include("MasterProjectDefaults_vcproj2cmake", true)
}

func (g *genContext) putHookProject() {
	g.w.Comment(2, "hook e.g. for invoking Find scripts as expected by\n"+
		"the _LIBRARIES / _INCLUDE_DIRS mappings created\n"+
		"by your include/dependency map files.")
	g.w.Include("${V2C_HOOK_PROJECT}", true)
}

func (g *genContext) putSnippets() {
	for _, s := range g.snippets {
		g.w.BlankLine()
		g.w.Block(s)
	}
}

// selectorVar names the variable telling whether the build type is wanted.
func selectorVar(buildType string) string {
	return "v2c_want_buildcfg_" + whitespaceRegex.ReplaceAllString(buildType, "_")
}

// configTag is the configuration suffix of per-configuration properties.
func configTag(buildType string) string {
	return strings.ReplaceAll(strings.ToUpper(buildType), " ", "_")
}

// putConfigSelectors defines one selector variable per build type. The
// authoritative build type is also selected by multi-configuration
// generators, which have no CMAKE_BUILD_TYPE.
func (g *genContext) putConfigSelectors() {
	seen := make(map[string]bool)
	for _, cfg := range g.project.Configs {
		name := selectorVar(cfg.BuildType)
		if seen[name] {
			continue
		}
		seen[name] = true
		cond := `CMAKE_BUILD_TYPE STREQUAL "` + cfg.BuildType + `"`
		if g.project.IsAuthoritative(cfg) {
			cond = "CMAKE_CONFIGURATION_TYPES OR " + cond
		}
		g.w.SetVarBoolConditional(name, cond)
	}
}

func (g *genContext) putConfig(cfg *model.ProjectConfigInfo) error {
	w := g.w
	cond := selectorVar(cfg.BuildType)
	w.BlankLine()
	w.If(cond)

	w.SetVar("CMAKE_MFC_FLAG", strconv.Itoa(cfg.UseOfMFC))
	w.SetVar("CMAKE_ATL_FLAG", strconv.Itoa(cfg.UseOfATL))

	for _, c := range cfg.Compilers {
		if dirs := g.includeDirs[c]; len(dirs) > 0 {
			g.writeBuildAttributes("include_directories", dirs, g.opts.Mappings.IncludeDirs, "")
		}
	}

	w.BlankLine()
	w.Comment(1, "hook include after all definitions have been made\n"+
		"(but _before_ target is created using the source list!)")
	w.Include("${V2C_HOOK_POST_DEFINITIONS}", true)

	if g.target.HasBuildUnits {
		if err := g.putTarget(cfg); err != nil {
			return err
		}
	}

	w.EndIf(cond)
	return nil
}

// putTarget declares the target for cfg unless an earlier configuration
// already did, then links its libraries.
func (g *genContext) putTarget(cfg *model.ProjectConfigInfo) error {
	w := g.w
	name := g.target.Name

	kind, ok := cfg.Type.Kind()
	if !ok {
		return &UnsupportedTypeError{Target: name, BuildType: cfg.BuildType, Type: cfg.Type}
	}

	for _, l := range cfg.Linkers {
		dirs := append(append([]string(nil), g.libDirs[l]...), "${V2C_LIB_DIRS}")
		w.Comment(3, "It is said to be much preferable to be able to use target_link_libraries()\n"+
			"rather than the very unspecific link_directories().")
		g.writeBuildAttributes("link_directories", dirs, g.opts.Mappings.LibDirs, "")
	}

	cond := "NOT TARGET " + name
	w.If(cond)
	switch kind {
	case model.KindExecutable:
		w.Command("add_executable", name+" WIN32 ${SOURCES}")
	case model.KindSharedLibrary:
		w.BlankLine()
		w.Command("add_library", name+" SHARED ${SOURCES}")
	case model.KindStaticLibrary:
		w.BlankLine()
		w.Command("add_library", name+" STATIC ${SOURCES}")
	default:
		g.log.Warn("{Target} ({BuildType}): "+utilityTypeWarning, name, cfg.BuildType)
		observability.DiagnosticsTotal.WithLabelValues(kindUtilityType).Inc()
	}
	w.EndIf(cond)

	if kind == model.KindNone {
		return nil
	}
	g.targetCreated = true
	for _, l := range cfg.Linkers {
		deps := append(append([]string(nil), l.Dependencies...), "${V2C_LIBS}")
		g.writeBuildAttributes("target_link_libraries", deps, g.opts.Mappings.Dependencies, name)
	}
	return nil
}

// writeBuildAttributes maps values through table and writes one command
// per resulting platform, guarded by the platform condition.
func (g *genContext) writeBuildAttributes(command string, values []string, table *mapping.Table, arg string) {
	unquoted := make([]string, len(values))
	for i, v := range values {
		unquoted[i] = Unquote(v)
	}
	res := mapping.ResolveAll(unquoted, table)
	for _, platform := range res.Platforms() {
		vals := res.Values(platform)
		if len(vals) == 0 {
			continue
		}
		cond := platformCondition(platform)
		g.w.BlankLine()
		g.w.If(cond)
		g.w.CommandListQuoted(command, arg, vals)
		g.w.EndIf(cond)
	}
}

func platformCondition(platform string) string {
	if platform == mapping.AllPlatforms {
		return ""
	}
	return platform
}

// putTargetProperties writes the per-configuration compile definitions and
// flags. It runs after all configurations had their chance to declare the
// target.
func (g *genContext) putTargetProperties() {
	w := g.w
	name := g.target.Name
	cond := "TARGET " + name
	w.If(cond)
	for _, cfg := range g.project.Configs {
		tag := configTag(cfg.BuildType)
		for _, c := range cfg.Compilers {
			defines := c.Defines.Clone()
			if cfg.UseOfMFC == 2 {
				defines.Set("_AFXEXT", "")
				defines.Set("_AFXDLL", "")
			}
			g.putCompileDefinitions(tag, defines)
			g.putCompileFlags(tag, c.Flags)
		}
	}
	w.EndIf(cond)
}

func (g *genContext) putCompileDefinitions(tag string, defines model.Defines) {
	tokens := make([]string, 0, defines.Len())
	for _, d := range defines.Entries() {
		if d.Value == "" {
			tokens = append(tokens, d.Name)
		} else {
			tokens = append(tokens, d.Name+"="+d.Value)
		}
	}
	res := mapping.ResolveAll(tokens, g.opts.Mappings.Defines)
	parens := strings.NewReplacer("(", `\(`, ")", `\)`)
	arg := "TARGET " + g.target.Name + " APPEND PROPERTY COMPILE_DEFINITIONS_" + tag
	for _, platform := range res.Platforms() {
		vals := res.Values(platform)
		if len(vals) == 0 {
			continue
		}
		escaped := make([]string, len(vals))
		for i, v := range vals {
			escaped[i] = parens.Replace(v)
		}
		cond := platformCondition(platform)
		g.w.BlankLine()
		g.w.If(cond)
		g.w.CommandList("set_property", arg, escaped)
		g.w.EndIf(cond)
	}
}

// putCompileFlags passes the raw flags on to MSVC, the only compiler
// that understands them.
func (g *genContext) putCompileFlags(tag string, flags []string) {
	if len(flags) == 0 {
		return
	}
	const cond = "MSVC"
	g.w.BlankLine()
	g.w.If(cond)
	g.w.CommandList("set_property", "TARGET "+g.target.Name+" APPEND PROPERTY COMPILE_FLAGS_"+tag, flags)
	g.w.EndIf(cond)
}

func (g *genContext) putSCC() {
	scc := g.target.SCC
	if !scc.Present() {
		return
	}
	escapePath := func(s string) string {
		return strings.ReplaceAll(escapeBackslashes(s), `"`, `\"`)
	}
	args := []string{
		strings.ReplaceAll(scc.ProjectName, `"`, "&quot;"),
		escapePath(scc.LocalPath),
		strings.ReplaceAll(scc.Provider, `"`, `\"`),
		escapePath(scc.AuxPath),
	}
	g.w.BlankLine()
	g.putFuncComment()
	g.w.CommandListQuoted("v2c_target_set_properties_vs_scc", g.target.Name, args)
}

func (g *genContext) putHookPostTarget() {
	g.w.BlankLine()
	g.w.Comment(1, "e.g. to be used for tweaking target properties etc.")
	g.w.Include("${V2C_HOOK_POST_TARGET}", true)
}

func (g *genContext) putScriptLocation() {
	const cond = "NOT V2C_SCRIPT_LOCATION"
	g.w.BlankLine()
	g.w.Comment(1, "user override mechanism (allow defining custom location of script)")
	g.w.If(cond)
	g.w.SetVar("V2C_SCRIPT_LOCATION", `"${CMAKE_SOURCE_DIR}/`+filepath.ToSlash(g.opts.ScriptLocation)+`"`)
	g.w.EndIf(cond)
}

func (g *genContext) putFuncComment() {
	g.w.Comment(2, "See function implementation/docs in "+g.opts.ModulePathRoot+"/"+funcModule)
}

// putPostSetup hands the project specific values to the shared
// v2c_post_setup() routine of the support modules.
func (g *genContext) putPostSetup() {
	keyword := g.target.Keyword
	if keyword == "" {
		keyword = notProvidedMarker
	}
	g.putFuncComment()
	g.w.CommandListQuoted("v2c_post_setup", g.target.Name, []string{
		g.target.Name,
		keyword,
		"${CMAKE_CURRENT_SOURCE_DIR}/" + filepath.Base(g.project.Path),
		"${CMAKE_CURRENT_LIST_FILE}",
	})
}
