package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/willibrandon/vcproj2cmake/model"
)

// vs7Separators separates list values in attributes of the single-document
// schema.
const vs7Separators = ";,"

// vs7IgnoredTools have no CMake counterpart.
var vs7IgnoredTools = map[string]bool{
	"VCMIDLTool":                     true,
	"VCResourceCompilerTool":         true,
	"VCManifestTool":                 true,
	"VCXDCMakeTool":                  true,
	"VCBscMakeTool":                  true,
	"VCFxCopTool":                    true,
	"VCAppVerifierTool":              true,
	"VCWebDeploymentTool":            true,
	"VCALinkTool":                    true,
	"VCXMLDataGeneratorTool":         true,
	"VCWebServiceProxyGeneratorTool": true,
	"VCManagedResourceCompilerTool":  true,
	"VCManagedWrapperGeneratorTool":  true,
	"VFResourceCompilerTool":         true,
	"VFMidlTool":                     true,
	"VFManifestTool":                 true,
}

// vs7EventTools run user commands, which are not converted.
var vs7EventTools = map[string]bool{
	"VCCustomBuildTool":    true,
	"VCPreBuildEventTool":  true,
	"VCPreLinkEventTool":   true,
	"VCPostBuildEventTool": true,
	"VFCustomBuildTool":    true,
	"VFPreBuildEventTool":  true,
	"VFPreLinkEventTool":   true,
	"VFPostBuildEventTool": true,
}

// vs7UnconvertedConfigAttrs are configuration attributes that are known
// but have no effect on the generated build.
var vs7UnconvertedConfigAttrs = map[string]bool{
	"InheritedPropertySheets":           true,
	"ATLMinimizesCRunTimeLibraryUsage":  true,
	"BuildLogFile":                      true,
	"ManagedExtensions":                 true,
	"DeleteExtensionsOnClean":           true,
	"ExcludeBuckets":                    true,
	"ReferencesPath":                    true,
	"ComposeOnlyFromVCProjectEngine":    true,
	"EnableManagedIncrementalBuild":     true,
	"OutputLocationPlatformIndependent": true,
	"TargetFrameworkVersion":            true,
}

// VS7Parser parses the single-document schema written by Visual Studio
// 2002 to 2008 (.vcproj) and by Intel Fortran (.vfproj).
type VS7Parser struct {
	name      string
	extension string
	fortran   bool
}

// NewVS7Parser creates a parser for .vcproj files
func NewVS7Parser() *VS7Parser {
	return &VS7Parser{name: "Visual Studio 7+", extension: ".vcproj"}
}

// NewVS7FortranParser creates a parser for Intel Fortran .vfproj files
func NewVS7FortranParser() *VS7Parser {
	return &VS7Parser{name: "Intel Fortran", extension: ".vfproj", fortran: true}
}

// Name describes the schema
func (p *VS7Parser) Name() string {
	return p.name
}

// CanParse checks if this parser supports the given file
func (p *VS7Parser) CanParse(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == p.extension
}

// Parse reads and parses a project file
func (p *VS7Parser) Parse(ctx context.Context, path string, opts Options) (*model.Project, error) {
	if !p.CanParse(path) {
		return nil, &ParseError{File: path, Message: "not a " + p.extension + " file"}
	}

	pc := newParseContext(ctx, path, opts)
	if p.fortran {
		pc.log.Warn("Detected Fortran .vfproj - parsing is VERY experimental, needs much more work!")
	}

	root, err := readXMLFile(path)
	if err != nil {
		return nil, err
	}
	if root.Name() != "VisualStudioProject" {
		return nil, &ParseError{File: path, Context: root.Name(), Message: "not a Visual Studio project document"}
	}
	if err := pc.parseVS7Project(root); err != nil {
		return nil, err
	}
	if err := pc.finish(); err != nil {
		return nil, err
	}
	return pc.project, nil
}

func (pc *parseContext) parseVS7Project(node *xmlNode) error {
	const scope = "VisualStudioProject"
	target := &model.Target{}

	for _, a := range node.Attributes() {
		switch name := a.Name.Local; {
		case name == "Keyword":
			target.Keyword = a.Value
		case name == "Name":
			target.Name = a.Value
		case name == "ProjectCreator":
			target.Creator = a.Value
		case name == "ProjectGUID" || name == "ProjectIdGuid":
			target.GUID = pc.normalizeGUID(a.Value)
		case name == "ProjectType":
			target.ProjectType = a.Value
		case name == "RootNamespace":
			target.RootNamespace = a.Value
		case name == "Version":
			target.Version = a.Value
		case name == "TargetFrameworkVersion":
			target.FrameworkVersion = a.Value
		case strings.HasPrefix(name, "Scc"):
			pc.parseSCC(scope, name, a.Value, &target.SCC)
		default:
			pc.unknownAttribute(scope, name)
		}
	}
	if target.Name == "" {
		return &ParseError{File: pc.path, Context: scope, Message: "missing required project name"}
	}

	var haveFiles bool
	for i := range node.Children {
		if err := pc.cancelled(); err != nil {
			return err
		}
		child := &node.Children[i]
		switch child.Name() {
		case "Configurations":
			pc.parseVS7Configurations(child)
		case "Files":
			haveFiles = true
			target.Files = model.NewFilter("")
			pc.parseVS7Filter(target, child, target.Files)
		case "Platforms":
			pc.skippedElement(child.Name())
		case "ToolFiles", "References", "Globals":
			pc.ignored(scope, child.Name())
		default:
			pc.unknownElement(scope, child.Name())
		}
	}
	if !haveFiles {
		return &ParseError{File: pc.path, Context: target.Name, Message: "missing Files element, cannot determine the file list"}
	}

	pc.project.Targets = append(pc.project.Targets, target)
	return nil
}

func (pc *parseContext) parseVS7Configurations(node *xmlNode) {
	for i := range node.Children {
		child := &node.Children[i]
		if child.Name() != "Configuration" {
			pc.unknownElement("Configurations", child.Name())
			continue
		}

		cfg := &model.ProjectConfigInfo{}
		for _, a := range child.Attributes() {
			if pc.parseVS7ConfigAttr(&cfg.ConfigInfo, a.Name.Local, a.Value) {
				continue
			}
			switch a.Name.Local {
			case "OutputDirectory":
				cfg.OutputDir = model.NormalizePath(a.Value)
			case "IntermediateDirectory":
				cfg.IntermediateDir = model.NormalizePath(a.Value)
			default:
				if vs7UnconvertedConfigAttrs[a.Name.Local] {
					pc.unconverted("Configuration", a.Name.Local)
				} else {
					pc.unknownAttribute("Configuration", a.Name.Local)
				}
			}
		}
		for j := range child.Children {
			tool := &child.Children[j]
			if tool.Name() != "Tool" {
				pc.unknownElement("Configuration", tool.Name())
				continue
			}
			pc.parseVS7Tool(&cfg.ConfigInfo, tool, false)
		}
		pc.log.Debug("configuration {Config}, type {Type}", cfg.Name(), cfg.Type)
		pc.project.Configs = append(pc.project.Configs, cfg)
	}
}

// parseVS7ConfigAttr handles the attributes shared by project and file
// configurations.
func (pc *parseContext) parseVS7ConfigAttr(cfg *model.ConfigInfo, name, value string) bool {
	switch name {
	case "Name":
		cfg.BuildType, cfg.Platform, _ = strings.Cut(value, "|")
	case "ConfigurationType":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			pc.fail(cfg.Name(), fmt.Sprintf("invalid ConfigurationType %q", value))
			n = int(model.TypeInvalid)
		}
		cfg.Type = model.ConfigurationType(n)
	case "CharacterSet":
		cfg.CharSet = pc.intValue("Configuration", name, value)
	case "UseOfMFC":
		cfg.UseOfMFC = pc.intValue("Configuration", name, value)
	case "UseOfATL":
		cfg.UseOfATL = pc.intValue("Configuration", name, value)
	case "WholeProgramOptimization":
		cfg.WholeProgramOptimization = pc.intValue("Configuration", name, value)
	default:
		return false
	}
	return true
}

// parseVS7Tool dispatches on the Name attribute of a Tool element. In file
// configurations a custom build tool marks the file as custom built.
func (pc *parseContext) parseVS7Tool(cfg *model.ConfigInfo, node *xmlNode, perFile bool) (customBuild bool) {
	name, _ := node.Attr("Name")
	switch {
	case name == "VCCLCompilerTool" || name == "VFFortranCompilerTool":
		cfg.Compilers = append(cfg.Compilers, pc.parseVS7Compiler(name, node))
	case name == "VCLinkerTool" || name == "VCLibrarianTool" || name == "VFLinkerTool" || name == "VFLibrarianTool":
		cfg.Linkers = append(cfg.Linkers, pc.parseVS7Linker(name, node))
	case vs7EventTools[name]:
		if perFile && strings.HasSuffix(name, "CustomBuildTool") {
			return true
		}
		// VS writes empty event tools into every configuration
		if len(node.Attributes()) > 1 {
			pc.buildEvent("Configuration "+cfg.Name(), name)
		}
	case vs7IgnoredTools[name]:
		pc.ignored("Configuration "+cfg.Name(), name)
	default:
		pc.unknownElement("Tool", name)
	}
	return false
}

func (pc *parseContext) parseVS7Compiler(tool string, node *xmlNode) *model.CompilerInfo {
	compiler := &model.CompilerInfo{}
	for _, a := range node.Attributes() {
		switch a.Name.Local {
		case "Name":
		case "AdditionalIncludeDirectories":
			addIncludeDirs(compiler, a.Value, vs7Separators)
		case "AdditionalOptions":
			compiler.Flags = append(compiler.Flags, splitList(a.Value, ";")...)
		case "PreprocessorDefinitions":
			addDefines(&compiler.Defines, a.Value, vs7Separators)
		default:
			pc.unconverted(tool, a.Name.Local)
		}
	}
	return compiler
}

func (pc *parseContext) parseVS7Linker(tool string, node *xmlNode) *model.LinkerInfo {
	linker := &model.LinkerInfo{}
	for _, a := range node.Attributes() {
		switch a.Name.Local {
		case "Name":
		case "AdditionalDependencies":
			addDependencies(linker, strings.Fields(a.Value))
		case "AdditionalLibraryDirectories":
			linker.LibDirs = append(linker.LibDirs, pathList(a.Value, vs7Separators)...)
		default:
			pc.unconverted(tool, a.Name.Local)
		}
	}
	return linker
}

// parseVS7Filter reads the children of a Files or Filter element into
// filter. Files is a Filter without any attributes.
func (pc *parseContext) parseVS7Filter(target *model.Target, node *xmlNode, filter *model.Filter) {
	for i := range node.Children {
		child := &node.Children[i]
		switch child.Name() {
		case "File":
			if f := pc.parseVS7File(target, child); f != nil {
				pc.addFile(target, filter, f)
			}
		case "Filter":
			sub := pc.parseVS7FilterAttrs(child)
			if pc.skipFilter(sub) {
				continue
			}
			pc.parseVS7Filter(target, child, sub)
			filter.Children = append(filter.Children, sub)
		default:
			pc.unknownElement("Filter", child.Name())
		}
	}
}

func (pc *parseContext) parseVS7FilterAttrs(node *xmlNode) *model.Filter {
	filter := model.NewFilter("")
	for _, a := range node.Attributes() {
		switch a.Name.Local {
		case "Name":
			filter.Name = a.Value
		case "Filter":
			filter.Regex = extensionsToRegex(a.Value)
		case "SourceControlFiles":
			filter.SourceControlled = boolValue(a.Value)
		case "UniqueIdentifier":
			filter.GUID = a.Value
		case "ParseFiles":
			pc.unconverted("Filter", a.Name.Local)
		default:
			pc.unknownAttribute("Filter", a.Name.Local)
		}
	}
	if filter.Name == "" {
		filter.Name = "COMMON"
	}
	pc.log.Debug("parsing files group {Filter}", filter.Name)
	return filter
}

func (pc *parseContext) parseVS7File(target *model.Target, node *xmlNode) *model.File {
	f := &model.File{}
	for _, a := range node.Attributes() {
		switch a.Name.Local {
		case "RelativePath":
			f.Path = model.NormalizePath(strings.TrimSpace(a.Value))
		case "DeploymentContent", "SubType", "FileType":
			pc.unconverted("File", a.Name.Local)
		default:
			pc.unknownAttribute("File", a.Name.Local)
		}
	}
	if f.Path == "" {
		pc.log.Warn("{Target}: File element without RelativePath, skipping", target.Name)
		return nil
	}

	for i := range node.Children {
		child := &node.Children[i]
		switch child.Name() {
		case "FileConfiguration":
			f.Configs = append(f.Configs, pc.parseVS7FileConfig(child))
		case "File":
			// dependent files such as generated resources nest below their owner
			pc.ignored("File "+f.Path, child.Name())
		default:
			pc.unknownElement("File", child.Name())
		}
	}
	return f
}

func (pc *parseContext) parseVS7FileConfig(node *xmlNode) *model.FileConfigInfo {
	cfg := &model.FileConfigInfo{}
	for _, a := range node.Attributes() {
		if pc.parseVS7ConfigAttr(&cfg.ConfigInfo, a.Name.Local, a.Value) {
			continue
		}
		switch a.Name.Local {
		case "ExcludedFromBuild":
			cfg.ExcludedFromBuild = boolValue(a.Value)
		default:
			pc.unknownAttribute("FileConfiguration", a.Name.Local)
		}
	}
	for i := range node.Children {
		child := &node.Children[i]
		if child.Name() != "Tool" {
			pc.unknownElement("FileConfiguration", child.Name())
			continue
		}
		if pc.parseVS7Tool(&cfg.ConfigInfo, child, true) {
			cfg.CustomBuild = true
		}
	}
	return cfg
}
