package parser

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/willibrandon/vcproj2cmake/model"
)

// FiltersSuffix is appended to the project file name to locate the
// companion document holding the file grouping.
const FiltersSuffix = ".filters"

var conditionRegex = regexp.MustCompile(`'\$\(Configuration\)\|\$\(Platform\)'\s*==\s*'([^']*)'`)

// vs10FileItems are the item types listed in the file tree.
var vs10FileItems = map[string]bool{
	"ClCompile":       true,
	"ClInclude":       true,
	"ResourceCompile": true,
	"None":            true,
	"Text":            true,
	"Image":           true,
	"Midl":            true,
	"Library":         true,
	"CustomBuild":     true,
}

// vs10EventElements run user commands, which are not converted.
var vs10EventElements = map[string]bool{
	"PreBuildEvent":   true,
	"PostBuildEvent":  true,
	"PreLinkEvent":    true,
	"CustomBuildStep": true,
}

// vs10IgnoredTools are ItemDefinitionGroup children without a CMake
// counterpart.
var vs10IgnoredTools = map[string]bool{
	"Midl":             true,
	"ResourceCompile":  true,
	"Manifest":         true,
	"Bscmake":          true,
	"Xdcmake":          true,
	"ProjectReference": true,
	"FxCompile":        true,
}

// vs10IgnoredItemMetadata are per-item elements that do not affect the build.
var vs10IgnoredItemMetadata = map[string]bool{
	"PrecompiledHeader": true,
	"DependentUpon":     true,
	"SubType":           true,
	"FileType":          true,
	"DeploymentContent": true,
	"Command":           true,
	"Outputs":           true,
	"Message":           true,
	"AdditionalInputs":  true,
}

// VS10Parser parses the MSBuild based schema of Visual Studio 2010 and
// later: a .vcxproj document plus an optional .vcxproj.filters document.
type VS10Parser struct{}

// NewVS10Parser creates a parser for .vcxproj files
func NewVS10Parser() *VS10Parser {
	return &VS10Parser{}
}

// Name describes the schema
func (p *VS10Parser) Name() string {
	return "Visual Studio 10"
}

// CanParse checks if this parser supports the given file
func (p *VS10Parser) CanParse(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".vcxproj"
}

// vs10Item is one file item of the main document, in document order.
type vs10Item struct {
	kind string
	file *model.File
}

// Parse reads and parses a project file
func (p *VS10Parser) Parse(ctx context.Context, path string, opts Options) (*model.Project, error) {
	if !p.CanParse(path) {
		return nil, &ParseError{File: path, Message: "not a .vcxproj file"}
	}

	pc := newParseContext(ctx, path, opts)
	root, err := readXMLFile(path)
	if err != nil {
		return nil, err
	}
	if root.Name() != "Project" {
		return nil, &ParseError{File: path, Context: root.Name(), Message: "not an MSBuild project document"}
	}

	target := &model.Target{}
	items, err := pc.parseVS10Project(root, target)
	if err != nil {
		return nil, err
	}
	if target.Name == "" {
		target.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		pc.log.Debug("no ProjectName given, using {Name}", target.Name)
	}

	target.Files, err = pc.buildVS10Tree(target, items, path+FiltersSuffix)
	if err != nil {
		return nil, err
	}
	pc.project.Targets = append(pc.project.Targets, target)

	if err := pc.finish(); err != nil {
		return nil, err
	}
	return pc.project, nil
}

func (pc *parseContext) parseVS10Project(node *xmlNode, target *model.Target) ([]vs10Item, error) {
	const scope = "Project"
	var items []vs10Item

	for i := range node.Children {
		if err := pc.cancelled(); err != nil {
			return nil, err
		}
		child := &node.Children[i]
		switch child.Name() {
		case "ItemGroup":
			label, _ := child.Attr("Label")
			switch label {
			case "ProjectConfigurations":
				pc.parseVS10ProjectConfigurations(child)
			case "":
				items = append(items, pc.parseVS10Items(child)...)
			default:
				pc.unknownElement("ItemGroup", "Label "+label)
			}
		case "PropertyGroup":
			pc.parseVS10PropertyGroup(child, target)
		case "ItemDefinitionGroup":
			pc.parseVS10ItemDefinitionGroup(child)
		case "Import", "ImportGroup", "ProjectExtensions", "Target", "UsingTask":
			pc.ignored(scope, child.Name())
		default:
			pc.unknownElement(scope, child.Name())
		}
	}
	return items, nil
}

func (pc *parseContext) parseVS10ProjectConfigurations(node *xmlNode) {
	for i := range node.Children {
		child := &node.Children[i]
		if child.Name() != "ProjectConfiguration" {
			pc.unknownElement("ProjectConfigurations", child.Name())
			continue
		}
		cfg := &model.ProjectConfigInfo{}
		if include, ok := child.Attr("Include"); ok {
			cfg.BuildType, cfg.Platform, _ = strings.Cut(include, "|")
		}
		for j := range child.Children {
			elem := &child.Children[j]
			switch elem.Name() {
			case "Configuration":
				cfg.BuildType = elem.Value()
			case "Platform":
				cfg.Platform = elem.Value()
			default:
				pc.unknownElement("ProjectConfiguration", elem.Name())
			}
		}
		pc.log.Debug("ProjectConfig: build type {BuildType}, platform {Platform}", cfg.BuildType, cfg.Platform)
		pc.project.Configs = append(pc.project.Configs, cfg)
	}
}

// vs10Configs returns the configurations a conditional element applies to.
// Elements without a condition apply to all configurations.
func (pc *parseContext) vs10Configs(node *xmlNode) []*model.ProjectConfigInfo {
	cond, ok := node.Attr("Condition")
	if !ok {
		return pc.project.Configs
	}
	m := conditionRegex.FindStringSubmatch(cond)
	if m == nil {
		pc.unknownAttribute(node.Name(), "Condition "+cond)
		return nil
	}
	buildType, platform, _ := strings.Cut(m[1], "|")
	if cfg, ok := pc.project.FindConfig(buildType, platform); ok {
		return []*model.ProjectConfigInfo{cfg}
	}

	pc.diagnostic(kindUnknownElement, "configuration "+m[1])
	pc.log.Warn("{Scope}: configuration {Config} is not declared in ProjectConfigurations, adding it", node.Name(), m[1])
	cfg := &model.ProjectConfigInfo{}
	cfg.BuildType, cfg.Platform = buildType, platform
	pc.project.Configs = append(pc.project.Configs, cfg)
	return []*model.ProjectConfigInfo{cfg}
}

func (pc *parseContext) parseVS10PropertyGroup(node *xmlNode, target *model.Target) {
	label, _ := node.Attr("Label")
	switch label {
	case "Globals":
		pc.parseVS10Globals(node, target)
	case "Configuration":
		for _, cfg := range pc.vs10Configs(node) {
			pc.parseVS10ConfigProperties(node, cfg)
		}
	case "UserMacros":
		pc.ignored("PropertyGroup", "UserMacros")
	case "":
		for _, cfg := range pc.vs10Configs(node) {
			pc.parseVS10DirProperties(node, cfg)
		}
	default:
		pc.unknownElement("PropertyGroup", "Label "+label)
	}
}

func (pc *parseContext) parseVS10Globals(node *xmlNode, target *model.Target) {
	const scope = "Globals"
	for i := range node.Children {
		elem := &node.Children[i]
		switch name := elem.Name(); {
		case name == "Keyword":
			target.Keyword = elem.Value()
		case name == "ProjectGuid":
			target.GUID = pc.normalizeGUID(elem.Value())
		case name == "ProjectName":
			target.Name = elem.Value()
		case name == "RootNamespace":
			target.RootNamespace = elem.Value()
		case strings.HasPrefix(name, "Scc"):
			pc.parseSCC(scope, name, elem.Value(), &target.SCC)
		case name == "TargetFrameworkVersion":
			target.FrameworkVersion = elem.Value()
		case name == "WindowsTargetPlatformVersion", name == "VCProjectVersion", name == "ProjectTypes":
			pc.unconverted(scope, name)
		default:
			pc.unknownElement(scope, name)
		}
	}
}

func (pc *parseContext) parseVS10ConfigProperties(node *xmlNode, cfg *model.ProjectConfigInfo) {
	const scope = "Configuration"
	for i := range node.Children {
		elem := &node.Children[i]
		value := elem.Value()
		switch elem.Name() {
		case "ConfigurationType":
			t, ok := model.ParseConfigurationType(value)
			if !ok {
				pc.fail(cfg.Name(), fmt.Sprintf("unknown ConfigurationType %q", value))
			}
			cfg.Type = t
		case "UseOfMfc":
			cfg.UseOfMFC = vs10UsageLevel(value)
		case "UseOfAtl":
			cfg.UseOfATL = vs10UsageLevel(value)
		case "CharacterSet":
			switch value {
			case "Unicode":
				cfg.CharSet = 1
			case "MultiByte":
				cfg.CharSet = 2
			default:
				cfg.CharSet = 0
			}
		case "WholeProgramOptimization":
			if boolValue(value) {
				cfg.WholeProgramOptimization = 1
			}
		case "UseDebugLibraries":
			cfg.UseDebugLibs = boolValue(value)
		case "PlatformToolset", "CLRSupport", "SpectreMitigation", "EnableASAN", "PreferredToolArchitecture":
			pc.unconverted(scope, elem.Name())
		default:
			pc.unknownElement(scope, elem.Name())
		}
	}
}

// vs10UsageLevel maps UseOfMfc/UseOfAtl values onto 0 none, 1 static,
// 2 shared.
func vs10UsageLevel(value string) int {
	switch value {
	case "Static":
		return 1
	case "Dynamic":
		return 2
	default:
		return 0
	}
}

func (pc *parseContext) parseVS10DirProperties(node *xmlNode, cfg *model.ProjectConfigInfo) {
	for i := range node.Children {
		elem := &node.Children[i]
		switch elem.Name() {
		case "OutDir":
			cfg.OutputDir = model.NormalizePath(elem.Value())
		case "IntDir":
			cfg.IntermediateDir = model.NormalizePath(elem.Value())
		default:
			pc.unconverted("PropertyGroup", elem.Name())
		}
	}
}

func (pc *parseContext) parseVS10ItemDefinitionGroup(node *xmlNode) {
	cfgs := pc.vs10Configs(node)
	for i := range node.Children {
		tool := &node.Children[i]
		name := tool.Name()
		switch {
		case name == "ClCompile":
			for _, cfg := range cfgs {
				cfg.Compilers = append(cfg.Compilers, pc.parseVS10Compiler(tool))
			}
		case name == "Link" || name == "Lib":
			for _, cfg := range cfgs {
				cfg.Linkers = append(cfg.Linkers, pc.parseVS10Linker(tool))
			}
		case vs10EventElements[name]:
			if len(tool.Children) > 0 {
				pc.buildEvent("ItemDefinitionGroup", name)
			}
		case vs10IgnoredTools[name]:
			pc.ignored("ItemDefinitionGroup", name)
		default:
			pc.unknownElement("ItemDefinitionGroup", name)
		}
	}
}

func (pc *parseContext) parseVS10Compiler(node *xmlNode) *model.CompilerInfo {
	compiler := &model.CompilerInfo{}
	for i := range node.Children {
		elem := &node.Children[i]
		switch elem.Name() {
		case "AdditionalIncludeDirectories":
			addIncludeDirs(compiler, elem.Value(), ";")
		case "PreprocessorDefinitions":
			addDefines(&compiler.Defines, elem.Value(), ";")
		case "AdditionalOptions":
			for _, opt := range strings.Fields(elem.Value()) {
				if !isInheritMarker(opt) {
					compiler.Flags = append(compiler.Flags, opt)
				}
			}
		default:
			pc.unconverted("ClCompile", elem.Name())
		}
	}
	return compiler
}

func (pc *parseContext) parseVS10Linker(node *xmlNode) *model.LinkerInfo {
	linker := &model.LinkerInfo{}
	for i := range node.Children {
		elem := &node.Children[i]
		switch elem.Name() {
		case "AdditionalDependencies":
			addDependencies(linker, splitList(elem.Value(), ";"))
		case "AdditionalLibraryDirectories":
			linker.LibDirs = append(linker.LibDirs, pathList(elem.Value(), ";")...)
		default:
			pc.unconverted(node.Name(), elem.Name())
		}
	}
	return linker
}

func (pc *parseContext) parseVS10Items(node *xmlNode) []vs10Item {
	var items []vs10Item
	for i := range node.Children {
		child := &node.Children[i]
		kind := child.Name()
		switch {
		case vs10FileItems[kind]:
			if f := pc.parseVS10File(child); f != nil {
				items = append(items, vs10Item{kind: kind, file: f})
			}
		case kind == "ProjectReference" || kind == "Reference" || kind == "Manifest":
			pc.ignored("ItemGroup", kind)
		default:
			pc.unknownElement("ItemGroup", kind)
		}
	}
	return items
}

func (pc *parseContext) parseVS10File(node *xmlNode) *model.File {
	include, _ := node.Attr("Include")
	if strings.TrimSpace(include) == "" {
		pc.log.Warn("{Item} item without Include attribute, skipping", node.Name())
		return nil
	}
	f := &model.File{Path: model.NormalizePath(strings.TrimSpace(include))}
	if node.Name() == "CustomBuild" {
		f.Configs = append(f.Configs, &model.FileConfigInfo{CustomBuild: true})
	}

	for i := range node.Children {
		elem := &node.Children[i]
		switch name := elem.Name(); {
		case name == "ExcludedFromBuild":
			fc := &model.FileConfigInfo{ExcludedFromBuild: boolValue(elem.Value())}
			if cond, ok := elem.Attr("Condition"); ok {
				if m := conditionRegex.FindStringSubmatch(cond); m != nil {
					fc.BuildType, fc.Platform, _ = strings.Cut(m[1], "|")
				}
			}
			f.Configs = append(f.Configs, fc)
		case vs10IgnoredItemMetadata[name]:
			pc.ignored(node.Name()+" "+f.Path, name)
		default:
			pc.unconverted(node.Name(), name)
		}
	}
	return f
}

// vs10Filters is the content of a .filters document.
type vs10Filters struct {
	decls      []*xmlNode
	membership map[string]string
}

// readVS10Filters reads the filters document. A missing document is not an
// error; the result is nil then.
func (pc *parseContext) readVS10Filters(path string) (*vs10Filters, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	root, err := readXMLFile(path)
	if err != nil {
		return nil, err
	}

	filters := &vs10Filters{membership: make(map[string]string)}
	for i := range root.Children {
		group := &root.Children[i]
		if group.Name() != "ItemGroup" {
			pc.ignored("filters", group.Name())
			continue
		}
		for j := range group.Children {
			item := &group.Children[j]
			include, _ := item.Attr("Include")
			if item.Name() == "Filter" {
				filters.decls = append(filters.decls, item)
				continue
			}
			if !vs10FileItems[item.Name()] {
				pc.unknownElement("filters", item.Name())
				continue
			}
			for k := range item.Children {
				if item.Children[k].Name() == "Filter" {
					key := strings.ToLower(model.NormalizePath(strings.TrimSpace(include)))
					filters.membership[key] = item.Children[k].Value()
				}
			}
		}
	}
	return filters, nil
}

// buildVS10Tree builds the file grouping tree. The main document decides
// which files are listed; the filters document only decides where.
func (pc *parseContext) buildVS10Tree(target *model.Target, items []vs10Item, filtersPath string) (*model.Filter, error) {
	root := model.NewFilter("")
	filters, err := pc.readVS10Filters(filtersPath)
	if err != nil {
		return nil, err
	}
	if filters == nil {
		pc.log.Info("no {File} found, listing all files in the root group", filepath.Base(filtersPath))
	}

	skipped := make(map[string]bool)
	if filters != nil {
		for _, decl := range filters.decls {
			include, _ := decl.Attr("Include")
			node := vs10FilterNode(root, include)
			for i := range decl.Children {
				elem := &decl.Children[i]
				switch elem.Name() {
				case "UniqueIdentifier":
					node.GUID = pc.normalizeGUID(elem.Value())
				case "Extensions":
					node.Regex = extensionsToRegex(elem.Value())
				case "SourceControlFiles":
					node.SourceControlled = boolValue(elem.Value())
				case "ParseFiles":
					pc.unconverted("Filter", elem.Name())
				default:
					pc.unknownElement("Filter", elem.Name())
				}
			}
		}
		pc.pruneVS10Filters(root, "", skipped)
	}

	for _, item := range items {
		node := root
		if filters != nil {
			name := filters.membership[strings.ToLower(item.file.Path)]
			if vs10FilterSkipped(name, skipped) {
				skipFile("generated_filter")
				continue
			}
			if name != "" {
				node = vs10FilterNode(root, name)
			}
		}
		pc.addFile(target, node, item.file)
	}
	return root, nil
}

// vs10FilterNode returns the node for a backslash separated filter path,
// creating missing levels.
func vs10FilterNode(root *model.Filter, include string) *model.Filter {
	node := root
	for _, part := range splitList(include, `\/`) {
		node = node.Child(part)
	}
	return node
}

// pruneVS10Filters removes filters that must not be listed, recording
// their full names in skipped.
func (pc *parseContext) pruneVS10Filters(node *model.Filter, prefix string, skipped map[string]bool) {
	kept := node.Children[:0]
	for _, child := range node.Children {
		full := child.Name
		if prefix != "" {
			full = prefix + `\` + child.Name
		}
		if pc.skipFilter(child) {
			skipped[strings.ToLower(full)] = true
			continue
		}
		pc.pruneVS10Filters(child, full, skipped)
		kept = append(kept, child)
	}
	node.Children = kept
}

// vs10FilterSkipped reports whether name or one of its ancestors was pruned.
func vs10FilterSkipped(name string, skipped map[string]bool) bool {
	if name == "" || len(skipped) == 0 {
		return false
	}
	parts := splitList(strings.ToLower(name), `\/`)
	for i := range parts {
		if skipped[strings.Join(parts[:i+1], `\`)] {
			return true
		}
	}
	return false
}
