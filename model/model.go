// Package model holds the in-memory representation of a Visual Studio project
// as populated by the parsers and consumed by the CMake generator.
package model

import (
	"path/filepath"
	"strings"
)

// Project is the result of parsing one project description file.
type Project struct {
	// Path is the project file the model was read from
	Path string

	// Targets holds one entry per project element of the file
	Targets []*Target

	// Configs lists the build configurations in document order.
	// They apply to the project's targets; the schemas keep them
	// outside of the target element, so do we.
	Configs []*ProjectConfigInfo

	// AuthoritativeBuildType names the configuration whose settings are used
	// where CMake cannot express per-configuration values.
	AuthoritativeBuildType string
}

// Dir returns the directory containing the project file.
func (p *Project) Dir() string {
	return filepath.Dir(p.Path)
}

// FindConfig returns the configuration matching buildType and platform.
func (p *Project) FindConfig(buildType, platform string) (*ProjectConfigInfo, bool) {
	for _, cfg := range p.Configs {
		if cfg.BuildType == buildType && cfg.Platform == platform {
			return cfg, true
		}
	}
	return nil, false
}

// IsAuthoritative reports whether cfg is the authoritative configuration.
func (p *Project) IsAuthoritative(cfg *ProjectConfigInfo) bool {
	return cfg != nil && cfg.BuildType == p.AuthoritativeBuildType
}

// Target is one buildable unit within a project file.
type Target struct {
	Name             string
	ProjectType      string
	Creator          string
	GUID             string
	RootNamespace    string
	Version          string
	FrameworkVersion string
	Keyword          string
	SCC              SCCInfo
	Files            *Filter
	HasBuildUnits    bool
}

// Languages returns the languages to declare in project(), or nil to let
// CMake pick its defaults.
func (t *Target) Languages() []string {
	if strings.Contains(t.Creator, "Fortran") {
		return []string{"Fortran"}
	}
	return nil
}

// SCCInfo carries source control bindings stored in the project file.
type SCCInfo struct {
	ProjectName string
	LocalPath   string
	Provider    string
	AuxPath     string
}

// Present reports whether any binding is available. A project name is
// required for the bindings to be usable at all.
func (s SCCInfo) Present() bool {
	return s.ProjectName != ""
}

// ConfigInfo holds settings shared by project-wide and per-file configurations.
type ConfigInfo struct {
	// BuildType is the configuration name, e.g. "Debug". It may contain spaces.
	BuildType string
	Platform  string
	Type      ConfigurationType

	// UseOfMFC is 0 for none, 1 for static and 2 for shared MFC
	UseOfMFC int
	UseOfATL int

	CharSet                  int
	WholeProgramOptimization int
	UseDebugLibs             bool

	Compilers []*CompilerInfo
	Linkers   []*LinkerInfo
}

// Name returns the "BuildType|Platform" form used by Visual Studio.
func (c *ConfigInfo) Name() string {
	if c.Platform == "" {
		return c.BuildType
	}
	return c.BuildType + "|" + c.Platform
}

// ProjectConfigInfo is a project-level build configuration.
type ProjectConfigInfo struct {
	ConfigInfo
	OutputDir       string
	IntermediateDir string
}

// FileConfigInfo is a per-file configuration override.
type FileConfigInfo struct {
	ConfigInfo
	ExcludedFromBuild bool
	CustomBuild       bool
}

// CompilerInfo holds compiler settings of one configuration.
type CompilerInfo struct {
	Flags       []string
	IncludeDirs []IncludeDir
	Defines     Defines
}

// IncludeDirPaths returns the plain directory list.
func (c *CompilerInfo) IncludeDirPaths() []string {
	dirs := make([]string, 0, len(c.IncludeDirs))
	for _, inc := range c.IncludeDirs {
		dirs = append(dirs, inc.Dir)
	}
	return dirs
}

// IncludeDir is one include directory entry.
type IncludeDir struct {
	Dir string
}

// LinkerInfo holds linker settings of one configuration.
type LinkerInfo struct {
	// Dependencies are library base names without the .lib extension
	Dependencies []string
	LibDirs      []string
}

// NormalizePath converts backslashes to slashes and drops a leading "./".
// A lone "." is kept.
func NormalizePath(p string) string {
	elems := strings.Split(strings.ReplaceAll(p, "\\", "/"), "/")
	if len(elems) > 1 && elems[0] == "." {
		elems = elems[1:]
	}
	return strings.Join(elems, "/")
}
