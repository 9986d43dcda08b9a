// Package solution reads Visual Studio solution files to find the C/C++ and
// Fortran projects they reference.
package solution

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Solution represents a parsed solution file (.sln or .slnx)
type Solution struct {
	// FilePath is the absolute path to the solution file
	FilePath string

	// FormatVersion is the solution file format version (e.g., "10.00" for VS 2008)
	FormatVersion string

	// VisualStudioVersion is the Visual Studio version that created the file
	VisualStudioVersion string

	// Projects contains all projects in the solution (excludes solution folders)
	Projects []Project

	// SolutionFolders contains virtual folders for organizing projects
	SolutionFolders []SolutionFolder

	// SolutionDir is the directory containing the solution file
	SolutionDir string
}

// Project represents a project reference in a solution
type Project struct {
	Name string

	// Path is the project file path relative to the solution, with forward slashes
	Path string

	GUID string

	// TypeGUID identifies the project type (Visual C++, Fortran, C#, ...)
	TypeGUID string

	// ParentFolderGUID is the GUID of the containing solution folder (if any)
	ParentFolderGUID string
}

// SolutionFolder represents a virtual folder in the solution
type SolutionFolder struct {
	Name             string
	GUID             string
	ParentFolderGUID string
}

// ParseError represents an error during solution file parsing
type ParseError struct {
	FilePath string
	Line     int
	Message  string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.FilePath, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// Project type GUIDs
const (
	// ProjectTypeVCProject identifies a Visual C++ project (.vcproj or .vcxproj)
	ProjectTypeVCProject = "{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}"

	// ProjectTypeFortranProject identifies an Intel Fortran project (.vfproj)
	ProjectTypeFortranProject = "{6989167D-11E4-40FE-8C1A-2192A86A7E90}"

	// ProjectTypeCSProject identifies a C# project
	ProjectTypeCSProject = "{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}"

	// ProjectTypeSolutionFolder identifies a solution folder
	ProjectTypeSolutionFolder = "{2150E333-8FDC-42A3-9474-1A3956D46DE8}"
)

// projectExtensions maps convertible project file extensions to their type.
var projectExtensions = map[string]string{
	".vcxproj": ProjectTypeVCProject,
	".vcproj":  ProjectTypeVCProject,
	".vfproj":  ProjectTypeFortranProject,
}

// IsConvertible reports whether the project is a Visual C++ or Fortran
// project whose file format can be converted.
func (p *Project) IsConvertible() bool {
	switch strings.ToUpper(p.TypeGUID) {
	case ProjectTypeVCProject, ProjectTypeFortranProject:
	default:
		return false
	}
	_, ok := projectExtensions[strings.ToLower(filepath.Ext(p.Path))]
	return ok
}

// GetAbsolutePath returns the absolute path to the project file
func (p *Project) GetAbsolutePath(solutionDir string) string {
	return ResolveProjectPath(solutionDir, p.Path)
}

// GetCppProjects returns the absolute paths of all convertible projects, in
// solution order.
func (s *Solution) GetCppProjects() []string {
	paths := make([]string, 0, len(s.Projects))
	for i := range s.Projects {
		if s.Projects[i].IsConvertible() {
			paths = append(paths, s.Projects[i].GetAbsolutePath(s.SolutionDir))
		}
	}
	return paths
}
