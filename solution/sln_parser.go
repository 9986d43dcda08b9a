package solution

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	formatVersionRegex = regexp.MustCompile(`^Microsoft Visual Studio Solution File, Format Version (\S+)`)
	vsVersionRegex     = regexp.MustCompile(`^VisualStudioVersion = (\S+)`)

	// Project("{TYPE-GUID}") = "Name", "Path", "{GUID}"
	projectRegex = regexp.MustCompile(
		`(?i)^Project\("\{([A-F0-9-]+)\}"\)\s*=\s*"([^"]+)",\s*"([^"]+)",\s*"\{([A-F0-9-]+)\}"`,
	)

	// {CHILD-GUID} = {PARENT-GUID} in GlobalSection(NestedProjects)
	nestedProjectRegex = regexp.MustCompile(`(?i)^\s*\{([A-F0-9-]+)\}\s*=\s*\{([A-F0-9-]+)\}`)
)

// SlnParser parses text-based .sln files
type SlnParser struct{}

// NewSlnParser creates a new .sln file parser
func NewSlnParser() *SlnParser {
	return &SlnParser{}
}

// CanParse checks if this parser supports the given file
func (p *SlnParser) CanParse(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".sln"
}

// Parse reads and parses a .sln file
func (p *SlnParser) Parse(path string) (*Solution, error) {
	if !p.CanParse(path) {
		return nil, &ParseError{FilePath: path, Message: "not a .sln file"}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{FilePath: path, Message: fmt.Sprintf("cannot open file: %v", err)}
	}
	defer func() { _ = file.Close() }()

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	sol := &Solution{
		FilePath:    absPath,
		SolutionDir: filepath.Dir(absPath),
	}

	scanner := bufio.NewScanner(file)
	lineNum := 0
	inNestedProjects := false
	var currentProject *Project
	var currentFolder *SolutionFolder

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmedLine := strings.TrimSpace(line)

		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}

		if matches := formatVersionRegex.FindStringSubmatch(trimmedLine); matches != nil {
			sol.FormatVersion = matches[1]
			continue
		}

		if matches := vsVersionRegex.FindStringSubmatch(trimmedLine); matches != nil {
			sol.VisualStudioVersion = matches[1]
			continue
		}

		if matches := projectRegex.FindStringSubmatch(trimmedLine); matches != nil {
			typeGUID := "{" + strings.ToUpper(matches[1]) + "}"
			guid := "{" + strings.ToUpper(matches[4]) + "}"
			if typeGUID == ProjectTypeSolutionFolder {
				currentFolder = &SolutionFolder{Name: matches[2], GUID: guid}
			} else {
				currentProject = &Project{
					Name:     matches[2],
					Path:     NormalizePath(matches[3]),
					GUID:     guid,
					TypeGUID: typeGUID,
				}
			}
			continue
		}

		if trimmedLine == "EndProject" {
			if currentProject != nil {
				sol.Projects = append(sol.Projects, *currentProject)
				currentProject = nil
			} else if currentFolder != nil {
				sol.SolutionFolders = append(sol.SolutionFolders, *currentFolder)
				currentFolder = nil
			}
			continue
		}

		if strings.HasPrefix(trimmedLine, "GlobalSection(NestedProjects)") {
			inNestedProjects = true
			continue
		}
		if trimmedLine == "EndGlobalSection" {
			inNestedProjects = false
			continue
		}
		if inNestedProjects {
			if matches := nestedProjectRegex.FindStringSubmatch(line); matches != nil {
				sol.setParent("{"+strings.ToUpper(matches[1])+"}", "{"+strings.ToUpper(matches[2])+"}")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{FilePath: path, Message: fmt.Sprintf("error reading file: %v", err)}
	}

	if currentProject != nil || currentFolder != nil {
		return nil, &ParseError{
			FilePath: path,
			Line:     lineNum,
			Message:  "unexpected end of file: missing EndProject",
		}
	}

	return sol, nil
}

func (s *Solution) setParent(child, parent string) {
	for i := range s.Projects {
		if s.Projects[i].GUID == child {
			s.Projects[i].ParentFolderGUID = parent
			return
		}
	}
	for i := range s.SolutionFolders {
		if s.SolutionFolders[i].GUID == child {
			s.SolutionFolders[i].ParentFolderGUID = parent
			return
		}
	}
}
