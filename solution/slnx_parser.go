package solution

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SlnxParser parses XML-based .slnx files
type SlnxParser struct{}

// NewSlnxParser creates a new .slnx file parser
func NewSlnxParser() *SlnxParser {
	return &SlnxParser{}
}

// CanParse checks if this parser supports the given file
func (p *SlnxParser) CanParse(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".slnx"
}

type slnxDocument struct {
	XMLName  xml.Name      `xml:"Solution"`
	Folders  []slnxFolder  `xml:"Folder"`
	Projects []slnxProject `xml:"Project"`
}

type slnxFolder struct {
	Name     string        `xml:"Name,attr"`
	Projects []slnxProject `xml:"Project"`
	Folders  []slnxFolder  `xml:"Folder"`
}

type slnxProject struct {
	Path string `xml:"Path,attr"`
	Name string `xml:"Name,attr,omitempty"`
	Type string `xml:"Type,attr,omitempty"`
	ID   string `xml:"Id,attr,omitempty"`
}

// Parse reads and parses a .slnx file
func (p *SlnxParser) Parse(path string) (*Solution, error) {
	if !p.CanParse(path) {
		return nil, &ParseError{FilePath: path, Message: "not a .slnx file"}
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

	var doc slnxDocument
	if err := xml.NewDecoder(file).Decode(&doc); err != nil {
		var syntaxErr *xml.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &ParseError{
				FilePath: absPath,
				Line:     syntaxErr.Line,
				Message:  fmt.Sprintf("XML syntax error: %v", syntaxErr.Msg),
			}
		}
		return nil, &ParseError{FilePath: absPath, Message: fmt.Sprintf("failed to parse XML: %v", err)}
	}

	sol := &Solution{
		FilePath:    absPath,
		SolutionDir: filepath.Dir(absPath),
	}
	for _, proj := range doc.Projects {
		sol.Projects = append(sol.Projects, convertSlnxProject(proj, ""))
	}
	for i := range doc.Folders {
		p.processFolder(&doc.Folders[i], sol, "")
	}
	return sol, nil
}

// processFolder recursively processes a folder and its contents
func (p *SlnxParser) processFolder(folder *slnxFolder, sol *Solution, parentGUID string) {
	folderGUID := nameGUID("folder:" + folder.Name)
	sol.SolutionFolders = append(sol.SolutionFolders, SolutionFolder{
		Name:             folder.Name,
		GUID:             folderGUID,
		ParentFolderGUID: parentGUID,
	})

	for _, proj := range folder.Projects {
		sol.Projects = append(sol.Projects, convertSlnxProject(proj, folderGUID))
	}
	for i := range folder.Folders {
		p.processFolder(&folder.Folders[i], sol, folderGUID)
	}
}

func convertSlnxProject(proj slnxProject, parentGUID string) Project {
	projectPath := NormalizePath(proj.Path)

	name := proj.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(projectPath), filepath.Ext(projectPath))
	}

	guid := nameGUID("project:" + projectPath)
	if id, err := uuid.Parse(proj.ID); err == nil {
		guid = braced(id)
	}

	typeGUID := projectExtensions[strings.ToLower(filepath.Ext(projectPath))]
	if id, err := uuid.Parse(proj.Type); err == nil {
		typeGUID = braced(id)
	}

	return Project{
		Name:             name,
		Path:             projectPath,
		GUID:             guid,
		TypeGUID:         typeGUID,
		ParentFolderGUID: parentGUID,
	}
}

// nameGUID derives a stable GUID for items the .slnx format leaves without
// one, so that repeated parses agree.
func nameGUID(name string) string {
	return braced(uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)))
}

func braced(id uuid.UUID) string {
	return "{" + strings.ToUpper(id.String()) + "}"
}
