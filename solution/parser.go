package solution

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Parser reads one solution file format.
type Parser interface {
	Parse(path string) (*Solution, error)
	CanParse(path string) bool
}

// parsers lists the supported formats; the first one accepting a path wins.
var parsers = []Parser{
	NewSlnParser(),
	NewSlnxParser(),
}

// IsSolutionFile reports whether path has a solution file extension.
func IsSolutionFile(path string) bool {
	for _, p := range parsers {
		if p.CanParse(path) {
			return true
		}
	}
	return false
}

// GetParser returns the parser for the format of path.
func GetParser(path string) (Parser, error) {
	if path == "" {
		return nil, errors.New("path cannot be empty")
	}
	for _, p := range parsers {
		if p.CanParse(path) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unsupported solution format: %s (supported: .sln, .slnx)", filepath.Ext(path))
}

// ParseSolution parses path with the parser matching its extension.
func ParseSolution(path string) (*Solution, error) {
	parser, err := GetParser(path)
	if err != nil {
		return nil, err
	}
	return parser.Parse(path)
}
