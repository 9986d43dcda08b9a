package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/willibrandon/vcproj2cmake/model"
)

// Parser reads one project file schema into the project model.
type Parser interface {
	// Name describes the schema, e.g. "Visual Studio 10"
	Name() string

	// CanParse checks if this parser supports the given file
	CanParse(path string) bool

	// Parse reads and parses a project file
	Parse(ctx context.Context, path string, opts Options) (*model.Project, error)
}

// Info describes one registered project file extension.
type Info struct {
	Extension string
	Parser    Parser
}

// registry maps file extensions to parsers. Lookup and Locate try the
// entries in this order.
var registry = []Info{
	{Extension: ".vcxproj", Parser: NewVS10Parser()},
	{Extension: ".vcproj", Parser: NewVS7Parser()},
	{Extension: ".vfproj", Parser: NewVS7FortranParser()},
}

// Registered returns the registered extensions in lookup order.
func Registered() []Info {
	out := make([]Info, len(registry))
	copy(out, registry)
	return out
}

// Supported lists the registered extensions for error messages.
func Supported() string {
	parts := make([]string, 0, len(registry))
	for _, info := range registry {
		parts = append(parts, fmt.Sprintf("%s [%s]", info.Extension, info.Parser.Name()))
	}
	return strings.Join(parts, ", ")
}

// Lookup returns the registry entry for the extension of path.
func Lookup(path string) (Info, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, info := range registry {
		if info.Extension == ext {
			return info, true
		}
	}
	return Info{}, false
}

// GetParser returns the appropriate parser for a project file
func GetParser(path string) (Parser, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}
	info, ok := Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w (supported: %s)", path, ErrNoParser, Supported())
	}
	return info.Parser, nil
}

// Locate resolves the project file to convert. A path with a registered
// extension is returned as is; otherwise "<path><ext>" is tried for every
// registered extension.
func Locate(path string) (string, error) {
	if _, ok := Lookup(path); ok {
		return path, nil
	}
	for _, info := range registry {
		candidate := path + info.Extension
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: %w (supported: %s)", path, ErrNoParser, Supported())
}
