package solution

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts Windows-style paths to forward slash format
func NormalizePath(path string) string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	for strings.Contains(normalized, "//") {
		normalized = strings.ReplaceAll(normalized, "//", "/")
	}
	return normalized
}

// ResolveProjectPath resolves a project path from a solution file
func ResolveProjectPath(solutionDir, projectPath string) string {
	if projectPath == "" {
		return ""
	}

	normalized := filepath.FromSlash(NormalizePath(projectPath))
	if filepath.IsAbs(normalized) {
		return filepath.Clean(normalized)
	}
	return filepath.Clean(filepath.Join(solutionDir, normalized))
}
