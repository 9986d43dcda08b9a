package parser

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/willibrandon/vcproj2cmake/model"
	"github.com/willibrandon/vcproj2cmake/observability"
)

var (
	nonSourceRegex    = regexp.MustCompile(`(?i)\.(lex|y|ico|bmp|txt)$`)
	idlGeneratedRegex = regexp.MustCompile(`(?i)_(i|p)\.c$`)
	libraryRegex      = regexp.MustCompile(`(?i)\.lib$`)
)

// buildUnitExtensions are the extensions of files that compile into objects.
var buildUnitExtensions = map[string]bool{
	".c": true, ".cc": true, ".cpp": true, ".cxx": true, ".c++": true,
	".f": true, ".for": true, ".f77": true, ".f90": true, ".f95": true, ".f03": true, ".fpp": true,
}

// generatedFilterNames are the localised names of the filter Visual Studio
// creates for MIDL output.
var generatedFilterNames = map[string]bool{
	"Generated Files":    true,
	"Generierte Dateien": true,
}

// isBuildUnit reports whether path names a compilable source file.
func isBuildUnit(path string) bool {
	return buildUnitExtensions[strings.ToLower(filepath.Ext(path))]
}

func skipFile(reason string) {
	observability.FilesSkippedTotal.WithLabelValues(reason).Inc()
}

// addFile applies the file inclusion policy and appends f to filter when it
// is kept. Header files are kept so they show up in IDE file trees.
func (pc *parseContext) addFile(target *model.Target, filter *model.Filter, f *model.File) bool {
	switch {
	case nonSourceRegex.MatchString(f.Path):
		skipFile("extension")
		return false
	case f.ExcludedFromBuild():
		skipFile("excluded")
		return false
	case f.CustomBuild():
		skipFile("custom_build")
		pc.log.Info("{Target}::{File} has a custom build step: skipping!", target.Name, f.Path)
		return false
	case idlGeneratedRegex.MatchString(f.Path):
		skipFile("idl_generated")
		pc.log.Info("{Target}::{File} is an IDL generated file: skipping!", target.Name, f.Path)
		return false
	case libraryRegex.MatchString(f.Path):
		skipFile("library")
		pc.log.Info("{Target}::{File} registered as a \"source\" file!? Skipping!", target.Name, f.Path)
		return false
	}

	filter.Files = append(filter.Files, f)
	if isBuildUnit(f.Path) {
		target.HasBuildUnits = true
	}
	return true
}

// skipFilter reports whether a filter subtree is left out entirely.
func (pc *parseContext) skipFilter(filter *model.Filter) bool {
	if !filter.SourceControlled {
		skipFile("generated_filter")
		pc.log.Info("{Filter}: SourceControlFiles set to false, listing generated files? --> skipping!", filter.Name)
		return true
	}
	if generatedFilterNames[filter.Name] {
		skipFile("generated_filter")
		pc.log.Info("{Filter}: encountered a filter named Generated Files --> skipping!", filter.Name)
		return true
	}
	return false
}

// validateFiles checks that the kept files of target exist relative to the
// project directory. Every missing file is logged; the first one becomes an
// error when AbortOnMissing is set.
func (pc *parseContext) validateFiles(target *model.Target) error {
	if !pc.opts.ValidateFiles || target.Files == nil {
		return nil
	}

	var firstErr error
	target.Files.Walk(func(node *model.Filter) {
		for _, f := range node.Files {
			full := filepath.Join(pc.dir, filepath.FromSlash(f.Path))
			_, err := os.Stat(full)
			if err == nil {
				continue
			}
			if !errors.Is(err, fs.ErrNotExist) {
				pc.log.Error("File {File} as listed in project {Target} cannot be accessed: {Error}", f.Path, target.Name, err)
			} else {
				pc.log.Error("File {File} as listed in project {Target} does not exist!? (perhaps filename with wrong case, or wrong path, ...)", f.Path, target.Name)
			}
			pc.diagnostic(kindMissingFile, f.Path)
			if firstErr == nil {
				firstErr = &ParseError{
					File:    pc.path,
					Context: target.Name,
					Message: "listed file " + f.Path + " does not exist; will not generate a converted project referencing missing sources",
				}
			}
		}
	})

	if pc.opts.AbortOnMissing {
		return firstErr
	}
	return nil
}

// extensionsToRegex turns a filter extension list such as "cpp;c;cxx" into
// a regular expression matching those files.
func extensionsToRegex(list string) string {
	var exts []string
	for _, ext := range splitList(list, ";,") {
		ext = strings.TrimPrefix(strings.TrimPrefix(ext, "*"), ".")
		if ext == "" {
			continue
		}
		exts = append(exts, regexp.QuoteMeta(ext))
	}
	if len(exts) == 0 {
		return ""
	}
	return `.*\.(` + strings.Join(exts, "|") + `)$`
}
