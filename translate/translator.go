// Package translate rewrites Visual Studio build macros such as
// $(ConfigurationName) into their CMake equivalents.
package translate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/willibrandon/vcproj2cmake/observability"
)

var macroRegex = regexp.MustCompile(`\$\(([[:alnum:]_]+)\)`)

const platformNameSnippet = `if(NOT v2c_VS_PlatformName)
  if(CMAKE_CL_64)
    set(v2c_VS_PlatformName "x64")
  else(CMAKE_CL_64)
    if(WIN32)
      set(v2c_VS_PlatformName "Win32")
    endif(WIN32)
  endif(CMAKE_CL_64)
endif(NOT v2c_VS_PlatformName)`

const outDirSnippet = `if(NOT v2c_VS_OutDir)
  set(v2c_VS_OutDir "${CMAKE_LIBRARY_OUTPUT_DIRECTORY}")
endif(NOT v2c_VS_OutDir)`

// Translator replaces macro references. It is cheap to create and holds no
// state between calls, so one instance may serve a whole project.
type Translator struct {
	log         observability.Logger
	projectFile string
}

// New creates a translator. projectFile is the base name of the Visual
// Studio project file, used to emulate $(ProjectFileName) and friends.
func New(log observability.Logger, projectFile string) *Translator {
	if log == nil {
		log = observability.NewNullLogger()
	}
	return &Translator{log: log, projectFile: projectFile}
}

// Translate returns text with all macro references replaced, plus the CMake
// snippets that must run before the result is used. Snippets may repeat
// across calls; callers emit each distinct snippet once.
func (t *Translator) Translate(text string) (string, []string) {
	matches := macroRegex.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text, nil
	}

	var snippets []string
	var b strings.Builder
	last := 0
	for _, m := range matches {
		name := text[m[2]:m[3]]
		replacement, snippet := t.lookup(name, text)
		if snippet != "" {
			snippets = append(snippets, snippet)
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(replacement)
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String(), snippets
}

// lookup maps one macro name. Macro names are case-insensitive.
func (t *Translator) lookup(name, context string) (string, string) {
	var replacement, snippet string
	switch strings.ToUpper(name) {
	case "CONFIGURATIONNAME":
		replacement = "${CMAKE_CFG_INTDIR}"
	case "PLATFORMNAME":
		replacement = "${v2c_VS_PlatformName}"
		snippet = platformNameSnippet
	case "INPUTNAME", "PROJECTNAME":
		replacement = "${PROJECT_NAME}"
	case "INPUTFILENAME":
		replacement = "${v2c_VS_InputFileName}"
		snippet = fmt.Sprintf("set(v2c_VS_InputFileName %q)", t.projectFile)
	case "PROJECTFILENAME":
		replacement = "${v2c_VS_ProjectFileName}"
		snippet = fmt.Sprintf("set(v2c_VS_ProjectFileName %q)", t.projectFile)
	case "OUTDIR":
		replacement = "${v2c_VS_OutDir}"
		snippet = outDirSnippet
	case "PROJECTDIR":
		replacement = "${PROJECT_SOURCE_DIR}"
	case "PROJECTPATH":
		replacement = "${v2c_VS_ProjectPath}"
		snippet = fmt.Sprintf("set(v2c_VS_ProjectPath \"${CMAKE_CURRENT_SOURCE_DIR}/%s\")", t.projectFile)
	case "SOLUTIONDIR":
		replacement = "${CMAKE_SOURCE_DIR}"
	case "TARGETPATH":
		replacement = "${v2c_VS_TargetPath}"
	default:
		// Visual Studio resolves unknown macros from the environment
		t.log.Warn("Unknown/user-custom config variable name {Variable} encountered in {Text}, passing through from environment", name, context)
		observability.DiagnosticsTotal.WithLabelValues("unknown_variable").Inc()
		return "$ENV{" + name + "}", ""
	}
	t.log.Debug("Replacing configuration variable $({Variable}) by {Replacement}", name, replacement)
	return replacement, snippet
}
