package parser

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/willibrandon/vcproj2cmake/model"
	"github.com/willibrandon/vcproj2cmake/observability"
)

// ParseFile selects the parser registered for the extension of path and
// parses the project.
func ParseFile(ctx context.Context, path string, opts Options) (*model.Project, error) {
	p, err := GetParser(path)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartParseSpan(ctx, path, p.Name())
	project, err := p.Parse(ctx, path, opts)
	observability.EndSpanWithError(span, err)
	return project, err
}

// finish runs the checks shared by all schemas once the document is read.
func (pc *parseContext) finish() error {
	if pc.fatal != nil {
		return pc.fatal
	}
	p := pc.project
	if len(p.Configs) > 0 {
		p.AuthoritativeBuildType = p.Configs[0].BuildType
		if want := pc.opts.AuthoritativeConfig; want != "" {
			found := false
			for _, cfg := range p.Configs {
				if cfg.BuildType == want {
					found = true
					break
				}
			}
			if found {
				p.AuthoritativeBuildType = want
			} else {
				pc.log.Warn("Authoritative configuration {Wanted} not found, using {Used}", want, p.AuthoritativeBuildType)
			}
		}
	} else {
		pc.log.Warn("no build configurations found")
	}
	pc.log.Debug("authoritative configuration is {BuildType}", p.AuthoritativeBuildType)

	for _, target := range p.Targets {
		if err := pc.validateFiles(target); err != nil {
			return err
		}
	}
	return nil
}

// normalizeGUID returns raw in the "{UPPER-CASE}" form Visual Studio writes.
// Malformed values are kept as they are.
func (pc *parseContext) normalizeGUID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	id, err := uuid.Parse(strings.Trim(raw, "{}"))
	if err != nil {
		pc.diagnostic(kindBadGUID, raw)
		pc.log.Warn("malformed GUID {GUID}: {Error}", raw, err)
		return raw
	}
	return "{" + strings.ToUpper(id.String()) + "}"
}

// parseSCC stores a source control binding attribute or element.
func (pc *parseContext) parseSCC(scope, name, value string, scc *model.SCCInfo) {
	switch name {
	case "SccProjectName":
		scc.ProjectName = value
	case "SccLocalPath":
		scc.LocalPath = value
	case "SccProvider":
		scc.Provider = value
	case "SccAuxPath":
		scc.AuxPath = value
	default:
		pc.unknownAttribute(scope, name)
	}
}

// intValue parses a numeric setting. Unparseable values count as 0.
func (pc *parseContext) intValue(scope, name, value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		pc.log.Warn("{Scope}: invalid numeric value {Value} for {Name}", scope, value, name)
		return 0
	}
	return n
}

// isInheritMarker reports list entries that only pull in inherited values.
// They have no meaning outside of Visual Studio.
func isInheritMarker(s string) bool {
	if strings.HasPrefix(s, "%(") && strings.HasSuffix(s, ")") {
		return true
	}
	switch strings.ToLower(s) {
	case "$(inherit)", "$(noinherit)":
		return true
	}
	return false
}

// pathList splits a directory list and normalizes its entries.
func pathList(value, seps string) []string {
	var out []string
	for _, entry := range splitList(value, seps) {
		entry = strings.TrimSpace(strings.Trim(entry, `"`))
		if entry == "" || isInheritMarker(entry) {
			continue
		}
		out = append(out, model.NormalizePath(entry))
	}
	return out
}

// addIncludeDirs appends the directories of value to the compiler settings.
func addIncludeDirs(compiler *model.CompilerInfo, value, seps string) {
	for _, dir := range pathList(value, seps) {
		compiler.IncludeDirs = append(compiler.IncludeDirs, model.IncludeDir{Dir: dir})
	}
}

// addDefines stores "NAME" and "NAME=VALUE" entries of value.
func addDefines(defines *model.Defines, value, seps string) {
	for _, entry := range splitList(value, seps) {
		if isInheritMarker(entry) {
			continue
		}
		name, val, _ := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		defines.Set(name, strings.TrimSpace(val))
	}
}

// addDependencies appends library base names, dropping paths and the
// .lib extension.
func addDependencies(linker *model.LinkerInfo, entries []string) {
	for _, entry := range entries {
		entry = strings.TrimSpace(strings.Trim(entry, `"`))
		if entry == "" || isInheritMarker(entry) {
			continue
		}
		entry = model.NormalizePath(entry)
		if i := strings.LastIndex(entry, "/"); i >= 0 {
			entry = entry[i+1:]
		}
		if len(entry) > 4 && strings.EqualFold(entry[len(entry)-4:], ".lib") {
			entry = entry[:len(entry)-4]
		}
		linker.Dependencies = append(linker.Dependencies, entry)
	}
}
