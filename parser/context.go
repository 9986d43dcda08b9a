package parser

import (
	"context"
	"path/filepath"

	"github.com/willibrandon/vcproj2cmake/model"
	"github.com/willibrandon/vcproj2cmake/observability"
)

// Options control parsing policy.
type Options struct {
	// Log receives diagnostics; nil discards them
	Log observability.Logger

	// ValidateFiles checks that every retained file exists on disk
	ValidateFiles bool

	// AbortOnMissing turns a failed file validation into an error
	AbortOnMissing bool

	// AuthoritativeConfig overrides the build type whose settings apply
	// where CMake has no per-configuration equivalent
	AuthoritativeConfig string
}

// Diagnostic kinds, used as metric labels.
const (
	kindUnknownAttribute = "unknown_attribute"
	kindUnknownElement   = "unknown_element"
	kindSkippedElement   = "skipped_element"
	kindMissingFile      = "missing_file"
	kindUnconverted      = "unconverted_setting"
	kindBadGUID          = "bad_guid"
)

// parseContext carries the state of one parse. Nothing here is shared
// between projects, so projects can be parsed concurrently.
type parseContext struct {
	ctx     context.Context
	opts    Options
	log     observability.Logger
	path    string
	dir     string
	project *model.Project

	// fatal is the first error that must stop the conversion once the
	// document has been read
	fatal error
}

func newParseContext(ctx context.Context, path string, opts Options) *parseContext {
	log := opts.Log
	if log == nil {
		log = observability.NewNullLogger()
	}
	return &parseContext{
		ctx:     ctx,
		opts:    opts,
		log:     log.ForContext("Project", filepath.Base(path)),
		path:    path,
		dir:     filepath.Dir(path),
		project: &model.Project{Path: path},
	}
}

func (pc *parseContext) diagnostic(kind, detail string) {
	observability.DiagnosticsTotal.WithLabelValues(kind).Inc()
	observability.RecordDiagnostic(pc.ctx, kind, detail)
}

// unknownAttribute reports an attribute the visitor of scope does not handle.
func (pc *parseContext) unknownAttribute(scope, name string) {
	pc.diagnostic(kindUnknownAttribute, scope+"@"+name)
	pc.log.Warn("{Scope}: unknown/incorrect XML attribute ({Name})!", scope, name)
}

// unknownElement reports an element the visitor of scope does not handle.
func (pc *parseContext) unknownElement(scope, name string) {
	pc.diagnostic(kindUnknownElement, scope+"/"+name)
	pc.log.Warn("{Scope}: unknown/incorrect XML element ({Name})!", scope, name)
}

// unconverted reports a recognised setting without a CMake counterpart.
func (pc *parseContext) unconverted(scope, name string) {
	pc.diagnostic(kindUnconverted, scope+"@"+name)
	pc.log.Debug("{Scope}: setting {Name} is not converted", scope, name)
}

// skippedElement reports a known element that is deliberately not converted.
func (pc *parseContext) skippedElement(name string) {
	pc.diagnostic(kindSkippedElement, name)
	pc.log.Warn("unhandled less important XML element ({Name})!", name)
}

// ignored logs elements that have no meaning for the generated build.
func (pc *parseContext) ignored(scope, name string) {
	pc.log.Debug("{Scope}: ignoring {Name}", scope, name)
}

// buildEvent logs a dropped build event or custom build step.
func (pc *parseContext) buildEvent(scope, name string) {
	observability.FilesSkippedTotal.WithLabelValues("build_event").Inc()
	pc.log.Info("{Scope}: {Name} build steps are not supported, dropping", scope, name)
}

// fail records a fatal problem. Only the first one is kept.
func (pc *parseContext) fail(scope, message string) {
	if pc.fatal == nil {
		pc.fatal = &ParseError{File: pc.path, Context: scope, Message: message}
	}
}

func (pc *parseContext) cancelled() error {
	return pc.ctx.Err()
}
