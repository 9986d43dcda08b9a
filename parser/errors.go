package parser

import (
	"errors"
	"fmt"
)

// ErrNoParser is returned when no registered parser handles a file.
var ErrNoParser = errors.New("no project parser found")

// ParseError reports a problem that prevents converting a project.
type ParseError struct {
	// File is the project file being parsed
	File string

	// Line is the line number where the error occurred, if known
	Line int

	// Context names the element or phase the error was detected in
	Context string

	// Message describes what went wrong
	Message string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", loc, e.Context, e.Message)
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}
