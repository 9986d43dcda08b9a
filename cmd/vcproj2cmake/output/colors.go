// Package output provides console output formatting and colorization.
package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color schemes
var (
	ColorSuccess = color.New(color.FgGreen)
	ColorError   = color.New(color.FgRed)
	ColorWarning = color.New(color.FgYellow)
	ColorInfo    = color.New(color.FgCyan)
	ColorDebug   = color.New(color.FgWhite)
)

// TTYDetector reports whether a writer is a terminal. Tests replace it.
type TTYDetector interface {
	IsTTY(w io.Writer) bool
}

// RealTTYDetector uses golang.org/x/term to detect real terminals
type RealTTYDetector struct{}

// IsTTY returns true if w is a terminal
func (d *RealTTYDetector) IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// DefaultTTYDetector is the default detector used in production
var DefaultTTYDetector TTYDetector = &RealTTYDetector{}

// IsColorEnabled checks if color output should be enabled for w
func IsColorEnabled(w io.Writer) bool {
	// Disable colors if not a TTY
	if !DefaultTTYDetector.IsTTY(w) {
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	termName := os.Getenv("TERM")
	if termName == "dumb" || termName == "" {
		return false
	}

	return true
}

// DisableColors disables all color output
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output
func EnableColors() {
	color.NoColor = false
}
