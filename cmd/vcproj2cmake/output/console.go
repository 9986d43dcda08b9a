package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Verbosity levels
type Verbosity int

const (
	// VerbosityQuiet shows errors only
	VerbosityQuiet Verbosity = iota
	// VerbosityNormal shows errors, warnings and commit reports (default)
	VerbosityNormal
	// VerbosityDetailed shows above + per-project details
	VerbosityDetailed
	// VerbosityDiagnostic shows above + debug output
	VerbosityDiagnostic
)

// ParseVerbosity maps a --verbosity value onto a console level. Minimal
// output is the normal console output; the difference only shows in the log.
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(s) {
	case "q", "quiet":
		return VerbosityQuiet, nil
	case "", "m", "minimal", "n", "normal":
		return VerbosityNormal, nil
	case "d", "detailed":
		return VerbosityDetailed, nil
	case "diag", "diagnostic":
		return VerbosityDiagnostic, nil
	default:
		return VerbosityNormal, fmt.Errorf("invalid verbosity %q (valid: quiet, minimal, normal, detailed, diagnostic)", s)
	}
}

// Console provides output abstraction
type Console struct {
	out       io.Writer
	err       io.Writer
	verbosity Verbosity
	mu        sync.Mutex
	colors    bool
}

// NewConsole creates a new console
func NewConsole(out, err io.Writer, verbosity Verbosity) *Console {
	c := &Console{
		out:       out,
		err:       err,
		verbosity: verbosity,
		colors:    IsColorEnabled(out),
	}

	if !c.colors {
		DisableColors()
	}

	return c
}

// DefaultConsole creates a console with stdout/stderr and normal verbosity
func DefaultConsole() *Console {
	return NewConsole(os.Stdout, os.Stderr, VerbosityNormal)
}

// SetVerbosity sets the verbosity level
func (c *Console) SetVerbosity(v Verbosity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verbosity = v
}

// GetVerbosity returns the current verbosity level
func (c *Console) GetVerbosity() Verbosity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verbosity
}

// SetColors enables or disables color output
func (c *Console) SetColors(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.colors = enabled
	if enabled {
		EnableColors()
	} else {
		DisableColors()
	}
}

// ErrWriter returns the error stream, where the log is written.
func (c *Console) ErrWriter() io.Writer {
	return c.err
}

// Println writes line to output
func (c *Console) Println(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, a...)
}

// Printf writes formatted output unless the console is quiet
func (c *Console) Printf(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verbosity == VerbosityQuiet {
		return
	}
	fmt.Fprintf(c.out, format, a...)
}

// Success writes success message (green)
func (c *Console) Success(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verbosity < VerbosityNormal {
		return
	}
	if c.colors {
		ColorSuccess.Fprintf(c.out, format+"\n", a...)
	} else {
		fmt.Fprintf(c.out, format+"\n", a...)
	}
}

// Error writes error message (red)
func (c *Console) Error(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.colors {
		ColorError.Fprintf(c.err, "Error: "+format+"\n", a...)
	} else {
		fmt.Fprintf(c.err, "Error: "+format+"\n", a...)
	}
}

// Warning writes warning message (yellow)
func (c *Console) Warning(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verbosity < VerbosityNormal {
		return
	}
	if c.colors {
		ColorWarning.Fprintf(c.out, "Warning: "+format+"\n", a...)
	} else {
		fmt.Fprintf(c.out, "Warning: "+format+"\n", a...)
	}
}

// Info writes info message (cyan)
func (c *Console) Info(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verbosity < VerbosityNormal {
		return
	}
	if c.colors {
		ColorInfo.Fprintf(c.out, format+"\n", a...)
	} else {
		fmt.Fprintf(c.out, format+"\n", a...)
	}
}

// Detail writes detailed message
func (c *Console) Detail(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verbosity >= VerbosityDetailed {
		fmt.Fprintf(c.out, format+"\n", a...)
	}
}

// Debug writes debug message (white)
func (c *Console) Debug(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verbosity < VerbosityDiagnostic {
		return
	}
	if c.colors {
		ColorDebug.Fprintf(c.out, "[DEBUG] "+format+"\n", a...)
	} else {
		fmt.Fprintf(c.out, "[DEBUG] "+format+"\n", a...)
	}
}
