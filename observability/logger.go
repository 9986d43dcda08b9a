package observability

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"
	"github.com/willibrandon/mtlog/sinks"
)

// Logger is the structured logger used throughout the conversion pipeline.
// Message templates name their properties, e.g. "{Project}: skipping {File}".
type Logger interface {
	Verbose(messageTemplate string, args ...any)
	Debug(messageTemplate string, args ...any)
	Info(messageTemplate string, args ...any)
	Warn(messageTemplate string, args ...any)
	Error(messageTemplate string, args ...any)

	// ForContext returns a logger that attaches key=value to every event
	ForContext(key string, value any) Logger
}

// LogLevel represents log verbosity level
type LogLevel int

const (
	// VerboseLevel traces every element the parsers visit.
	VerboseLevel LogLevel = iota
	// DebugLevel reports recognised but unconverted settings.
	DebugLevel
	// InfoLevel reports skipped files and elements.
	InfoLevel
	// WarnLevel reports recoverable problems in the input.
	WarnLevel
	// ErrorLevel reports problems that abort a conversion.
	ErrorLevel
)

// ParseLogLevel maps a CLI verbosity name onto a log level.
func ParseLogLevel(verbosity string) (LogLevel, error) {
	switch strings.ToLower(verbosity) {
	case "q", "quiet":
		return ErrorLevel, nil
	case "m", "minimal":
		return WarnLevel, nil
	case "", "n", "normal":
		return InfoLevel, nil
	case "d", "detailed":
		return DebugLevel, nil
	case "diag", "diagnostic":
		return VerboseLevel, nil
	default:
		return InfoLevel, fmt.Errorf("invalid verbosity %q (use quiet, minimal, normal, detailed or diagnostic)", verbosity)
	}
}

func (l LogLevel) mtlogOption() mtlog.Option {
	switch l {
	case VerboseLevel:
		return mtlog.Verbose()
	case DebugLevel:
		return mtlog.Debug()
	case WarnLevel:
		return mtlog.Warning()
	case ErrorLevel:
		return mtlog.Error()
	default:
		return mtlog.Information()
	}
}

// mtlogAdapter wraps an mtlog logger
type mtlogAdapter struct {
	logger core.Logger
}

// NewLogger creates a logger writing to output. Diagnostics never share a
// stream with generated content, so callers pass stderr or a test buffer.
func NewLogger(output io.Writer, level LogLevel) Logger {
	return &mtlogAdapter{
		logger: mtlog.New(
			mtlog.WithSink(sinks.NewConsoleSinkWithWriter(output)),
			mtlog.WithTimestamp(),
			level.mtlogOption(),
		),
	}
}

// NewDefaultLogger creates an Info level logger on stderr.
func NewDefaultLogger() Logger {
	return NewLogger(os.Stderr, InfoLevel)
}

func (a *mtlogAdapter) Verbose(messageTemplate string, args ...any) {
	a.logger.Verbose(messageTemplate, args...)
}

func (a *mtlogAdapter) Debug(messageTemplate string, args ...any) {
	a.logger.Debug(messageTemplate, args...)
}

func (a *mtlogAdapter) Info(messageTemplate string, args ...any) {
	a.logger.Info(messageTemplate, args...)
}

func (a *mtlogAdapter) Warn(messageTemplate string, args ...any) {
	a.logger.Warn(messageTemplate, args...)
}

func (a *mtlogAdapter) Error(messageTemplate string, args ...any) {
	a.logger.Error(messageTemplate, args...)
}

func (a *mtlogAdapter) ForContext(key string, value any) Logger {
	return &mtlogAdapter{logger: a.logger.ForContext(key, value)}
}

type nullLogger struct{}

// NewNullLogger creates a logger that discards all output
func NewNullLogger() Logger {
	return nullLogger{}
}

func (nullLogger) Verbose(string, ...any) {}
func (nullLogger) Debug(string, ...any)   {}
func (nullLogger) Info(string, ...any)    {}
func (nullLogger) Warn(string, ...any)    {}
func (nullLogger) Error(string, ...any)   {}

func (n nullLogger) ForContext(string, any) Logger { return n }
