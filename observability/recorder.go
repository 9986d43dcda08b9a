package observability

import (
	"strings"
	"sync"
)

// Entry is one message captured by a RecordingLogger.
type Entry struct {
	Level    LogLevel
	Template string
	Args     []any
}

// RecordingLogger keeps every message in memory. Tests use it to assert on
// the diagnostics a conversion produced.
type RecordingLogger struct {
	mu      *sync.Mutex
	entries *[]Entry
}

// NewRecordingLogger creates an empty recording logger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{mu: &sync.Mutex{}, entries: &[]Entry{}}
}

func (r *RecordingLogger) record(level LogLevel, template string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, Entry{Level: level, Template: template, Args: args})
}

// Entries returns a snapshot of the captured messages.
func (r *RecordingLogger) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(*r.entries))
	copy(out, *r.entries)
	return out
}

// Count returns the number of captured messages at level.
func (r *RecordingLogger) Count(level LogLevel) int {
	n := 0
	for _, e := range r.Entries() {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Contains reports whether a message at level has a template containing text.
func (r *RecordingLogger) Contains(level LogLevel, text string) bool {
	for _, e := range r.Entries() {
		if e.Level == level && strings.Contains(e.Template, text) {
			return true
		}
	}
	return false
}

func (r *RecordingLogger) Verbose(t string, args ...any) { r.record(VerboseLevel, t, args) }
func (r *RecordingLogger) Debug(t string, args ...any)   { r.record(DebugLevel, t, args) }
func (r *RecordingLogger) Info(t string, args ...any)    { r.record(InfoLevel, t, args) }
func (r *RecordingLogger) Warn(t string, args ...any)    { r.record(WarnLevel, t, args) }
func (r *RecordingLogger) Error(t string, args ...any)   { r.record(ErrorLevel, t, args) }

// ForContext returns a logger sharing the same capture buffer.
func (r *RecordingLogger) ForContext(key string, value any) Logger { return r }
