package generator

import (
	"bytes"
	"strings"
)

// cmakeWriter emits CMake statements with block indentation. Output goes to
// an in-memory buffer, so none of the methods can fail.
type cmakeWriter struct {
	buf      bytes.Buffer
	indent   int
	step     int
	comments int
}

func newCMakeWriter(step, comments int) *cmakeWriter {
	return &cmakeWriter{step: step, comments: comments}
}

func (w *cmakeWriter) Bytes() []byte {
	return w.buf.Bytes()
}

func (w *cmakeWriter) indentMore() { w.indent += w.step }
func (w *cmakeWriter) indentLess() { w.indent -= w.step }

// Line writes one indented line.
func (w *cmakeWriter) Line(s string) {
	w.buf.WriteString(strings.Repeat(" ", w.indent))
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

// Raw writes text without indentation.
func (w *cmakeWriter) Raw(s string) {
	w.buf.WriteString(s)
}

func (w *cmakeWriter) BlankLine() {
	w.buf.WriteByte('\n')
}

// Block writes every line of text indented.
func (w *cmakeWriter) Block(text string) {
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		w.Line(line)
	}
}

// Comment writes text as comment lines when the configured verbosity of
// generated comments reaches level.
func (w *cmakeWriter) Comment(level int, text string) {
	if w.comments < level {
		return
	}
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		w.Line("# " + line)
	}
}

// Command writes a single line command invocation.
func (w *cmakeWriter) Command(name, args string) {
	w.Line(name + "(" + args + ")")
}

// CommandList writes a command with one element per line.
func (w *cmakeWriter) CommandList(name, arg string, elems []string) {
	w.Line(name + "(" + arg)
	w.indentMore()
	for _, e := range elems {
		w.Line(e)
	}
	w.indentLess()
	w.Line(")")
}

// CommandListQuoted is CommandList with every element quoted as needed.
func (w *cmakeWriter) CommandListQuoted(name, arg string, elems []string) {
	quoted := make([]string, len(elems))
	for i, e := range elems {
		quoted[i] = Quote(e)
	}
	w.CommandList(name, arg, quoted)
}

// If opens a conditional block. An empty condition writes nothing, which
// lets callers treat the unconditional case uniformly.
func (w *cmakeWriter) If(cond string) {
	if cond == "" {
		return
	}
	w.Command("if", cond)
	w.indentMore()
}

func (w *cmakeWriter) Else(cond string) {
	if cond == "" {
		return
	}
	w.indentLess()
	w.Command("else", cond)
	w.indentMore()
}

func (w *cmakeWriter) EndIf(cond string) {
	if cond == "" {
		return
	}
	w.indentLess()
	w.Command("endif", cond)
}

func (w *cmakeWriter) SetVar(name, value string) {
	w.Command("set", name+" "+value)
}

// SetVarBoolConditional sets name to true when cond holds, false otherwise.
func (w *cmakeWriter) SetVarBoolConditional(name, cond string) {
	w.If(cond)
	w.SetVar(name, "true")
	w.Else(cond)
	w.SetVar(name, "false")
	w.EndIf(cond)
}

func (w *cmakeWriter) Include(file string, optional bool) {
	args := Quote(file)
	if optional {
		args += " OPTIONAL"
	}
	w.Command("include", args)
}
