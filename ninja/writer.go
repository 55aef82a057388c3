// Package ninja writes build descriptions in the ninja build file syntax.
package ninja

import (
	"fmt"
	"io"
	"strings"
)

const indent = "    "

var pathEscaper = strings.NewReplacer("$", "$$", ":", "$:", " ", "$ ")

// EscapePath escapes the characters ninja treats specially in paths.
func EscapePath(path string) string {
	return pathEscaper.Replace(path)
}

// Variable is a key/value binding at file, rule, or build scope.
type Variable struct {
	Key   string
	Value string
}

// Build is a single build statement.
type Build struct {
	Outputs   []string
	Rule      string
	Inputs    []string
	Implicit  []string
	Variables []Variable
}

// Writer emits ninja statements to an underlying writer.
// The first write error is retained and returned by Err; later writes are skipped.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered while writing.
func (w *Writer) Err() error {
	return w.err
}

// Comment writes a comment line.
func (w *Writer) Comment(text string) {
	w.line("# " + text)
}

// Newline writes an empty line.
func (w *Writer) Newline() {
	w.line("")
}

// Variable writes a file-scope variable binding.
func (w *Writer) Variable(key, value string) {
	w.variable("", key, value)
}

// Rule writes a rule declaration followed by its indented bindings.
func (w *Writer) Rule(name string, vars ...Variable) {
	w.line("rule " + name)
	for _, v := range vars {
		w.variable(indent, v.Key, v.Value)
	}
}

// Build writes a build statement. Paths are escaped; variable values are written verbatim.
func (w *Writer) Build(b Build) {
	var sb strings.Builder
	sb.WriteString("build ")
	sb.WriteString(joinPaths(b.Outputs))
	sb.WriteString(": ")
	sb.WriteString(b.Rule)
	if len(b.Inputs) > 0 {
		sb.WriteString(" ")
		sb.WriteString(joinPaths(b.Inputs))
	}
	if len(b.Implicit) > 0 {
		sb.WriteString(" | ")
		sb.WriteString(joinPaths(b.Implicit))
	}
	w.line(sb.String())

	for _, v := range b.Variables {
		w.variable(indent, v.Key, v.Value)
	}
}

// Default writes the default target statement.
func (w *Writer) Default(targets ...string) {
	w.line("default " + joinPaths(targets))
}

func (w *Writer) variable(prefix, key, value string) {
	if value == "" {
		w.line(prefix + key + " =")
		return
	}
	w.line(prefix + key + " = " + value)
}

func (w *Writer) line(s string) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintln(w.w, s)
}

func joinPaths(paths []string) string {
	escaped := make([]string, len(paths))
	for i, p := range paths {
		escaped[i] = EscapePath(p)
	}
	return strings.Join(escaped, " ")
}
