// Package ir holds the intermediate representations the emitters assemble and
// the serializers that render them. Formatting, quoting and escaping for each
// target live here so content assembly never concatenates output text itself.
package ir

import (
	"fmt"
	"io"
	"strings"
)

// Printer writes indented lines and remembers the first write error
type Printer struct {
	w      io.Writer
	indent string
	depth  int
	err    error
}

// NewPrinter creates a printer that indents with the given unit
func NewPrinter(w io.Writer, indent string) *Printer {
	return &Printer{w: w, indent: indent}
}

// Line writes one indented line. An empty line carries no indentation.
func (p *Printer) Line(format string, args ...any) {
	if p.err != nil {
		return
	}
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	if text == "" {
		_, p.err = io.WriteString(p.w, "\n")
		return
	}
	_, p.err = io.WriteString(p.w, strings.Repeat(p.indent, p.depth)+text+"\n")
}

// Blank writes an empty line
func (p *Printer) Blank() {
	p.Line("")
}

// Raw writes text verbatim
func (p *Printer) Raw(text string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, text)
}

// Indent increases the indentation depth
func (p *Printer) Indent() { p.depth++ }

// Dedent decreases the indentation depth
func (p *Printer) Dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

// Err returns the first write error
func (p *Printer) Err() error {
	return p.err
}

// padRight pads s with spaces up to width
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
