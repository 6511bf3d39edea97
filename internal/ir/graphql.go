package ir

import (
	"io"
	"strings"
)

// SDLDocument is a GraphQL schema document
type SDLDocument struct {
	Header []string
	Defs   []SDLDef
}

// SDLDef is a top-level type system definition
type SDLDef interface {
	renderSDL(p *Printer)
}

// SDLScalar is a custom scalar definition
type SDLScalar struct {
	Name string
}

// SDLEnum is an enum type definition
type SDLEnum struct {
	Name   string
	Values []string
}

// SDLObject is an object type (Kind "type") or input object (Kind "input")
type SDLObject struct {
	Kind        string
	Name        string
	Description string
	Fields      []SDLField
}

// SDLField is one field, optionally with arguments
type SDLField struct {
	Name        string
	Args        []SDLArg
	Type        string
	Description string
}

// SDLArg is a field argument
type SDLArg struct {
	Name string
	Type string
}

// Render writes the document
func (d *SDLDocument) Render(w io.Writer) error {
	p := NewPrinter(w, "  ")
	for _, line := range d.Header {
		p.Line("# %s", line)
	}
	for i, def := range d.Defs {
		if i > 0 || len(d.Header) > 0 {
			p.Blank()
		}
		def.renderSDL(p)
	}
	return p.Err()
}

func (s SDLScalar) renderSDL(p *Printer) {
	p.Line("scalar %s", s.Name)
}

func (e SDLEnum) renderSDL(p *Printer) {
	p.Line("enum %s {", e.Name)
	p.Indent()
	for _, v := range e.Values {
		p.Line("%s", v)
	}
	p.Dedent()
	p.Line("}")
}

func (o SDLObject) renderSDL(p *Printer) {
	kind := o.Kind
	if kind == "" {
		kind = "type"
	}
	if o.Description != "" {
		writeDescription(p, o.Description)
	}
	p.Line("%s %s {", kind, o.Name)
	p.Indent()
	for _, f := range o.Fields {
		if f.Description != "" {
			writeDescription(p, f.Description)
		}
		p.Line("%s: %s", f.signature(), f.Type)
	}
	p.Dedent()
	p.Line("}")
}

func (f SDLField) signature() string {
	if len(f.Args) == 0 {
		return f.Name
	}
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.Name + ": " + a.Type
	}
	return f.Name + "(" + strings.Join(args, ", ") + ")"
}

// NonNull appends the GraphQL non-null marker when the value is required
func NonNull(typ string, required bool) string {
	if required {
		return typ + "!"
	}
	return typ
}

// writeDescription writes a block string at the current indentation
func writeDescription(p *Printer, s string) {
	for _, line := range strings.Split(sdlDescription(s), "\n") {
		p.Line("%s", line)
	}
}

func sdlDescription(s string) string {
	s = strings.ReplaceAll(s, `"""`, `\"""`)
	if strings.Contains(s, "\n") {
		return `"""` + "\n" + s + "\n" + `"""`
	}
	return `"""` + s + `"""`
}
