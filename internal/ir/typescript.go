package ir

import (
	"io"
	"regexp"
	"strconv"
)

// TSFile is a TypeScript declaration module
type TSFile struct {
	Header []string
	Decls  []TSDecl
}

// TSDecl is a top-level exported declaration
type TSDecl interface {
	renderTS(p *Printer)
}

// TSEnum is an exported string enum
type TSEnum struct {
	Name    string
	Members []TSEnumMember
}

// TSEnumMember is one Name = "value" member
type TSEnumMember struct {
	Name  string
	Value string
}

// TSInterface is an exported interface
type TSInterface struct {
	Name  string
	Doc   string
	Props []TSProp
}

// TSProp is one interface property
type TSProp struct {
	Name     string
	Type     string
	Optional bool
	Nullable bool
	Doc      string
}

// Render writes the module
func (f *TSFile) Render(w io.Writer) error {
	p := NewPrinter(w, "  ")
	for _, line := range f.Header {
		p.Line("// %s", line)
	}
	for i, d := range f.Decls {
		if i > 0 || len(f.Header) > 0 {
			p.Blank()
		}
		d.renderTS(p)
	}
	return p.Err()
}

func (e TSEnum) renderTS(p *Printer) {
	p.Line("export enum %s {", e.Name)
	p.Indent()
	for _, m := range e.Members {
		p.Line("%s = %s,", m.Name, strconv.Quote(m.Value))
	}
	p.Dedent()
	p.Line("}")
}

func (i TSInterface) renderTS(p *Printer) {
	if i.Doc != "" {
		p.Line("/** %s */", i.Doc)
	}
	p.Line("export interface %s {", i.Name)
	p.Indent()
	for _, prop := range i.Props {
		if prop.Doc != "" {
			p.Line("/** %s */", prop.Doc)
		}
		name := TSPropertyName(prop.Name)
		if prop.Optional {
			name += "?"
		}
		typ := prop.Type
		if prop.Nullable {
			typ += " | null"
		}
		p.Line("%s: %s;", name, typ)
	}
	p.Dedent()
	p.Line("}")
}

var tsIdent = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// TSPropertyName quotes property names that are not valid identifiers
func TSPropertyName(name string) string {
	if tsIdent.MatchString(name) {
		return name
	}
	return strconv.Quote(name)
}
