package ir

import (
	"io"
	"strconv"
	"strings"
)

// PrismaSchema is a Prisma schema file as a list of top-level blocks
type PrismaSchema struct {
	Header []string
	Blocks []PrismaBlock
}

// PrismaBlock is a generator, datasource, enum or model block
type PrismaBlock struct {
	Keyword    string
	Name       string
	Settings   []PrismaSetting
	Values     []string
	Fields     []PrismaField
	Attributes []string
}

// PrismaSetting is a key = value line of a generator or datasource
type PrismaSetting struct {
	Key   string
	Value string
}

// PrismaField is one model field line
type PrismaField struct {
	Name       string
	Type       string
	Optional   bool
	List       bool
	Attributes []string
}

// Render writes the schema with prisma-format style column alignment
func (s *PrismaSchema) Render(w io.Writer) error {
	p := NewPrinter(w, "  ")
	for _, line := range s.Header {
		p.Line("// %s", line)
	}
	for i, b := range s.Blocks {
		if i > 0 || len(s.Header) > 0 {
			p.Blank()
		}
		b.render(p)
	}
	return p.Err()
}

func (b PrismaBlock) render(p *Printer) {
	p.Line("%s %s {", b.Keyword, b.Name)
	p.Indent()

	keyWidth := 0
	for _, s := range b.Settings {
		keyWidth = max(keyWidth, len(s.Key))
	}
	for _, s := range b.Settings {
		p.Line("%s = %s", padRight(s.Key, keyWidth), s.Value)
	}

	for _, v := range b.Values {
		p.Line("%s", v)
	}

	nameWidth, typeWidth := 0, 0
	for _, f := range b.Fields {
		nameWidth = max(nameWidth, len(f.Name))
		typeWidth = max(typeWidth, len(f.typeRef()))
	}
	for _, f := range b.Fields {
		line := padRight(f.Name, nameWidth) + " " + f.typeRef()
		if len(f.Attributes) > 0 {
			line = padRight(line, nameWidth+1+typeWidth) + " " + strings.Join(f.Attributes, " ")
		}
		p.Line("%s", line)
	}

	if len(b.Attributes) > 0 {
		if len(b.Fields) > 0 {
			p.Blank()
		}
		for _, a := range b.Attributes {
			p.Line("%s", a)
		}
	}

	p.Dedent()
	p.Line("}")
}

func (f PrismaField) typeRef() string {
	switch {
	case f.List:
		return f.Type + "[]"
	case f.Optional:
		return f.Type + "?"
	default:
		return f.Type
	}
}

// QuotePrismaString renders a Prisma string literal
func QuotePrismaString(s string) string {
	return strconv.Quote(s)
}
