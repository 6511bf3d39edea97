package ir

import (
	"io"
	"strings"
)

// Doc is a prose document made of blocks. It renders to Markdown directly and
// to HTML through RenderHTML.
type Doc struct {
	Title  string
	Blocks []Block
}

// Block is one Markdown block
type Block interface {
	renderMarkdown(p *Printer)
}

// Heading is an ATX heading
type Heading struct {
	Level int
	Text  string
}

// Paragraph is a run of text. Text is written as-is, so inline markup is allowed.
type Paragraph struct {
	Text string
}

// CodeBlock is a fenced code block
type CodeBlock struct {
	Lang string
	Code string
}

// Table is a pipe table
type Table struct {
	Header []string
	Rows   [][]string
}

// List is a bullet list
type List struct {
	Items []string
}

// Rule is a thematic break
type Rule struct{}

// RenderMarkdown writes the document as Markdown
func (d *Doc) RenderMarkdown(w io.Writer) error {
	p := NewPrinter(w, "")
	if d.Title != "" {
		p.Line("# %s", d.Title)
	}
	for i, b := range d.Blocks {
		if i > 0 || d.Title != "" {
			p.Blank()
		}
		b.renderMarkdown(p)
	}
	return p.Err()
}

func (h Heading) renderMarkdown(p *Printer) {
	level := min(max(h.Level, 1), 6)
	p.Line("%s %s", strings.Repeat("#", level), h.Text)
}

func (para Paragraph) renderMarkdown(p *Printer) {
	p.Line("%s", para.Text)
}

func (c CodeBlock) renderMarkdown(p *Printer) {
	fence := "```"
	for strings.Contains(c.Code, fence) {
		fence += "`"
	}
	p.Line("%s%s", fence, c.Lang)
	p.Raw(strings.TrimRight(c.Code, "\n") + "\n")
	p.Line("%s", fence)
}

func (t Table) renderMarkdown(p *Printer) {
	p.Line("| %s |", strings.Join(escapeCells(t.Header), " | "))
	sep := make([]string, len(t.Header))
	for i := range sep {
		sep[i] = "---"
	}
	p.Line("| %s |", strings.Join(sep, " | "))
	for _, row := range t.Rows {
		p.Line("| %s |", strings.Join(escapeCells(row), " | "))
	}
}

func (l List) renderMarkdown(p *Printer) {
	for _, item := range l.Items {
		p.Line("- %s", item)
	}
}

func (Rule) renderMarkdown(p *Printer) {
	p.Line("---")
}

// InlineCode wraps text in backticks, widening the fence when needed
func InlineCode(s string) string {
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "|", `\|`)
		out[i] = strings.ReplaceAll(c, "\n", " ")
	}
	return out
}
