package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tordrt/schemaforge/internal/ir"
	"github.com/tordrt/schemaforge/internal/relations"
	"github.com/tordrt/schemaforge/internal/schema"
	"github.com/tordrt/schemaforge/internal/typemap"
)

// MarkdownFormatter formats the API and data model documentation as markdown
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Target implements Formatter
func (f *MarkdownFormatter) Target() typemap.Target { return typemap.Markdown }

// Format writes docs.md
func (f *MarkdownFormatter) Format(w io.Writer, in *Input) error {
	doc, err := BuildDoc(in)
	if err != nil {
		return err
	}
	return doc.RenderMarkdown(w)
}

// HTMLFormatter renders the same document as a styled HTML page
type HTMLFormatter struct{}

// NewHTMLFormatter creates a new HTML formatter
func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{}
}

// Target implements Formatter
func (f *HTMLFormatter) Target() typemap.Target { return typemap.HTML }

// Format writes docs.html
func (f *HTMLFormatter) Format(w io.Writer, in *Input) error {
	doc, err := BuildDoc(in)
	if err != nil {
		return err
	}
	return doc.RenderHTML(w)
}

// BuildDoc assembles the documentation: overview, authentication, endpoints,
// data model and the generation timestamp
func BuildDoc(in *Input) (*ir.Doc, error) {
	doc := &ir.Doc{Title: in.Project.Title()}
	if in.Project.Description != "" {
		doc.Blocks = append(doc.Blocks, ir.Paragraph{Text: in.Project.Description})
	}

	doc.Blocks = append(doc.Blocks,
		ir.Heading{Level: 2, Text: "Base URL"},
		ir.Paragraph{Text: ir.InlineCode(in.BaseURL())},
	)

	if in.Options.IncludeAuth {
		doc.Blocks = append(doc.Blocks,
			ir.Heading{Level: 2, Text: "Authentication"},
			ir.Paragraph{Text: "Requests are authenticated with a bearer token sent in the " + ir.InlineCode("Authorization") + " header."},
			ir.CodeBlock{Lang: "http", Code: "Authorization: Bearer <token>"},
		)
	}

	endpoints := endpointsFor(in)
	if len(endpoints) > 0 {
		doc.Blocks = append(doc.Blocks, ir.Heading{Level: 2, Text: "Endpoints"})
	}
	for _, ep := range endpoints {
		blocks, err := endpointBlocks(in, ep)
		if err != nil {
			return nil, err
		}
		doc.Blocks = append(doc.Blocks, blocks...)
	}

	if entities := in.Entities(); len(entities) > 0 {
		doc.Blocks = append(doc.Blocks, ir.Heading{Level: 2, Text: "Data Model"})
		for _, e := range entities {
			doc.Blocks = append(doc.Blocks, tableBlocks(e, relations.Outgoing(in.Resolved, e.Name))...)
		}
	}

	doc.Blocks = append(doc.Blocks,
		ir.Rule{},
		ir.Paragraph{Text: "Generated on " + in.GeneratedAt.UTC().Format(time.RFC3339)},
	)
	return doc, nil
}

func endpointBlocks(in *Input, ep schema.Endpoint) ([]ir.Block, error) {
	req, err := buildRequest(in, ep)
	if err != nil {
		return nil, err
	}

	blocks := []ir.Block{ir.Heading{Level: 3, Text: ir.InlineCode(req.Method + " " + ep.Path)}}
	if ep.Name != "" {
		blocks = append(blocks, ir.Paragraph{Text: "**" + ep.Name + "**"})
	}
	if ep.Description != "" {
		blocks = append(blocks, ir.Paragraph{Text: ep.Description})
	}

	if len(req.Headers) > 0 {
		rows := make([][]string, len(req.Headers))
		for i, h := range req.Headers {
			rows[i] = []string{h[0], h[1]}
		}
		blocks = append(blocks, ir.Table{Header: []string{"Header", "Value"}, Rows: rows})
	}

	if in.Options.IncludeExamples {
		var sb strings.Builder
		sb.WriteString(req.Method + " " + in.BaseURL() + ep.Path)
		for _, h := range req.Headers {
			sb.WriteString("\n" + h[0] + ": " + h[1])
		}
		if req.Body != "" {
			sb.WriteString("\n\n" + req.Body)
		}
		blocks = append(blocks,
			ir.Heading{Level: 4, Text: "Example request"},
			ir.CodeBlock{Lang: "http", Code: sb.String()},
		)

		resp, err := responseExample(in, ep, req.Method)
		if err != nil {
			return nil, err
		}
		if resp != "" {
			blocks = append(blocks,
				ir.Heading{Level: 4, Text: "Example response"},
				ir.CodeBlock{Lang: "json", Code: resp},
			)
		}
	}

	var rows [][]string
	for _, sc := range statusCodes(req.Method) {
		if sc[0] == "401" && !in.Options.IncludeAuth {
			continue
		}
		rows = append(rows, []string{sc[0], sc[1]})
	}
	blocks = append(blocks,
		ir.Heading{Level: 4, Text: "Responses"},
		ir.Table{Header: []string{"Status", "Description"}, Rows: rows},
	)
	return blocks, nil
}

// tableBlocks documents one entity: columns, references and indexes
func tableBlocks(e schema.Entity, refs []relations.Resolved) []ir.Block {
	blocks := []ir.Block{ir.Heading{Level: 3, Text: e.Name}}

	var columns []string
	for _, f := range e.Fields {
		typeStr := f.Type
		if t, err := schema.ParseType(f.Type); err == nil && t.IsEnum() {
			typeStr = fmt.Sprintf("enum (%s)", strings.Join(t.Values, "|"))
		}
		if c := columnConstraints(f); c != "" {
			columns = append(columns, fmt.Sprintf("**%s:** %s, %s", f.Name, typeStr, c))
		} else {
			columns = append(columns, fmt.Sprintf("**%s:** %s", f.Name, typeStr))
		}
	}
	if len(columns) > 0 {
		blocks = append(blocks, ir.Heading{Level: 4, Text: "Columns"}, ir.List{Items: columns})
	}

	if len(refs) > 0 {
		items := make([]string, len(refs))
		for i, r := range refs {
			items[i] = fmt.Sprintf("%s → %s.%s (%s, ON DELETE %s)",
				r.Connection.SourceField,
				r.Connection.TargetEntity,
				r.Connection.TargetField,
				r.Cardinality,
				r.OnDelete)
		}
		blocks = append(blocks, ir.Heading{Level: 4, Text: "References"}, ir.List{Items: items})
	}

	if len(e.Indexes) > 0 {
		items := make([]string, len(e.Indexes))
		for i, idx := range e.Indexes {
			items[i] = fmt.Sprintf("%s on (%s)", indexName(e.Name, idx), strings.Join(idx.Fields, ", "))
			if idx.Unique {
				items[i] += ", unique"
			}
		}
		blocks = append(blocks, ir.Heading{Level: 4, Text: "Indexes"}, ir.List{Items: items})
	}
	return blocks
}

func columnConstraints(f schema.Field) string {
	var constraints []string
	if f.PrimaryKey {
		constraints = append(constraints, "PK")
	}
	if f.Unique && !f.PrimaryKey {
		constraints = append(constraints, "UNIQUE")
	}
	if !f.IsNullable() {
		constraints = append(constraints, "NOT NULL")
	}
	if f.DefaultValue != nil {
		constraints = append(constraints, fmt.Sprintf("DEFAULT %s", *f.DefaultValue))
	}
	return strings.Join(constraints, ", ")
}
