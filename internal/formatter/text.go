package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/schemaforge/internal/relations"
	"github.com/tordrt/schemaforge/internal/schema"
	"github.com/tordrt/schemaforge/internal/typemap"
)

// TextFormatter formats the data model as compact text
type TextFormatter struct{}

// Target implements Formatter
func (TextFormatter) Target() typemap.Target { return typemap.Text }

// Format writes the data model in compact text format
func (f TextFormatter) Format(w io.Writer, in *Input) error {
	for i, e := range in.Entities() {
		if i > 0 {
			_, _ = fmt.Fprintln(w) // Blank line between tables
		}
		if err := f.formatEntity(w, e, relations.Outgoing(in.Resolved, e.Name)); err != nil {
			return err
		}
	}
	return nil
}

func (f TextFormatter) formatEntity(w io.Writer, e schema.Entity, refs []relations.Resolved) error {
	pkStr := ""
	if pk, ok := e.PrimaryKey(); ok {
		pkStr = fmt.Sprintf(" (PK: %s)", pk.Name)
	}
	if _, err := fmt.Fprintf(w, "TABLE %s%s\n", e.Name, pkStr); err != nil {
		return err
	}

	for _, field := range e.Fields {
		_, _ = fmt.Fprintf(w, "  %s\n", f.formatField(field))
	}

	if len(refs) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "  RELATIONS:")
		for _, r := range refs {
			_, _ = fmt.Fprintf(w, "    %s → %s.%s (%s)\n",
				r.Connection.SourceField, r.Connection.TargetEntity, r.Connection.TargetField, r.Cardinality)
		}
	}

	if len(e.Indexes) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "  INDEXES:")
		for _, idx := range e.Indexes {
			unique := ""
			if idx.Unique {
				unique = " UNIQUE"
			}
			_, _ = fmt.Fprintf(w, "    %s (%s)%s\n", indexName(e.Name, idx), strings.Join(idx.Fields, ", "), unique)
		}
	}
	return nil
}

func (f TextFormatter) formatField(field schema.Field) string {
	parts := []string{field.Name + ":"}

	typeStr := field.Type
	if t, err := schema.ParseType(field.Type); err == nil && t.IsEnum() {
		typeStr = fmt.Sprintf("enum (%s)", strings.Join(t.Values, "|"))
	}
	parts = append(parts, typeStr)

	if field.Unique && !field.PrimaryKey {
		parts = append(parts, "UNIQUE")
	}
	if !field.IsNullable() {
		parts = append(parts, "NOT NULL")
	}
	if field.DefaultValue != nil {
		parts = append(parts, fmt.Sprintf("DEFAULT %s", *field.DefaultValue))
	}
	return strings.Join(parts, " ")
}
