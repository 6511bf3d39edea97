package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/schemaforge/internal/ir"
	"github.com/tordrt/schemaforge/internal/relations"
	"github.com/tordrt/schemaforge/internal/schema"
	"github.com/tordrt/schemaforge/internal/typemap"
)

// SQLFormatter emits DDL: tables, then indexes, then foreign keys
type SQLFormatter struct{}

// Target implements Formatter
func (SQLFormatter) Target() typemap.Target { return typemap.SQL }

// Format writes the DDL script
func (f SQLFormatter) Format(w io.Writer, in *Input) error {
	script, err := f.Build(in)
	if err != nil {
		return err
	}
	return script.Render(w)
}

// Build assembles the script without rendering it
func (SQLFormatter) Build(in *Input) (*ir.SQLScript, error) {
	d := in.Dialect
	script := &ir.SQLScript{
		Dialect: d,
		Header:  generatedHeader(in, "Dialect: "+string(d)),
	}

	// SQLite cannot add constraints after the fact, so references go inline
	inline := make(map[string]map[string]relations.Resolved)
	if d == schema.SQLite {
		for _, r := range in.Resolved {
			cols, ok := inline[r.Connection.SourceEntity]
			if !ok {
				cols = make(map[string]relations.Resolved)
				inline[r.Connection.SourceEntity] = cols
			}
			cols[r.Connection.SourceField] = r
		}
	}

	for _, e := range in.Entities() {
		table := ir.CreateTable{Name: e.Name}
		for _, field := range e.Fields {
			col := sqlColumn(field, d)
			if r, ok := inline[e.Name][field.Name]; ok {
				col.References = &ir.ColumnRef{
					Table:    r.Connection.TargetEntity,
					Column:   r.Connection.TargetField,
					OnDelete: string(r.OnDelete),
					OnUpdate: string(r.OnUpdate),
				}
			}
			table.Columns = append(table.Columns, col)

			if t, err := schema.ParseType(field.Type); err == nil && t.IsEnum() {
				table.Comments = append(table.Comments, enumComment(field.Name, t.Values))
			}
		}
		script.Statements = append(script.Statements, table)
	}

	var indexes []ir.SQLStatement
	for _, e := range in.Entities() {
		for _, idx := range e.Indexes {
			indexes = append(indexes, ir.CreateIndex{
				Name:    indexName(e.Name, idx),
				Table:   e.Name,
				Columns: idx.Fields,
				Unique:  idx.Unique,
			})
		}
	}
	if len(indexes) > 0 {
		script.Statements = append(script.Statements, ir.SQLComment{Lines: []string{"Indexes"}})
		script.Statements = append(script.Statements, indexes...)
	}

	if d != schema.SQLite && len(in.Resolved) > 0 {
		script.Statements = append(script.Statements, ir.SQLComment{Lines: []string{"Foreign keys"}})
		for _, r := range in.Resolved {
			script.Statements = append(script.Statements, ir.AddForeignKey{
				Table:      r.Connection.SourceEntity,
				Constraint: r.ConstraintName(),
				Column:     r.Connection.SourceField,
				RefTable:   r.Connection.TargetEntity,
				RefColumn:  r.Connection.TargetField,
				OnDelete:   string(r.OnDelete),
				OnUpdate:   string(r.OnUpdate),
			})
		}
	}

	return script, nil
}

func sqlColumn(f schema.Field, d schema.Dialect) ir.ColumnDef {
	col := ir.ColumnDef{
		Name:       f.Name,
		Type:       typemap.MapSQLField(f, d),
		PrimaryKey: f.PrimaryKey,
		NotNull:    !f.IsNullable(),
		Unique:     f.Unique,
	}

	t, err := schema.ParseType(f.Type)
	if err != nil {
		t = schema.Type{Kind: schema.KindUnknown}
	}

	switch schema.ClassifyDefault(f.DefaultValue) {
	case schema.DefaultAutoIncrement:
		switch d {
		case schema.PostgreSQL:
			if t.Kind == schema.KindBigInt {
				col.Type = "bigserial"
			} else {
				col.Type = "serial"
			}
		case schema.MySQL:
			col.AutoIncrement = true
		case schema.SQLite:
			col.AutoIncrement = f.PrimaryKey
		}
	case schema.DefaultUUID:
		col.Default = uuidDefault(d)
	case schema.DefaultNow:
		if t.Kind == schema.KindDate {
			col.Default = "CURRENT_DATE"
		} else {
			col.Default = "CURRENT_TIMESTAMP"
		}
	case schema.DefaultLiteral:
		col.Default = sqlLiteral(*f.DefaultValue, t.Kind)
	}
	return col
}

func uuidDefault(d schema.Dialect) string {
	switch d {
	case schema.MySQL:
		return "(UUID())"
	case schema.SQLite:
		return "(lower(hex(randomblob(16))))"
	default:
		return "gen_random_uuid()"
	}
}

func sqlLiteral(raw string, kind schema.Kind) string {
	v, quoted := schema.UnquoteDefault(raw)
	if quoted {
		return ir.QuoteSQLString(v)
	}
	if strings.EqualFold(v, "null") {
		return "NULL"
	}
	if kind.IsStringLike() || !(schema.IsNumericLiteral(v) || schema.IsBoolLiteral(v)) {
		return ir.QuoteSQLString(v)
	}
	return v
}

func enumComment(field string, values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = ir.QuoteSQLString(v)
	}
	return fmt.Sprintf("%s: one of %s", field, strings.Join(quoted, ", "))
}

func indexName(entity string, idx schema.Index) string {
	if idx.Name != "" {
		return idx.Name
	}
	return "idx_" + entity + "_" + strings.Join(idx.Fields, "_")
}
