package formatter

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/tordrt/schemaforge/internal/ir"
	"github.com/tordrt/schemaforge/internal/naming"
	"github.com/tordrt/schemaforge/internal/relations"
	"github.com/tordrt/schemaforge/internal/schema"
	"github.com/tordrt/schemaforge/internal/typemap"
)

// PrismaFormatter emits a Prisma schema
type PrismaFormatter struct{}

// Target implements Formatter
func (PrismaFormatter) Target() typemap.Target { return typemap.Prisma }

// Format writes schema.prisma
func (f PrismaFormatter) Format(w io.Writer, in *Input) error {
	doc, err := f.Build(in)
	if err != nil {
		return err
	}
	return doc.Render(w)
}

var prismaIdent = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

var prismaRules = map[relations.Rule]string{
	relations.Cascade:  "Cascade",
	relations.SetNull:  "SetNull",
	relations.Restrict: "Restrict",
	relations.NoAction: "NoAction",
}

// Build assembles the Prisma blocks
func (PrismaFormatter) Build(in *Input) (*ir.PrismaSchema, error) {
	entities := in.Entities()
	models := typeNames(entities, naming.TypeName)
	enums, err := collectEnums(entities, reservedNames(models))
	if err != nil {
		return nil, err
	}

	doc := &ir.PrismaSchema{Header: generatedHeader(in)}
	doc.Blocks = append(doc.Blocks,
		ir.PrismaBlock{
			Keyword:  "generator",
			Name:     "client",
			Settings: []ir.PrismaSetting{{Key: "provider", Value: ir.QuotePrismaString("prisma-client-js")}},
		},
		ir.PrismaBlock{
			Keyword: "datasource",
			Name:    "db",
			Settings: []ir.PrismaSetting{
				{Key: "provider", Value: ir.QuotePrismaString(string(in.Dialect))},
				{Key: "url", Value: `env("DATABASE_URL")`},
			},
		},
	)

	for _, def := range enums.Defs {
		block := ir.PrismaBlock{Keyword: "enum", Name: def.Name}
		for _, v := range def.Values {
			block.Values = append(block.Values, prismaEnumValue(v))
		}
		doc.Blocks = append(doc.Blocks, block)
	}

	for _, e := range entities {
		model, err := prismaModel(in, e, models, enums)
		if err != nil {
			return nil, err
		}
		doc.Blocks = append(doc.Blocks, model)
	}
	return doc, nil
}

func prismaModel(in *Input, e schema.Entity, models map[string]string, enums enumSet) (ir.PrismaBlock, error) {
	block := ir.PrismaBlock{Keyword: "model", Name: models[e.Name]}
	outgoing := relations.Outgoing(in.Resolved, e.Name)

	oneToOne := make(map[string]bool)
	for _, r := range outgoing {
		if r.Cardinality == relations.OneToOne {
			oneToOne[r.Connection.SourceField] = true
		}
	}

	for _, f := range e.Fields {
		t, err := fieldType(e.Name, f)
		if err != nil {
			return block, err
		}
		field := ir.PrismaField{
			Name:     f.Name,
			Type:     typemap.MapField(f, typemap.Prisma),
			Optional: f.IsNullable(),
		}
		if t.IsEnum() {
			field.Type = enums.Name(e.Name, f.Name)
		}
		if f.PrimaryKey {
			field.Attributes = append(field.Attributes, "@id")
		}
		if !f.PrimaryKey && (f.Unique || oneToOne[f.Name]) {
			field.Attributes = append(field.Attributes, "@unique")
		}
		if def := prismaDefault(f, t); def != "" {
			field.Attributes = append(field.Attributes, "@default("+def+")")
		}
		if native := prismaNativeType(t, in.Dialect); native != "" {
			field.Attributes = append(field.Attributes, native)
		}
		block.Fields = append(block.Fields, field)
	}

	for _, r := range outgoing {
		args := []string{
			"fields: [" + r.Connection.SourceField + "]",
			"references: [" + r.Connection.TargetField + "]",
			"onDelete: " + prismaRules[r.OnDelete],
			"onUpdate: " + prismaRules[r.OnUpdate],
		}
		if r.RelationName != "" {
			args = append([]string{ir.QuotePrismaString(r.RelationName)}, args...)
		}
		block.Fields = append(block.Fields, ir.PrismaField{
			Name:       r.ForwardName,
			Type:       models[r.Connection.TargetEntity],
			Optional:   r.SourceField.IsNullable(),
			Attributes: []string{"@relation(" + strings.Join(args, ", ") + ")"},
		})
	}

	for _, r := range relations.Incoming(in.Resolved, e.Name) {
		field := ir.PrismaField{
			Name:     r.BackrefName,
			Type:     models[r.Connection.SourceEntity],
			List:     r.IsList(),
			Optional: !r.IsList(),
		}
		if r.RelationName != "" {
			field.Attributes = []string{"@relation(" + ir.QuotePrismaString(r.RelationName) + ")"}
		}
		block.Fields = append(block.Fields, field)
	}

	for _, idx := range e.Indexes {
		kind := "@@index"
		if idx.Unique {
			kind = "@@unique"
		}
		attr := kind + "([" + strings.Join(idx.Fields, ", ") + "]"
		if idx.Name != "" {
			attr += ", map: " + ir.QuotePrismaString(idx.Name)
		}
		block.Attributes = append(block.Attributes, attr+")")
	}
	if block.Name != e.Name {
		block.Attributes = append(block.Attributes, "@@map("+ir.QuotePrismaString(e.Name)+")")
	}
	return block, nil
}

func prismaDefault(f schema.Field, t schema.Type) string {
	switch schema.ClassifyDefault(f.DefaultValue) {
	case schema.DefaultAutoIncrement:
		return "autoincrement()"
	case schema.DefaultUUID:
		return "uuid()"
	case schema.DefaultNow:
		return "now()"
	case schema.DefaultLiteral:
		v, _ := schema.UnquoteDefault(*f.DefaultValue)
		switch {
		case t.IsEnum():
			return prismaEnumMember(v)
		case t.Kind == schema.KindBoolean && schema.IsBoolLiteral(v):
			return strings.ToLower(v)
		case !t.Kind.IsStringLike() && schema.IsNumericLiteral(v):
			return v
		default:
			return ir.QuotePrismaString(v)
		}
	}
	return ""
}

func prismaNativeType(t schema.Type, d schema.Dialect) string {
	if d == schema.SQLite {
		return ""
	}
	switch t.Kind {
	case schema.KindVarchar:
		if t.Length > 0 {
			return fmt.Sprintf("@db.VarChar(%d)", t.Length)
		}
	case schema.KindDecimal:
		if t.Precision > 0 {
			return fmt.Sprintf("@db.Decimal(%d, %d)", t.Precision, t.Scale)
		}
	case schema.KindUUID:
		if d == schema.PostgreSQL {
			return "@db.Uuid"
		}
		return "@db.Char(36)"
	case schema.KindDate:
		return "@db.Date"
	}
	return ""
}

func prismaEnumMember(v string) string {
	if prismaIdent.MatchString(v) {
		return v
	}
	return typemap.EnumMember(v)
}

func prismaEnumValue(v string) string {
	member := prismaEnumMember(v)
	if member == v {
		return v
	}
	return member + " @map(" + ir.QuotePrismaString(v) + ")"
}
