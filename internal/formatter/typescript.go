package formatter

import (
	"io"

	"github.com/tordrt/schemaforge/internal/ir"
	"github.com/tordrt/schemaforge/internal/naming"
	"github.com/tordrt/schemaforge/internal/relations"
	"github.com/tordrt/schemaforge/internal/typemap"
)

// TypeScriptFormatter emits TypeScript enums and interfaces
type TypeScriptFormatter struct{}

// Target implements Formatter
func (TypeScriptFormatter) Target() typemap.Target { return typemap.TypeScript }

// Format writes types.ts
func (f TypeScriptFormatter) Format(w io.Writer, in *Input) error {
	file, err := f.Build(in)
	if err != nil {
		return err
	}
	return file.Render(w)
}

// Build assembles the declarations: enums first, then one interface per entity
func (TypeScriptFormatter) Build(in *Input) (*ir.TSFile, error) {
	entities := in.Entities()
	names := typeNames(entities, naming.TypeName)
	enums, err := collectEnums(entities, reservedNames(names))
	if err != nil {
		return nil, err
	}

	file := &ir.TSFile{Header: generatedHeader(in)}
	for _, def := range enums.Defs {
		decl := ir.TSEnum{Name: def.Name}
		for _, v := range def.Values {
			decl.Members = append(decl.Members, ir.TSEnumMember{Name: typemap.EnumMember(v), Value: v})
		}
		file.Decls = append(file.Decls, decl)
	}

	for _, e := range entities {
		iface := ir.TSInterface{Name: names[e.Name]}
		if iface.Name != e.Name {
			iface.Doc = "Table " + e.Name
		}
		for _, f := range e.Fields {
			t, err := fieldType(e.Name, f)
			if err != nil {
				return nil, err
			}
			prop := ir.TSProp{
				Name:     naming.ToCamel(f.Name),
				Type:     typemap.MapField(f, typemap.TypeScript),
				Optional: f.IsNullable(),
				Nullable: f.IsNullable(),
			}
			if t.IsEnum() {
				prop.Type = enums.Name(e.Name, f.Name)
			}
			if prop.Name == "" {
				prop.Name = f.Name
			}
			iface.Props = append(iface.Props, prop)
		}

		for _, r := range relations.Outgoing(in.Resolved, e.Name) {
			iface.Props = append(iface.Props, ir.TSProp{
				Name:     naming.ToCamel(r.ForwardName),
				Type:     names[r.Connection.TargetEntity],
				Optional: true,
				Nullable: r.SourceField.IsNullable(),
			})
		}
		for _, r := range relations.Incoming(in.Resolved, e.Name) {
			prop := ir.TSProp{
				Name:     naming.ToCamel(r.BackrefName),
				Type:     names[r.Connection.SourceEntity],
				Optional: true,
			}
			if r.IsList() {
				prop.Type += "[]"
			} else {
				prop.Nullable = true
			}
			iface.Props = append(iface.Props, prop)
		}
		file.Decls = append(file.Decls, iface)
	}
	return file, nil
}
