package formatter

import (
	"io"

	"github.com/tordrt/schemaforge/internal/ir"
	"github.com/tordrt/schemaforge/internal/naming"
	"github.com/tordrt/schemaforge/internal/relations"
	"github.com/tordrt/schemaforge/internal/schema"
	"github.com/tordrt/schemaforge/internal/typemap"
)

// GraphQLFormatter emits a GraphQL SDL schema with CRUD operations
type GraphQLFormatter struct{}

// Target implements Formatter
func (GraphQLFormatter) Target() typemap.Target { return typemap.GraphQL }

// Format writes schema.graphql
func (f GraphQLFormatter) Format(w io.Writer, in *Input) error {
	doc, err := f.Build(in)
	if err != nil {
		return err
	}
	return doc.Render(w)
}

// Build assembles the SDL document
func (GraphQLFormatter) Build(in *Input) (*ir.SDLDocument, error) {
	entities := in.Entities()
	names := typeNames(entities, naming.ToPascal)
	inputs := inputNames(entities, names)
	reserved := reservedNames(names)
	for _, n := range inputs {
		reserved[n] = true
	}
	for _, n := range []string{"Query", "Mutation", "Subscription"} {
		reserved[n] = true
	}
	enums, err := collectEnums(entities, reserved)
	if err != nil {
		return nil, err
	}

	var objects []ir.SDLDef
	scalars := make(map[string]bool)
	query := ir.SDLObject{Name: "Query"}
	mutation := ir.SDLObject{Name: "Mutation"}
	subscription := ir.SDLObject{Name: "Subscription"}

	for _, e := range entities {
		typeName := names[e.Name]
		obj := ir.SDLObject{Name: typeName}
		input := ir.SDLObject{Kind: "input", Name: inputs[e.Name]}

		for _, f := range e.Fields {
			t, err := fieldType(e.Name, f)
			if err != nil {
				return nil, err
			}
			typ := graphqlFieldType(f, t, enums.Name(e.Name, f.Name))
			if typemap.GraphQLScalars[typ] {
				scalars[typ] = true
			}
			field := ir.SDLField{
				Name: graphqlName(f.Name),
				Type: ir.NonNull(typ, !f.IsNullable()),
			}
			obj.Fields = append(obj.Fields, field)
			if !f.PrimaryKey && !IsAuditField(f.Name) {
				input.Fields = append(input.Fields, field)
			}
		}

		for _, r := range relations.Outgoing(in.Resolved, e.Name) {
			obj.Fields = append(obj.Fields, ir.SDLField{
				Name: graphqlName(r.ForwardName),
				Type: ir.NonNull(names[r.Connection.TargetEntity], !r.SourceField.IsNullable()),
			})
		}
		for _, r := range relations.Incoming(in.Resolved, e.Name) {
			typ := names[r.Connection.SourceEntity]
			if r.IsList() {
				typ = "[" + typ + "!]!"
			}
			obj.Fields = append(obj.Fields, ir.SDLField{Name: graphqlName(r.BackrefName), Type: typ})
		}

		objects = append(objects, obj)
		if len(input.Fields) > 0 {
			objects = append(objects, input)
		}

		one, many := accessorNames(e.Name)
		idArg := ir.SDLArg{Name: "id", Type: "ID!"}
		query.Fields = append(query.Fields,
			ir.SDLField{Name: one, Args: []ir.SDLArg{idArg}, Type: typeName},
			ir.SDLField{
				Name: many,
				Args: []ir.SDLArg{{Name: "limit", Type: "Int"}, {Name: "offset", Type: "Int"}},
				Type: "[" + typeName + "!]!",
			},
		)

		suffix := naming.ToPascal(one)
		create := ir.SDLField{Name: "create" + suffix, Type: typeName + "!"}
		update := ir.SDLField{Name: "update" + suffix, Args: []ir.SDLArg{idArg}, Type: typeName + "!"}
		if len(input.Fields) > 0 {
			inputArg := ir.SDLArg{Name: "input", Type: input.Name + "!"}
			create.Args = []ir.SDLArg{inputArg}
			update.Args = append(update.Args, inputArg)
		}
		mutation.Fields = append(mutation.Fields,
			create,
			update,
			ir.SDLField{Name: "delete" + suffix, Args: []ir.SDLArg{idArg}, Type: "Boolean!"},
		)

		subscription.Fields = append(subscription.Fields,
			ir.SDLField{Name: one + "Created", Type: typeName + "!"},
			ir.SDLField{Name: one + "Updated", Type: typeName + "!"},
			ir.SDLField{Name: one + "Deleted", Type: "ID!"},
		)
	}

	doc := &ir.SDLDocument{Header: generatedHeader(in)}
	for _, s := range []string{"DateTime", "JSON"} {
		if scalars[s] {
			doc.Defs = append(doc.Defs, ir.SDLScalar{Name: s})
		}
	}
	for _, def := range enums.Defs {
		values := make([]string, len(def.Values))
		for i, v := range def.Values {
			values[i] = typemap.GraphQLEnumValue(v)
		}
		doc.Defs = append(doc.Defs, ir.SDLEnum{Name: def.Name, Values: values})
	}
	doc.Defs = append(doc.Defs, objects...)
	if len(entities) > 0 {
		doc.Defs = append(doc.Defs, query, mutation)
		if in.Options.EnableSubscriptions {
			doc.Defs = append(doc.Defs, subscription)
		}
	}
	return doc, nil
}

func graphqlFieldType(f schema.Field, t schema.Type, enum string) string {
	switch {
	case f.PrimaryKey:
		return "ID"
	case t.IsEnum():
		return enum
	default:
		return typemap.MapField(f, typemap.GraphQL)
	}
}

func graphqlName(name string) string {
	if n := naming.ToCamel(name); n != "" {
		return n
	}
	return name
}

// accessorNames returns the by-id and list query names: users -> user, users.
// Entities whose singular and plural coincide get an all prefix on the list.
func accessorNames(entity string) (one, many string) {
	one = naming.ToCamel(naming.Singular(naming.ToSnake(entity)))
	many = naming.ToCamel(naming.Plural(naming.ToSnake(entity)))
	if one == many {
		many = "all" + naming.ToPascal(many)
	}
	return one, many
}
