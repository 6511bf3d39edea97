package formatter

import (
	"io"

	"github.com/tordrt/schemaforge/internal/ir"
	"github.com/tordrt/schemaforge/internal/naming"
	"github.com/tordrt/schemaforge/internal/schema"
	"github.com/tordrt/schemaforge/internal/typemap"
)

// OpenAPIVersion is the document version emitted
const OpenAPIVersion = "3.0.3"

// OpenAPIFormatter emits an OpenAPI document with CRUD paths per entity
type OpenAPIFormatter struct{}

// Target implements Formatter
func (OpenAPIFormatter) Target() typemap.Target { return typemap.OpenAPI }

// Format writes the document as YAML, or JSON when configured
func (f OpenAPIFormatter) Format(w io.Writer, in *Input) error {
	doc, err := f.Build(in)
	if err != nil {
		return err
	}
	if in.Options.OpenAPIJSON() {
		return ir.RenderJSON(w, doc)
	}
	return ir.RenderYAML(w, doc)
}

// Build assembles the document tree
func (OpenAPIFormatter) Build(in *Input) (*ir.Map, error) {
	entities := in.Entities()
	names := typeNames(entities, naming.ToPascal)
	inputs := inputNames(entities, names)

	info := ir.NewMap().Set("title", in.Project.Title())
	if in.Project.Description != "" {
		info.Set("description", in.Project.Description)
	}
	info.Set("version", "1.0.0")

	doc := ir.NewMap().
		Set("openapi", OpenAPIVersion).
		Set("info", info).
		Set("servers", []*ir.Map{ir.NewMap().Set("url", in.BaseURL())})

	var tags []*ir.Map
	paths := ir.NewMap()
	schemas := ir.NewMap()

	for _, e := range entities {
		name := names[e.Name]
		full, err := openapiSchema(in, e, e.Fields, false)
		if err != nil {
			return nil, err
		}
		input, err := openapiSchema(in, e, InputFields(e), true)
		if err != nil {
			return nil, err
		}
		schemas.Set(name, full)
		schemas.Set(inputs[e.Name], input)

		tags = append(tags, ir.NewMap().Set("name", e.Name))
		collection, item := openapiPaths(e, name, inputs[e.Name])
		base := "/" + naming.ToKebab(e.Name)
		paths.Set(base, collection)
		paths.Set(base+"/{id}", item)
	}

	if len(tags) > 0 {
		doc.Set("tags", tags)
	}
	doc.Set("paths", paths)

	components := ir.NewMap().Set("schemas", schemas)
	if in.Options.IncludeAuth {
		components.Set("securitySchemes", ir.NewMap().Set("bearerAuth", ir.NewMap().
			Set("type", "http").
			Set("scheme", "bearer").
			Set("bearerFormat", "JWT")))
	}
	doc.Set("components", components)
	if in.Options.IncludeAuth {
		doc.Set("security", []*ir.Map{ir.NewMap().Set("bearerAuth", []string{})})
	}
	return doc, nil
}

// openapiSchema builds an object schema. Input schemas leave fields with a
// default out of required.
func openapiSchema(in *Input, e schema.Entity, fields []schema.Field, input bool) (*ir.Map, error) {
	props := ir.NewMap()
	required := []string{}
	for _, f := range fields {
		if _, err := fieldType(e.Name, f); err != nil {
			return nil, err
		}
		props.Set(f.Name, openapiProperty(f, in.Options.IncludeExamples))
		if !f.IsNullable() && !(input && f.HasDefault()) {
			required = append(required, f.Name)
		}
	}

	out := ir.NewMap().Set("type", "object")
	if len(required) > 0 {
		out.Set("required", required)
	}
	out.Set("properties", props)
	if in.Options.IncludeExamples {
		out.Set("example", ExampleObject(fields))
	}
	return out, nil
}

func openapiProperty(f schema.Field, examples bool) *ir.Map {
	t := typemap.MapOpenAPIType(f)
	prop := ir.NewMap().Set("type", t.Type)
	if t.Format != "" {
		prop.Set("format", t.Format)
	}
	if t.MaxLength > 0 {
		prop.Set("maxLength", t.MaxLength)
	}
	if len(t.Enum) > 0 {
		prop.Set("enum", t.Enum)
	}
	if f.IsNullable() {
		prop.Set("nullable", true)
	}
	if f.PrimaryKey {
		prop.Set("readOnly", true)
	}
	if examples {
		prop.Set("example", ExampleValue(f))
	}
	return prop
}

func openapiPaths(e schema.Entity, name, inputName string) (collection, item *ir.Map) {
	one, many := accessorNames(e.Name)
	suffix := naming.ToPascal(one)
	tags := []string{e.Name}
	ref := schemaRef(name)
	inputBody := ir.NewMap().
		Set("required", true).
		Set("content", jsonContent(schemaRef(inputName)))

	collection = ir.NewMap().
		Set("get", ir.NewMap().
			Set("tags", tags).
			Set("summary", "List "+e.Name).
			Set("operationId", "list"+naming.ToPascal(many)).
			Set("parameters", []*ir.Map{
				queryParam("limit", "Maximum number of items to return"),
				queryParam("offset", "Number of items to skip"),
			}).
			Set("responses", ir.NewMap().
				Set("200", response("OK", ir.NewMap().Set("type", "array").Set("items", ref))))).
		Set("post", ir.NewMap().
			Set("tags", tags).
			Set("summary", "Create "+one).
			Set("operationId", "create"+suffix).
			Set("requestBody", inputBody).
			Set("responses", ir.NewMap().
				Set("201", response("Created", ref)).
				Set("400", response("Invalid input", nil))))

	notFound := response("Not found", nil)
	item = ir.NewMap().
		Set("parameters", []*ir.Map{idParam(e)}).
		Set("get", ir.NewMap().
			Set("tags", tags).
			Set("summary", "Get "+one+" by id").
			Set("operationId", "get"+suffix).
			Set("responses", ir.NewMap().
				Set("200", response("OK", ref)).
				Set("404", notFound))).
		Set("put", ir.NewMap().
			Set("tags", tags).
			Set("summary", "Update "+one).
			Set("operationId", "update"+suffix).
			Set("requestBody", inputBody).
			Set("responses", ir.NewMap().
				Set("200", response("OK", ref)).
				Set("400", response("Invalid input", nil)).
				Set("404", notFound))).
		Set("delete", ir.NewMap().
			Set("tags", tags).
			Set("summary", "Delete "+one).
			Set("operationId", "delete"+suffix).
			Set("responses", ir.NewMap().
				Set("204", response("Deleted", nil)).
				Set("404", notFound)))
	return collection, item
}

func idParam(e schema.Entity) *ir.Map {
	typ := ir.NewMap().Set("type", "string")
	if pk, ok := e.PrimaryKey(); ok {
		t := typemap.MapOpenAPIType(*pk)
		typ = ir.NewMap().Set("type", t.Type)
		if t.Format != "" {
			typ.Set("format", t.Format)
		}
	}
	return ir.NewMap().
		Set("name", "id").
		Set("in", "path").
		Set("required", true).
		Set("schema", typ)
}

func queryParam(name, description string) *ir.Map {
	return ir.NewMap().
		Set("name", name).
		Set("in", "query").
		Set("description", description).
		Set("required", false).
		Set("schema", ir.NewMap().Set("type", "integer").Set("minimum", 0))
}

func response(description string, body *ir.Map) *ir.Map {
	r := ir.NewMap().Set("description", description)
	if body != nil {
		r.Set("content", jsonContent(body))
	}
	return r
}

func jsonContent(s *ir.Map) *ir.Map {
	return ir.NewMap().Set("application/json", ir.NewMap().Set("schema", s))
}

func schemaRef(name string) *ir.Map {
	return ir.NewMap().Set("$ref", "#/components/schemas/"+name)
}
