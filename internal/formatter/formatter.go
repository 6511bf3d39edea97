// Package formatter contains one emitter per output target. Every emitter is a
// pure function of its Input: it assembles a target IR from the project model
// and hands it to the matching serializer in package ir.
package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tordrt/schemaforge/internal/config"
	"github.com/tordrt/schemaforge/internal/naming"
	"github.com/tordrt/schemaforge/internal/relations"
	"github.com/tordrt/schemaforge/internal/schema"
	"github.com/tordrt/schemaforge/internal/typemap"
)

// DefaultBaseURL is used when neither the options nor the project set one
const DefaultBaseURL = "http://localhost:3000/api"

// Input is everything an emitter reads during one generation pass
type Input struct {
	Project     *schema.Project
	Resolved    []relations.Resolved
	Options     config.Options
	Dialect     schema.Dialect
	GeneratedAt time.Time
}

// Formatter renders a project into one target format
type Formatter interface {
	Target() typemap.Target
	Format(w io.Writer, in *Input) error
}

var registry = map[typemap.Target]Formatter{
	typemap.SQL:        SQLFormatter{},
	typemap.Prisma:     PrismaFormatter{},
	typemap.TypeScript: TypeScriptFormatter{},
	typemap.GraphQL:    GraphQLFormatter{},
	typemap.OpenAPI:    OpenAPIFormatter{},
	typemap.Postman:    PostmanFormatter{},
	typemap.Markdown:   NewMarkdownFormatter(),
	typemap.HTML:       NewHTMLFormatter(),
	typemap.JSON:       JSONFormatter{},
	typemap.Text:       TextFormatter{},
}

// For returns the formatter for a target
func For(target typemap.Target) (Formatter, bool) {
	f, ok := registry[target]
	return f, ok
}

// FileName builds the artifact name <project-slug>_<kind>.<ext>
func FileName(projectName string, target typemap.Target, opts config.Options) string {
	slug := naming.Slug(projectName)
	switch target {
	case typemap.SQL:
		return slug + "_schema.sql"
	case typemap.Prisma:
		return slug + "_schema.prisma"
	case typemap.TypeScript:
		return slug + "_types.ts"
	case typemap.GraphQL:
		return slug + "_schema.graphql"
	case typemap.OpenAPI:
		if opts.OpenAPIJSON() {
			return slug + "_openapi.json"
		}
		return slug + "_openapi.yaml"
	case typemap.Postman:
		return slug + "_collection.json"
	case typemap.Markdown:
		return slug + "_docs.md"
	case typemap.HTML:
		return slug + "_docs.html"
	case typemap.JSON:
		return slug + "_project.json"
	case typemap.Text:
		return slug + "_schema.txt"
	default:
		return slug + "_" + string(target) + ".txt"
	}
}

// Entities returns the schema's entities, or nil when there is no schema
func (in *Input) Entities() []schema.Entity {
	if in.Project == nil || in.Project.Schema == nil {
		return nil
	}
	return in.Project.Schema.Entities
}

// BaseURL returns the API base URL without a trailing slash
func (in *Input) BaseURL() string {
	url := in.Options.BaseURL
	if url == "" && in.Project != nil {
		url = in.Project.BaseURL
	}
	if url == "" {
		url = DefaultBaseURL
	}
	return strings.TrimRight(url, "/")
}

// Endpoints returns the workflow endpoints
func (in *Input) Endpoints() []schema.Endpoint {
	if in.Project == nil {
		return nil
	}
	return in.Project.Endpoints
}

// auditFields are excluded from input/create payloads
var auditFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"deleted_at": true,
}

// IsAuditField reports whether the field is a managed timestamp, in any casing
func IsAuditField(name string) bool {
	return auditFields[naming.ToSnake(name)]
}

// InputFields returns the fields accepted on create/update: no primary key and
// no audit timestamps
func InputFields(e schema.Entity) []schema.Field {
	var out []schema.Field
	for _, f := range e.Fields {
		if f.PrimaryKey || IsAuditField(f.Name) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// header lines shared by the code-like targets
func generatedHeader(in *Input, extra ...string) []string {
	lines := []string{"Generated by schemaforge for " + in.Project.Title() + ". Do not edit."}
	if in.Project.Description != "" {
		lines = append(lines, oneLine(in.Project.Description))
	}
	return append(lines, extra...)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// fieldType parses a field's type for emitters that need its structure. Only
// a malformed enum fails, since its values cannot be recovered; other broken
// types fall back to the string-like KindUnknown.
func fieldType(entity string, f schema.Field) (schema.Type, error) {
	t, err := schema.ParseType(f.Type)
	if err == nil {
		return t, nil
	}
	if isEnumSyntax(f.Type) {
		return t, fmt.Errorf("%s.%s: %w", entity, f.Name, err)
	}
	return schema.Type{Kind: schema.KindUnknown, Raw: f.Type}, nil
}

func isEnumSyntax(raw string) bool {
	base, _, _ := strings.Cut(strings.TrimSpace(raw), "(")
	return strings.EqualFold(strings.TrimSpace(base), "enum")
}

// typeNames assigns every entity a distinct type name derived by name
func typeNames(entities []schema.Entity, name func(string) string) map[string]string {
	names := make(map[string]string, len(entities))
	used := make(map[string]bool, len(entities))
	for _, e := range entities {
		base := name(e.Name)
		if base == "" {
			base = "Entity"
		}
		candidate := base
		for i := 2; used[candidate]; i++ {
			candidate = fmt.Sprintf("%s%d", base, i)
		}
		used[candidate] = true
		names[e.Name] = candidate
	}
	return names
}

// inputNames assigns every entity a distinct <Type>Input name that collides
// with neither a type name nor another input name
func inputNames(entities []schema.Entity, names map[string]string) map[string]string {
	used := reservedNames(names)
	out := make(map[string]string, len(entities))
	for _, e := range entities {
		base := names[e.Name] + "Input"
		candidate := base
		for i := 2; used[candidate]; i++ {
			candidate = fmt.Sprintf("%s%d", base, i)
		}
		used[candidate] = true
		out[e.Name] = candidate
	}
	return out
}

func reservedNames(names map[string]string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, name := range names {
		out[name] = true
	}
	return out
}

type enumDef struct {
	Name   string
	Values []string
}

// enumSet is the named enums of a schema: one per distinct derived name, the
// first definition winning. Field lookups go through Name.
type enumSet struct {
	Defs    []enumDef
	byField map[string]string
}

// Name returns the enum type of an enum field
func (s enumSet) Name(entity, field string) string {
	return s.byField[entity+"."+field]
}

// collectEnums derives the enums of all entities. Names already used by other
// types get an Enum suffix.
func collectEnums(entities []schema.Entity, reserved map[string]bool) (enumSet, error) {
	set := enumSet{byField: make(map[string]string)}
	seen := make(map[string]bool)
	for _, e := range entities {
		for _, f := range e.Fields {
			t, err := fieldType(e.Name, f)
			if err != nil {
				return set, err
			}
			if !t.IsEnum() {
				continue
			}
			name := typemap.EnumName(f.Name)
			if reserved[name] {
				name += "Enum"
			}
			set.byField[e.Name+"."+f.Name] = name
			if seen[name] {
				continue
			}
			seen[name] = true
			set.Defs = append(set.Defs, enumDef{Name: name, Values: t.Values})
		}
	}
	return set, nil
}
