// Package typemap holds the per-target type tables that translate the abstract
// column vocabulary (uuid, varchar(n), enum(...), ...) into target primitives.
//
// Lookups are total: a type that cannot be parsed or is not in the vocabulary
// falls back to the target's string-like type.
package typemap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tordrt/schemaforge/internal/naming"
	"github.com/tordrt/schemaforge/internal/schema"
)

// Fallback is the string-like type each target uses for unmapped input
var Fallback = map[Target]string{
	SQL:        "text",
	Prisma:     "String",
	TypeScript: "string",
	GraphQL:    "String",
	OpenAPI:    "string",
	Postman:    "string",
	Markdown:   "string",
	HTML:       "string",
	JSON:       "string",
	Text:       "string",
}

var prismaTypes = map[schema.Kind]string{
	schema.KindUUID:      "String",
	schema.KindVarchar:   "String",
	schema.KindText:      "String",
	schema.KindInt:       "Int",
	schema.KindBigInt:    "BigInt",
	schema.KindDecimal:   "Decimal",
	schema.KindBoolean:   "Boolean",
	schema.KindTimestamp: "DateTime",
	schema.KindDate:      "DateTime",
	schema.KindJSONB:     "Json",
	schema.KindEnum:      "String",
}

var typescriptTypes = map[schema.Kind]string{
	schema.KindUUID:      "string",
	schema.KindVarchar:   "string",
	schema.KindText:      "string",
	schema.KindInt:       "number",
	schema.KindBigInt:    "number",
	schema.KindDecimal:   "number",
	schema.KindBoolean:   "boolean",
	schema.KindTimestamp: "string",
	schema.KindDate:      "string",
	schema.KindJSONB:     "Record<string, unknown>",
	schema.KindEnum:      "string",
}

var graphqlTypes = map[schema.Kind]string{
	schema.KindUUID:      "ID",
	schema.KindVarchar:   "String",
	schema.KindText:      "String",
	schema.KindInt:       "Int",
	schema.KindBigInt:    "Int",
	schema.KindDecimal:   "Float",
	schema.KindBoolean:   "Boolean",
	schema.KindTimestamp: "DateTime",
	schema.KindDate:      "String",
	schema.KindJSONB:     "JSON",
	schema.KindEnum:      "String",
}

var openapiTypes = map[schema.Kind]OpenAPIType{
	schema.KindUUID:      {Type: "string", Format: "uuid"},
	schema.KindVarchar:   {Type: "string"},
	schema.KindText:      {Type: "string"},
	schema.KindInt:       {Type: "integer", Format: "int32"},
	schema.KindBigInt:    {Type: "integer", Format: "int64"},
	schema.KindDecimal:   {Type: "number", Format: "double"},
	schema.KindBoolean:   {Type: "boolean"},
	schema.KindTimestamp: {Type: "string", Format: "date-time"},
	schema.KindDate:      {Type: "string", Format: "date"},
	schema.KindJSONB:     {Type: "object"},
	schema.KindEnum:      {Type: "string"},
}

// GraphQLScalars are the custom scalars the GraphQL table refers to
var GraphQLScalars = map[string]bool{"DateTime": true, "JSON": true}

// OpenAPIType is the schema fragment for one column
type OpenAPIType struct {
	Type      string
	Format    string
	MaxLength int
	Enum      []string
}

// MapType maps an abstract type to the target's primitive. The result is never empty.
//
// Without a field name there is nothing to derive an enum name from, so enums map
// to an inline string union on typescript and to the string type elsewhere; use
// MapField for named enums.
func MapType(abstract string, target Target) string {
	t, err := schema.ParseType(abstract)
	if err != nil {
		return fallback(target)
	}
	if t.IsEnum() && target == TypeScript {
		return stringUnion(t.Values)
	}
	return mapParsed(t, target)
}

// MapField maps a field's type. Targets with native enums get the derived enum name.
func MapField(f schema.Field, target Target) string {
	t, err := schema.ParseType(f.Type)
	if err != nil {
		return fallback(target)
	}
	if t.IsEnum() {
		switch target {
		case TypeScript, GraphQL, Prisma:
			return EnumName(f.Name)
		}
	}
	return mapParsed(t, target)
}

func mapParsed(t schema.Type, target Target) string {
	var out string
	switch target {
	case SQL:
		out = MapSQLType(t, schema.PostgreSQL)
	case Prisma:
		out = prismaTypes[t.Kind]
	case TypeScript:
		out = typescriptTypes[t.Kind]
	case GraphQL:
		out = graphqlTypes[t.Kind]
	case OpenAPI:
		out = openapiTypes[t.Kind].Type
	default:
		if t.Kind != schema.KindUnknown {
			out = t.String()
		}
	}
	if out == "" {
		return fallback(target)
	}
	return out
}

// MapSQLType renders a column type for a dialect
func MapSQLType(t schema.Type, dialect schema.Dialect) string {
	switch dialect {
	case schema.MySQL:
		return mysqlType(t)
	case schema.SQLite:
		return sqliteType(t)
	default:
		return postgresType(t)
	}
}

func postgresType(t schema.Type) string {
	switch t.Kind {
	case schema.KindUUID:
		return "uuid"
	case schema.KindVarchar:
		if t.Length > 0 {
			return fmt.Sprintf("varchar(%d)", t.Length)
		}
		return "varchar"
	case schema.KindText:
		return "text"
	case schema.KindInt:
		return "integer"
	case schema.KindBigInt:
		return "bigint"
	case schema.KindDecimal:
		return decimalType("decimal", t)
	case schema.KindBoolean:
		return "boolean"
	case schema.KindTimestamp:
		return "timestamp"
	case schema.KindDate:
		return "date"
	case schema.KindJSONB:
		return "jsonb"
	case schema.KindEnum:
		return "varchar(255)"
	default:
		return Fallback[SQL]
	}
}

func mysqlType(t schema.Type) string {
	switch t.Kind {
	case schema.KindUUID:
		return "char(36)"
	case schema.KindVarchar:
		if t.Length > 0 {
			return fmt.Sprintf("varchar(%d)", t.Length)
		}
		return "varchar(255)"
	case schema.KindText:
		return "text"
	case schema.KindInt:
		return "int"
	case schema.KindBigInt:
		return "bigint"
	case schema.KindDecimal:
		if t.Precision == 0 {
			return "decimal(10,2)"
		}
		return decimalType("decimal", t)
	case schema.KindBoolean:
		return "boolean"
	case schema.KindTimestamp:
		return "datetime"
	case schema.KindDate:
		return "date"
	case schema.KindJSONB:
		return "json"
	case schema.KindEnum:
		return "varchar(255)"
	default:
		return Fallback[SQL]
	}
}

func sqliteType(t schema.Type) string {
	switch t.Kind {
	case schema.KindInt, schema.KindBigInt, schema.KindBoolean:
		return "integer"
	case schema.KindDecimal:
		return "numeric"
	case schema.KindTimestamp:
		return "datetime"
	case schema.KindDate:
		return "date"
	default:
		return Fallback[SQL]
	}
}

func decimalType(name string, t schema.Type) string {
	if t.Precision == 0 {
		return name
	}
	return name + "(" + strconv.Itoa(t.Precision) + "," + strconv.Itoa(t.Scale) + ")"
}

// MapOpenAPIType returns the OpenAPI schema fragment for a field
func MapOpenAPIType(f schema.Field) OpenAPIType {
	t, err := schema.ParseType(f.Type)
	if err != nil || t.Kind == schema.KindUnknown {
		return OpenAPIType{Type: Fallback[OpenAPI]}
	}
	out := openapiTypes[t.Kind]
	if t.Kind == schema.KindVarchar {
		out.MaxLength = t.Length
	}
	if t.IsEnum() {
		out.Enum = append([]string(nil), t.Values...)
	}
	return out
}

// EnumName derives the named enum for a field: order_status -> OrderStatus
func EnumName(field string) string {
	name := naming.ToPascal(field)
	if name == "" {
		return "Enum"
	}
	if name[0] >= '0' && name[0] <= '9' {
		return "E" + name
	}
	return name
}

// EnumMember turns an enum value into an identifier usable as a member name
func EnumMember(value string) string {
	name := naming.ToPascal(value)
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		return "V" + name
	}
	return name
}

// GraphQLEnumValue turns an enum value into a GraphQL enum value: in-stock -> IN_STOCK
func GraphQLEnumValue(value string) string {
	name := strings.ToUpper(naming.ToSnake(value))
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		return "_" + name
	}
	return name
}

func stringUnion(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return strings.Join(quoted, " | ")
}

func fallback(target Target) string {
	if f, ok := Fallback[target]; ok {
		return f
	}
	return "string"
}

// MapSQLField renders a field's column type for a dialect, falling back to the
// string-like type when the field's type does not parse
func MapSQLField(f schema.Field, dialect schema.Dialect) string {
	t, err := schema.ParseType(f.Type)
	if err != nil {
		return Fallback[SQL]
	}
	return MapSQLType(t, dialect)
}
