package formatter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/tordrt/schemaforge/internal/ir"
	"github.com/tordrt/schemaforge/internal/schema"
)

const exampleUUID = "3fa85f64-5717-4562-b3fc-2c963f66afa6"

// ExampleValue returns a plausible value for a field, used in request and
// response examples
func ExampleValue(f schema.Field) any {
	t, err := schema.ParseType(f.Type)
	if err != nil {
		return "string"
	}

	if schema.ClassifyDefault(f.DefaultValue) == schema.DefaultLiteral && !t.IsEnum() {
		v, _ := schema.UnquoteDefault(*f.DefaultValue)
		switch {
		case t.Kind == schema.KindBoolean && schema.IsBoolLiteral(v):
			return strings.EqualFold(v, "true")
		case (t.Kind == schema.KindInt || t.Kind == schema.KindBigInt) && schema.IsNumericLiteral(v):
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n
			}
		case t.Kind == schema.KindDecimal && schema.IsNumericLiteral(v):
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				return n
			}
		case t.Kind == schema.KindVarchar || t.Kind == schema.KindText:
			return v
		}
	}

	switch t.Kind {
	case schema.KindUUID:
		return exampleUUID
	case schema.KindInt, schema.KindBigInt:
		return 1
	case schema.KindDecimal:
		return 9.99
	case schema.KindBoolean:
		return true
	case schema.KindTimestamp:
		return "2024-01-01T00:00:00Z"
	case schema.KindDate:
		return "2024-01-01"
	case schema.KindJSONB:
		return ir.NewMap()
	case schema.KindEnum:
		return t.Values[0]
	default:
		return exampleString(f.Name)
	}
}

func exampleString(field string) string {
	name := strings.ToLower(field)
	switch {
	case strings.Contains(name, "email"):
		return "user@example.com"
	case strings.Contains(name, "url"), strings.Contains(name, "website"):
		return "https://example.com"
	case strings.Contains(name, "phone"):
		return "+1-555-0100"
	case strings.Contains(name, "password"):
		return "********"
	case strings.Contains(name, "name"), strings.Contains(name, "title"):
		return "Example " + strings.ReplaceAll(name, "_", " ")
	default:
		return "string"
	}
}

// ExampleObject builds an ordered example payload from the given fields
func ExampleObject(fields []schema.Field) *ir.Map {
	obj := ir.NewMap()
	for _, f := range fields {
		obj.Set(f.Name, ExampleValue(f))
	}
	return obj
}

// ExampleJSON renders an example payload as indented JSON without the
// trailing newline
func ExampleJSON(v any) (string, error) {
	var buf bytes.Buffer
	if err := ir.RenderJSON(&buf, v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
