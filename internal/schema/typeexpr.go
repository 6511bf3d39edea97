package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedType is returned for a known parametrized type with broken syntax
var ErrMalformedType = errors.New("malformed type")

// Kind is the base of an abstract column type
type Kind string

const (
	KindUUID      Kind = "uuid"
	KindVarchar   Kind = "varchar"
	KindText      Kind = "text"
	KindInt       Kind = "int"
	KindBigInt    Kind = "bigint"
	KindDecimal   Kind = "decimal"
	KindBoolean   Kind = "boolean"
	KindTimestamp Kind = "timestamp"
	KindDate      Kind = "date"
	KindJSONB     Kind = "jsonb"
	KindEnum      Kind = "enum"
	KindUnknown   Kind = "unknown"
)

// Kinds lists the abstract vocabulary in a stable order
var Kinds = []Kind{
	KindUUID, KindVarchar, KindText, KindInt, KindBigInt, KindDecimal,
	KindBoolean, KindTimestamp, KindDate, KindJSONB, KindEnum,
}

// Type is a parsed abstract column type
type Type struct {
	Kind      Kind
	Raw       string
	Length    int
	Precision int
	Scale     int
	Values    []string
}

// ParseType parses a type from the abstract vocabulary, e.g. varchar(255) or enum(a,b).
// Unknown base names yield KindUnknown without an error.
func ParseType(raw string) (Type, error) {
	s := strings.TrimSpace(raw)
	t := Type{Kind: KindUnknown, Raw: raw}
	if s == "" {
		return t, nil
	}

	base, args, hasArgs, err := splitTypeArgs(s)
	if err != nil {
		return t, fmt.Errorf("%w: %q: %v", ErrMalformedType, raw, err)
	}

	switch strings.ToLower(base) {
	case "uuid":
		t.Kind = KindUUID
	case "varchar":
		t.Kind = KindVarchar
		if hasArgs {
			n, err := parseInts(args, 1)
			if err != nil {
				return Type{Kind: KindUnknown, Raw: raw}, fmt.Errorf("%w: %q: %v", ErrMalformedType, raw, err)
			}
			t.Length = n[0]
		}
	case "text":
		t.Kind = KindText
	case "int":
		t.Kind = KindInt
	case "bigint":
		t.Kind = KindBigInt
	case "decimal":
		t.Kind = KindDecimal
		if hasArgs {
			n, err := parseInts(args, 2)
			if err != nil {
				return Type{Kind: KindUnknown, Raw: raw}, fmt.Errorf("%w: %q: %v", ErrMalformedType, raw, err)
			}
			t.Precision, t.Scale = n[0], n[1]
		}
	case "boolean":
		t.Kind = KindBoolean
	case "timestamp":
		t.Kind = KindTimestamp
	case "date":
		t.Kind = KindDate
	case "jsonb":
		t.Kind = KindJSONB
	case "enum":
		values, err := parseEnumValues(args, hasArgs)
		if err != nil {
			return Type{Kind: KindUnknown, Raw: raw}, fmt.Errorf("%w: %q: %v", ErrMalformedType, raw, err)
		}
		t.Kind = KindEnum
		t.Values = values
	}

	return t, nil
}

// IsEnum reports whether the type is a well-formed enum
func (t Type) IsEnum() bool {
	return t.Kind == KindEnum && len(t.Values) > 0
}

// String renders the type back in the abstract vocabulary
func (t Type) String() string {
	switch t.Kind {
	case KindVarchar:
		if t.Length > 0 {
			return fmt.Sprintf("varchar(%d)", t.Length)
		}
	case KindDecimal:
		if t.Precision > 0 {
			return fmt.Sprintf("decimal(%d,%d)", t.Precision, t.Scale)
		}
	case KindEnum:
		return "enum(" + strings.Join(t.Values, ",") + ")"
	case KindUnknown:
		return t.Raw
	}
	return string(t.Kind)
}

func splitTypeArgs(s string) (base, args string, hasArgs bool, err error) {
	open := strings.IndexByte(s, '(')
	if open == -1 {
		if strings.ContainsRune(s, ')') {
			return "", "", false, errors.New("unbalanced parenthesis")
		}
		return s, "", false, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", "", false, errors.New("missing closing parenthesis")
	}
	return strings.TrimSpace(s[:open]), s[open+1 : len(s)-1], true, nil
}

func parseInts(args string, want int) ([]int, error) {
	parts := strings.Split(args, ",")
	if len(parts) > want {
		return nil, fmt.Errorf("expected at most %d arguments", want)
	}
	out := make([]int, want)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid argument %q", p)
		}
		out[i] = n
	}
	return out, nil
}

func parseEnumValues(args string, hasArgs bool) ([]string, error) {
	if !hasArgs || strings.TrimSpace(args) == "" {
		return nil, errors.New("enum needs at least one value")
	}

	var values []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(args, ",") {
		v := strings.TrimSpace(part)
		// Accept quoted values as written by SQL tools: enum('a','b')
		if len(v) >= 2 && (v[0] == '\'' || v[0] == '"') && v[len(v)-1] == v[0] {
			v = v[1 : len(v)-1]
		}
		if v == "" {
			return nil, errors.New("empty enum value")
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values, nil
}
