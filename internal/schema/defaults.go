package schema

import (
	"strconv"
	"strings"
)

// DefaultKind classifies a field's default value
type DefaultKind int

const (
	DefaultNone DefaultKind = iota
	DefaultLiteral
	DefaultAutoIncrement
	DefaultUUID
	DefaultNow
)

// ClassifyDefault recognizes the abstract generator defaults (auto-increment,
// UUID generation, current timestamp) in their common spellings. Anything else
// is a literal.
func ClassifyDefault(v *string) DefaultKind {
	if v == nil || strings.TrimSpace(*v) == "" {
		return DefaultNone
	}
	token := strings.ToLower(strings.TrimSpace(*v))
	token = strings.TrimSuffix(token, "()")
	switch token {
	case "autoincrement", "auto_increment", "auto-increment", "serial", "identity":
		return DefaultAutoIncrement
	case "uuid", "gen_random_uuid", "uuid_generate_v4", "uuidv4":
		return DefaultUUID
	case "now", "current_timestamp", "current_date", "localtimestamp":
		return DefaultNow
	default:
		return DefaultLiteral
	}
}

// UnquoteDefault strips one level of SQL or JSON string quoting and reports
// whether the value was quoted
func UnquoteDefault(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return strings.ReplaceAll(v[1:len(v)-1], "''", "'"), true
	}
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		if s, err := strconv.Unquote(v); err == nil {
			return s, true
		}
		return v[1 : len(v)-1], true
	}
	return v, false
}

// IsNumericLiteral reports whether v is an integer or decimal literal
func IsNumericLiteral(v string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	return err == nil
}

// IsBoolLiteral reports whether v is true or false in any casing
func IsBoolLiteral(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "false":
		return true
	}
	return false
}

// IsStringLike reports whether values of the kind are written as quoted strings
func (k Kind) IsStringLike() bool {
	switch k {
	case KindUUID, KindVarchar, KindText, KindTimestamp, KindDate, KindEnum, KindJSONB, KindUnknown:
		return true
	}
	return false
}
