package db

import (
	"strings"
)

// NormalizeType maps a native column type to the abstract vocabulary. Types
// outside the vocabulary are returned lowercased as written; emitters treat
// them as string-like.
func NormalizeType(native string, enumValues []string) string {
	if len(enumValues) > 0 {
		return enumType(enumValues)
	}

	t := strings.ToLower(strings.TrimSpace(native))
	t = strings.TrimSpace(strings.ReplaceAll(t, " unsigned", ""))
	t = strings.TrimSpace(strings.ReplaceAll(t, " zerofill", ""))

	base, args := t, ""
	if open := strings.IndexByte(t, '('); open != -1 && strings.HasSuffix(t, ")") {
		base = strings.TrimSpace(t[:open])
		args = strings.ReplaceAll(t[open+1:len(t)-1], " ", "")
	}

	switch base {
	case "uuid":
		return "uuid"
	case "varchar", "character varying", "nvarchar", "char", "character", "nchar", "bpchar":
		if args != "" {
			return "varchar(" + args + ")"
		}
		return "varchar"
	case "text", "tinytext", "mediumtext", "longtext", "clob", "citext", "ntext":
		return "text"
	case "tinyint":
		if args == "1" {
			return "boolean"
		}
		return "int"
	case "int", "integer", "int2", "int4", "smallint", "mediumint", "serial", "smallserial":
		return "int"
	case "bigint", "int8", "bigserial":
		return "bigint"
	case "decimal", "numeric":
		if args != "" {
			return "decimal(" + args + ")"
		}
		return "decimal"
	case "real", "double", "double precision", "float", "float4", "float8", "money":
		return "decimal"
	case "boolean", "bool", "bit":
		return "boolean"
	case "timestamp", "timestamptz", "datetime", "timestamp with time zone", "timestamp without time zone":
		return "timestamp"
	case "date":
		return "date"
	case "json", "jsonb":
		return "jsonb"
	default:
		return t
	}
}

func enumType(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return "enum(" + strings.Join(quoted, ",") + ")"
}

// NormalizeDefault turns catalog defaults into model defaults: sequence and
// generator expressions become the abstract autoincrement, uuid and now tokens,
// type casts are stripped and NULL defaults are dropped.
func NormalizeDefault(raw *string) *string {
	if raw == nil {
		return nil
	}
	v := strings.TrimSpace(*raw)
	lower := strings.ToLower(v)

	token := func(s string) *string { return &s }
	switch {
	case v == "", lower == "null", strings.HasPrefix(lower, "null::"):
		return nil
	case strings.HasPrefix(lower, "nextval("):
		return token("autoincrement")
	case strings.Contains(lower, "gen_random_uuid"), strings.Contains(lower, "uuid_generate"),
		lower == "uuid()", lower == "(uuid())":
		return token("uuid")
	case lower == "now()", strings.HasPrefix(lower, "current_timestamp"), lower == "localtimestamp",
		lower == "current_date", strings.Contains(lower, "datetime('now')"), strings.HasPrefix(lower, "timezone("):
		return token("now")
	}

	// Strip PostgreSQL casts: 'active'::character varying -> 'active'
	if strings.HasPrefix(v, "'") {
		if i := strings.LastIndex(v, "'::"); i > 0 {
			v = v[:i+1]
		}
	}
	// SQLite keeps expression parentheses: (0) -> 0
	for len(v) >= 2 && v[0] == '(' && v[len(v)-1] == ')' {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	return &v
}
