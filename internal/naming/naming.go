// Package naming converts identifiers between the casing conventions used by
// the generated artifacts and handles pluralization of entity names.
//
// Every casing function is total over ASCII identifiers and idempotent:
// applying it twice gives the same result as applying it once.
package naming

import (
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
)

var (
	pascalIdent = regexp.MustCompile(`^[A-Z0-9][A-Za-z0-9]*$`)
	camelIdent  = regexp.MustCompile(`^[a-z0-9][A-Za-z0-9]*$`)
)

// ToPascal converts an identifier to PascalCase: order_items -> OrderItems.
// Identifiers that are already PascalCase are returned as is.
func ToPascal(s string) string {
	if pascalIdent.MatchString(s) {
		return s
	}
	return strcase.ToCamel(clean(s))
}

// ToCamel converts an identifier to camelCase: order_items -> orderItems.
// Identifiers that are already camelCase are returned as is.
func ToCamel(s string) string {
	if camelIdent.MatchString(s) {
		return s
	}
	return strcase.ToLowerCamel(clean(s))
}

// ToSnake converts an identifier to snake_case: OrderItems -> order_items
func ToSnake(s string) string {
	return collapse(strcase.ToSnake(clean(s)), '_')
}

// ToKebab converts an identifier to kebab-case: OrderItems -> order-items
func ToKebab(s string) string {
	return collapse(strcase.ToKebab(clean(s)), '-')
}

// Plural returns the plural form of the last word: order_item -> order_items
func Plural(s string) string {
	if s == "" {
		return s
	}
	return inflection.Plural(s)
}

// Singular returns the singular form of the last word: order_items -> order_item
func Singular(s string) string {
	if s == "" {
		return s
	}
	return inflection.Singular(s)
}

// TypeName derives a class/type name from an entity name: order_items -> OrderItem
func TypeName(entity string) string {
	return ToPascal(Singular(ToSnake(entity)))
}

// Slug derives the project file prefix: "My Shop" -> my-shop
func Slug(project string) string {
	var b strings.Builder
	for _, r := range project {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	slug := ToKebab(strings.TrimSpace(b.String()))
	if slug == "" {
		return "project"
	}
	return slug
}

// clean turns every character outside [A-Za-z0-9] into an underscore and trims
// the underscores from both ends
func clean(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
	return strings.Trim(s, "_")
}

// collapse squeezes repeated delimiters and trims them from both ends so that
// inputs like "__id" and "a--b" normalize the same way on every pass.
func collapse(s string, delim byte) string {
	var b strings.Builder
	b.Grow(len(s))
	prev := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == delim {
			if prev {
				continue
			}
			prev = true
		} else {
			prev = false
		}
		b.WriteByte(c)
	}
	return strings.TrimRight(b.String(), string(delim))
}
