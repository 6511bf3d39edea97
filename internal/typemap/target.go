package typemap

import (
	"fmt"
	"sort"
	"strings"
)

// Target identifies one supported output format
type Target string

const (
	SQL        Target = "sql"
	Prisma     Target = "prisma"
	TypeScript Target = "typescript"
	GraphQL    Target = "graphql"
	OpenAPI    Target = "openapi"
	Postman    Target = "postman"
	Markdown   Target = "markdown"
	HTML       Target = "html"
	JSON       Target = "json"
	Text       Target = "text"
)

// Targets lists every target in the order they are presented to users
var Targets = []Target{SQL, Prisma, TypeScript, GraphQL, OpenAPI, Postman, Markdown, HTML, JSON, Text}

var aliases = map[string]Target{
	"ddl":        SQL,
	"orm":        Prisma,
	"ts":         TypeScript,
	"types":      TypeScript,
	"gql":        GraphQL,
	"sdl":        GraphQL,
	"swagger":    OpenAPI,
	"collection": Postman,
	"md":         Markdown,
	"docs":       Markdown,
	"raw":        JSON,
	"txt":        Text,
}

// ParseTarget resolves a target id or alias, case-insensitively
func ParseTarget(s string) (Target, error) {
	id := strings.ToLower(strings.TrimSpace(s))
	for _, t := range Targets {
		if string(t) == id {
			return t, nil
		}
	}
	if t, ok := aliases[id]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown target %q", s)
}

// Aliases returns the alternative spellings accepted for a target
func Aliases(t Target) []string {
	var out []string
	for alias, target := range aliases {
		if target == t {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}
