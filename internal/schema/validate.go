package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSchema wraps every structural validation failure
var ErrInvalidSchema = errors.New("invalid schema")

// Validate checks the structural shape of the project. It does not look at
// connections; dangling connections are handled by the relationship resolver.
func (p *Project) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: project is missing", ErrInvalidSchema)
	}
	if p.Schema == nil {
		return fmt.Errorf("%w: project %q has no schema", ErrInvalidSchema, p.Name)
	}
	return p.Schema.Validate()
}

// Validate checks entity and field naming and primary key uniqueness
func (s *Schema) Validate() error {
	var problems []string

	entityNames := make(map[string]bool, len(s.Entities))
	for i, e := range s.Entities {
		if strings.TrimSpace(e.Name) == "" {
			problems = append(problems, fmt.Sprintf("entity #%d has no name", i+1))
			continue
		}
		if entityNames[e.Name] {
			problems = append(problems, fmt.Sprintf("duplicate entity %q", e.Name))
		}
		entityNames[e.Name] = true

		fieldNames := make(map[string]bool, len(e.Fields))
		pkCount := 0
		for j, f := range e.Fields {
			if strings.TrimSpace(f.Name) == "" {
				problems = append(problems, fmt.Sprintf("%s: field #%d has no name", e.Name, j+1))
				continue
			}
			if fieldNames[f.Name] {
				problems = append(problems, fmt.Sprintf("%s: duplicate field %q", e.Name, f.Name))
			}
			fieldNames[f.Name] = true
			if f.PrimaryKey {
				pkCount++
			}
		}
		if pkCount > 1 {
			problems = append(problems, fmt.Sprintf("%s: %d primary key fields, at most one allowed", e.Name, pkCount))
		}

		for _, idx := range e.Indexes {
			if len(idx.Fields) == 0 {
				problems = append(problems, fmt.Sprintf("%s: index %q has no fields", e.Name, idx.Name))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSchema, strings.Join(problems, "; "))
	}
	return nil
}
