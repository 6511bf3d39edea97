// Package relations validates connections against the entity set and normalizes
// them into a target-agnostic, deterministically ordered form.
package relations

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tordrt/schemaforge/internal/naming"
	"github.com/tordrt/schemaforge/internal/schema"
)

// Cardinality of a relationship, read from the target entity's side
type Cardinality string

const (
	OneToOne   Cardinality = "one-to-one"
	OneToMany  Cardinality = "one-to-many"
	ManyToOne  Cardinality = "many-to-one"
	defaultCar             = ManyToOne
)

// Rule is a referential action
type Rule string

const (
	Cascade  Rule = "CASCADE"
	SetNull  Rule = "SET NULL"
	Restrict Rule = "RESTRICT"
	NoAction Rule = "NO ACTION"
)

// Resolved is a connection whose endpoints exist, with normalized rules
type Resolved struct {
	Connection  schema.Connection
	Source      *schema.Entity
	Target      *schema.Entity
	SourceField *schema.Field
	TargetField *schema.Field
	Cardinality Cardinality
	OnDelete    Rule
	OnUpdate    Rule

	// ForwardName is the relation field on the source entity (user_id -> user)
	ForwardName string
	// BackrefName is the relation field on the target entity (orders, or order for one-to-one)
	BackrefName string
	// RelationName is set when the entity pair needs disambiguation
	RelationName string
	// Constraint is the foreign key constraint name, unique across the schema
	Constraint string
}

// Warning describes a connection that was dropped
type Warning struct {
	Connection schema.Connection
	Reason     string
}

func (w Warning) String() string {
	c := w.Connection
	return fmt.Sprintf("connection %s.%s -> %s.%s dropped: %s", c.SourceEntity, c.SourceField, c.TargetEntity, c.TargetField, w.Reason)
}

// IsList reports whether the back-reference holds many source rows
func (r Resolved) IsList() bool {
	return r.Cardinality != OneToOne
}

// ConstraintName is the foreign key constraint name: fk_<entity>_<field>, with
// a numeric suffix when several connections share the source field
func (r Resolved) ConstraintName() string {
	if r.Constraint != "" {
		return r.Constraint
	}
	return "fk_" + r.Connection.SourceEntity + "_" + r.Connection.SourceField
}

// Resolve matches connections to entities and fields. Connections with a missing
// endpoint are excluded from the result and reported as warnings. The input is
// not modified.
func Resolve(entities []schema.Entity, connections []schema.Connection) ([]Resolved, []Warning) {
	byName := make(map[string]*schema.Entity, len(entities))
	for i := range entities {
		byName[entities[i].Name] = &entities[i]
	}

	var resolved []Resolved
	var warnings []Warning

	for _, c := range connections {
		src, srcOK := byName[c.SourceEntity]
		dst, dstOK := byName[c.TargetEntity]
		switch {
		case !srcOK && !dstOK:
			warnings = append(warnings, Warning{Connection: c, Reason: "source and target entities do not exist"})
			continue
		case !srcOK:
			warnings = append(warnings, Warning{Connection: c, Reason: fmt.Sprintf("source entity %q does not exist", c.SourceEntity)})
			continue
		case !dstOK:
			warnings = append(warnings, Warning{Connection: c, Reason: fmt.Sprintf("target entity %q does not exist", c.TargetEntity)})
			continue
		}

		srcField, ok := src.Field(c.SourceField)
		if !ok {
			warnings = append(warnings, Warning{Connection: c, Reason: fmt.Sprintf("source field %q does not exist", c.SourceField)})
			continue
		}
		dstField, ok := dst.Field(c.TargetField)
		if !ok {
			warnings = append(warnings, Warning{Connection: c, Reason: fmt.Sprintf("target field %q does not exist", c.TargetField)})
			continue
		}

		r := Resolved{
			Connection:  c,
			Source:      src,
			Target:      dst,
			SourceField: srcField,
			TargetField: dstField,
			Cardinality: ParseCardinality(c.Cardinality),
		}

		var okRule bool
		if r.OnDelete, okRule = ParseRule(c.OnDelete); !okRule {
			warnings = append(warnings, Warning{Connection: c, Reason: fmt.Sprintf("unknown onDelete rule %q, using RESTRICT", c.OnDelete)})
		}
		if r.OnUpdate, okRule = ParseRule(c.OnUpdate); !okRule {
			warnings = append(warnings, Warning{Connection: c, Reason: fmt.Sprintf("unknown onUpdate rule %q, using RESTRICT", c.OnUpdate)})
		}

		resolved = append(resolved, r)
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		a, b := resolved[i].Connection, resolved[j].Connection
		if a.SourceEntity != b.SourceEntity {
			return a.SourceEntity < b.SourceEntity
		}
		if a.SourceField != b.SourceField {
			return a.SourceField < b.SourceField
		}
		if a.TargetEntity != b.TargetEntity {
			return a.TargetEntity < b.TargetEntity
		}
		return a.TargetField < b.TargetField
	})

	assignNames(resolved)
	return resolved, warnings
}

// ParseRule normalizes a referential action. Empty input means RESTRICT; the
// second result is false when the input was not recognized.
func ParseRule(s string) (Rule, bool) {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	switch strings.Join(strings.Fields(key), " ") {
	case "":
		return Restrict, true
	case "CASCADE":
		return Cascade, true
	case "SET NULL", "SETNULL":
		return SetNull, true
	case "RESTRICT":
		return Restrict, true
	case "NO ACTION", "NOACTION":
		return NoAction, true
	default:
		return Restrict, false
	}
}

// ParseCardinality normalizes the accepted cardinality spellings
func ParseCardinality(s string) Cardinality {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one-to-one", "one_to_one", "onetoone", "1:1":
		return OneToOne
	case "one-to-many", "one_to_many", "onetomany", "1:n":
		return OneToMany
	case "many-to-one", "many_to_one", "manytoone", "n:1":
		return ManyToOne
	default:
		return defaultCar
	}
}

// Incoming returns the relationships that target the entity
func Incoming(resolved []Resolved, entity string) []Resolved {
	var out []Resolved
	for _, r := range resolved {
		if r.Connection.TargetEntity == entity {
			out = append(out, r)
		}
	}
	return out
}

// Outgoing returns the relationships whose foreign key lives on the entity
func Outgoing(resolved []Resolved, entity string) []Resolved {
	var out []Resolved
	for _, r := range resolved {
		if r.Connection.SourceEntity == entity {
			out = append(out, r)
		}
	}
	return out
}

// assignNames derives relation field names and marks ambiguous entity pairs.
// Names never collide with an existing column of the same entity.
func assignNames(resolved []Resolved) {
	pairs := make(map[string]int)
	for _, r := range resolved {
		pairs[pairKey(r)]++
	}

	taken := make(map[string]map[string]bool)
	claim := func(entity *schema.Entity, name string) string {
		used, ok := taken[entity.Name]
		if !ok {
			used = make(map[string]bool)
			for _, f := range entity.Fields {
				used[f.Name] = true
			}
			taken[entity.Name] = used
		}
		candidate := name
		for i := 2; used[candidate]; i++ {
			candidate = fmt.Sprintf("%s%d", name, i)
		}
		used[candidate] = true
		return candidate
	}

	constraints := make(map[string]bool)

	for i := range resolved {
		r := &resolved[i]
		c := r.Connection

		fk := "fk_" + c.SourceEntity + "_" + c.SourceField
		r.Constraint = fk
		for n := 2; constraints[r.Constraint]; n++ {
			r.Constraint = fmt.Sprintf("%s%d", fk, n)
		}
		constraints[r.Constraint] = true

		forward := strings.TrimSuffix(strings.TrimSuffix(c.SourceField, "_id"), "Id")
		if forward == "" || forward == c.SourceField {
			forward = naming.Singular(naming.ToSnake(c.TargetEntity))
		}
		r.ForwardName = claim(r.Source, naming.ToSnake(forward))

		back := naming.ToSnake(c.SourceEntity)
		if r.IsList() {
			back = naming.Plural(back)
		} else {
			back = naming.Singular(back)
		}
		if pairs[pairKey(*r)] > 1 {
			back = back + "_by_" + r.ForwardName
		}
		r.BackrefName = claim(r.Target, back)

		switch {
		case c.Name != "":
			r.RelationName = c.Name
		case c.Label != "":
			r.RelationName = c.Label
		case pairs[pairKey(*r)] > 1 || c.SourceEntity == c.TargetEntity:
			r.RelationName = c.SourceEntity + "_" + c.SourceField
		}
	}
}

func pairKey(r Resolved) string {
	a, b := r.Connection.SourceEntity, r.Connection.TargetEntity
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}
