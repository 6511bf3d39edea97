package schema

// Project is the unit handed to the compiler by a schema provider
type Project struct {
	Name         string     `json:"name" yaml:"name"`
	Description  string     `json:"description,omitempty" yaml:"description,omitempty"`
	DatabaseType string     `json:"databaseType,omitempty" yaml:"databaseType,omitempty"`
	BaseURL      string     `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
	Schema       *Schema    `json:"schema" yaml:"schema"`
	Endpoints    []Endpoint `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`
}

// Schema represents a complete entity/relationship model
type Schema struct {
	Entities    []Entity     `json:"entities" yaml:"entities"`
	Connections []Connection `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// Entity represents a table
type Entity struct {
	Name    string  `json:"name" yaml:"name"`
	Fields  []Field `json:"fields" yaml:"fields"`
	Indexes []Index `json:"indexes,omitempty" yaml:"indexes,omitempty"`
}

// Field represents a table column
type Field struct {
	Name         string  `json:"name" yaml:"name"`
	Type         string  `json:"type" yaml:"type"`
	PrimaryKey   bool    `json:"primaryKey,omitempty" yaml:"primaryKey,omitempty"`
	Nullable     bool    `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Unique       bool    `json:"unique,omitempty" yaml:"unique,omitempty"`
	DefaultValue *string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// Connection represents a foreign key relationship. The key lives on
// SourceEntity.SourceField and references TargetEntity.TargetField.
type Connection struct {
	SourceEntity string `json:"sourceEntity" yaml:"sourceEntity"`
	SourceField  string `json:"sourceField" yaml:"sourceField"`
	TargetEntity string `json:"targetEntity" yaml:"targetEntity"`
	TargetField  string `json:"targetField" yaml:"targetField"`
	Cardinality  string `json:"cardinality,omitempty" yaml:"cardinality,omitempty"` // one-to-one, one-to-many, many-to-one
	OnDelete     string `json:"onDelete,omitempty" yaml:"onDelete,omitempty"`
	OnUpdate     string `json:"onUpdate,omitempty" yaml:"onUpdate,omitempty"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	Label        string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Index represents a table index
type Index struct {
	Name   string   `json:"name" yaml:"name"`
	Fields []string `json:"fields" yaml:"fields"`
	Unique bool     `json:"unique,omitempty" yaml:"unique,omitempty"`
}

// Endpoint is an HTTP-method node from the workflow model
type Endpoint struct {
	Method      string            `json:"method" yaml:"method"`
	Path        string            `json:"path" yaml:"path"`
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Entity      string            `json:"entity,omitempty" yaml:"entity,omitempty"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body        string            `json:"body,omitempty" yaml:"body,omitempty"`
}

// Artifact is a generated output file
type Artifact struct {
	Name    string `json:"name"`
	Format  string `json:"format"`
	Content string `json:"content"`
}

// IsNullable reports whether the column accepts NULL. Primary keys never do.
func (f Field) IsNullable() bool {
	return f.Nullable && !f.PrimaryKey
}

// HasDefault reports whether a default value is set
func (f Field) HasDefault() bool {
	return f.DefaultValue != nil && *f.DefaultValue != ""
}

// Field returns the field with the given name
func (e *Entity) Field(name string) (*Field, bool) {
	for i := range e.Fields {
		if e.Fields[i].Name == name {
			return &e.Fields[i], true
		}
	}
	return nil, false
}

// PrimaryKey returns the identity field, if any
func (e *Entity) PrimaryKey() (*Field, bool) {
	for i := range e.Fields {
		if e.Fields[i].PrimaryKey {
			return &e.Fields[i], true
		}
	}
	return nil, false
}

// Entity returns the entity with the given name
func (s *Schema) Entity(name string) (*Entity, bool) {
	for i := range s.Entities {
		if s.Entities[i].Name == name {
			return &s.Entities[i], true
		}
	}
	return nil, false
}

// Title returns a display name for the project
func (p *Project) Title() string {
	if p.Name == "" {
		return "Untitled Project"
	}
	return p.Name
}
