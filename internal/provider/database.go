package provider

import (
	"context"
	"fmt"

	"github.com/tordrt/schemaforge/internal/db"
	"github.com/tordrt/schemaforge/internal/schema"
)

// Database introspects a live database. The reference is its URL
// (postgres://, mysql:// or sqlite://).
type Database struct {
	// Tables limits extraction to these tables (all tables when empty)
	Tables []string
	// Exclude drops tables after extraction, together with their connections
	Exclude []string
	// SchemaName is the PostgreSQL schema or MySQL database
	SchemaName string
	// Name of the resulting project (defaults to the schema or database name)
	Name string

	open func(ctx context.Context, url, schemaName string) (db.Introspector, error)
}

// LoadProject implements SchemaProvider
func (p Database) LoadProject(ctx context.Context, ref string) (*schema.Project, error) {
	open := p.open
	if open == nil {
		open = db.Open
	}

	conn, err := open(ctx, ref, p.SchemaName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	s, err := conn.ExtractSchema(ctx, p.Tables)
	if err != nil {
		return nil, fmt.Errorf("failed to extract schema: %w", err)
	}
	for _, name := range p.Exclude {
		s.RemoveEntity(name)
	}
	// Tables filtered with --tables can leave foreign keys pointing outside the set
	s.PruneDanglingConnections()

	name := p.Name
	if name == "" {
		name = p.SchemaName
	}
	if name == "" {
		name = string(conn.Dialect())
	}
	return &schema.Project{
		Name:         name,
		DatabaseType: string(conn.Dialect()),
		Schema:       s,
	}, nil
}
