// Package db reverse-engineers a live PostgreSQL, MySQL or SQLite database into
// the entity/relationship model. Native column types are normalized to the
// abstract vocabulary, and generator defaults become abstract tokens.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/tordrt/schemaforge/internal/relations"
	"github.com/tordrt/schemaforge/internal/schema"
)

// Introspector extracts a schema from one open database connection
type Introspector interface {
	// ExtractSchema reads the given tables, or every table when tables is empty
	ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error)
	Dialect() schema.Dialect
	Close() error
}

// ParseURL detects the database type and returns the driver connection string
func ParseURL(url string) (schema.Dialect, string, error) {
	if url == "" {
		return "", "", fmt.Errorf("database URL is required")
	}

	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return schema.PostgreSQL, url, nil
	}

	if strings.HasPrefix(url, "mysql://") {
		// Strip mysql:// prefix for the Go MySQL driver
		return schema.MySQL, strings.TrimPrefix(url, "mysql://"), nil
	}

	if strings.HasPrefix(url, "sqlite://") {
		// Strip sqlite:// prefix to get file path
		return schema.SQLite, strings.TrimPrefix(url, "sqlite://"), nil
	}

	return "", "", fmt.Errorf("invalid database URL scheme (must start with postgres://, mysql://, or sqlite://)")
}

// Open connects to the database behind url. schemaName selects the PostgreSQL
// schema (default public) or the MySQL database (default: from the DSN).
func Open(ctx context.Context, url, schemaName string) (Introspector, error) {
	dialect, connStr, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case schema.PostgreSQL:
		if schemaName == "" {
			schemaName = "public"
		}
		return NewPostgresExtractor(ctx, connStr, schemaName)
	case schema.MySQL:
		if schemaName == "" {
			schemaName, err = ParseDatabaseName(connStr)
			if err != nil {
				return nil, fmt.Errorf("failed to determine database name: %w (please specify a schema name)", err)
			}
		}
		return NewMySQLExtractor(ctx, connStr, schemaName)
	default:
		return NewSQLiteExtractor(ctx, connStr)
	}
}

// rawColumn is a column as the catalog reports it
type rawColumn struct {
	Name          string
	NativeType    string
	Nullable      bool
	Default       *string
	Unique        bool
	AutoIncrement bool
	EnumValues    []string
}

// rawForeignKey is a single-column foreign key with its referential actions
type rawForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  string
	OnUpdate  string
}

type rawTable struct {
	Name        string
	Columns     []rawColumn
	PrimaryKey  []string
	ForeignKeys []rawForeignKey
	Indexes     []schema.Index
}

// catalog is the per-dialect half of an Introspector: it lists tables and
// reads one table's columns, keys and indexes
type catalog interface {
	tableNames(ctx context.Context) ([]string, error)
	readTable(ctx context.Context, name string) (*rawTable, error)
}

// extract reads the requested tables, or every table, and builds the schema
func extract(ctx context.Context, c catalog, requested []string) (*schema.Schema, error) {
	tableNames := requested
	if len(tableNames) == 0 {
		var err error
		tableNames, err = c.tableNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get table names: %w", err)
		}
	}

	tables := make([]rawTable, 0, len(tableNames))
	for _, name := range tableNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := c.readTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", name, err)
		}
		tables = append(tables, *t)
	}
	return buildSchema(tables), nil
}

// buildSchema converts catalog rows into entities and connections.
//
// A single-column primary key marks its field; a composite key becomes a unique
// index since an entity carries at most one key field. Single-column unique
// indexes become field flags. Foreign keys on a unique column are one-to-one,
// all others many-to-one.
func buildSchema(tables []rawTable) *schema.Schema {
	s := &schema.Schema{}
	for _, t := range tables {
		e := schema.Entity{Name: t.Name}
		singlePK := ""
		if len(t.PrimaryKey) == 1 {
			singlePK = t.PrimaryKey[0]
		}

		unique := make(map[string]bool)
		for _, col := range t.Columns {
			if col.Unique || col.Name == singlePK {
				unique[col.Name] = true
			}
		}
		for _, idx := range t.Indexes {
			if idx.Unique && len(idx.Fields) == 1 {
				unique[idx.Fields[0]] = true
				continue
			}
			e.Indexes = append(e.Indexes, idx)
		}
		if len(t.PrimaryKey) > 1 {
			e.Indexes = append([]schema.Index{{
				Name:   t.Name + "_pkey",
				Fields: t.PrimaryKey,
				Unique: true,
			}}, e.Indexes...)
		}

		for _, col := range t.Columns {
			f := schema.Field{
				Name:     col.Name,
				Type:     NormalizeType(col.NativeType, col.EnumValues),
				Nullable: col.Nullable,
				Unique:   unique[col.Name],
			}
			if col.AutoIncrement {
				token := "autoincrement"
				f.DefaultValue = &token
			} else {
				f.DefaultValue = NormalizeDefault(col.Default)
			}
			if col.Name == singlePK {
				f.PrimaryKey = true
				f.Nullable = false
				f.Unique = false
			}
			e.Fields = append(e.Fields, f)
		}

		for _, fk := range t.ForeignKeys {
			card := relations.ManyToOne
			if unique[fk.Column] {
				card = relations.OneToOne
			}
			s.Connections = append(s.Connections, schema.Connection{
				SourceEntity: t.Name,
				SourceField:  fk.Column,
				TargetEntity: fk.RefTable,
				TargetField:  fk.RefColumn,
				Cardinality:  string(card),
				OnDelete:     normalizeRule(fk.OnDelete),
				OnUpdate:     normalizeRule(fk.OnUpdate),
			})
		}

		s.Entities = append(s.Entities, e)
	}
	return s
}

func normalizeRule(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	rule, ok := relations.ParseRule(s)
	if !ok {
		return ""
	}
	return string(rule)
}
