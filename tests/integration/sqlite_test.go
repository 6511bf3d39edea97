//go:build integration
// +build integration

package integration

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tordrt/schemaforge/internal/config"
	"github.com/tordrt/schemaforge/internal/db"
	"github.com/tordrt/schemaforge/internal/generator"
	"github.com/tordrt/schemaforge/internal/provider"
)

const sqliteFixture = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	username VARCHAR(50) NOT NULL UNIQUE,
	email TEXT NOT NULL,
	status TEXT DEFAULT 'active',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE products (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	price DECIMAL(10,2) NOT NULL,
	category TEXT
);
CREATE INDEX idx_category ON products(category);
CREATE TABLE orders (
	id INTEGER PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	total DECIMAL(10,2),
	paid BOOLEAN DEFAULT 0
);
CREATE TABLE order_items (
	order_id INTEGER NOT NULL REFERENCES orders(id),
	product_id INTEGER NOT NULL REFERENCES products,
	quantity INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (order_id, product_id)
);
`

// sqlitePath returns SQLITE_TEST_PATH, or a fresh database seeded with the fixture
func sqlitePath(t *testing.T) string {
	t.Helper()

	if p := os.Getenv("SQLITE_TEST_PATH"); p != "" {
		return p
	}

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to create SQLite database: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Exec(sqliteFixture); err != nil {
		t.Fatalf("Failed to seed SQLite database: %v", err)
	}
	return path
}

func TestSQLiteExtraction(t *testing.T) {
	ctx := context.Background()

	extractor, err := db.NewSQLiteExtractor(ctx, sqlitePath(t))
	if err != nil {
		t.Fatalf("Failed to connect to SQLite: %v", err)
	}
	defer extractor.Close()

	s, err := extractor.ExtractSchema(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to extract schema: %v", err)
	}

	verifyTablesExist(t, s, []string{"users", "products", "orders", "order_items"})

	users := findTable(t, s, "users")
	verifyPrimaryKey(t, users, "id")
	verifyColumns(t, users, []string{"id", "username", "email", "status", "created_at"})
	verifyUniqueConstraint(t, s, "users", "username")
	verifyFieldType(t, s, "users", "username", "varchar(50)")
	verifyFieldType(t, s, "users", "created_at", "timestamp")
	verifyFieldType(t, s, "orders", "paid", "boolean")
	verifyFieldType(t, s, "products", "price", "decimal(10,2)")

	if f, _ := users.Field("created_at"); f.DefaultValue == nil || *f.DefaultValue != "now" {
		t.Errorf("Expected created_at default now, got %v", f.DefaultValue)
	}
	if f, _ := users.Field("id"); f.DefaultValue == nil || *f.DefaultValue != "autoincrement" {
		t.Errorf("Expected id default autoincrement, got %v", f.DefaultValue)
	}

	if c := verifyForeignKey(t, s, "orders", "user_id", "users"); c != nil {
		if c.OnDelete != "CASCADE" {
			t.Errorf("Expected ON DELETE CASCADE, got %q", c.OnDelete)
		}
		if c.Cardinality != "many-to-one" {
			t.Errorf("Expected many-to-one, got %q", c.Cardinality)
		}
	}
	// REFERENCES products without a column list points at its key
	if c := verifyForeignKey(t, s, "order_items", "product_id", "products"); c != nil && c.TargetField != "id" {
		t.Errorf("Expected target field id, got %q", c.TargetField)
	}

	verifyIndex(t, s, "products", "idx_category", []string{"category"})
	verifyIndex(t, s, "order_items", "order_items_pkey", []string{"order_id", "product_id"})
}

func TestSQLiteSpecificTables(t *testing.T) {
	ctx := context.Background()

	p := provider.Database{Tables: []string{"users", "orders"}}
	project, err := p.LoadProject(ctx, "sqlite://"+sqlitePath(t))
	if err != nil {
		t.Fatalf("Failed to import: %v", err)
	}

	verifyTablesExist(t, project.Schema, []string{"users", "orders"})
	if project.DatabaseType != "sqlite" {
		t.Errorf("Expected databaseType sqlite, got %s", project.DatabaseType)
	}
	verifyForeignKey(t, project.Schema, "orders", "user_id", "users")
}

func TestSQLiteExclusionDropsConnections(t *testing.T) {
	ctx := context.Background()

	p := provider.Database{Exclude: []string{"users"}, Name: "shop"}
	project, err := p.LoadProject(ctx, "sqlite://"+sqlitePath(t))
	if err != nil {
		t.Fatalf("Failed to import: %v", err)
	}

	verifyTablesExist(t, project.Schema, []string{"products", "orders", "order_items"})
	for _, c := range project.Schema.Connections {
		if c.TargetEntity == "users" || c.SourceEntity == "users" {
			t.Errorf("Connection to excluded table kept: %+v", c)
		}
	}
}

func TestSQLiteImportThenGenerate(t *testing.T) {
	ctx := context.Background()

	p := provider.Database{Name: "shop"}
	opts := config.Default()
	opts.Targets = []string{"sql", "prisma", "graphql"}

	res, err := generator.New().GenerateFrom(ctx, p, "sqlite://"+sqlitePath(t), opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(res.Errors) > 0 {
		t.Fatalf("Unexpected emit errors: %v", res.Errors)
	}
	if len(res.Artifacts) != 3 {
		t.Fatalf("Expected 3 artifacts, got %d", len(res.Artifacts))
	}

	ddl := res.Artifacts[0].Content
	for _, want := range []string{"CREATE TABLE users (", "REFERENCES users (id) ON DELETE CASCADE", "CREATE INDEX idx_category"} {
		if !strings.Contains(ddl, want) {
			t.Errorf("Expected DDL to contain %q:\n%s", want, ddl)
		}
	}
}
