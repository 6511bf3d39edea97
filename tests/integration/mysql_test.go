//go:build integration
// +build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/tordrt/schemaforge/internal/db"
	"github.com/tordrt/schemaforge/internal/provider"
)

func mysqlDSN() string {
	if u := os.Getenv("MYSQL_TEST_URL"); u != "" {
		return u
	}
	return "root:testpassword@tcp(localhost:3306)/testdb"
}

func TestMySQLExtraction(t *testing.T) {
	ctx := context.Background()

	extractor, err := db.NewMySQLExtractor(ctx, mysqlDSN(), "testdb")
	if err != nil {
		t.Fatalf("Failed to connect to MySQL: %v", err)
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

	// ENUM columns keep their labels
	verifyFieldType(t, s, "users", "status", "enum('active','inactive','banned')")

	verifyForeignKey(t, s, "orders", "user_id", "users")
}

func TestMySQLDatabaseFromURL(t *testing.T) {
	ctx := context.Background()

	// No schema name: the database is taken from the DSN
	p := provider.Database{Tables: []string{"users", "products"}}
	project, err := p.LoadProject(ctx, "mysql://"+mysqlDSN())
	if err != nil {
		t.Fatalf("Failed to import: %v", err)
	}

	verifyTablesExist(t, project.Schema, []string{"users", "products"})
	if project.DatabaseType != "mysql" {
		t.Errorf("Expected databaseType mysql, got %s", project.DatabaseType)
	}
}
