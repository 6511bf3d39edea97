//go:build integration
// +build integration

package schemaforge

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tordrt/schemaforge/internal/schema"
)

func seedSQLite(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer conn.Close()

	_, err = conn.Exec(`
		CREATE TABLE users (id INTEGER PRIMARY KEY, username TEXT NOT NULL UNIQUE);
		CREATE TABLE products (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
		CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER REFERENCES users(id));
	`)
	if err != nil {
		t.Fatalf("Failed to seed database: %v", err)
	}
	return "sqlite://" + path
}

func TestImportProject(t *testing.T) {
	ctx := context.Background()
	url := seedSQLite(t)

	tests := []struct {
		name       string
		url        string
		opts       *ImportOptions
		wantTables []string
		wantConns  int
		wantErr    bool
	}{
		{
			name:       "SQLite all tables",
			url:        url,
			wantTables: []string{"orders", "products", "users"},
			wantConns:  1,
		},
		{
			name:       "SQLite specific tables",
			url:        url,
			opts:       &ImportOptions{Tables: []string{"users", "products"}},
			wantTables: []string{"users", "products"},
		},
		{
			name:       "SQLite with exclusions",
			url:        url,
			opts:       &ImportOptions{ExcludeTables: []string{"users"}},
			wantTables: []string{"orders", "products"},
		},
		{
			name:    "Invalid URL scheme",
			url:     "invalid://test.db",
			wantErr: true,
		},
		{
			name:    "Empty URL",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project, err := ImportProject(ctx, tt.url, tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			var got []string
			for _, e := range project.Schema.Entities {
				got = append(got, e.Name)
			}
			if strings.Join(got, ",") != strings.Join(tt.wantTables, ",") {
				t.Errorf("Expected tables %v, got %v", tt.wantTables, got)
			}
			if len(project.Schema.Connections) != tt.wantConns {
				t.Errorf("Expected %d connections, got %d", tt.wantConns, len(project.Schema.Connections))
			}
		})
	}
}

func TestImportGenerateAndWrite(t *testing.T) {
	ctx := context.Background()

	project, err := ImportProject(ctx, seedSQLite(t), &ImportOptions{ProjectName: "Shop"})
	if err != nil {
		t.Fatalf("ImportProject failed: %v", err)
	}

	opts := DefaultOptions()
	opts.Targets = []string{"sql", "markdown"}
	res, err := Generate(ctx, project, opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var buf bytes.Buffer
	if _, err := WriteArtifacts(res.Artifacts, &OutputOptions{Writer: &buf}); err != nil {
		t.Fatalf("WriteArtifacts failed: %v", err)
	}
	if !strings.Contains(buf.String(), "==> shop_schema.sql <==") {
		t.Error("Expected stream output to name the sql artifact")
	}

	dir := t.TempDir()
	paths, err := WriteArtifacts(res.Artifacts, &OutputOptions{OutputDir: dir})
	if err != nil {
		t.Fatalf("WriteArtifacts failed: %v", err)
	}
	if len(paths) != 3 {
		t.Errorf("Expected 2 artifacts and an overview, got %v", paths)
	}

	content, err := os.ReadFile(filepath.Join(dir, "shop_docs.md"))
	if err != nil {
		t.Fatalf("Failed to read docs: %v", err)
	}
	if !strings.Contains(string(content), "username") {
		t.Error("Expected docs to contain the username column")
	}
}

func TestGenerateFile(t *testing.T) {
	ctx := context.Background()

	project, err := ImportProject(ctx, seedSQLite(t), &ImportOptions{ProjectName: "Shop"})
	if err != nil {
		t.Fatalf("ImportProject failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "shop.yaml")
	if err := schema.SaveProjectFile(path, project); err != nil {
		t.Fatalf("SaveProjectFile failed: %v", err)
	}

	opts := DefaultOptions()
	opts.Targets = []string{"typescript"}
	res, err := GenerateFile(ctx, path, opts)
	if err != nil {
		t.Fatalf("GenerateFile failed: %v", err)
	}
	if len(res.Artifacts) != 1 || !strings.Contains(res.Artifacts[0].Content, "export interface User {") {
		t.Errorf("Unexpected artifacts: %+v", res.Artifacts)
	}
}
