//go:build integration
// +build integration

package integration

import (
	"testing"

	"github.com/tordrt/schemaforge/internal/schema"
)

// verifyTablesExist checks that exactly the expected entities were extracted
func verifyTablesExist(t *testing.T, s *schema.Schema, expectedTables []string) {
	t.Helper()

	if len(s.Entities) != len(expectedTables) {
		t.Errorf("Expected %d tables, got %d", len(expectedTables), len(s.Entities))
	}

	for _, tableName := range expectedTables {
		if _, ok := s.Entity(tableName); !ok {
			t.Errorf("Expected table %s not found in schema", tableName)
		}
	}
}

// verifyColumns checks that expected fields exist in an entity
func verifyColumns(t *testing.T, e *schema.Entity, expectedColumns []string) {
	t.Helper()

	for _, colName := range expectedColumns {
		if _, ok := e.Field(colName); !ok {
			t.Errorf("Expected column %s not found in %s table", colName, e.Name)
		}
	}
}

// verifyPrimaryKey checks the entity's key field
func verifyPrimaryKey(t *testing.T, e *schema.Entity, expectedPK string) {
	t.Helper()

	pk, ok := e.PrimaryKey()
	if !ok {
		t.Errorf("Expected primary key %s, got none", expectedPK)
		return
	}
	if pk.Name != expectedPK {
		t.Errorf("Expected primary key %s, got %s", expectedPK, pk.Name)
	}
}

// verifyFieldType checks the normalized abstract type of a field
func verifyFieldType(t *testing.T, s *schema.Schema, tableName, columnName, wantType string) {
	t.Helper()

	f := findField(t, s, tableName, columnName)
	if f != nil && f.Type != wantType {
		t.Errorf("Expected %s.%s to have type %s, got %s", tableName, columnName, wantType, f.Type)
	}
}

// verifyUniqueConstraint checks that a field is flagged unique
func verifyUniqueConstraint(t *testing.T, s *schema.Schema, tableName, columnName string) {
	t.Helper()

	f := findField(t, s, tableName, columnName)
	if f != nil && !f.Unique {
		t.Errorf("Expected %s column to have unique constraint", columnName)
	}
}

// verifyForeignKey checks that a connection exists and returns it
func verifyForeignKey(t *testing.T, s *schema.Schema, tableName, sourceColumn, targetTable string) *schema.Connection {
	t.Helper()

	for i, c := range s.Connections {
		if c.SourceEntity == tableName && c.SourceField == sourceColumn && c.TargetEntity == targetTable {
			return &s.Connections[i]
		}
	}

	t.Errorf("Expected foreign key relationship from %s.%s to %s not found", tableName, sourceColumn, targetTable)
	return nil
}

// verifyIndex checks that an index exists with the expected fields
func verifyIndex(t *testing.T, s *schema.Schema, tableName, indexName string, expectedColumns []string) {
	t.Helper()

	e := findTable(t, s, tableName)
	if e == nil {
		return
	}

	for _, idx := range e.Indexes {
		if idx.Name != indexName {
			continue
		}
		if len(idx.Fields) != len(expectedColumns) {
			t.Errorf("Expected index %s on %v, got %v", indexName, expectedColumns, idx.Fields)
			return
		}
		for i, col := range expectedColumns {
			if idx.Fields[i] != col {
				t.Errorf("Expected index %s on %v, got %v", indexName, expectedColumns, idx.Fields)
				return
			}
		}
		return
	}

	t.Errorf("Expected index %s on %s table not found", indexName, tableName)
}

func findTable(t *testing.T, s *schema.Schema, tableName string) *schema.Entity {
	t.Helper()

	e, ok := s.Entity(tableName)
	if !ok {
		t.Fatalf("Table %s not found", tableName)
	}
	return e
}

func findField(t *testing.T, s *schema.Schema, tableName, columnName string) *schema.Field {
	t.Helper()

	f, ok := findTable(t, s, tableName).Field(columnName)
	if !ok {
		t.Errorf("Column %s not found in table %s", columnName, tableName)
		return nil
	}
	return f
}
