package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tordrt/schemaforge/internal/schema"
)

// SQLiteExtractor reads a SQLite database file through PRAGMA queries
type SQLiteExtractor struct {
	db *sql.DB
}

// NewSQLiteExtractor opens and pings the database file
func NewSQLiteExtractor(ctx context.Context, path string) (*SQLiteExtractor, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteExtractor{db: db}, nil
}

// Dialect implements Introspector
func (e *SQLiteExtractor) Dialect() schema.Dialect { return schema.SQLite }

// Close closes the database connection
func (e *SQLiteExtractor) Close() error {
	return e.db.Close()
}

// ExtractSchema implements Introspector
func (e *SQLiteExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	return extract(ctx, e, tables)
}

func (e *SQLiteExtractor) tableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`
	return queryStrings(ctx, e.db, query)
}

func pragma(name, arg string) string {
	return fmt.Sprintf(`PRAGMA %s("%s")`, name, strings.ReplaceAll(arg, `"`, `""`))
}

func (e *SQLiteExtractor) readTable(ctx context.Context, name string) (*rawTable, error) {
	t := &rawTable{Name: name}
	var err error

	if t.Columns, t.PrimaryKey, err = e.columns(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("table not found")
	}
	if t.ForeignKeys, err = e.foreignKeys(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract relations: %w", err)
	}
	if t.Indexes, err = e.indexes(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract indexes: %w", err)
	}
	return t, nil
}

// columns reads PRAGMA table_info. The pk column gives each key column's
// position, so the primary key comes back in declaration order.
func (e *SQLiteExtractor) columns(ctx context.Context, tableName string) ([]rawColumn, []string, error) {
	rows, err := e.db.QueryContext(ctx, pragma("table_info", tableName))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var columns []rawColumn
	pkByOrder := make(map[int]string)
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, nil, err
		}

		col := rawColumn{
			Name:       name,
			NativeType: colType,
			Nullable:   notNull == 0,
		}
		if defaultValue.Valid {
			col.Default = &defaultValue.String
		}
		if pk > 0 {
			pkByOrder[pk] = name
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	pk := make([]string, 0, len(pkByOrder))
	for i := 1; i <= len(pkByOrder); i++ {
		pk = append(pk, pkByOrder[i])
	}

	// An INTEGER PRIMARY KEY aliases the rowid and is assigned automatically
	if len(pk) == 1 {
		for i := range columns {
			if columns[i].Name == pk[0] && strings.EqualFold(columns[i].NativeType, "integer") {
				columns[i].AutoIncrement = true
			}
		}
	}
	return columns, pk, nil
}

func (e *SQLiteExtractor) foreignKeys(ctx context.Context, tableName string) ([]rawForeignKey, error) {
	rows, err := e.db.QueryContext(ctx, pragma("foreign_key_list", tableName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []rawForeignKey
	for rows.Next() {
		var id, seq int
		var targetTable, fromCol, onUpdate, onDelete, match string
		var toCol sql.NullString
		if err := rows.Scan(&id, &seq, &targetTable, &fromCol, &toCol, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		fk := rawForeignKey{
			Column:    fromCol,
			RefTable:  targetTable,
			RefColumn: toCol.String,
			OnDelete:  onDelete,
			OnUpdate:  onUpdate,
		}
		fks = append(fks, fk)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// REFERENCES t without a column list points at t's primary key
	for i := range fks {
		if fks[i].RefColumn != "" {
			continue
		}
		_, pk, err := e.columns(ctx, fks[i].RefTable)
		if err != nil {
			return nil, err
		}
		if len(pk) == 1 {
			fks[i].RefColumn = pk[0]
		}
	}
	return fks, nil
}

// indexes reads PRAGMA index_list. Indexes behind UNIQUE constraints are kept
// so single-column ones can become field flags; the rowid key index is skipped.
func (e *SQLiteExtractor) indexes(ctx context.Context, tableName string) ([]schema.Index, error) {
	rows, err := e.db.QueryContext(ctx, pragma("index_list", tableName))
	if err != nil {
		return nil, err
	}

	type listed struct {
		name   string
		unique bool
	}
	var list []listed
	for rows.Next() {
		var seq int
		var name, origin string
		var unique, partial int
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, err
		}
		if origin == "pk" {
			continue
		}
		list = append(list, listed{name: name, unique: unique == 1})
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var indexes []schema.Index
	for i := len(list) - 1; i >= 0; i-- {
		l := list[i]
		columns, err := queryIndexColumns(ctx, e.db, l.name)
		if err != nil {
			return nil, err
		}
		if len(columns) == 0 {
			continue
		}

		name := l.name
		if strings.HasPrefix(name, "sqlite_autoindex") {
			name = tableName + "_" + strings.Join(columns, "_") + "_key"
		}
		indexes = append(indexes, schema.Index{Name: name, Fields: columns, Unique: l.unique})
	}
	return indexes, nil
}

func queryIndexColumns(ctx context.Context, db *sql.DB, index string) ([]string, error) {
	rows, err := db.QueryContext(ctx, pragma("index_info", index))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var colName sql.NullString
		if err := rows.Scan(&seqno, &cid, &colName); err != nil {
			return nil, err
		}
		if colName.Valid {
			columns = append(columns, colName.String)
		}
	}
	return columns, rows.Err()
}
