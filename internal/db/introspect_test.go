package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/schemaforge/internal/schema"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		url         string
		wantDialect schema.Dialect
		wantConn    string
		wantErr     string
	}{
		{url: "postgres://u:p@localhost:5432/db", wantDialect: schema.PostgreSQL, wantConn: "postgres://u:p@localhost:5432/db"},
		{url: "postgresql://localhost/db", wantDialect: schema.PostgreSQL, wantConn: "postgresql://localhost/db"},
		{url: "mysql://root:pw@tcp(localhost:3306)/shop", wantDialect: schema.MySQL, wantConn: "root:pw@tcp(localhost:3306)/shop"},
		{url: "sqlite://./data/shop.db", wantDialect: schema.SQLite, wantConn: "./data/shop.db"},
		{url: "", wantErr: "database URL is required"},
		{url: "oracle://scott", wantErr: "invalid database URL scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			dialect, conn, err := ParseURL(tt.url)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDialect, dialect)
			assert.Equal(t, tt.wantConn, conn)
		})
	}
}

func TestParseDatabaseName(t *testing.T) {
	name, err := ParseDatabaseName("root:pw@tcp(localhost:3306)/shop?parseTime=true")
	require.NoError(t, err)
	assert.Equal(t, "shop", name)

	_, err = ParseDatabaseName("root:pw@tcp(localhost:3306)/")
	assert.EqualError(t, err, "no database name in DSN")
}

func TestParseEnumValues(t *testing.T) {
	values, err := parseEnumValues("enum('active','it''s','banned')")
	require.NoError(t, err)
	assert.Equal(t, []string{"active", "it's", "banned"}, values)

	_, err = parseEnumValues("enum")
	assert.Error(t, err)
}

func TestNativeType(t *testing.T) {
	n := func(v int) *int { return &v }

	assert.Equal(t, "varchar(80)", nativeType("character varying", "varchar", n(80), nil, nil))
	assert.Equal(t, "varchar", nativeType("character varying", "varchar", nil, nil, nil))
	assert.Equal(t, "numeric(12,3)", nativeType("numeric", "numeric", nil, n(12), n(3)))
	assert.Equal(t, "text[]", nativeType("ARRAY", "_text", nil, nil, nil))
	assert.Equal(t, "user_status", nativeType("USER-DEFINED", "user_status", nil, nil, nil))
	assert.Equal(t, "integer", nativeType("integer", "int4", nil, nil, nil))
}

func TestBuildSchema(t *testing.T) {
	now := "CURRENT_TIMESTAMP"
	tables := []rawTable{
		{
			Name: "users",
			Columns: []rawColumn{
				{Name: "id", NativeType: "integer", AutoIncrement: true},
				{Name: "email", NativeType: "varchar(255)"},
				{Name: "created_at", NativeType: "timestamp", Nullable: true, Default: &now},
			},
			PrimaryKey: []string{"id"},
			Indexes: []schema.Index{
				{Name: "users_email_key", Fields: []string{"email"}, Unique: true},
				{Name: "idx_users_created", Fields: []string{"created_at"}},
			},
		},
		{
			Name: "profiles",
			Columns: []rawColumn{
				{Name: "id", NativeType: "integer"},
				{Name: "user_id", NativeType: "integer", Unique: true},
			},
			PrimaryKey:  []string{"id"},
			ForeignKeys: []rawForeignKey{{Column: "user_id", RefTable: "users", RefColumn: "id", OnDelete: "CASCADE", OnUpdate: "NO ACTION"}},
		},
		{
			Name: "order_items",
			Columns: []rawColumn{
				{Name: "order_id", NativeType: "integer"},
				{Name: "product_id", NativeType: "integer"},
			},
			PrimaryKey:  []string{"order_id", "product_id"},
			ForeignKeys: []rawForeignKey{{Column: "product_id", RefTable: "products", RefColumn: "id", OnDelete: "bogus"}},
		},
	}

	token := func(s string) *string { return &s }
	want := &schema.Schema{
		Entities: []schema.Entity{
			{
				Name: "users",
				Fields: []schema.Field{
					{Name: "id", Type: "int", PrimaryKey: true, DefaultValue: token("autoincrement")},
					{Name: "email", Type: "varchar(255)", Unique: true},
					{Name: "created_at", Type: "timestamp", Nullable: true, DefaultValue: token("now")},
				},
				Indexes: []schema.Index{{Name: "idx_users_created", Fields: []string{"created_at"}}},
			},
			{
				Name: "profiles",
				Fields: []schema.Field{
					{Name: "id", Type: "int", PrimaryKey: true},
					{Name: "user_id", Type: "int", Unique: true},
				},
			},
			{
				Name: "order_items",
				Fields: []schema.Field{
					{Name: "order_id", Type: "int"},
					{Name: "product_id", Type: "int"},
				},
				Indexes: []schema.Index{{Name: "order_items_pkey", Fields: []string{"order_id", "product_id"}, Unique: true}},
			},
		},
		Connections: []schema.Connection{
			{
				SourceEntity: "profiles", SourceField: "user_id", TargetEntity: "users", TargetField: "id",
				Cardinality: "one-to-one", OnDelete: "CASCADE", OnUpdate: "NO ACTION",
			},
			{
				SourceEntity: "order_items", SourceField: "product_id", TargetEntity: "products", TargetField: "id",
				Cardinality: "many-to-one",
			},
		},
	}

	got := buildSchema(tables)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("buildSchema mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, got.Validate())
}

// fakeCatalog serves tables from memory
type fakeCatalog struct {
	tables map[string]rawTable
	order  []string
}

func (c fakeCatalog) tableNames(context.Context) ([]string, error) {
	return c.order, nil
}

func (c fakeCatalog) readTable(_ context.Context, name string) (*rawTable, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, errors.New("table not found")
	}
	return &t, nil
}

func TestExtract(t *testing.T) {
	c := fakeCatalog{
		order: []string{"a", "b"},
		tables: map[string]rawTable{
			"a": {Name: "a", Columns: []rawColumn{{Name: "id", NativeType: "int"}}},
			"b": {Name: "b", Columns: []rawColumn{{Name: "id", NativeType: "int"}}},
		},
	}

	s, err := extract(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Len(t, s.Entities, 2)

	s, err = extract(context.Background(), c, []string{"b"})
	require.NoError(t, err)
	require.Len(t, s.Entities, 1)
	assert.Equal(t, "b", s.Entities[0].Name)

	_, err = extract(context.Background(), c, []string{"missing"})
	assert.EqualError(t, err, "failed to extract table missing: table not found")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = extract(ctx, c, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPragmaQuotesTableName(t *testing.T) {
	assert.Equal(t, `PRAGMA table_info("users")`, pragma("table_info", "users"))
	assert.Equal(t, `PRAGMA index_list("odd""name")`, pragma("index_list", `odd"name`))
}
