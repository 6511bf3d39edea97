package ir

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/schemaforge/internal/schema"
)

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		name    string
		dialect schema.Dialect
		want    string
	}{
		{name: "users", dialect: schema.PostgreSQL, want: "users"},
		{name: "user", dialect: schema.PostgreSQL, want: `"user"`},
		{name: "user", dialect: schema.MySQL, want: "`user`"},
		{name: "order", dialect: schema.SQLite, want: `"order"`},
		{name: "OrderItems", dialect: schema.PostgreSQL, want: `"OrderItems"`},
		{name: `we"ird`, dialect: schema.PostgreSQL, want: `"we""ird"`},
		{name: "we`ird", dialect: schema.MySQL, want: "`we``ird`"},
		{name: "created_at", dialect: schema.MySQL, want: "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+string(tt.dialect), func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteIdent(tt.name, tt.dialect))
		})
	}
}

func TestQuoteSQLString(t *testing.T) {
	assert.Equal(t, "'it''s'", QuoteSQLString("it's"))
	assert.Equal(t, "''", QuoteSQLString(""))
}

func TestSQLScriptRender(t *testing.T) {
	script := &SQLScript{
		Dialect: schema.SQLite,
		Header:  []string{"Generated"},
		Statements: []SQLStatement{
			CreateTable{
				Name:     "order",
				Comments: []string{"status: one of 'a'"},
				Columns: []ColumnDef{
					{Name: "id", Type: "integer", PrimaryKey: true, NotNull: true, AutoIncrement: true},
					{Name: "user_id", Type: "integer", References: &ColumnRef{Table: "user", Column: "id", OnDelete: "SET NULL", OnUpdate: "RESTRICT"}},
				},
			},
			CreateIndex{Name: "idx_order_user", Table: "order", Columns: []string{"user_id"}, Unique: true},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, script.Render(&buf))

	want := `-- Generated

-- status: one of 'a'
CREATE TABLE "order" (
  id integer PRIMARY KEY AUTOINCREMENT NOT NULL,
  user_id integer REFERENCES "user" (id) ON DELETE SET NULL ON UPDATE RESTRICT
);

CREATE UNIQUE INDEX idx_order_user ON "order" (user_id);
`
	assert.Equal(t, want, buf.String())
}

func TestAddForeignKeyRender(t *testing.T) {
	script := &SQLScript{
		Dialect: schema.MySQL,
		Statements: []SQLStatement{AddForeignKey{
			Table: "orders", Constraint: "fk_orders_user_id", Column: "user_id",
			RefTable: "user", RefColumn: "id", OnDelete: "CASCADE", OnUpdate: "NO ACTION",
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, script.Render(&buf))
	assert.Equal(t, "ALTER TABLE orders ADD CONSTRAINT fk_orders_user_id FOREIGN KEY (user_id) REFERENCES `user` (id) ON DELETE CASCADE ON UPDATE NO ACTION;\n", buf.String())
}
