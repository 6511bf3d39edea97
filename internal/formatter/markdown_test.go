package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tordrt/schemaforge/internal/config"
	"github.com/tordrt/schemaforge/internal/schema"
	"github.com/tordrt/schemaforge/internal/typemap"
)

func TestMarkdownFormatter(t *testing.T) {
	p := shopProject()
	p.Description = "Orders and customers"
	opts := config.Default()
	opts.IncludeAuth = true

	out := render(t, typemap.Markdown, newInput(p, opts))

	assert.Contains(t, out, "# Shop\n\nOrders and customers\n\n## Base URL\n\n`http://localhost:3000/api`\n")
	assert.Contains(t, out, "## Authentication\n")
	assert.Contains(t, out, "## Endpoints\n")
	assert.Contains(t, out, "### `POST /users`\n\n**Create user**\n")
	assert.Contains(t, out, "```http\nPOST http://localhost:3000/api/users\nContent-Type: application/json\nAuthorization: Bearer {{token}}\n\n{\n  \"email\": \"user@example.com\"\n}\n```")
	assert.Contains(t, out, "| 201 | Created |")
	assert.Contains(t, out, "| 401 | Unauthorized |")
	assert.Contains(t, out, "## Data Model\n")
	assert.Contains(t, out, "- **email:** varchar(255), UNIQUE, NOT NULL\n")
	assert.Contains(t, out, "- user_id → users.id (many-to-one, ON DELETE CASCADE)\n")
	assert.Contains(t, out, "---\n\nGenerated on 2024-05-01T12:00:00Z\n")
}

func TestMarkdownFormatterWithoutAuthOrExamples(t *testing.T) {
	opts := config.Default()
	opts.IncludeExamples = false

	out := render(t, typemap.Markdown, newInput(shopProject(), opts))

	assert.NotContains(t, out, "## Authentication")
	assert.NotContains(t, out, "Example request")
	assert.NotContains(t, out, "| 401 |")
}

func TestMarkdownFormatterIndexesAndEnums(t *testing.T) {
	p := shopProject()
	users := &p.Schema.Entities[0]
	users.Fields = append(users.Fields, schema.Field{Name: "role", Type: "enum(admin,member)"})
	users.Indexes = []schema.Index{{Fields: []string{"role"}}}

	out := render(t, typemap.Markdown, newInput(p, config.Default()))

	assert.Contains(t, out, "- **role:** enum (admin|member), NOT NULL\n")
	assert.Contains(t, out, "#### Indexes\n\n- idx_users_role on (role)\n")
}

func TestHTMLFormatter(t *testing.T) {
	p := shopProject()
	p.Name = "Shop <Admin>"

	out := render(t, typemap.HTML, newInput(p, config.Default()))

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<title>Shop &lt;Admin&gt;</title>")
	assert.Contains(t, out, "<h2>Data Model</h2>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<code>http://localhost:3000/api</code>")
}

func TestTextFormatter(t *testing.T) {
	out := render(t, typemap.Text, newInput(shopProject(), config.Default()))

	want := `TABLE users (PK: id)
  id: bigint NOT NULL
  email: varchar(255) UNIQUE NOT NULL

TABLE orders (PK: id)
  id: bigint NOT NULL
  user_id: bigint NOT NULL
  total: decimal(10,2) NOT NULL

  RELATIONS:
    user_id → users.id (many-to-one)
`
	assert.Equal(t, want, out)
}
