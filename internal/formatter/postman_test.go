package formatter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/schemaforge/internal/config"
	"github.com/tordrt/schemaforge/internal/ir"
	"github.com/tordrt/schemaforge/internal/schema"
	"github.com/tordrt/schemaforge/internal/typemap"
)

func TestPostmanDerivedEndpoints(t *testing.T) {
	c, err := PostmanFormatter{}.Build(newInput(shopProject(), config.Default()))
	require.NoError(t, err)

	assert.Equal(t, "Shop", c.Info.Name)
	assert.Equal(t, ir.PostmanSchemaURL, c.Info.Schema)
	require.Len(t, c.Item, 10)
	assert.Nil(t, c.Auth)

	create := c.Item[1]
	assert.Equal(t, "Create user", create.Name)
	assert.Equal(t, "POST", create.Request.Method)
	assert.Equal(t, "{{baseUrl}}/users", create.Request.URL.Raw)
	assert.Equal(t, []ir.PostmanHeader{{Key: "Content-Type", Value: "application/json", Type: "text"}}, create.Request.Header)
	require.NotNil(t, create.Request.Body)
	assert.JSONEq(t, `{"email": "user@example.com"}`, create.Request.Body.Raw)

	get := c.Item[2]
	assert.Equal(t, "{{baseUrl}}/users/:id", get.Request.URL.Raw)
	assert.Equal(t, []string{"users", ":id"}, get.Request.URL.Path)
	assert.Equal(t, []ir.PostmanVariable{{Key: "id", Value: ""}}, get.Request.URL.Variable)
	assert.Nil(t, get.Request.Body)
}

func TestPostmanWorkflowEndpoints(t *testing.T) {
	p := shopProject()
	p.BaseURL = "https://api.shop.test"
	p.Endpoints = []schema.Endpoint{
		{Method: "post", Path: "/checkout", Name: "Checkout", Body: `{"orderId":1}`, Headers: map[string]string{"X-Trace": "abc"}},
		{Method: "GET", Path: "/orders/{orderId}/items", Entity: "orders"},
	}
	opts := config.Default()
	opts.IncludeAuth = true

	c, err := PostmanFormatter{}.Build(newInput(p, opts))
	require.NoError(t, err)
	require.Len(t, c.Item, 2)

	checkout := c.Item[0]
	assert.Equal(t, "Checkout", checkout.Name)
	assert.Equal(t, "POST", checkout.Request.Method)
	assert.Equal(t, "{\n  \"orderId\": 1\n}", checkout.Request.Body.Raw)
	assert.Equal(t, []ir.PostmanHeader{
		{Key: "X-Trace", Value: "abc", Type: "text"},
		{Key: "Content-Type", Value: "application/json", Type: "text"},
		{Key: "Authorization", Value: "Bearer {{token}}", Type: "text"},
	}, checkout.Request.Header)

	items := c.Item[1]
	assert.Equal(t, "GET /orders/{orderId}/items", items.Name)
	assert.Equal(t, "{{baseUrl}}/orders/:orderId/items", items.Request.URL.Raw)

	require.NotNil(t, c.Auth)
	assert.Equal(t, "bearer", c.Auth.Type)
	assert.Equal(t, []ir.PostmanVariable{
		{Key: "baseUrl", Value: "https://api.shop.test", Type: "string"},
		{Key: "token", Value: "", Type: "string"},
	}, c.Variable)
}

func TestPostmanRenderIsValidJSON(t *testing.T) {
	out := render(t, typemap.Postman, newInput(shopProject(), config.Default()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "info")
	assert.Contains(t, doc, "item")
}
