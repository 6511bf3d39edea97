package schemaforge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/schemaforge/internal/config"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.True(t, opts.IncludeExamples)
	assert.Equal(t, "yaml", opts.OpenAPIFormat)
	assert.Positive(t, opts.Concurrency)
	assert.Equal(t, config.Default(), opts.toConfig())
}

func TestOptionsToConfig(t *testing.T) {
	opts := Options{
		Targets:             []string{"sql", "gql"},
		IncludeAuth:         true,
		EnableSubscriptions: true,
		Dialect:             "mysql",
		OpenAPIFormat:       "json",
		BaseURL:             "https://api.example.com",
		Concurrency:         3,
	}
	assert.Equal(t, config.Options{
		Targets:             []string{"sql", "gql"},
		IncludeAuth:         true,
		EnableSubscriptions: true,
		Dialect:             "mysql",
		OpenAPIFormat:       "json",
		BaseURL:             "https://api.example.com",
		Concurrency:         3,
	}, opts.toConfig())
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemaforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("targets: [sql]\nincludeAuth: true\n"), 0o644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"sql"}, opts.Targets)
	assert.True(t, opts.IncludeAuth)
	assert.True(t, opts.IncludeExamples)

	require.NoError(t, os.WriteFile(path, []byte("outputDir: gen\n"), 0o644))
	_, err = LoadOptions(path)
	assert.Error(t, err)
}

func TestGenerateProjectBuiltInCode(t *testing.T) {
	project := &Project{
		Name: "Shop",
		Schema: &Schema{Entities: []Entity{{
			Name: "users",
			Fields: []Field{
				{Name: "id", Type: "bigint", PrimaryKey: true},
				{Name: "email", Type: "varchar(255)", Unique: true},
			},
		}}},
	}

	opts := DefaultOptions()
	opts.Targets = []string{"sql"}
	res, err := Generate(context.Background(), project, opts)
	require.NoError(t, err)
	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, "shop_schema.sql", res.Artifacts[0].Name)
	assert.Contains(t, res.Artifacts[0].Content, "CREATE TABLE users (\n  id bigint PRIMARY KEY NOT NULL,\n  email varchar(255) NOT NULL UNIQUE\n);")
	assert.Empty(t, res.Errors)

	opts.Dialect = "oracle"
	_, err = Generate(context.Background(), project, opts)
	assert.ErrorIs(t, err, config.ErrInvalidOption)
}
