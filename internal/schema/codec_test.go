package schema

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProject() *Project {
	def := "now"
	return &Project{
		Name:         "Shop",
		Description:  "Online shop",
		DatabaseType: "postgresql",
		Schema: &Schema{
			Entities: []Entity{
				{
					Name: "users",
					Fields: []Field{
						{Name: "id", Type: "uuid", PrimaryKey: true},
						{Name: "email", Type: "varchar(255)", Unique: true},
						{Name: "created_at", Type: "timestamp", DefaultValue: &def},
					},
					Indexes: []Index{{Name: "idx_users_email", Fields: []string{"email"}}},
				},
			},
		},
		Endpoints: []Endpoint{{Method: "GET", Path: "/users", Entity: "users", Headers: map[string]string{"X-Trace": "1"}}},
	}
}

func TestEncodeDecodeProject(t *testing.T) {
	for _, enc := range []Encoding{EncodingYAML, EncodingJSON} {
		t.Run(string(enc), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, EncodeProject(&buf, sampleProject(), enc))

			got, err := DecodeProject(&buf, enc)
			require.NoError(t, err)
			if diff := cmp.Diff(sampleProject(), got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeProjectRejectsUnknownKeys(t *testing.T) {
	_, err := DecodeProject(strings.NewReader("name: Shop\nschemaa: {}\n"), EncodingYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse project YAML")

	_, err = DecodeProject(strings.NewReader(`{"name":"Shop","extra":1}`), EncodingJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse project JSON")

	_, err = DecodeProject(strings.NewReader(""), EncodingYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty document")
}

func TestProjectFile(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"shop.yaml", "nested/shop.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveProjectFile(path, sampleProject()))

			got, err := LoadProjectFile(path)
			require.NoError(t, err)
			assert.Equal(t, sampleProject(), got)
		})
	}

	_, err := LoadProjectFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestEncodingForPath(t *testing.T) {
	assert.Equal(t, EncodingJSON, EncodingForPath("a/b.JSON"))
	assert.Equal(t, EncodingYAML, EncodingForPath("b.yml"))
	assert.Equal(t, EncodingYAML, EncodingForPath("b"))
}
