// Package provider supplies projects to the generator. The generator never
// reads files or databases itself.
package provider

import (
	"context"
	"errors"

	"github.com/tordrt/schemaforge/internal/schema"
)

// ErrNotFound is returned when a provider has no project under the reference
var ErrNotFound = errors.New("project not found")

// SchemaProvider loads a project by reference. What a reference means is up to
// the implementation: a file path, a map key or a database URL.
type SchemaProvider interface {
	LoadProject(ctx context.Context, ref string) (*schema.Project, error)
}
