package provider

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tordrt/schemaforge/internal/schema"
)

// File reads YAML or JSON project files. Relative references are resolved
// against Dir when it is set.
type File struct {
	Dir string
}

// LoadProject implements SchemaProvider
func (p File) LoadProject(ctx context.Context, ref string) (*schema.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ref == "" {
		return nil, fmt.Errorf("project file is required")
	}

	path := ref
	if p.Dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(p.Dir, path)
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return schema.LoadProjectFile(path)
}
