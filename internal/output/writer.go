// Package output hands generated artifacts to the filesystem or a stream.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/tordrt/schemaforge/internal/schema"
)

// OverviewFile is the index written next to the artifacts
const OverviewFile = "_overview.md"

// DirWriter writes each artifact to its own file in a directory
type DirWriter struct {
	OutputDir string
	Overview  bool
}

// NewDirWriter creates a new directory writer
func NewDirWriter(outputDir string, overview bool) *DirWriter {
	return &DirWriter{
		OutputDir: outputDir,
		Overview:  overview,
	}
}

// Write writes the artifacts and returns the paths written
func (d *DirWriter) Write(artifacts []schema.Artifact) ([]string, error) {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(d.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	for _, a := range artifacts {
		path, err := d.path(a.Name)
		if err != nil {
			return paths, err
		}
		if err := os.WriteFile(path, []byte(a.Content), 0644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", a.Name, err)
		}
		paths = append(paths, path)
	}

	if d.Overview && len(artifacts) > 0 {
		path := filepath.Join(d.OutputDir, OverviewFile)
		file, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("failed to write overview: %w", err)
		}
		defer func() { _ = file.Close() }()
		if err := writeOverview(file, artifacts); err != nil {
			return paths, fmt.Errorf("failed to write overview: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// path keeps artifact names inside the output directory
func (d *DirWriter) path(name string) (string, error) {
	base := filepath.Base(name)
	if base != name || base == "." || base == ".." || base == OverviewFile {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}
	return filepath.Join(d.OutputDir, base), nil
}

func writeOverview(w io.Writer, artifacts []schema.Artifact) error {
	if _, err := fmt.Fprintf(w, "# Generated Artifacts\n\n"); err != nil {
		return err
	}

	// Sort artifacts alphabetically
	sorted := make([]schema.Artifact, len(artifacts))
	copy(sorted, artifacts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	for _, a := range sorted {
		if _, err := fmt.Fprintf(w, "- **%s** (%s, %d bytes)\n", a.Name, a.Format, len(a.Content)); err != nil {
			return err
		}
	}
	return nil
}

// StreamWriter writes every artifact to one writer. With more than one
// artifact each is preceded by a ==> name <== line.
type StreamWriter struct {
	w io.Writer
}

// NewStreamWriter creates a new stream writer
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w}
}

// Write writes the artifacts in order
func (s *StreamWriter) Write(artifacts []schema.Artifact) error {
	if len(artifacts) == 1 {
		_, err := io.WriteString(s.w, artifacts[0].Content)
		return err
	}
	for i, a := range artifacts {
		if i > 0 {
			if _, err := fmt.Fprintln(s.w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(s.w, "==> %s <==\n", a.Name); err != nil {
			return err
		}
		if _, err := io.WriteString(s.w, a.Content); err != nil {
			return err
		}
	}
	return nil
}
