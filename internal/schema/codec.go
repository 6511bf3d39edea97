package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Encoding selects the on-disk representation of a project
type Encoding string

const (
	EncodingYAML Encoding = "yaml"
	EncodingJSON Encoding = "json"
)

// EncodingForPath picks the encoding from a file extension (defaults to YAML)
func EncodingForPath(path string) Encoding {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return EncodingJSON
	}
	return EncodingYAML
}

// DecodeProject reads a project document. Unknown keys are rejected.
func DecodeProject(r io.Reader, enc Encoding) (*Project, error) {
	var p Project
	switch enc {
	case EncodingJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to parse project JSON: %w", err)
		}
	case EncodingYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("failed to parse project YAML: empty document")
			}
			return nil, fmt.Errorf("failed to parse project YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported project encoding: %s", enc)
	}
	return &p, nil
}

// EncodeProject writes a project document
func EncodeProject(w io.Writer, p *Project, enc Encoding) error {
	switch enc {
	case EncodingJSON:
		var buf bytes.Buffer
		e := json.NewEncoder(&buf)
		e.SetIndent("", "  ")
		e.SetEscapeHTML(false)
		if err := e.Encode(p); err != nil {
			return fmt.Errorf("failed to encode project JSON: %w", err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	case EncodingYAML:
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		if err := e.Encode(p); err != nil {
			return fmt.Errorf("failed to encode project YAML: %w", err)
		}
		return e.Close()
	default:
		return fmt.Errorf("unsupported project encoding: %s", enc)
	}
}

// LoadProjectFile reads a YAML or JSON project file
func LoadProjectFile(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open project file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodeProject(f, EncodingForPath(path))
}

// SaveProjectFile writes a project file, picking the encoding from the extension
func SaveProjectFile(path string, p *Project) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create project directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create project file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return EncodeProject(f, p, EncodingForPath(path))
}
