package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tordrt/schemaforge/internal/schema"
)

// ErrInvalidOption is returned for option values outside the accepted set
var ErrInvalidOption = errors.New("invalid option")

// Environment variables read by ApplyEnv
const (
	EnvDialect     = "SCHEMAFORGE_DIALECT"
	EnvTargets     = "SCHEMAFORGE_TARGETS"
	EnvBaseURL     = "SCHEMAFORGE_BASE_URL"
	EnvDatabaseURL = "SCHEMAFORGE_DATABASE_URL"
	EnvConcurrency = "SCHEMAFORGE_CONCURRENCY"
)

// OpenAPI output encodings
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Options is the full set of recognized generation options
type Options struct {
	// Targets lists target ids or aliases. Empty means every target.
	Targets []string `yaml:"targets"`

	// IncludeExamples adds example payloads to OpenAPI, collection and docs output.
	IncludeExamples bool `yaml:"includeExamples"`

	// IncludeAuth adds a bearer auth scheme to OpenAPI, collection and docs output.
	IncludeAuth bool `yaml:"includeAuth"`

	// EnableSubscriptions adds the GraphQL Subscription type.
	EnableSubscriptions bool `yaml:"enableSubscriptions"`

	// Dialect selects the DDL flavour. Empty means the project's databaseType,
	// then postgresql.
	Dialect string `yaml:"dialect"`

	// OpenAPIFormat is yaml or json.
	OpenAPIFormat string `yaml:"openapiFormat"`

	// BaseURL overrides the project's base URL.
	BaseURL string `yaml:"baseUrl"`

	// Concurrency bounds the number of emitters running at once.
	Concurrency int `yaml:"concurrency"`
}

// Default returns the options used when nothing is configured
func Default() Options {
	return Options{
		IncludeExamples: true,
		OpenAPIFormat:   FormatYAML,
		Concurrency:     runtime.NumCPU(),
	}
}

// Load reads options from a YAML file on top of the defaults
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes YAML options on top of the defaults. Unknown keys are rejected.
func Parse(r io.Reader) (Options, error) {
	opts := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// FromMap converts loosely-typed options, as received from an embedding
// application, into Options. Unknown keys are rejected.
func FromMap(m map[string]any) (Options, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return Options{}, fmt.Errorf("failed to encode options: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// LoadEnv loads .env files into the process environment. Missing files are ignored.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		_ = godotenv.Load()
		return
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// ApplyEnv overrides options from SCHEMAFORGE_* environment variables
func (o *Options) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvDialect)); v != "" {
		o.Dialect = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTargets)); v != "" {
		o.Targets = SplitList(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		o.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvConcurrency)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidOption, EnvConcurrency, v)
		}
		o.Concurrency = n
	}
	return o.Validate()
}

// Validate checks option values
func (o Options) Validate() error {
	if o.Dialect != "" {
		if _, ok := schema.NormalizeDialect(o.Dialect); !ok {
			return fmt.Errorf("%w: unsupported dialect %q (must be postgresql, mysql or sqlite)", ErrInvalidOption, o.Dialect)
		}
	}
	switch strings.ToLower(o.OpenAPIFormat) {
	case "", FormatYAML, FormatJSON:
	default:
		return fmt.Errorf("%w: openapiFormat must be yaml or json, got %q", ErrInvalidOption, o.OpenAPIFormat)
	}
	if o.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency must not be negative", ErrInvalidOption)
	}
	return nil
}

// ResolveDialect picks the DDL dialect: explicit option, then the project's
// database type, then PostgreSQL.
func (o Options) ResolveDialect(databaseType string) schema.Dialect {
	if d, ok := schema.NormalizeDialect(o.Dialect); ok {
		return d
	}
	if d, ok := schema.NormalizeDialect(databaseType); ok {
		return d
	}
	return schema.PostgreSQL
}

// OpenAPIJSON reports whether OpenAPI output should be JSON
func (o Options) OpenAPIJSON() bool {
	return strings.EqualFold(o.OpenAPIFormat, FormatJSON)
}

// SplitList splits a comma-separated list, dropping empty entries
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
