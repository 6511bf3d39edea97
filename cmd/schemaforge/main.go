package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tordrt/schemaforge/internal/config"
	"github.com/tordrt/schemaforge/internal/generator"
	"github.com/tordrt/schemaforge/internal/output"
	"github.com/tordrt/schemaforge/internal/provider"
	"github.com/tordrt/schemaforge/internal/schema"
	"github.com/tordrt/schemaforge/internal/typemap"
	"github.com/tordrt/schemaforge/pkg/logger"
	"github.com/tordrt/schemaforge/pkg/progress"
)

var rootCmd = &cobra.Command{
	Use:   "schemaforge",
	Short: "Compile an entity/relationship model into DDL, API specs, types and docs",
	Long: `SchemaForge reads a project model (entities, fields, connections and endpoints) and
generates SQL DDL, a Prisma schema, TypeScript types, a GraphQL SDL, an OpenAPI document,
a Postman collection and markdown/HTML documentation from it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var generateCmd = &cobra.Command{
	Use:   "generate <project-file>",
	Short: "Generate artifacts from a YAML or JSON project file",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

var importCmd = &cobra.Command{
	Use:   "import [database-url]",
	Short: "Reverse-engineer a project file from a PostgreSQL, MySQL or SQLite database",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runImport,
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the available targets and their aliases",
	Args:  cobra.NoArgs,
	RunE:  runTargets,
}

var (
	configPath     string
	envFile        string
	targets        string
	outputDir      string
	outputFile     string
	dialect        string
	openapiFormat  string
	baseURL        string
	includeAuth    bool
	noExamples     bool
	subscriptions  bool
	concurrency    int
	noProgress     bool
	verbose        bool
	tables         string
	excludeTables  string
	schemaName     string
	projectName    string
	importedFormat string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this file (default: .env)")

	generateCmd.Flags().StringVarP(&configPath, "config", "c", "", "Options file (YAML)")
	generateCmd.Flags().StringVarP(&targets, "targets", "t", "", "Targets to generate (comma-separated, default: all)")
	generateCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Write one file per artifact to this directory")
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write all artifacts to one file (default: stdout)")
	generateCmd.Flags().StringVar(&dialect, "dialect", "", "SQL dialect: postgresql, mysql or sqlite")
	generateCmd.Flags().StringVar(&openapiFormat, "openapi-format", "", "OpenAPI encoding: yaml or json")
	generateCmd.Flags().StringVar(&baseURL, "base-url", "", "Override the API base URL")
	generateCmd.Flags().BoolVar(&includeAuth, "auth", false, "Document bearer authentication")
	generateCmd.Flags().BoolVar(&noExamples, "no-examples", false, "Omit example payloads")
	generateCmd.Flags().BoolVar(&subscriptions, "subscriptions", false, "Add GraphQL subscriptions")
	generateCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Emitters running at once (default: number of CPUs)")
	generateCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Hide the progress bar")

	importCmd.Flags().StringVar(&tables, "tables", "", "Specific tables (comma-separated, optional)")
	importCmd.Flags().StringVar(&excludeTables, "exclude", "", "Tables to leave out (comma-separated)")
	importCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL, the URL's database for MySQL)")
	importCmd.Flags().StringVar(&projectName, "name", "", "Project name (default: schema or dialect name)")
	importCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Project file to write, .yaml or .json (default: stdout)")
	importCmd.Flags().StringVarP(&importedFormat, "format", "f", "yaml", "Encoding when writing to stdout: yaml or json")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(targetsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadEnv() {
	if envFile != "" {
		config.LoadEnv(envFile)
		return
	}
	config.LoadEnv()
}

// loadOptions layers defaults, the options file, SCHEMAFORGE_* variables and
// explicitly set flags, in that order
func loadOptions(cmd *cobra.Command) (config.Options, error) {
	opts := config.Default()
	if configPath != "" {
		var err error
		if opts, err = config.Load(configPath); err != nil {
			return opts, err
		}
	}
	if err := opts.ApplyEnv(); err != nil {
		return opts, err
	}

	flags := cmd.Flags()
	if flags.Changed("targets") {
		opts.Targets = parseTableList(targets)
	}
	if flags.Changed("dialect") {
		opts.Dialect = dialect
	}
	if flags.Changed("openapi-format") {
		opts.OpenAPIFormat = openapiFormat
	}
	if flags.Changed("base-url") {
		opts.BaseURL = baseURL
	}
	if flags.Changed("auth") {
		opts.IncludeAuth = includeAuth
	}
	if flags.Changed("no-examples") {
		opts.IncludeExamples = !noExamples
	}
	if flags.Changed("subscriptions") {
		opts.EnableSubscriptions = subscriptions
	}
	if flags.Changed("concurrency") {
		opts.Concurrency = concurrency
	}
	return opts, opts.Validate()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	loadEnv()
	log := logger.New(cmd.ErrOrStderr(), verbose)

	if outputDir != "" && outputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	genOpts := []generator.Option{generator.WithLogger(log)}
	var bar *progress.Bar
	if !noProgress {
		bar = progress.NewBar(cmd.ErrOrStderr(), 1, "Generating")
		genOpts = append(genOpts, generator.WithProgress(bar.Update))
	}

	res, err := generator.New(genOpts...).GenerateFrom(cmd.Context(), provider.File{}, args[0], opts)
	if bar != nil {
		bar.Finish()
	}
	if res == nil {
		return err
	}
	if err != nil {
		log.Warnf("generation interrupted: %v", err)
	}

	if werr := writeArtifacts(cmd.OutOrStdout(), res.Artifacts, log); werr != nil {
		return werr
	}

	for _, e := range res.Errors {
		log.Errorf("%s", e.Error())
	}
	if err != nil {
		return err
	}
	if n := len(res.Errors); n > 0 {
		return fmt.Errorf("%d target(s) failed", n)
	}
	return nil
}

func writeArtifacts(stdout io.Writer, artifacts []schema.Artifact, log *logger.Logger) error {
	if outputDir != "" {
		paths, err := output.NewDirWriter(outputDir, true).Write(artifacts)
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		for _, p := range paths {
			log.Infof("wrote %s", p)
		}
		return nil
	}

	w := stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Warnf("failed to close output file: %v", err)
			}
		}()
		w = f
	}
	if err := output.NewStreamWriter(w).Write(artifacts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	loadEnv()
	log := logger.New(cmd.ErrOrStderr(), verbose)

	url := os.Getenv(config.EnvDatabaseURL)
	if len(args) == 1 {
		url = args[0]
	}
	if url == "" {
		return fmt.Errorf("a database URL argument or %s is required", config.EnvDatabaseURL)
	}

	p := provider.Database{
		Tables:     parseTableList(tables),
		Exclude:    parseTableList(excludeTables),
		SchemaName: schemaName,
		Name:       projectName,
	}
	project, err := p.LoadProject(cmd.Context(), url)
	if err != nil {
		return err
	}
	log.Infof("imported %d table(s) and %d connection(s)", len(project.Schema.Entities), len(project.Schema.Connections))

	if outputFile != "" {
		if err := schema.SaveProjectFile(outputFile, project); err != nil {
			return err
		}
		log.Infof("wrote %s", outputFile)
		return nil
	}

	enc := schema.Encoding(strings.ToLower(importedFormat))
	return schema.EncodeProject(cmd.OutOrStdout(), project, enc)
}

func runTargets(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	for _, t := range typemap.Targets {
		line := string(t)
		if aliases := typemap.Aliases(t); len(aliases) > 0 {
			line += " (" + strings.Join(aliases, ", ") + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// parseTableList splits a comma-separated flag value
func parseTableList(s string) []string {
	return config.SplitList(s)
}
