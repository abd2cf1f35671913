// Package main implements the program-verify CLI tool.
// It validates program specification documents against a JSON Schema and a
// set of semantic rules (title consistency, phase contracts).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	pv "github.com/Norbi0801/program-verify"
	"github.com/Norbi0801/program-verify/document"
	"github.com/Norbi0801/program-verify/engine"
	"github.com/Norbi0801/program-verify/schema"
	"github.com/Norbi0801/program-verify/worker"
)

const version = "0.2.0"

// OutputFormat specifies the output format.
type OutputFormat string

// Output format constants.
const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// config holds CLI configuration.
type config struct {
	SchemaPath  string
	VersionsMap string
	SpecVersion string
	ShowJSON    bool
	Output      string
	Quiet       bool
	Verbose     bool
}

// ValidationOutput represents the JSON output structure for one document.
type ValidationOutput struct {
	Document    string        `json:"document"`
	Valid       bool          `json:"valid"`
	SpecVersion string        `json:"specVersion,omitempty"`
	Errors      int           `json:"errors"`
	Warnings    int           `json:"warnings"`
	Issues      []IssueOutput `json:"issues,omitempty"`
	Duration    string        `json:"duration"`
}

// IssueOutput represents a single issue in JSON output.
type IssueOutput struct {
	Severity    string `json:"severity"`
	Code        string `json:"code"`
	Diagnostics string `json:"diagnostics"`
	Path        string `json:"path,omitempty"`
	Rule        string `json:"rule,omitempty"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !isValidationFailure(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// validationFailure signals a non-zero exit without extra error output;
// the issues were already printed.
type validationFailure struct{}

func (validationFailure) Error() string { return "validation failed" }

func isValidationFailure(err error) bool {
	_, ok := err.(validationFailure)
	return ok
}

func newRootCmd() *cobra.Command {
	cfg := &config{}

	root := &cobra.Command{
		Use:   "program-verify [flags] <file>... | -",
		Short: "Validate program specification documents",
		Long: `program-verify validates YAML or JSON program specification documents.

Each document is checked against a JSON Schema (explicit --schema file, a
schema selected through the version map by the document's spec_version, or
the embedded fallback schema) and against the semantic rules: meta.title
consistency with algorithm.name, and phase contract cross-references.`,
		Example: `  program-verify algorithm.yaml
  program-verify --schema custom.schema.yaml algorithm.yaml
  program-verify --spec-version v3.1 algorithm.yaml
  program-verify --output json specs/*.yaml
  cat algorithm.yaml | program-verify -`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg, args)
		},
	}

	flags := root.Flags()
	flags.StringVar(&cfg.SchemaPath, "schema", "", "validate against this schema file instead of the version map")
	flags.StringVar(&cfg.VersionsMap, "versions-map", "version_map.yaml", "YAML file mapping spec versions to schema files")
	flags.StringVar(&cfg.SpecVersion, "spec-version", "", "override the document's spec_version")
	flags.BoolVar(&cfg.ShowJSON, "show-json", false, "print the document converted to JSON before validating")
	flags.StringVar(&cfg.Output, "output", "text", "output format: text, json")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "only print errors")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the program-verify version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "program-verify v%s\n", version)
		},
	})

	return root
}

// cliValidator adapts the engine for the worker pool: it resolves the schema
// per document so each file can carry a different spec_version.
type cliValidator struct {
	engine   *engine.Validator
	resolver *schema.Resolver
	cfg      *config
}

func (v *cliValidator) ValidateNamed(ctx context.Context, data []byte, name string) (*pv.Result, error) {
	doc, err := document.FromYAML(data)
	if err != nil {
		result := pv.NewResult()
		result.Document = name
		result.AddError(pv.IssueTypeStructure, err.Error(), "")
		return result, nil
	}

	specVersion := v.cfg.SpecVersion
	if specVersion == "" {
		if field, ok := doc.Field("spec_version"); ok {
			specVersion, _ = field.Str()
		}
	}

	// The document's own directory is a version map search location.
	inputPath := name
	if name == "stdin" {
		inputPath = ""
	}

	compiled, err := v.resolver.Resolve(v.cfg.SchemaPath, specVersion, v.cfg.VersionsMap, inputPath)
	if err != nil {
		return nil, err
	}

	result := pv.NewResult()
	result.Document = name

	// Schema issues first, then the semantic rules.
	result.AddIssues(schema.NewChecker(compiled).Check(doc))

	semantic, err := v.engine.ValidateDocumentNamed(ctx, doc, name)
	if err != nil {
		return nil, err
	}
	result.SpecVersion = semantic.SpecVersion
	result.Merge(semantic)
	semantic.Release()

	return result, nil
}

func run(cfg *config, args []string) error {
	logger := zap.NewNop()
	if cfg.Verbose {
		devLogger, err := zap.NewDevelopment()
		if err == nil {
			logger = devLogger
			defer logger.Sync() //nolint:errcheck
		}
	}

	outputFormat := OutputText
	switch strings.ToLower(cfg.Output) {
	case "json":
		outputFormat = OutputJSON
	case "text":
	default:
		return fmt.Errorf("unknown output format '%s' (want text or json)", cfg.Output)
	}

	// Schema validation happens in the CLI through the resolver, so the
	// engine runs only the semantic rules.
	eng, err := engine.New(context.Background(),
		pv.WithSchema(false),
		pv.WithSpecVersion(cfg.SpecVersion))
	if err != nil {
		return err
	}
	eng.SetLogger(logger)

	validator := &cliValidator{
		engine:   eng,
		resolver: schema.NewResolver(pv.DefaultOptions().SchemaCacheSize),
		cfg:      cfg,
	}
	validator.resolver.SetMetrics(eng.Metrics())

	jobs, err := collectJobs(args)
	if err != nil {
		return err
	}

	if cfg.ShowJSON {
		for _, job := range jobs {
			if err := printDocumentJSON(job.Document); err != nil {
				return err
			}
		}
	}

	results, err := validateAll(validator, jobs, logger)
	if err != nil {
		return err
	}

	outputs := make([]ValidationOutput, 0, len(results))
	hasErrors := false
	for _, jr := range results {
		if jr.Error != nil {
			return jr.Error
		}
		out := buildOutput(jr)
		outputs = append(outputs, out)
		if !out.Valid {
			hasErrors = true
		}
		if outputFormat == OutputText {
			printTextResult(jr, cfg)
		}
	}

	if outputFormat == OutputJSON {
		encoded, err := json.MarshalIndent(outputs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
	}

	if hasErrors {
		return validationFailure{}
	}
	return nil
}

// collectJobs expands the argument list into validation jobs, reading stdin
// for "-" and expanding glob patterns.
func collectJobs(args []string) ([]worker.Job, error) {
	jobs := make([]worker.Job, 0, len(args))

	for _, arg := range args {
		if arg == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return nil, fmt.Errorf("failed to read stdin: %w", err)
			}
			jobs = append(jobs, worker.Job{ID: "stdin", Document: data})
			continue
		}

		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern '%s': %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}

		for _, match := range matches {
			data, err := os.ReadFile(match)
			if err != nil {
				return nil, fmt.Errorf("failed to read file %s: %w", match, err)
			}
			jobs = append(jobs, worker.Job{ID: match, Document: data})
		}
	}

	return jobs, nil
}

// validateAll runs the jobs, through the worker pool when there is more than
// one. Results come back in input order.
func validateAll(validator *cliValidator, jobs []worker.Job, logger *zap.Logger) ([]*worker.JobResult, error) {
	if len(jobs) == 1 {
		start := time.Now()
		result, err := validator.ValidateNamed(context.Background(), jobs[0].Document, jobs[0].ID)
		return []*worker.JobResult{{
			ID:       jobs[0].ID,
			Result:   result,
			Error:    err,
			Duration: time.Since(start).Nanoseconds(),
		}}, nil
	}

	pool := worker.NewPool(validator, 0)
	for _, job := range jobs {
		if !pool.Submit(job) {
			pool.Close()
			return nil, fmt.Errorf("failed to submit job %s", job.ID)
		}
	}

	batch := pool.CloseAndWait()
	logger.Debug("batch finished",
		zap.Int("jobs", batch.TotalJobs),
		zap.Int("completed", batch.CompletedJobs))

	// The pool reports completion order; put results back in input order.
	byID := make(map[string]*worker.JobResult, len(batch.Results))
	for _, jr := range batch.Results {
		byID[jr.ID] = jr
	}
	ordered := make([]*worker.JobResult, 0, len(jobs))
	for _, job := range jobs {
		if jr, ok := byID[job.ID]; ok {
			ordered = append(ordered, jr)
		}
	}
	return ordered, nil
}

// printDocumentJSON prints the document converted to pretty JSON.
func printDocumentJSON(data []byte) error {
	doc, err := document.FromYAML(data)
	if err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	encoded, err := json.MarshalIndent(doc.Interface(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func buildOutput(jr *worker.JobResult) ValidationOutput {
	result := jr.Result

	out := ValidationOutput{
		Document:    jr.ID,
		Valid:       !result.HasErrors(),
		SpecVersion: result.SpecVersion,
		Errors:      result.ErrorCount(),
		Warnings:    result.WarningCount(),
		Duration:    time.Duration(jr.Duration).Round(time.Microsecond).String(),
	}
	for _, iss := range result.Issues {
		out.Issues = append(out.Issues, IssueOutput{
			Severity:    string(iss.Severity),
			Code:        string(iss.Code),
			Diagnostics: iss.Diagnostics,
			Path:        iss.Path,
			Rule:        iss.Rule,
		})
	}
	return out
}

func printTextResult(jr *worker.JobResult, cfg *config) {
	result := jr.Result

	if !result.HasErrors() {
		if !cfg.Quiet {
			fmt.Printf("== %s ==\n", jr.ID)
			for _, iss := range result.Issues {
				fmt.Printf("  %s [%s] %s\n", severityIcon(iss.Severity), iss.Code, iss.Diagnostics)
			}
			fmt.Println("OK: the document matches the specification.")
		}
		return
	}

	fmt.Fprintf(os.Stderr, "== %s ==\n", jr.ID)
	fmt.Fprintf(os.Stderr, "Status: INVALID (errors: %d, warnings: %d)\n",
		result.ErrorCount(), result.WarningCount())
	for _, iss := range result.Issues {
		if cfg.Quiet && !iss.IsError() {
			continue
		}
		location := ""
		if iss.Path != "" {
			location = " @ " + iss.Path
		}
		fmt.Fprintf(os.Stderr, "  %s [%s] %s%s\n",
			severityIcon(iss.Severity), iss.Code, iss.Diagnostics, location)
	}
}

func severityIcon(severity pv.IssueSeverity) string {
	switch severity {
	case pv.SeverityFatal, pv.SeverityError:
		return "ERROR"
	case pv.SeverityWarning:
		return "WARN "
	case pv.SeverityInformation:
		return "INFO "
	default:
		return "     "
	}
}
