// Package engine provides the main program specification validation engine.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	pv "github.com/Norbi0801/program-verify"
	"github.com/Norbi0801/program-verify/document"
	"github.com/Norbi0801/program-verify/pipeline"
	"github.com/Norbi0801/program-verify/rules"
	"github.com/Norbi0801/program-verify/schema"
)

// Validator is the main program specification validator.
// It coordinates validation rules and manages the schema collaborator.
type Validator struct {
	// Configuration
	options *pv.Options

	// Schema collaborator
	checker *schema.Checker

	// Pipeline
	pipe *pipeline.Pipeline

	// Metrics
	metrics *pv.Metrics

	// Logging (no-op unless SetLogger is called)
	logger *zap.Logger

	// Worker pool for batch validation
	workerPool     chan struct{}
	workerPoolOnce sync.Once
}

// New creates a new Validator with the given options.
// When schema validation is enabled and no checker has been set, the embedded
// fallback schema is used.
func New(ctx context.Context, opts ...pv.Option) (*Validator, error) {
	options := pv.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	v := &Validator{
		options: options,
		metrics: pv.NewMetrics(),
		logger:  zap.NewNop(),
	}

	if options.ValidateSchema {
		compiled, err := schema.Embedded()
		if err != nil {
			return nil, fmt.Errorf("embedded schema is invalid: %w", err)
		}
		v.checker = schema.NewChecker(compiled)
	}

	v.buildPipeline()

	return v, nil
}

// buildPipeline constructs the validation pipeline based on options.
func (v *Validator) buildPipeline() {
	pipelineOpts := &pipeline.Options{
		ParallelExecution: v.options.ParallelRules,
		MaxErrors:         v.options.MaxErrors,
		FailFast:          v.options.MaxErrors == 1,
		RuleTimeout:       v.options.RuleTimeout,
		CollectMetrics:    true,
	}

	v.pipe = pipeline.New(pipelineOpts)
	v.pipe.SetMetrics(v.metrics)

	if v.options.ValidateSchema && v.checker != nil {
		v.pipe.RegisterConfig(pipeline.RuleIDSchema, rules.SchemaRuleConfig(v.checker))
	}
	if v.options.ValidateTitle {
		v.pipe.RegisterConfig(pipeline.RuleIDTitle, rules.TitleRuleConfig())
	}
	if v.options.ValidateContracts {
		v.pipe.RegisterConfig(pipeline.RuleIDContracts, rules.ContractsRuleConfig())
	}
}

// SetSchemaChecker replaces the schema collaborator.
// Pass nil to drop schema validation entirely.
func (v *Validator) SetSchemaChecker(checker *schema.Checker) {
	v.checker = checker
	v.buildPipeline()
}

// SetLogger attaches a logger. The engine logs at debug level only.
func (v *Validator) SetLogger(logger *zap.Logger) {
	if logger != nil {
		v.logger = logger
	}
}

// Validate decodes and validates a document given as YAML (or JSON) bytes.
// Decoding failures are reported as issues, not as a Go error.
func (v *Validator) Validate(ctx context.Context, data []byte) (*pv.Result, error) {
	return v.ValidateNamed(ctx, data, "")
}

// ValidateNamed is Validate with a document name attached to the result.
func (v *Validator) ValidateNamed(ctx context.Context, data []byte, name string) (*pv.Result, error) {
	start := time.Now()

	doc, err := document.FromYAML(data)
	if err != nil {
		result := v.newResult()
		result.Document = name
		result.AddError(pv.IssueTypeStructure, err.Error(), "")
		v.metrics.RecordValidation(time.Since(start), false)
		return result, nil
	}

	return v.validateDocument(ctx, doc, name, start)
}

// ValidateDocument validates an already decoded document tree.
func (v *Validator) ValidateDocument(ctx context.Context, doc *document.Value) (*pv.Result, error) {
	return v.validateDocument(ctx, doc, "", time.Now())
}

// ValidateDocumentNamed is ValidateDocument with a document name attached.
func (v *Validator) ValidateDocumentNamed(ctx context.Context, doc *document.Value, name string) (*pv.Result, error) {
	return v.validateDocument(ctx, doc, name, time.Now())
}

func (v *Validator) validateDocument(ctx context.Context, doc *document.Value, name string, start time.Time) (*pv.Result, error) {
	result := v.newResult()
	result.Document = name

	// The document's spec_version, unless the caller overrode it.
	version, versionIssue := specVersion(doc)
	if versionIssue != nil {
		result.AddIssue(*versionIssue)
	}
	if v.options.SpecVersionOverride != "" {
		version = v.options.SpecVersionOverride
	}
	result.SpecVersion = version

	vctx := pipeline.AcquireContext()
	vctx.Doc = doc
	vctx.Name = name
	vctx.SpecVersion = version
	vctx.Options = v.options
	vctx.Result = result

	v.pipe.Execute(ctx, vctx)

	vctx.Result = nil // don't release the result with the context
	pipeline.ReleaseContext(vctx)

	v.metrics.RecordValidation(time.Since(start), result.Valid)
	v.logger.Debug("validated document",
		zap.String("document", name),
		zap.String("specVersion", version),
		zap.Bool("valid", result.Valid),
		zap.Int("errors", result.ErrorCount()),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

// specVersion extracts the top-level spec_version field.
// A present but non-string field is an issue; absence is not.
func specVersion(doc *document.Value) (string, *pv.Issue) {
	field, ok := doc.Field("spec_version")
	if !ok {
		return "", nil
	}
	s, ok := field.Str()
	if !ok {
		issue := pv.Error(pv.IssueTypeStructure).
			Diagnostics("field 'spec_version' exists but is not a string").
			At("spec_version").
			Build()
		return "", &issue
	}
	return s, nil
}

// newResult returns a pooled or plain result depending on options.
func (v *Validator) newResult() *pv.Result {
	if v.options.EnablePooling {
		return pv.AcquireResult()
	}
	return pv.NewResult()
}

// ValidateBatch validates multiple documents in parallel.
// Results are returned in input order.
func (v *Validator) ValidateBatch(ctx context.Context, documents [][]byte) []*pv.Result {
	results := make([]*pv.Result, len(documents))

	v.workerPoolOnce.Do(func() {
		workers := v.options.WorkerCount
		if workers <= 0 {
			workers = 4
		}
		v.workerPool = make(chan struct{}, workers)
	})

	var wg sync.WaitGroup
	for i, data := range documents {
		wg.Add(1)
		go func(idx int, data []byte) {
			defer wg.Done()

			v.workerPool <- struct{}{}
			defer func() { <-v.workerPool }()

			result, err := v.Validate(ctx, data)
			if err != nil {
				result = v.newResult()
				result.AddError(pv.IssueTypeProcessing, err.Error(), "")
			}
			results[idx] = result
		}(i, data)
	}

	wg.Wait()
	return results
}

// Metrics returns the validator's metrics.
func (v *Validator) Metrics() *pv.Metrics {
	return v.metrics
}

// Options returns the validator's options.
func (v *Validator) Options() *pv.Options {
	return v.options
}

// Close releases resources held by the validator.
func (v *Validator) Close() error {
	// Nothing to clean up currently
	return nil
}
