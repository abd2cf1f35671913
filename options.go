package programverify

import (
	"runtime"
	"time"
)

// Option configures the Validator.
type Option func(*Options)

// Options holds all configuration for the Validator.
type Options struct {
	// Validation flags
	ValidateSchema    bool
	ValidateTitle     bool
	ValidateContracts bool

	// SpecVersionOverride, when set, takes precedence over the document's own
	// spec_version field for schema selection and the strict-mode gate.
	SpecVersionOverride string

	// Performance
	MaxErrors     int
	ParallelRules bool
	WorkerCount   int
	RuleTimeout   time.Duration
	EnablePooling bool

	// SchemaCacheSize bounds the cache of compiled JSON Schemas.
	SchemaCacheSize int
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		ValidateSchema:    true,
		ValidateTitle:     true,
		ValidateContracts: true,

		MaxErrors:     0, // unlimited
		ParallelRules: false,
		WorkerCount:   runtime.NumCPU(),
		RuleTimeout:   0, // no timeout
		EnablePooling: true,

		SchemaCacheSize: 16,
	}
}

// --- Validation Options ---

// WithSchema enables JSON Schema validation.
// Requires a schema checker to be configured on the engine.
func WithSchema(enable bool) Option {
	return func(o *Options) {
		o.ValidateSchema = enable
	}
}

// WithTitle enables the meta.title vs algorithm.name consistency rule.
func WithTitle(enable bool) Option {
	return func(o *Options) {
		o.ValidateTitle = enable
	}
}

// WithContracts enables phase-contract cross-reference validation.
func WithContracts(enable bool) Option {
	return func(o *Options) {
		o.ValidateContracts = enable
	}
}

// WithSpecVersion overrides the document's spec_version field.
func WithSpecVersion(version string) Option {
	return func(o *Options) {
		o.SpecVersionOverride = version
	}
}

// --- Performance Options ---

// WithMaxErrors sets the maximum number of errors before stopping validation.
// Use 0 for unlimited.
func WithMaxErrors(max int) Option {
	return func(o *Options) {
		o.MaxErrors = max
	}
}

// WithParallelRules enables parallel execution of independent validation rules.
func WithParallelRules(enable bool) Option {
	return func(o *Options) {
		o.ParallelRules = enable
	}
}

// WithWorkerCount sets the number of workers for batch validation.
// Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithRuleTimeout sets a timeout for each validation rule.
// Use 0 for no timeout.
func WithRuleTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.RuleTimeout = timeout
	}
}

// WithPooling enables or disables object pooling.
// Pooling reduces GC pressure but requires calling Release() on results.
func WithPooling(enable bool) Option {
	return func(o *Options) {
		o.EnablePooling = enable
	}
}

// WithSchemaCacheSize sets the compiled-schema cache size.
func WithSchemaCacheSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.SchemaCacheSize = size
		}
	}
}

// --- Presets ---

// CoreOptions returns options that run only the semantic core
// (title rule and phase contracts, no schema collaborator).
func CoreOptions() []Option {
	return []Option{
		WithSchema(false),
		WithTitle(true),
		WithContracts(true),
	}
}

// DebugOptions returns options useful for debugging.
// Disables pooling for easier inspection and caps the error count.
func DebugOptions() []Option {
	return []Option{
		WithPooling(false),
		WithMaxErrors(100),
	}
}
