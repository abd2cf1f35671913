package pipeline

import (
	"context"

	pv "github.com/Norbi0801/program-verify"
)

// Rule represents a single validation rule in the pipeline.
//
// Rules should be:
// - Stateless: all state lives in the Context
// - Thread-safe: multiple goroutines may call Validate concurrently
// - Fast-failing: return early if ctx is cancelled or max errors reached
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Validate performs the validation and returns any issues found, in the
	// order they should be reported.
	Validate(ctx context.Context, vctx *Context) []pv.Issue
}

// RuleFunc is a function type that implements Rule.
type RuleFunc struct {
	name string
	fn   func(ctx context.Context, vctx *Context) []pv.Issue
}

// NewRuleFunc creates a Rule from a function.
func NewRuleFunc(name string, fn func(ctx context.Context, vctx *Context) []pv.Issue) Rule {
	return &RuleFunc{name: name, fn: fn}
}

// Name returns the rule name.
func (r *RuleFunc) Name() string {
	return r.name
}

// Validate calls the wrapped function.
func (r *RuleFunc) Validate(ctx context.Context, vctx *Context) []pv.Issue {
	return r.fn(ctx, vctx)
}

// RuleID uniquely identifies a validation rule.
type RuleID string

// Standard rule identifiers.
const (
	RuleIDSchema    RuleID = "schema"
	RuleIDTitle     RuleID = "title"
	RuleIDContracts RuleID = "contracts"
)

// RulePriority defines the order in which rules run. Lower values run first.
type RulePriority int

const (
	// PriorityFirst for rules that must run first (e.g., schema shape checks)
	PriorityFirst RulePriority = 100

	// PriorityNormal for standard rules
	PriorityNormal RulePriority = 500

	// PriorityLate for rules that read what earlier rules established
	PriorityLate RulePriority = 800
)

// RuleConfig holds configuration for a rule in the pipeline.
type RuleConfig struct {
	// Rule is the rule implementation
	Rule Rule

	// Priority determines execution order (lower runs first)
	Priority RulePriority

	// Parallel indicates if this rule can run in parallel with others
	// of the same priority
	Parallel bool

	// Required indicates if this rule must run (cannot be disabled)
	Required bool

	// Enabled indicates if this rule is currently enabled
	Enabled bool
}

// RuleRegistry manages available validation rules.
type RuleRegistry struct {
	rules map[RuleID]*RuleConfig
}

// NewRuleRegistry creates a new empty registry.
func NewRuleRegistry() *RuleRegistry {
	return &RuleRegistry{
		rules: make(map[RuleID]*RuleConfig),
	}
}

// Register adds a rule to the registry.
func (r *RuleRegistry) Register(id RuleID, config *RuleConfig) {
	r.rules[id] = config
}

// Get returns a rule configuration by ID.
func (r *RuleRegistry) Get(id RuleID) (*RuleConfig, bool) {
	cfg, ok := r.rules[id]
	return cfg, ok
}

// GetEnabled returns all enabled rules.
func (r *RuleRegistry) GetEnabled() []*RuleConfig {
	var enabled []*RuleConfig
	for _, cfg := range r.rules {
		if cfg.Enabled {
			enabled = append(enabled, cfg)
		}
	}
	return enabled
}

// Enable enables a rule by ID.
func (r *RuleRegistry) Enable(id RuleID) {
	if cfg, ok := r.rules[id]; ok {
		cfg.Enabled = true
	}
}

// Disable disables a rule by ID (unless required).
func (r *RuleRegistry) Disable(id RuleID) {
	if cfg, ok := r.rules[id]; ok && !cfg.Required {
		cfg.Enabled = false
	}
}

// All returns all registered rules.
func (r *RuleRegistry) All() map[RuleID]*RuleConfig {
	return r.rules
}
