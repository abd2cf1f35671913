package pipeline

import (
	"context"
	"sort"
	"sync"
	"time"

	pv "github.com/Norbi0801/program-verify"
)

// Pipeline orchestrates the execution of validation rules.
// It supports both sequential and parallel execution of rule groups,
// with configurable timeouts and early termination on max errors.
type Pipeline struct {
	// registry holds all registered rules
	registry *RuleRegistry

	// groups holds rules organized by execution group
	groups []*RuleGroup

	// metrics tracks execution metrics
	metrics *pv.Metrics

	// options holds pipeline configuration
	options *Options

	// mu protects concurrent access
	mu sync.RWMutex
}

// RuleGroup is a set of rules sharing one priority.
type RuleGroup struct {
	Priority RulePriority
	Rules    []*RuleConfig
	Parallel bool
}

// Options configures pipeline behavior.
type Options struct {
	// ParallelExecution enables running independent rules in parallel
	ParallelExecution bool

	// RuleTimeout is the maximum time for a single rule
	RuleTimeout time.Duration

	// MaxErrors stops validation after this many errors (0 = unlimited)
	MaxErrors int

	// CollectMetrics enables performance metric collection
	CollectMetrics bool

	// FailFast stops at the first error
	FailFast bool
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		ParallelExecution: false,
		RuleTimeout:       0, // no timeout
		MaxErrors:         0, // unlimited
		CollectMetrics:    true,
		FailFast:          false,
	}
}

// New creates a new validation pipeline.
func New(opts *Options) *Pipeline {
	if opts == nil {
		opts = DefaultOptions()
	}

	return &Pipeline{
		registry: NewRuleRegistry(),
		groups:   make([]*RuleGroup, 0, 4),
		metrics:  pv.NewMetrics(),
		options:  opts,
	}
}

// Register adds a rule to the pipeline.
func (p *Pipeline) Register(id RuleID, rule Rule, opts ...RuleOption) {
	config := &RuleConfig{
		Rule:     rule,
		Priority: PriorityNormal,
		Parallel: true,
		Required: false,
		Enabled:  true,
	}

	for _, opt := range opts {
		opt(config)
	}

	p.mu.Lock()
	p.registry.Register(id, config)
	p.mu.Unlock()

	p.rebuildGroups()
}

// RegisterConfig adds a pre-configured rule to the pipeline.
func (p *Pipeline) RegisterConfig(id RuleID, config *RuleConfig) {
	if config == nil {
		return
	}

	p.mu.Lock()
	p.registry.Register(id, config)
	p.mu.Unlock()

	p.rebuildGroups()
}

// RuleOption configures a rule registration.
type RuleOption func(*RuleConfig)

// WithPriority sets the rule priority.
func WithPriority(priority RulePriority) RuleOption {
	return func(c *RuleConfig) {
		c.Priority = priority
	}
}

// WithParallel sets whether the rule can run in parallel.
func WithParallel(parallel bool) RuleOption {
	return func(c *RuleConfig) {
		c.Parallel = parallel
	}
}

// WithRequired marks the rule as required.
func WithRequired(required bool) RuleOption {
	return func(c *RuleConfig) {
		c.Required = required
	}
}

// Enable enables a rule by ID.
func (p *Pipeline) Enable(id RuleID) {
	p.mu.Lock()
	p.registry.Enable(id)
	p.mu.Unlock()
	p.rebuildGroups()
}

// Disable disables a rule by ID.
func (p *Pipeline) Disable(id RuleID) {
	p.mu.Lock()
	p.registry.Disable(id)
	p.mu.Unlock()
	p.rebuildGroups()
}

// rebuildGroups organizes rules into execution groups by priority.
func (p *Pipeline) rebuildGroups() {
	p.mu.Lock()
	defer p.mu.Unlock()

	enabled := p.registry.GetEnabled()
	if len(enabled) == 0 {
		p.groups = nil
		return
	}

	groups := make(map[RulePriority][]*RuleConfig)
	for _, cfg := range enabled {
		groups[cfg.Priority] = append(groups[cfg.Priority], cfg)
	}

	priorities := make([]RulePriority, 0, len(groups))
	for priority := range groups {
		priorities = append(priorities, priority)
	}
	sort.Slice(priorities, func(i, j int) bool {
		return priorities[i] < priorities[j]
	})

	p.groups = make([]*RuleGroup, 0, len(priorities))
	for _, priority := range priorities {
		rules := groups[priority]

		// Stable order within a group, rules may have been registered in any order
		sort.Slice(rules, func(i, j int) bool {
			return rules[i].Rule.Name() < rules[j].Rule.Name()
		})

		canParallel := true
		for _, cfg := range rules {
			if !cfg.Parallel {
				canParallel = false
				break
			}
		}

		p.groups = append(p.groups, &RuleGroup{
			Priority: priority,
			Rules:    rules,
			Parallel: canParallel && p.options.ParallelExecution,
		})
	}
}

// Execute runs the validation pipeline. Whole-validation timing is the
// caller's concern; the pipeline records per-rule metrics only.
func (p *Pipeline) Execute(ctx context.Context, vctx *Context) *pv.Result {
	if vctx.Result == nil {
		vctx.Result = pv.AcquireResult()
	}

	p.mu.RLock()
	groups := p.groups
	p.mu.RUnlock()

	for _, group := range groups {
		select {
		case <-ctx.Done():
			vctx.Result.AddIssue(pv.Warning(pv.IssueTypeProcessing).
				Diagnostics("validation cancelled: " + ctx.Err().Error()).
				Build())
			return vctx.Result
		default:
		}

		if p.options.MaxErrors > 0 && vctx.Result.ErrorCount() >= p.options.MaxErrors {
			break
		}

		if p.options.FailFast && vctx.Result.ErrorCount() > 0 {
			break
		}

		p.executeGroup(ctx, vctx, group)
	}

	return vctx.Result
}

// executeGroup executes a single rule group.
func (p *Pipeline) executeGroup(ctx context.Context, vctx *Context, group *RuleGroup) {
	if group.Parallel && len(group.Rules) > 1 {
		p.executeParallel(ctx, vctx, group)
	} else {
		p.executeSequential(ctx, vctx, group)
	}
}

// executeSequential runs rules one at a time.
func (p *Pipeline) executeSequential(ctx context.Context, vctx *Context, group *RuleGroup) {
	for _, cfg := range group.Rules {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if p.options.MaxErrors > 0 && vctx.Result.ErrorCount() >= p.options.MaxErrors {
			return
		}

		p.executeRule(ctx, vctx, cfg)

		if p.options.FailFast && vctx.Result.ErrorCount() > 0 {
			return
		}
	}
}

// executeParallel runs rules concurrently. Issues are collected per rule and
// appended in rule-name order so output stays deterministic.
func (p *Pipeline) executeParallel(ctx context.Context, vctx *Context, group *RuleGroup) {
	var wg sync.WaitGroup
	results := make([][]pv.Issue, len(group.Rules))

	ruleCtx := ctx
	var cancel context.CancelFunc
	if p.options.RuleTimeout > 0 {
		ruleCtx, cancel = context.WithTimeout(ctx, p.options.RuleTimeout)
		defer cancel()
	}

	for i, cfg := range group.Rules {
		wg.Add(1)
		go func(idx int, cfg *RuleConfig) {
			defer wg.Done()

			start := time.Now()
			issues := cfg.Rule.Validate(ruleCtx, vctx)
			duration := time.Since(start)

			if p.options.CollectMetrics && p.metrics != nil {
				p.metrics.RecordRule(cfg.Rule.Name(), duration, len(issues))
			}

			results[idx] = issues
		}(i, cfg)
	}

	wg.Wait()

	// group.Rules is sorted by name, so this order is stable
	for _, issues := range results {
		vctx.Result.AddIssues(issues)
	}
}

// executeRule runs a single rule with timing.
func (p *Pipeline) executeRule(ctx context.Context, vctx *Context, cfg *RuleConfig) {
	ruleCtx := ctx
	var cancel context.CancelFunc
	if p.options.RuleTimeout > 0 {
		ruleCtx, cancel = context.WithTimeout(ctx, p.options.RuleTimeout)
		defer cancel()
	}

	start := time.Now()
	issues := cfg.Rule.Validate(ruleCtx, vctx)
	duration := time.Since(start)

	if p.options.CollectMetrics && p.metrics != nil {
		p.metrics.RecordRule(cfg.Rule.Name(), duration, len(issues))
	}

	vctx.Result.AddIssues(issues)
}

// Metrics returns the pipeline metrics.
func (p *Pipeline) Metrics() *pv.Metrics {
	return p.metrics
}

// SetMetrics sets the metrics collector.
func (p *Pipeline) SetMetrics(m *pv.Metrics) {
	p.metrics = m
}

// Registry returns the rule registry.
func (p *Pipeline) Registry() *RuleRegistry {
	return p.registry
}

// RuleCount returns the number of enabled rules.
func (p *Pipeline) RuleCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.registry.GetEnabled())
}

// GroupCount returns the number of rule groups.
func (p *Pipeline) GroupCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.groups)
}
