package programverify

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks validation performance metrics using lock-free atomic operations.
// All methods are safe for concurrent use.
type Metrics struct {
	// Validation counts
	validationsTotal atomic.Uint64
	validationsValid atomic.Uint64

	// Timing (stored as nanoseconds)
	validationTimeTotal atomic.Uint64
	validationTimeMin   atomic.Uint64
	validationTimeMax   atomic.Uint64

	// Schema cache metrics
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64

	// Per-rule timing
	ruleTiming sync.Map // map[string]*ruleMetrics
}

// ruleMetrics tracks metrics for a single validation rule.
type ruleMetrics struct {
	invocations atomic.Uint64
	totalTime   atomic.Uint64 // nanoseconds
	issuesFound atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so first value becomes the minimum
	m.validationTimeMin.Store(^uint64(0))
	return m
}

// RecordValidation records a completed validation.
func (m *Metrics) RecordValidation(duration time.Duration, valid bool) {
	m.validationsTotal.Add(1)
	if valid {
		m.validationsValid.Add(1)
	}

	ns := uint64(duration.Nanoseconds())
	m.validationTimeTotal.Add(ns)

	// Update min (CAS loop)
	for {
		old := m.validationTimeMin.Load()
		if ns >= old {
			break
		}
		if m.validationTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (CAS loop)
	for {
		old := m.validationTimeMax.Load()
		if ns <= old {
			break
		}
		if m.validationTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordRule records the execution of a single validation rule.
func (m *Metrics) RecordRule(name string, duration time.Duration, issues int) {
	v, _ := m.ruleTiming.LoadOrStore(name, &ruleMetrics{})
	rm := v.(*ruleMetrics)
	rm.invocations.Add(1)
	rm.totalTime.Add(uint64(duration.Nanoseconds()))
	rm.issuesFound.Add(uint64(issues))
}

// RecordCacheHit records a schema cache hit.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records a schema cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// Snapshot is a point-in-time copy of the metrics.
type Snapshot struct {
	ValidationsTotal uint64               `json:"validationsTotal"`
	ValidationsValid uint64               `json:"validationsValid"`
	TotalTime        time.Duration        `json:"totalTime"`
	MinTime          time.Duration        `json:"minTime"`
	MaxTime          time.Duration        `json:"maxTime"`
	CacheHits        uint64               `json:"cacheHits"`
	CacheMisses      uint64               `json:"cacheMisses"`
	Rules            map[string]RuleStats `json:"rules,omitempty"`
}

// RuleStats holds per-rule statistics.
type RuleStats struct {
	Invocations uint64        `json:"invocations"`
	TotalTime   time.Duration `json:"totalTime"`
	IssuesFound uint64        `json:"issuesFound"`
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		ValidationsTotal: m.validationsTotal.Load(),
		ValidationsValid: m.validationsValid.Load(),
		TotalTime:        time.Duration(m.validationTimeTotal.Load()),
		MaxTime:          time.Duration(m.validationTimeMax.Load()),
		CacheHits:        m.cacheHits.Load(),
		CacheMisses:      m.cacheMisses.Load(),
		Rules:            make(map[string]RuleStats),
	}

	if min := m.validationTimeMin.Load(); min != ^uint64(0) {
		s.MinTime = time.Duration(min)
	}

	m.ruleTiming.Range(func(key, value any) bool {
		rm := value.(*ruleMetrics)
		s.Rules[key.(string)] = RuleStats{
			Invocations: rm.invocations.Load(),
			TotalTime:   time.Duration(rm.totalTime.Load()),
			IssuesFound: rm.issuesFound.Load(),
		}
		return true
	})

	return s
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.validationsTotal.Store(0)
	m.validationsValid.Store(0)
	m.validationTimeTotal.Store(0)
	m.validationTimeMin.Store(^uint64(0))
	m.validationTimeMax.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.ruleTiming.Range(func(key, _ any) bool {
		m.ruleTiming.Delete(key)
		return true
	})
}
