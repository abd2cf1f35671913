// Package pipeline provides the validation rule pipeline infrastructure.
package pipeline

import (
	"sync"

	pv "github.com/Norbi0801/program-verify"
	"github.com/Norbi0801/program-verify/document"
)

// Context holds all state needed during validation of a single document.
// It is passed through all validation rules and provides shared access to
// the decoded document and the accumulated result.
//
// Context instances are pooled. Use AcquireContext() and Release() to manage
// them properly.
type Context struct {
	// Data is the raw document bytes, when validation started from bytes
	Data []byte

	// Doc is the decoded document tree
	Doc *document.Value

	// Name identifies the document (file name, "stdin", ...)
	Name string

	// SpecVersion is the effective spec_version for this run: the document's
	// own field, unless the caller overrode it
	SpecVersion string

	// Result accumulates validation issues
	Result *pv.Result

	// Options holds validation options
	Options *pv.Options

	// mu protects concurrent access during parallel rule execution
	mu sync.RWMutex

	// metadata carries rule-to-rule state
	metadata map[string]any
}

// contextPool holds reusable Context instances.
var contextPool = sync.Pool{
	New: func() any {
		return &Context{
			metadata: make(map[string]any, 4),
		}
	},
}

// AcquireContext gets a Context from the pool.
// Call Release() when done to return it to the pool.
func AcquireContext() *Context {
	ctx := contextPool.Get().(*Context)
	ctx.Reset()
	return ctx
}

// Release returns the Context to the pool.
// After calling Release, the Context should not be used.
func (c *Context) Release() {
	if c == nil {
		return
	}
	contextPool.Put(c)
}

// ReleaseContext returns a Context to the pool.
// Convenience function equivalent to ctx.Release().
func ReleaseContext(ctx *Context) {
	if ctx != nil {
		ctx.Release()
	}
}

// Reset clears the context for reuse.
func (c *Context) Reset() {
	c.Data = nil
	c.Doc = nil
	c.Name = ""
	c.SpecVersion = ""
	c.Result = nil
	c.Options = nil

	for k := range c.metadata {
		delete(c.metadata, k)
	}
}

// SetMetadata stores a value in the context metadata.
// Thread-safe for use during parallel rule execution.
func (c *Context) SetMetadata(key string, value any) {
	c.mu.Lock()
	c.metadata[key] = value
	c.mu.Unlock()
}

// GetMetadata retrieves a value from the context metadata.
// Thread-safe for use during parallel rule execution.
func (c *Context) GetMetadata(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.metadata[key]
	c.mu.RUnlock()
	return v, ok
}

// AddIssue adds a validation issue to the result.
func (c *Context) AddIssue(issue pv.Issue) {
	if c.Result != nil {
		c.Result.AddIssue(issue)
	}
}

// AddError is a convenience method to add an error issue.
func (c *Context) AddError(code pv.IssueType, diagnostics, path string) {
	if c.Result != nil {
		c.Result.AddError(code, diagnostics, path)
	}
}

// ShouldStop returns true if validation should stop (max errors reached).
func (c *Context) ShouldStop() bool {
	if c.Options == nil || c.Options.MaxErrors <= 0 {
		return false
	}
	if c.Result == nil {
		return false
	}
	return c.Result.ErrorCount() >= c.Options.MaxErrors
}

// NewContext creates a new Context (non-pooled).
// Prefer AcquireContext() for better performance.
func NewContext() *Context {
	return &Context{
		metadata: make(map[string]any, 4),
	}
}
