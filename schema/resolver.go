package schema

import (
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	pv "github.com/Norbi0801/program-verify"
	"github.com/Norbi0801/program-verify/cache"
)

// Resolver picks and compiles the schema to validate a document against,
// caching compiled schemas. Selection priority: explicit schema file, then
// spec version via the version map, then the embedded fallback.
type Resolver struct {
	cache   *cache.Cache[string, *jsonschema.Schema]
	metrics *pv.Metrics
}

// NewResolver creates a Resolver with a compiled-schema cache of the given
// capacity.
func NewResolver(capacity int) *Resolver {
	return &Resolver{
		cache: cache.New[string, *jsonschema.Schema](capacity),
	}
}

// SetMetrics attaches a metrics collector for cache hit/miss accounting.
func (r *Resolver) SetMetrics(m *pv.Metrics) {
	r.metrics = m
}

// Resolve selects and compiles the schema for one document.
// schemaPath, when non-empty, wins. Otherwise a non-empty specVersion is
// looked up through the version map (located relative to versionsMap and
// inputPath). With neither, the embedded fallback schema is used.
func (r *Resolver) Resolve(schemaPath, specVersion, versionsMap, inputPath string) (*jsonschema.Schema, error) {
	switch {
	case schemaPath != "":
		return r.compileFile(schemaPath)

	case specVersion != "":
		mapPath, err := FindVersionMap(versionsMap, inputPath)
		if err != nil {
			return nil, err
		}
		target, err := ResolveVersion(mapPath, specVersion)
		if err != nil {
			return nil, err
		}
		return r.compileFile(target)

	default:
		return r.embedded()
	}
}

// compileFile compiles a schema file, serving repeats from the cache.
func (r *Resolver) compileFile(path string) (*jsonschema.Schema, error) {
	if compiled, ok := r.cache.Get(path); ok {
		r.recordHit()
		return compiled, nil
	}
	r.recordMiss()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	compiled, err := CompileBytes(path, data)
	if err != nil {
		return nil, err
	}
	r.cache.Set(path, compiled)
	return compiled, nil
}

// embedded compiles the embedded fallback schema, cached under its own name.
func (r *Resolver) embedded() (*jsonschema.Schema, error) {
	if compiled, ok := r.cache.Get(EmbeddedName); ok {
		r.recordHit()
		return compiled, nil
	}
	r.recordMiss()

	compiled, err := Embedded()
	if err != nil {
		return nil, err
	}
	r.cache.Set(EmbeddedName, compiled)
	return compiled, nil
}

func (r *Resolver) recordHit() {
	if r.metrics != nil {
		r.metrics.RecordCacheHit()
	}
}

func (r *Resolver) recordMiss() {
	if r.metrics != nil {
		r.metrics.RecordCacheMiss()
	}
}
