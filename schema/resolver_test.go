package schema

import (
	"path/filepath"
	"testing"

	pv "github.com/Norbi0801/program-verify"
)

const minimalSchema = `{"type": "object", "required": ["meta"]}`

func TestResolverExplicitSchemaWins(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "custom.json", minimalSchema)
	// A version map pointing somewhere else must not be consulted.
	mapPath := writeFile(t, dir, "version_map.yaml", "v3: nonexistent.json\n")

	r := NewResolver(4)
	compiled, err := r.Resolve(schemaPath, "v3", mapPath, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if compiled == nil {
		t.Fatal("Resolve returned nil schema")
	}
}

func TestResolverVersionMapLookup(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "v3.json", minimalSchema)
	mapPath := writeFile(t, dir, "version_map.yaml", "v3: v3.json\n")

	r := NewResolver(4)
	compiled, err := r.Resolve("", "v3", mapPath, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if compiled == nil {
		t.Fatal("Resolve returned nil schema")
	}
}

func TestResolverUnknownVersion(t *testing.T) {
	dir := t.TempDir()
	mapPath := writeFile(t, dir, "version_map.yaml", "v3: v3.json\n")

	r := NewResolver(4)
	if _, err := r.Resolve("", "v9", mapPath, ""); err == nil {
		t.Error("unknown version should fail")
	}
}

func TestResolverEmbeddedFallback(t *testing.T) {
	r := NewResolver(4)
	compiled, err := r.Resolve("", "", "version_map.yaml", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if compiled == nil {
		t.Fatal("Resolve returned nil schema")
	}
}

func TestResolverCachesCompiledSchemas(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "custom.json", minimalSchema)

	r := NewResolver(4)
	metrics := pv.NewMetrics()
	r.SetMetrics(metrics)

	first, err := r.Resolve(schemaPath, "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve(schemaPath, "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("second resolve should serve the cached schema")
	}

	s := metrics.Snapshot()
	if s.CacheMisses != 1 || s.CacheHits != 1 {
		t.Errorf("cache hits/misses = %d/%d, want 1/1", s.CacheHits, s.CacheMisses)
	}
}

func TestResolverInputRelativeMap(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "v3.json", minimalSchema)
	writeFile(t, dir, "version_map.yaml", "v3: v3.json\n")
	inputPath := filepath.Join(dir, "algorithm.yaml")
	writeFile(t, dir, "algorithm.yaml", "meta: {}\n")

	r := NewResolver(4)
	compiled, err := r.Resolve("", "v3", "version_map.yaml", inputPath)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if compiled == nil {
		t.Fatal("Resolve returned nil schema")
	}
}
