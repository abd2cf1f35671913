// Package schema is the adapter to the external JSON Schema collaborator.
//
// It compiles schema documents, validates decoded specification documents
// against them, and resolves which schema to use: an explicit schema file,
// a version map entry keyed by spec_version, or the embedded fallback.
package schema

import (
	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Embedded fallback schema, used when neither an explicit schema file nor a
// spec version is provided.
//
//go:embed specification.json
var embeddedSchema []byte

// EmbeddedName identifies the embedded schema in compile errors and cache keys.
const EmbeddedName = "specification.json"

// EmbeddedJSON returns the raw embedded schema document.
func EmbeddedJSON() []byte {
	return embeddedSchema
}

// Embedded compiles the embedded fallback schema.
func Embedded() (*jsonschema.Schema, error) {
	return CompileBytes(EmbeddedName, embeddedSchema)
}
