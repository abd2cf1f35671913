package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	pv "github.com/Norbi0801/program-verify"
	"github.com/Norbi0801/program-verify/document"
)

// RuleSchema is the rule name attached to schema-collaborator issues.
const RuleSchema = "schema"

// CompileBytes compiles a schema document. JSON is tried first; anything else
// is decoded as YAML and converted to JSON before compilation. The draft is
// not forced, the library infers it from $schema.
func CompileBytes(name string, data []byte) (*jsonschema.Schema, error) {
	jsonData := data
	if !json.Valid(data) {
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("schema %s is neither valid JSON nor YAML: %w", name, err)
		}
		tree, err := document.FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		jsonData, err = json.Marshal(tree.Interface())
		if err != nil {
			return nil, fmt.Errorf("converting schema %s from YAML to JSON failed: %w", name, err)
		}
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(jsonData)); err != nil {
		return nil, fmt.Errorf("schema document %s is invalid: %w", name, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("schema document %s is invalid: %w", name, err)
	}
	return compiled, nil
}

// Checker validates decoded documents against one compiled schema.
type Checker struct {
	schema *jsonschema.Schema
}

// NewChecker creates a Checker around a compiled schema.
func NewChecker(schema *jsonschema.Schema) *Checker {
	return &Checker{schema: schema}
}

// Check validates the document tree and returns one issue per leaf violation,
// each carrying the instance path it refers to.
func (c *Checker) Check(doc *document.Value) []pv.Issue {
	if c == nil || c.schema == nil {
		return nil
	}

	err := c.schema.Validate(doc.Interface())
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []pv.Issue{pv.Error(pv.IssueTypeProcessing).
			Diagnostics(fmt.Sprintf("schema validation failed: %v", err)).
			Rule(RuleSchema).
			Build()}
	}

	var leaves []*jsonschema.ValidationError
	flatten(ve, &leaves)

	issues := make([]pv.Issue, 0, len(leaves))
	for _, leaf := range leaves {
		issues = append(issues, pv.Error(pv.IssueTypeSchema).
			Diagnostics(fmt.Sprintf("%s (instance: %s, schema: %s)",
				leaf.Message, instancePath(leaf.InstanceLocation), leaf.KeywordLocation)).
			At(instancePath(leaf.InstanceLocation)).
			Rule(RuleSchema).
			Build())
	}
	return issues
}

// flatten collects the leaf causes of a validation error in reporting order.
func flatten(ve *jsonschema.ValidationError, out *[]*jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		*out = append(*out, ve)
		return
	}
	for _, cause := range ve.Causes {
		flatten(cause, out)
	}
}

// instancePath normalizes an empty JSON pointer to the document root marker.
func instancePath(location string) string {
	if location == "" {
		return "/"
	}
	return location
}
