// Package programverify validates structured program specification documents.
//
// A program specification describes an algorithm made of named phases connected
// by a dependency graph, where each phase may declare a contract of inputs,
// outputs, error codes, a retry policy, and a fallback phase. Generic shape
// validation is delegated to a JSON Schema collaborator; this module implements
// the semantic rules a schema engine cannot express: title/name consistency and
// the cross-reference web inside phase contracts.
//
// # Quick Start
//
//	import (
//	    pv "github.com/Norbi0801/program-verify"
//	    "github.com/Norbi0801/program-verify/engine"
//	)
//
//	validator, err := engine.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := validator.Validate(ctx, documentYAML)
//	for _, msg := range result.Messages() {
//	    fmt.Println(msg)
//	}
//	result.Release() // Return to pool for better performance
//
// # Functional Options
//
//	validator, err := engine.New(ctx,
//	    pv.WithSchema(false),
//	    pv.WithSpecVersion("v3"),
//	    pv.WithMaxErrors(100),
//	)
//
// # Validation Rules
//
// Validation is performed by rules, each handling one aspect of the document:
//
//   - Schema: JSON Schema shape validation (external collaborator)
//   - Title: meta.title base must equal algorithm.name
//   - Contracts: phase-contract indexes and cross-reference resolution
//
// Rules collect issues best-effort; no single violation aborts the rest of the
// document. Results are deterministic: running validation twice on the same
// document yields identical message sequences in the same order.
package programverify
