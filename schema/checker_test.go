package schema

import (
	"strings"
	"testing"

	"github.com/Norbi0801/program-verify/document"
)

func mustDoc(t *testing.T, src string) *document.Value {
	t.Helper()
	doc, err := document.FromYAML([]byte(src))
	if err != nil {
		t.Fatalf("decoding test document: %v", err)
	}
	return doc
}

func TestEmbeddedCompiles(t *testing.T) {
	if _, err := Embedded(); err != nil {
		t.Fatalf("embedded schema failed to compile: %v", err)
	}
	if len(EmbeddedJSON()) == 0 {
		t.Fatal("embedded schema is empty")
	}
}

func TestCheckerValidDocument(t *testing.T) {
	compiled, err := Embedded()
	if err != nil {
		t.Fatal(err)
	}
	checker := NewChecker(compiled)

	issues := checker.Check(mustDoc(t, `
spec_version: v3
meta:
  title: Sorter (v3)
algorithm:
  name: Sorter
  phases: [load, sort]
implementation:
  phase_contracts:
    sort:
      outputs:
        - {name: result, type: list}
`))
	if len(issues) != 0 {
		t.Errorf("valid document produced %v", issues)
	}
}

func TestCheckerMissingRequired(t *testing.T) {
	compiled, err := Embedded()
	if err != nil {
		t.Fatal(err)
	}
	checker := NewChecker(compiled)

	issues := checker.Check(mustDoc(t, `
algorithm:
  name: Sorter
`))
	if len(issues) == 0 {
		t.Fatal("document without meta should fail")
	}
	found := false
	for _, issue := range issues {
		if strings.Contains(issue.Diagnostics, "meta") {
			found = true
		}
		if issue.Rule != RuleSchema {
			t.Errorf("Rule = %q, want %q", issue.Rule, RuleSchema)
		}
	}
	if !found {
		t.Errorf("no issue mentions the missing field: %v", issues)
	}
}

func TestCheckerBadSpecVersionPattern(t *testing.T) {
	compiled, err := Embedded()
	if err != nil {
		t.Fatal(err)
	}
	checker := NewChecker(compiled)

	issues := checker.Check(mustDoc(t, `
spec_version: "3.1"
meta:
  title: Foo
algorithm:
  name: Foo
`))
	if len(issues) == 0 {
		t.Error("spec_version without the v prefix should violate the pattern")
	}
}

func TestCheckerIssuePaths(t *testing.T) {
	compiled, err := Embedded()
	if err != nil {
		t.Fatal(err)
	}
	checker := NewChecker(compiled)

	issues := checker.Check(mustDoc(t, `
meta:
  title: 42
algorithm:
  name: Foo
`))
	if len(issues) == 0 {
		t.Fatal("non-string title should fail")
	}
	for _, issue := range issues {
		if issue.Path == "" {
			t.Errorf("issue without an instance path: %v", issue)
		}
	}
}

func TestCheckerNilSafe(t *testing.T) {
	var checker *Checker
	if issues := checker.Check(mustDoc(t, `{}`)); issues != nil {
		t.Errorf("nil checker returned %v", issues)
	}
}

func TestCompileBytesYAML(t *testing.T) {
	compiled, err := CompileBytes("inline.yaml", []byte(`
type: object
required: [name]
properties:
  name:
    type: string
`))
	if err != nil {
		t.Fatalf("CompileBytes: %v", err)
	}

	checker := NewChecker(compiled)
	if issues := checker.Check(mustDoc(t, `name: ok`)); len(issues) != 0 {
		t.Errorf("conforming document produced %v", issues)
	}
	if issues := checker.Check(mustDoc(t, `other: 1`)); len(issues) == 0 {
		t.Error("nonconforming document passed")
	}
}

func TestCompileBytesInvalid(t *testing.T) {
	if _, err := CompileBytes("bad.json", []byte(`{"type": 42}`)); err == nil {
		t.Error("schema with a bad type keyword should not compile")
	}
}
