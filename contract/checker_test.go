package contract

import (
	"reflect"
	"strings"
	"testing"
)

func diagnostics(t *testing.T, src string) []string {
	t.Helper()
	issues := CheckPhaseContracts(mustDoc(t, src))
	msgs := make([]string, 0, len(issues))
	for _, issue := range issues {
		msgs = append(msgs, issue.Diagnostics)
	}
	return msgs
}

func TestCheckNoPhases(t *testing.T) {
	// Without phases the contract rules are out of scope, even in strict mode.
	msgs := diagnostics(t, `
spec_version: v3
meta:
  title: Foo
algorithm:
  name: Foo
`)
	if len(msgs) != 0 {
		t.Errorf("got %v, want no messages", msgs)
	}
}

func TestCheckStrictMissingContractsBlock(t *testing.T) {
	msgs := diagnostics(t, `
spec_version: v3
algorithm:
  phases: [load]
`)
	want := []string{"phase_contracts must be present for v3+ specs"}
	if !reflect.DeepEqual(msgs, want) {
		t.Errorf("got %v, want %v", msgs, want)
	}
}

func TestCheckNonStrictMissingContractsBlock(t *testing.T) {
	for _, version := range []string{"", "v2", "v2.9", "not-a-version"} {
		doc := mustDoc(t, `
algorithm:
  phases: [load]
`)
		issues := CheckPhaseContractsVersion(doc, version)
		if len(issues) != 0 {
			t.Errorf("version %q: got %v, want none", version, issues)
		}
	}
}

func TestCheckValidDocument(t *testing.T) {
	msgs := diagnostics(t, `
spec_version: v3
algorithm:
  phases: [load, sort]
  outputs:
    - name: sorted
      build:
        kind: phase_output
        phase: sort
        port: result
implementation:
  phase_contracts:
    load:
      outputs:
        - {name: rows}
    sort:
      inputs:
        - name: rows
          source:
            kind: phase_output
            phase: load
            port: rows
      outputs:
        - {name: result}
      errors:
        - {code: E_EMPTY}
      retry_policy:
        retryable_errors: [E_EMPTY]
      fallback:
        phase: load
  return_contract:
    produced_by:
      phase: sort
      port: result
`)
	if len(msgs) != 0 {
		t.Errorf("valid document produced %v", msgs)
	}
}

func TestCheckIdempotent(t *testing.T) {
	src := `
spec_version: v3
algorithm:
  phases: [load, sort]
  outputs:
    - name: out
      build:
        kind: phase_output
        phase: ghost
        port: x
implementation:
  phase_contracts:
    load:
      outputs:
        - {name: x}
        - {name: x}
`
	first := diagnostics(t, src)
	second := diagnostics(t, src)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("runs differ:\n%v\n%v", first, second)
	}
	if len(first) == 0 {
		t.Fatal("expected messages from the faulty document")
	}
}

func TestCheckInputReferenceShortCircuit(t *testing.T) {
	// An unknown producing phase yields exactly one message; the contract
	// and port checks do not pile on.
	msgs := diagnostics(t, `
algorithm:
  phases: [sort]
implementation:
  phase_contracts:
    sort:
      inputs:
        - name: rows
          source:
            kind: phase_output
            phase: ghost
            port: rows
`)
	want := []string{"input 'rows' of phase 'sort' references unknown producing phase 'ghost'"}
	if !reflect.DeepEqual(msgs, want) {
		t.Errorf("got %v, want %v", msgs, want)
	}
}

func TestCheckInputMissingContractEntry(t *testing.T) {
	msgs := diagnostics(t, `
algorithm:
  phases: [load, sort]
implementation:
  phase_contracts:
    sort:
      inputs:
        - name: rows
          source:
            kind: phase_output
            phase: load
            port: rows
`)
	want := []string{"input 'rows' of phase 'sort' references phase 'load' but that phase lacks a phase_contracts entry"}
	if !reflect.DeepEqual(msgs, want) {
		t.Errorf("got %v, want %v", msgs, want)
	}
}

func TestCheckInputUndeclaredPort(t *testing.T) {
	msgs := diagnostics(t, `
algorithm:
  phases: [load, sort]
implementation:
  phase_contracts:
    load:
      outputs:
        - {name: rows}
    sort:
      inputs:
        - name: rows
          source:
            kind: phase_output
            phase: load
            port: wrong_port
`)
	want := []string{"input 'rows' of phase 'sort' expects output 'wrong_port' of phase 'load' but it is not declared"}
	if !reflect.DeepEqual(msgs, want) {
		t.Errorf("got %v, want %v", msgs, want)
	}
}

func TestCheckInstanceAndGlobalPaths(t *testing.T) {
	msgs := diagnostics(t, `
algorithm:
  phases: [load]
implementation:
  phase_contracts:
    load:
      inputs:
        - name: a
          source:
            kind: instance_path
            path: ""
        - name: b
          source:
            kind: global_path
            path: "   "
        - name: c
          source:
            kind: instance_path
            path: items.rows
`)
	want := []string{
		"input 'a' of phase 'load' declares an instance reference with an empty path",
		"input 'b' of phase 'load' declares a global reference with an empty path",
	}
	if !reflect.DeepEqual(msgs, want) {
		t.Errorf("got %v, want %v", msgs, want)
	}
}

func TestCheckUnknownSourceKindIgnored(t *testing.T) {
	msgs := diagnostics(t, `
algorithm:
  phases: [load]
implementation:
  phase_contracts:
    load:
      inputs:
        - name: a
          source:
            kind: future_thing
            anything: goes
`)
	if len(msgs) != 0 {
		t.Errorf("unknown kind produced %v", msgs)
	}
}

func TestCheckRetryWithoutErrorsBlock(t *testing.T) {
	msgs := diagnostics(t, `
algorithm:
  phases: [load]
implementation:
  phase_contracts:
    load:
      retry_policy:
        retryable_errors: [E_IO]
`)
	want := []string{"phase 'load' declares retryable error 'E_IO' but no errors block is defined"}
	if !reflect.DeepEqual(msgs, want) {
		t.Errorf("got %v, want %v", msgs, want)
	}
}

func TestCheckRetryUnknownCode(t *testing.T) {
	msgs := diagnostics(t, `
algorithm:
  phases: [load]
implementation:
  phase_contracts:
    load:
      errors:
        - {code: E_IO}
      retry_policy:
        retryable_errors: [E_IO, E_GHOST]
`)
	want := []string{"retry policy of phase 'load' references unknown error code 'E_GHOST'"}
	if !reflect.DeepEqual(msgs, want) {
		t.Errorf("got %v, want %v", msgs, want)
	}
}

func TestCheckFallback(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "unknown phase",
			doc: `
algorithm:
  phases: [load]
implementation:
  phase_contracts:
    load:
      fallback:
        phase: ghost
`,
			want: []string{"fallback of phase 'load' references unknown phase 'ghost'"},
		},
		{
			name: "known phase without entry",
			doc: `
algorithm:
  phases: [load, backup]
implementation:
  phase_contracts:
    load:
      fallback:
        phase: backup
`,
			want: []string{"fallback of phase 'load' references phase 'backup' which lacks a phase_contracts entry"},
		},
		{
			name: "blank target ignored",
			doc: `
algorithm:
  phases: [load]
implementation:
  phase_contracts:
    load:
      fallback:
        phase: "  "
`,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := diagnostics(t, tt.doc)
			if len(msgs) != len(tt.want) {
				t.Fatalf("got %v, want %v", msgs, tt.want)
			}
			for i, w := range tt.want {
				if msgs[i] != w {
					t.Errorf("message[%d] = %q, want %q", i, msgs[i], w)
				}
			}
		})
	}
}

func TestCheckCompositionUndeclaredPort(t *testing.T) {
	// Exactly one message, and it names the composition.
	msgs := diagnostics(t, `
algorithm:
  phases: [sort]
  outputs:
    - name: final
      build:
        kind: phase_output
        phase: sort
        port: missing
implementation:
  phase_contracts:
    sort:
      outputs:
        - {name: result}
`)
	if len(msgs) != 1 {
		t.Fatalf("got %v, want exactly 1 message", msgs)
	}
	if !strings.Contains(msgs[0], "output composition 'final'") {
		t.Errorf("message %q should name the composition", msgs[0])
	}
	if !strings.Contains(msgs[0], "'missing'") {
		t.Errorf("message %q should name the port", msgs[0])
	}
}

func TestCheckCompositionNestedBuild(t *testing.T) {
	msgs := diagnostics(t, `
algorithm:
  phases: [sort]
  outputs:
    - name: report
      build:
        header:
          kind: phase_output
          phase: sort
          port: summary
        rows:
          - kind: phase_output
            phase: sort
            port: result
          - literal: true
implementation:
  phase_contracts:
    sort:
      outputs:
        - {name: result}
`)
	want := []string{"output composition 'report' expects output 'summary' of phase 'sort' but it is not declared"}
	if !reflect.DeepEqual(msgs, want) {
		t.Errorf("got %v, want %v", msgs, want)
	}
}

func TestCheckCompositionUnnamed(t *testing.T) {
	msgs := diagnostics(t, `
algorithm:
  phases: [sort]
  outputs:
    - build:
        kind: phase_output
        phase: ghost
        port: x
implementation:
  phase_contracts:
    sort: {}
`)
	if len(msgs) != 1 {
		t.Fatalf("got %v, want 1 message", msgs)
	}
	if !strings.Contains(msgs[0], "output composition '(unnamed)'") {
		t.Errorf("message %q should carry the unnamed placeholder", msgs[0])
	}
}

func TestCheckReturnContract(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "undeclared port",
			doc: `
algorithm:
  phases: [sort]
implementation:
  phase_contracts:
    sort:
      outputs:
        - {name: result}
  return_contract:
    produced_by:
      phase: sort
      port: missing
`,
			want: []string{"return contract expects output 'missing' of phase 'sort' but it is not declared"},
		},
		{
			name: "unknown phase",
			doc: `
algorithm:
  phases: [sort]
implementation:
  phase_contracts:
    sort: {}
  return_contract:
    produced_by:
      phase: ghost
      port: x
`,
			want: []string{"return contract references unknown producing phase 'ghost'"},
		},
		{
			name: "empty phase skipped",
			doc: `
algorithm:
  phases: [sort]
implementation:
  phase_contracts:
    sort: {}
  return_contract:
    produced_by:
      port: x
`,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := diagnostics(t, tt.doc)
			if len(msgs) != len(tt.want) {
				t.Fatalf("got %v, want %v", msgs, tt.want)
			}
			for i, w := range tt.want {
				if msgs[i] != w {
					t.Errorf("message[%d] = %q, want %q", i, msgs[i], w)
				}
			}
		})
	}
}

func TestCheckCollectsAllIndependentIssues(t *testing.T) {
	// Independent faults are all reported in one pass, sorted by phase for
	// the per-contract checks.
	msgs := diagnostics(t, `
spec_version: v3
algorithm:
  phases: [load, sort]
implementation:
  phase_contracts:
    load:
      outputs:
        - {name: x}
        - {name: x}
      retry_policy:
        retryable_errors: [E_IO]
    sort:
      fallback:
        phase: ghost
`)
	want := []string{
		"phase 'load' declares duplicate output 'x'",
		"phase 'load' declares retryable error 'E_IO' but no errors block is defined",
		"fallback of phase 'sort' references unknown phase 'ghost'",
	}
	if !reflect.DeepEqual(msgs, want) {
		t.Errorf("got %v, want %v", msgs, want)
	}
}

func TestCheckCombined(t *testing.T) {
	issues := Check(mustDoc(t, `
spec_version: v3
meta:
  title: Bar (v3)
algorithm:
  name: Foo
  phases: [load]
implementation:
  phase_contracts:
    load: {}
`))
	if len(issues) != 1 {
		t.Fatalf("got %d issues %v, want 1", len(issues), issues)
	}
	if issues[0].Rule != RuleTitle {
		t.Errorf("Rule = %q, want the title rule first", issues[0].Rule)
	}
}

func TestCheckVersionOverride(t *testing.T) {
	doc := mustDoc(t, `
spec_version: v2
algorithm:
  phases: [load]
`)
	// The document says v2, the caller forces v3 semantics.
	issues := CheckPhaseContractsVersion(doc, "v3")
	if len(issues) != 1 {
		t.Fatalf("got %v, want the strict policy issue", issues)
	}
	if issues[0].Diagnostics != "phase_contracts must be present for v3+ specs" {
		t.Errorf("message = %q", issues[0].Diagnostics)
	}
}
