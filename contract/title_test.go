package contract

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

func TestBaseName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Foo (v2)", "Foo"},
		{"Foo", "Foo"},
		{"  Foo  ", "Foo"},
		{"Foo Bar (draft) (v2)", "Foo Bar"},
		{"(v2)", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := BaseName(tt.title); got != tt.want {
			t.Errorf("BaseName(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestCheckTitle(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantMsgs []string
	}{
		{
			name: "matching with suffix",
			doc: `
meta:
  title: Foo (v2)
algorithm:
  name: Foo
`,
			wantMsgs: nil,
		},
		{
			name: "matching without suffix",
			doc: `
meta:
  title: Foo
algorithm:
  name: Foo
`,
			wantMsgs: nil,
		},
		{
			name: "mismatch",
			doc: `
meta:
  title: Foo (v2)
algorithm:
  name: Bar
`,
			wantMsgs: []string{
				"algorithm.name='Bar' does not match the base of meta.title='Foo (v2)' (detected 'Foo')",
			},
		},
		{
			name: "missing title",
			doc: `
algorithm:
  name: Foo
`,
			wantMsgs: []string{"missing meta.title"},
		},
		{
			name: "non-string title",
			doc: `
meta:
  title: 42
algorithm:
  name: Foo
`,
			wantMsgs: []string{"missing meta.title"},
		},
		{
			name: "missing name",
			doc: `
meta:
  title: Foo
`,
			wantMsgs: []string{"missing algorithm.name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := CheckTitle(mustDoc(t, tt.doc))
			if len(issues) != len(tt.wantMsgs) {
				t.Fatalf("got %d issues %v, want %d", len(issues), issues, len(tt.wantMsgs))
			}
			for i, want := range tt.wantMsgs {
				if issues[i].Diagnostics != want {
					t.Errorf("issue[%d] = %q, want %q", i, issues[i].Diagnostics, want)
				}
				if issues[i].Rule != RuleTitle {
					t.Errorf("issue[%d].Rule = %q, want %q", i, issues[i].Rule, RuleTitle)
				}
			}
		})
	}
}

func TestCheckTitleMismatchNamesBoth(t *testing.T) {
	issues := CheckTitle(mustDoc(t, `
meta:
  title: Foo (v2)
algorithm:
  name: Bar
`))
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
	msg := issues[0].Diagnostics
	if !strings.Contains(msg, "Bar") || !strings.Contains(msg, "Foo (v2)") {
		t.Errorf("message %q should name both values", msg)
	}
}
