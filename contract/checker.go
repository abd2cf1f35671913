package contract

import (
	"fmt"
	"strings"

	pv "github.com/Norbi0801/program-verify"
	"github.com/Norbi0801/program-verify/document"
)

// RuleContracts is the rule name attached to phase-contract issues.
const RuleContracts = "contracts"

// UnnamedLabel labels an output composition that declares no name. The exact
// text is a presentation choice; a label is always present so messages stay
// stable.
const UnnamedLabel = "(unnamed)"

// reporter accumulates issues in reporting order.
type reporter struct {
	issues []pv.Issue
}

func (r *reporter) add(code pv.IssueType, msg, path string) {
	r.issues = append(r.issues, pv.Error(code).
		Diagnostics(msg).
		At(path).
		Rule(RuleContracts).
		Build())
}

// Check runs the full semantic core: the title rule followed by the
// phase-contract checks. The returned issue sequence is deterministic.
func Check(doc *document.Value) []pv.Issue {
	issues := CheckTitle(doc)
	return append(issues, CheckPhaseContracts(doc)...)
}

// CheckPhaseContracts validates the phase-contract web of the document,
// reading the strict-mode gate from the document's own spec_version field.
func CheckPhaseContracts(doc *document.Value) []pv.Issue {
	return CheckPhaseContractsVersion(doc, SpecVersion(doc))
}

// CheckPhaseContractsVersion is CheckPhaseContracts with an explicit
// spec_version string, for callers that override the document's field.
func CheckPhaseContractsVersion(doc *document.Value, version string) []pv.Issue {
	phases := CollectPhases(doc)
	if len(phases) == 0 {
		// Documents without phases are out of scope for these rules.
		return nil
	}
	strict := pv.IsStrict(version)

	rep := &reporter{}

	contracts, ok := doc.Lookup("implementation", "phase_contracts")
	if !ok || contracts.Kind() != document.Object {
		if strict {
			rep.add(pv.IssueTypePolicy,
				"phase_contracts must be present for v3+ specs",
				"implementation.phase_contracts")
		}
		return rep.issues
	}

	c := &checker{
		phases: phases,
		index:  BuildIndex(phases, contracts, strict, rep),
		rep:    rep,
	}

	for _, name := range c.index.Names() {
		ct, _ := c.index.Contract(name)
		c.checkInputs(ct)
		c.checkRetryPolicy(ct)
		c.checkFallback(ct)
	}
	c.checkCompositions(doc)
	c.checkReturnContract(doc)

	return rep.issues
}

// SpecVersion reads the document's top-level spec_version string.
// Absent or non-string fields yield the empty string; the version gate
// treats both as "strict mode inactive".
func SpecVersion(doc *document.Value) string {
	v, ok := doc.Field("spec_version")
	if !ok {
		return ""
	}
	s, _ := v.Str()
	return s
}

// checker holds the two indexes shared by all reference checks.
type checker struct {
	phases PhaseSet
	index  *Index
	rep    *reporter
}

// resolveSource validates one source reference. For phase_output references
// the three checks (known phase, contract present, port declared) short-circuit
// so a single bad reference yields exactly one issue.
func (c *checker) resolveSource(src *Source, subject, path string) {
	switch src.Kind {
	case KindPhaseOutput:
		if !c.phases.Contains(src.Phase) {
			c.rep.add(pv.IssueTypeReference,
				fmt.Sprintf("%s references unknown producing phase '%s'", subject, src.Phase),
				path)
			return
		}
		ct, ok := c.index.Contract(src.Phase)
		if !ok {
			c.rep.add(pv.IssueTypeReference,
				fmt.Sprintf("%s references phase '%s' but that phase lacks a phase_contracts entry",
					subject, src.Phase),
				path)
			return
		}
		if _, ok := ct.Outputs[src.Port]; !ok {
			c.rep.add(pv.IssueTypeReference,
				fmt.Sprintf("%s expects output '%s' of phase '%s' but it is not declared",
					subject, src.Port, src.Phase),
				path)
		}

	case KindInstancePath:
		if strings.TrimSpace(src.Path) == "" {
			c.rep.add(pv.IssueTypeReference,
				fmt.Sprintf("%s declares an instance reference with an empty path", subject),
				path)
		}

	case KindGlobalPath:
		if strings.TrimSpace(src.Path) == "" {
			c.rep.add(pv.IssueTypeReference,
				fmt.Sprintf("%s declares a global reference with an empty path", subject),
				path)
		}

	default:
		// Unknown reference kinds are future extensions, not errors.
	}
}

// checkInputs resolves the source reference of every declared input.
func (c *checker) checkInputs(ct *Contract) {
	inputs, ok := ct.value.Field("inputs")
	if !ok {
		return
	}
	for i, input := range inputs.Items() {
		name, ok := fieldString(input, "name")
		if !ok {
			name = UnnamedLabel
		}
		sourceVal, ok := input.Field("source")
		if !ok {
			continue
		}
		src, ok := sourceOf(sourceVal)
		if !ok {
			continue
		}
		c.resolveSource(src,
			fmt.Sprintf("input '%s' of phase '%s'", name, ct.Phase),
			fmt.Sprintf("implementation.phase_contracts.%s.inputs[%d].source", ct.Phase, i))
	}
}

// checkRetryPolicy validates retryable error codes against the phase's own
// declared error codes.
func (c *checker) checkRetryPolicy(ct *Contract) {
	list, ok := ct.value.Lookup("retry_policy", "retryable_errors")
	if !ok {
		return
	}
	for i, item := range list.Items() {
		code, ok := item.Str()
		if !ok {
			continue
		}
		path := fmt.Sprintf("implementation.phase_contracts.%s.retry_policy.retryable_errors[%d]",
			ct.Phase, i)
		if !ct.HasErrors {
			c.rep.add(pv.IssueTypeReference,
				fmt.Sprintf("phase '%s' declares retryable error '%s' but no errors block is defined",
					ct.Phase, code),
				path)
			continue
		}
		if _, ok := ct.ErrorCodes[code]; !ok {
			c.rep.add(pv.IssueTypeReference,
				fmt.Sprintf("retry policy of phase '%s' references unknown error code '%s'",
					ct.Phase, code),
				path)
		}
	}
}

// checkFallback validates the fallback phase reference.
func (c *checker) checkFallback(ct *Contract) {
	fb, ok := ct.value.Lookup("fallback", "phase")
	if !ok {
		return
	}
	target, ok := fb.Str()
	if !ok || strings.TrimSpace(target) == "" {
		return
	}
	path := fmt.Sprintf("implementation.phase_contracts.%s.fallback.phase", ct.Phase)

	if !c.phases.Contains(target) {
		c.rep.add(pv.IssueTypeReference,
			fmt.Sprintf("fallback of phase '%s' references unknown phase '%s'", ct.Phase, target),
			path)
		return
	}
	if _, ok := c.index.Contract(target); !ok {
		c.rep.add(pv.IssueTypeReference,
			fmt.Sprintf("fallback of phase '%s' references phase '%s' which lacks a phase_contracts entry",
				ct.Phase, target),
			path)
	}
}

// checkCompositions scans every top-level algorithm output's build expression
// for source references and resolves each of them.
func (c *checker) checkCompositions(doc *document.Value) {
	outputs, ok := doc.Lookup("algorithm", "outputs")
	if !ok {
		return
	}
	for i, output := range outputs.Items() {
		if output.Kind() != document.Object {
			continue
		}
		label, ok := fieldString(output, "name")
		if !ok {
			label = UnnamedLabel
		}
		build, ok := output.Field("build")
		if !ok {
			continue
		}
		subject := fmt.Sprintf("output composition '%s'", label)
		path := fmt.Sprintf("algorithm.outputs[%d].build", i)
		for _, src := range collectSources(build) {
			c.resolveSource(src, subject, path)
		}
	}
}

// checkReturnContract resolves the producer declared by the return contract.
// A missing return_contract, or a produced_by with an empty phase, is fine:
// the field is optional.
func (c *checker) checkReturnContract(doc *document.Value) {
	producedBy, ok := doc.Lookup("implementation", "return_contract", "produced_by")
	if !ok {
		return
	}
	phase, _ := fieldString(producedBy, "phase")
	if strings.TrimSpace(phase) == "" {
		return
	}
	port, _ := fieldString(producedBy, "port")

	c.resolveSource(
		&Source{Kind: KindPhaseOutput, Phase: phase, Port: port},
		"return contract",
		"implementation.return_contract.produced_by")
}
