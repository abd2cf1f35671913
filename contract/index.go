package contract

import (
	"fmt"
	"sort"

	pv "github.com/Norbi0801/program-verify"
	"github.com/Norbi0801/program-verify/document"
	"github.com/Norbi0801/program-verify/pool"
)

// seenPool holds scratch sets for duplicate-name detection.
var seenPool = pool.NewSetPool(8, 256)

// Contract holds the derived indexes for one phase's declared contract.
type Contract struct {
	// Phase is the phase name this contract belongs to.
	Phase string

	// Outputs is the set of declared output names (duplicates collapsed).
	Outputs map[string]struct{}

	// ErrorCodes is the set of declared error codes (duplicates collapsed).
	ErrorCodes map[string]struct{}

	// HasErrors reports whether the contract declares an errors block at all.
	// A retry policy against a contract without an errors block is an error
	// regardless of the codes it lists.
	HasErrors bool

	// value is the raw contract object for the reference-resolution pass.
	value *document.Value
}

// Index holds the per-phase contract indexes derived from
// implementation.phase_contracts. It is rebuilt from scratch on every
// validation pass and never mutated afterwards.
type Index struct {
	contracts map[string]*Contract
}

// Contract returns the indexed contract for a phase.
func (x *Index) Contract(phase string) (*Contract, bool) {
	c, ok := x.contracts[phase]
	return c, ok
}

// Names returns the indexed phase names in sorted order.
func (x *Index) Names() []string {
	names := make([]string, 0, len(x.contracts))
	for name := range x.contracts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of indexed contracts.
func (x *Index) Len() int {
	return len(x.contracts)
}

// BuildIndex builds the contract index from the phase_contracts mapping.
// Keys that do not name a known phase are reported and not indexed. Duplicate
// input/output names and error codes are reported as they are found; the
// first occurrence wins silently, each later occurrence is reported once.
// In strict mode every known phase without a contract entry is also reported.
func BuildIndex(phases PhaseSet, contracts *document.Value, strict bool, rep *reporter) *Index {
	idx := &Index{contracts: make(map[string]*Contract, contracts.Len())}

	for _, key := range contracts.Keys() {
		if !phases.Contains(key) {
			rep.add(pv.IssueTypeReference,
				fmt.Sprintf("phase_contracts contains unknown phase '%s'", key),
				"implementation.phase_contracts."+key)
			continue
		}

		entry, _ := contracts.Field(key)
		if entry.Kind() != document.Object {
			// Wrong shapes are the schema collaborator's concern.
			continue
		}

		idx.contracts[key] = buildContract(key, entry, rep)
	}

	if strict {
		for _, name := range phases.Names() {
			if _, ok := idx.contracts[name]; ok {
				continue
			}
			if _, unknown := contracts.Field(name); unknown {
				// Present but unindexable; already handled above.
				continue
			}
			rep.add(pv.IssueTypePolicy,
				fmt.Sprintf("missing phase_contracts entry for phase '%s'", name),
				"implementation.phase_contracts."+name)
		}
	}

	return idx
}

// buildContract indexes one contract, reporting duplicates as they appear.
func buildContract(phase string, entry *document.Value, rep *reporter) *Contract {
	c := &Contract{
		Phase:      phase,
		Outputs:    make(map[string]struct{}),
		ErrorCodes: make(map[string]struct{}),
		value:      entry,
	}
	base := "implementation.phase_contracts." + phase

	if inputs, ok := entry.Field("inputs"); ok {
		seen := seenPool.Acquire()
		for i, input := range inputs.Items() {
			name, ok := fieldString(input, "name")
			if !ok {
				continue
			}
			if _, dup := seen[name]; dup {
				rep.add(pv.IssueTypeDuplicate,
					fmt.Sprintf("phase '%s' declares duplicate input '%s'", phase, name),
					fmt.Sprintf("%s.inputs[%d]", base, i))
				continue
			}
			seen[name] = struct{}{}
		}
		seenPool.Release(seen)
	}

	if outputs, ok := entry.Field("outputs"); ok {
		for i, output := range outputs.Items() {
			name, ok := fieldString(output, "name")
			if !ok {
				continue
			}
			if _, dup := c.Outputs[name]; dup {
				rep.add(pv.IssueTypeDuplicate,
					fmt.Sprintf("phase '%s' declares duplicate output '%s'", phase, name),
					fmt.Sprintf("%s.outputs[%d]", base, i))
				continue
			}
			c.Outputs[name] = struct{}{}
		}
	}

	if errors, ok := entry.Field("errors"); ok {
		c.HasErrors = true
		for i, decl := range errors.Items() {
			code, ok := fieldString(decl, "code")
			if !ok {
				continue
			}
			if _, dup := c.ErrorCodes[code]; dup {
				rep.add(pv.IssueTypeDuplicate,
					fmt.Sprintf("phase '%s' declares duplicate error code '%s'", phase, code),
					fmt.Sprintf("%s.errors[%d]", base, i))
				continue
			}
			c.ErrorCodes[code] = struct{}{}
		}
	}

	return c
}

// fieldString reads a string member of an object value.
func fieldString(v *document.Value, name string) (string, bool) {
	f, ok := v.Field(name)
	if !ok {
		return "", false
	}
	return f.Str()
}
