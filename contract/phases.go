package contract

import (
	"sort"

	"github.com/Norbi0801/program-verify/document"
)

// NodeTypePhase marks a graph node as a phase declaration.
const NodeTypePhase = "phase"

// PhaseSet is the effective set of known phase names.
type PhaseSet map[string]struct{}

// Contains reports whether the set holds the given phase name.
func (s PhaseSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the phase names in sorted order.
func (s PhaseSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CollectPhases enumerates all known phase names from the two declaration
// sites: the explicit algorithm.phases list and algorithm.graph.nodes entries
// whose type is "phase". A graph node contributes its own phase field when
// present, otherwise its mapping key. A phase need not appear in both places.
func CollectPhases(doc *document.Value) PhaseSet {
	set := make(PhaseSet)

	if list, ok := doc.Lookup("algorithm", "phases"); ok {
		for _, item := range list.Items() {
			if name, ok := item.Str(); ok {
				set[name] = struct{}{}
			}
		}
	}

	if nodes, ok := doc.Lookup("algorithm", "graph", "nodes"); ok {
		for _, id := range nodes.Keys() {
			node, _ := nodes.Field(id)
			typeVal, ok := node.Field("type")
			if !ok {
				continue
			}
			if t, ok := typeVal.Str(); !ok || t != NodeTypePhase {
				continue
			}

			name := id
			if phaseVal, ok := node.Field("phase"); ok {
				if s, ok := phaseVal.Str(); ok {
					name = s
				}
			}
			set[name] = struct{}{}
		}
	}

	return set
}
