package contract

import (
	"github.com/Norbi0801/program-verify/document"
	"github.com/Norbi0801/program-verify/pool"
)

// Source reference kinds this validator understands. The set of kinds is
// open: anything else is inspected for nothing beyond its presence.
const (
	KindPhaseOutput  = "phase_output"
	KindInstancePath = "instance_path"
	KindGlobalPath   = "global_path"
)

// stackPool holds scratch stacks for the iterative build-expression walk.
var stackPool = pool.NewSlicePool[*document.Value](32, 4096)

// Source is a decoded source reference: the "source" of a phase input, a node
// of an output's build expression, or the return contract's producer.
type Source struct {
	Kind  string
	Phase string
	Port  string
	Path  string
}

// sourceOf decodes an object value into a Source. An object is a reference
// if and only if it carries a "kind" field.
func sourceOf(v *document.Value) (*Source, bool) {
	if v.Kind() != document.Object {
		return nil, false
	}
	kindVal, ok := v.Field("kind")
	if !ok {
		return nil, false
	}

	src := &Source{}
	src.Kind, _ = kindVal.Str()
	if f, ok := v.Field("phase"); ok {
		src.Phase, _ = f.Str()
	}
	if f, ok := v.Field("port"); ok {
		src.Port, _ = f.Str()
	}
	if f, ok := v.Field("path"); ok {
		src.Path, _ = f.Str()
	}
	return src, true
}

// collectSources gathers every source reference nested inside a build
// expression, depth-first. The walk is iterative so pathologically deep
// input cannot exhaust the goroutine stack. An object carrying a "kind"
// field is collected as a reference and not descended into; arrays recurse
// into every element in document order; other objects recurse into their
// members in sorted key order; scalars contribute nothing.
func collectSources(root *document.Value) []*Source {
	if root == nil {
		return nil
	}

	var out []*Source
	stackPtr := stackPool.Acquire()
	stack := append(*stackPtr, root)
	defer func() {
		*stackPtr = stack[:0]
		stackPool.Release(stackPtr)
	}()

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch v.Kind() {
		case document.Object:
			if src, ok := sourceOf(v); ok {
				out = append(out, src)
				continue
			}
			keys := v.Keys()
			for i := len(keys) - 1; i >= 0; i-- {
				f, _ := v.Field(keys[i])
				stack = append(stack, f)
			}
		case document.Array:
			items := v.Items()
			for i := len(items) - 1; i >= 0; i-- {
				stack = append(stack, items[i])
			}
		}
	}

	return out
}
