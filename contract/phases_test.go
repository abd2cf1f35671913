package contract

import (
	"reflect"
	"testing"
)

func TestCollectPhasesFromList(t *testing.T) {
	doc := mustDoc(t, `
algorithm:
  phases: [load, transform, store]
`)
	set := CollectPhases(doc)
	want := []string{"load", "store", "transform"}
	if got := set.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestCollectPhasesFromGraphNodes(t *testing.T) {
	doc := mustDoc(t, `
algorithm:
  graph:
    nodes:
      n1:
        type: phase
      n2:
        type: phase
        phase: custom_name
      n3:
        type: decision
`)
	set := CollectPhases(doc)

	if !set.Contains("n1") {
		t.Error("node without an explicit phase field should use its key")
	}
	if !set.Contains("custom_name") || set.Contains("n2") {
		t.Error("node with an explicit phase field should use that name")
	}
	if set.Contains("n3") {
		t.Error("non-phase nodes should not contribute")
	}
}

func TestCollectPhasesUnion(t *testing.T) {
	doc := mustDoc(t, `
algorithm:
  phases: [load]
  graph:
    nodes:
      sort:
        type: phase
      load:
        type: phase
`)
	set := CollectPhases(doc)
	want := []string{"load", "sort"}
	if got := set.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestCollectPhasesEmpty(t *testing.T) {
	doc := mustDoc(t, `
meta:
  title: Foo
`)
	if set := CollectPhases(doc); len(set) != 0 {
		t.Errorf("phase set = %v, want empty", set.Names())
	}
}

func TestCollectPhasesSkipsNonStrings(t *testing.T) {
	doc := mustDoc(t, `
algorithm:
  phases: [load, 42, null]
`)
	set := CollectPhases(doc)
	if len(set) != 1 || !set.Contains("load") {
		t.Errorf("phase set = %v, want [load]", set.Names())
	}
}
