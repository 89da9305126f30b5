package taxonomy

import (
	"reflect"
	"testing"
)

func nestedTree(t *testing.T) []*Node {
	t.Helper()
	records := []LeafRecord{
		rec("rec1", "A", "B", 1),
		rec("rec2", "A", "B", 2),
	}
	return BuildTree(ExtractPaths(records))
}

func TestComputeSelectionPartial(t *testing.T) {
	tree := nestedTree(t)

	states := ComputeSelection(tree, map[string]bool{"rec1": true})

	for _, key := range []string{PathKey([]string{"A"}), PathKey([]string{"A", "B"})} {
		got := states[key]
		if got.Selected || !got.Indeterminate {
			t.Errorf("group %q = %+v, want unselected indeterminate", key, got)
		}
	}
}

func TestComputeSelectionFull(t *testing.T) {
	tree := nestedTree(t)

	states := ComputeSelection(tree, map[string]bool{"rec1": true, "rec2": true})

	for _, key := range []string{PathKey([]string{"A"}), PathKey([]string{"A", "B"})} {
		got := states[key]
		if !got.Selected || got.Indeterminate {
			t.Errorf("group %q = %+v, want selected", key, got)
		}
	}
}

func TestComputeSelectionNone(t *testing.T) {
	tree := nestedTree(t)

	states := ComputeSelection(tree, nil)

	for key, got := range states {
		if got.Selected || got.Indeterminate {
			t.Errorf("node %q = %+v, want fully unselected", key, got)
		}
	}
}

func TestComputeSelectionLeafNeverIndeterminate(t *testing.T) {
	tree := nestedTree(t)

	states := ComputeSelection(tree, map[string]bool{"rec1": true})

	leafKey := ""
	Walk(tree, func(n *Node) bool {
		if n.Kind == KindLeaf && n.RecordID == "rec1" {
			leafKey = PathKey(n.ParentKeys)
			return false
		}
		return true
	})

	got := states[leafKey]
	if !got.Selected || got.Indeterminate {
		t.Errorf("leaf = %+v, want selected and never indeterminate", got)
	}
}

func TestComputeSelectionDuplicatePathLeavesIndependent(t *testing.T) {
	tree := nestedTree(t)

	states := ComputeSelection(tree, map[string]bool{"rec1": true})

	byRecord := make(map[string]Selection)
	Walk(tree, func(n *Node) bool {
		if n.Kind == KindLeaf {
			byRecord[n.RecordID] = states[PathKey(n.ParentKeys)]
		}
		return true
	})

	if got := byRecord["rec1"]; !got.Selected {
		t.Errorf("rec1 leaf = %+v, want selected", got)
	}
	if got := byRecord["rec2"]; got.Selected {
		t.Errorf("rec2 leaf = %+v, want unselected", got)
	}
}

func TestComputeSelectionAggregatesAcrossSubgroups(t *testing.T) {
	// P1 has two sub-pillars; selecting all of one and none of the other
	// leaves P1 indeterminate.
	records := []LeafRecord{
		rec("a", "P1", "S1", 1),
		rec("b", "P1", "S1", 2),
		rec("c", "P1", "S2", 3),
	}
	tree := BuildTree(ExtractPaths(records))

	states := ComputeSelection(tree, map[string]bool{"a": true, "b": true})

	s1 := states[PathKey([]string{"P1", "S1"})]
	if !s1.Selected || s1.Indeterminate {
		t.Errorf("S1 = %+v, want selected", s1)
	}
	s2 := states[PathKey([]string{"P1", "S2"})]
	if s2.Selected || s2.Indeterminate {
		t.Errorf("S2 = %+v, want unselected", s2)
	}
	p1 := states[PathKey([]string{"P1"})]
	if p1.Selected || !p1.Indeterminate {
		t.Errorf("P1 = %+v, want indeterminate", p1)
	}
}

func TestDescendantLeafIDs(t *testing.T) {
	records := []LeafRecord{
		rec("a", "P1", "S1", 1),
		rec("b", "P1", "S2", 2),
		rec("c", "P2", "", 3),
	}
	tree := BuildTree(ExtractPaths(records))

	p1 := FindNode(tree, PathKey([]string{"P1"}))
	if p1 == nil {
		t.Fatal("group P1 not found")
	}
	if got := DescendantLeafIDs(p1); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("DescendantLeafIDs(P1) = %v, want [a b]", got)
	}

	c := FindNode(tree, PathKey([]string{"P2"}))
	if got := DescendantLeafIDs(c); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("DescendantLeafIDs(leaf) = %v, want [c]", got)
	}
}
