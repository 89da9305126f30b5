package taxonomy

// Selection is the tri-state checkbox status of a node.
type Selection struct {
	Selected      bool
	Indeterminate bool
}

// DescendantLeafIDs collects the record ids of every leaf at or below n,
// in display order.
func DescendantLeafIDs(n *Node) []string {
	if n.Kind == KindLeaf {
		return []string{n.RecordID}
	}
	var ids []string
	Walk(n.Children, func(c *Node) bool {
		if c.Kind == KindLeaf {
			ids = append(ids, c.RecordID)
		}
		return true
	})
	return ids
}

// ComputeSelection derives the tri-state status of every node from the
// selected (visible) record ids. The result is keyed by each node's full
// path key. A group is selected when every descendant leaf is selected and
// indeterminate when only some are; a leaf is never indeterminate.
//
// The computation is pure and cheap for trees of the expected size (tens to
// low hundreds of leaves); callers recompute it whenever the selected set or
// the tree changes rather than caching it.
func ComputeSelection(tree []*Node, selected map[string]bool) map[string]Selection {
	states := make(map[string]Selection)
	for _, n := range tree {
		computeNode(n, selected, states)
	}
	return states
}

// computeNode fills states for n and its subtree, returning the number of
// selected and total descendant leaves so parents can aggregate in one pass.
func computeNode(n *Node, selected map[string]bool, states map[string]Selection) (picked, total int) {
	key := PathKey(n.ParentKeys)
	if n.Kind == KindLeaf {
		on := selected[n.RecordID]
		states[key] = Selection{Selected: on}
		if on {
			return 1, 1
		}
		return 0, 1
	}

	for _, c := range n.Children {
		p, t := computeNode(c, selected, states)
		picked += p
		total += t
	}
	states[key] = Selection{
		Selected:      total > 0 && picked == total,
		Indeterminate: picked > 0 && picked < total,
	}
	return picked, total
}
