package taxonomy

import "sort"

// NodeKind tags a Node as a synthesized group or a terminal leaf.
type NodeKind string

const (
	// KindGroup is a non-leaf node synthesized from a shared path prefix
	KindGroup NodeKind = "group"
	// KindLeaf is a terminal node bound 1:1 to a source record
	KindLeaf NodeKind = "leaf"
)

// Node is one node of the table-of-contents tree.
//
// ParentKeys is the full ancestor key chain from the root down to and
// including this node, so PathKey(ParentKeys) identifies the node uniquely
// even when sibling labels collide.
type Node struct {
	Kind       NodeKind `json:"kind"`
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	ParentKeys []string `json:"parentKeys"`

	// Children is populated for group nodes only.
	Children []*Node `json:"children,omitempty"`

	// RecordID and Hidden are populated for leaf nodes only.
	RecordID string `json:"recordId,omitempty"`
	Hidden   bool   `json:"hidden,omitempty"`
}

// BuildTree constructs the table-of-contents tree from pathed records.
//
// Records are re-sorted by their persisted order before grouping, so sibling
// order is first-appearance order among order-sorted records regardless of the
// order the caller supplies them in. At each level, records whose remaining
// path is a single segment nobody else ends on become leaves; the rest are
// grouped by their first remaining segment and recursed into with that
// segment stripped. Leaves precede groups among siblings.
//
// Records sharing an identical full category path therefore end up together
// under a group for their final segment, as degenerate leaves keyed by record
// id, so every leaf in the tree carries a unique path key.
func BuildTree(pathed []PathedRecord) []*Node {
	sorted := make([]PathedRecord, len(pathed))
	copy(sorted, pathed)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return buildLevel(sorted, nil)
}

func buildLevel(recs []PathedRecord, parentKeys []string) []*Node {
	// Count final segments so records ending on the same path are grouped
	// instead of colliding as same-key sibling leaves.
	endsHere := make(map[string]int)
	for _, rec := range recs {
		if len(rec.Path) == 1 {
			endsHere[rec.Path[0].Key]++
		}
	}

	var leaves []*Node
	groupMembers := make(map[string][]PathedRecord)
	var groupOrder []string

	for _, rec := range recs {
		if len(rec.Path) == 0 || (len(rec.Path) == 1 && endsHere[rec.Path[0].Key] == 1) {
			leaves = append(leaves, newLeaf(rec, parentKeys))
			continue
		}
		head := rec.Path[0].Key
		if _, seen := groupMembers[head]; !seen {
			groupOrder = append(groupOrder, head)
		}
		groupMembers[head] = append(groupMembers[head], rec)
	}

	nodes := leaves
	for _, key := range groupOrder {
		members := groupMembers[key]
		chain := childChain(parentKeys, key)
		rest := make([]PathedRecord, len(members))
		for i, m := range members {
			rest[i] = PathedRecord{
				ID:       m.ID,
				Path:     m.Path[1:],
				Type:     m.Type,
				IsHidden: m.IsHidden,
				Order:    m.Order,
			}
		}
		nodes = append(nodes, &Node{
			Kind: KindGroup,
			Key:  key,
			// All members share the first segment, so the first member's
			// label is well-defined for the group.
			Label:      members[0].Path[0].Label,
			ParentKeys: chain,
			Children:   buildLevel(rest, chain),
		})
	}
	return nodes
}

func newLeaf(rec PathedRecord, parentKeys []string) *Node {
	// A record with no categories at all still needs a stable key; its own
	// id is the only unique handle available.
	key := rec.ID
	label := ""
	if len(rec.Path) == 1 {
		key = rec.Path[0].Key
		label = rec.Path[0].Label
	}
	return &Node{
		Kind:       KindLeaf,
		Key:        key,
		Label:      label,
		ParentKeys: childChain(parentKeys, key),
		RecordID:   rec.ID,
		Hidden:     rec.IsHidden,
	}
}

// childChain extends an ancestor chain without aliasing the parent's slice.
func childChain(parentKeys []string, key string) []string {
	chain := make([]string, 0, len(parentKeys)+1)
	chain = append(chain, parentKeys...)
	return append(chain, key)
}

// Walk visits every node in display order (pre-order), parents before
// children. Returning false from fn stops the walk.
func Walk(tree []*Node, fn func(*Node) bool) {
	for _, n := range tree {
		if !fn(n) {
			return
		}
		if n.Kind == KindGroup {
			Walk(n.Children, fn)
		}
	}
}

// FindNode locates a node by its full path key. Returns nil if absent.
func FindNode(tree []*Node, pathKey string) *Node {
	var found *Node
	Walk(tree, func(n *Node) bool {
		if PathKey(n.ParentKeys) == pathKey {
			found = n
			return false
		}
		return true
	})
	return found
}
