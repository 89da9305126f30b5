package taxonomy

import (
	"fmt"
	"strings"
)

// pathKeyDelimiter joins category codes into a path key. The ASCII unit
// separator cannot appear in human-entered category codes, so joined keys
// never collide with each other.
const pathKeyDelimiter = "\x1f"

// PathKey joins an ancestor key chain into a single lookup key.
func PathKey(keys []string) string {
	return strings.Join(keys, pathKeyDelimiter)
}

// FlatEntry is one leaf position in the flattened display order.
type FlatEntry struct {
	PathKey string
}

// Flatten walks the tree in display order and emits one entry per leaf.
// Groups are not emitted; their containment is implicit in each leaf's path.
func Flatten(tree []*Node) []FlatEntry {
	var flat []FlatEntry
	Walk(tree, func(n *Node) bool {
		if n.Kind == KindLeaf {
			flat = append(flat, FlatEntry{PathKey: PathKey(n.ParentKeys)})
		}
		return true
	})
	return flat
}

// PathLookup maps a full path key back to the originating record id.
type PathLookup map[string]string

// NewPathLookup builds the path-key-to-id table from the source records.
// It derives keys with the same rules tree construction uses, so every leaf
// produced by BuildTree resolves through it: records that share a full
// category path (or have none) carry their id as the final key segment.
func NewPathLookup(records []LeafRecord) PathLookup {
	pathed := ExtractPaths(records)

	counts := make(map[string]int, len(pathed))
	for _, pr := range pathed {
		counts[PathKey(segmentKeys(pr))]++
	}

	lookup := make(PathLookup, len(pathed))
	for _, pr := range pathed {
		keys := segmentKeys(pr)
		if len(keys) == 0 || counts[PathKey(keys)] > 1 {
			keys = append(keys, pr.ID)
		}
		lookup[PathKey(keys)] = pr.ID
	}
	return lookup
}

func segmentKeys(pr PathedRecord) []string {
	keys := make([]string, len(pr.Path))
	for i, seg := range pr.Path {
		keys[i] = seg.Key
	}
	return keys
}

// OrderAssignment pairs a record id with its new 1-based display position.
type OrderAssignment struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// LookupError reports a flattened leaf whose path key resolved to no record.
type LookupError struct {
	PathKey  string
	Position int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no record for path %q at position %d",
		strings.ReplaceAll(e.PathKey, pathKeyDelimiter, "/"), e.Position)
}

// OrderAssignments flattens the tree and assigns each leaf's record a
// contiguous 1-based order. An unresolvable path key is an error, never a
// silently empty id: a payload with a blank id would corrupt server-side
// ordering.
func OrderAssignments(tree []*Node, lookup PathLookup) ([]OrderAssignment, error) {
	flat := Flatten(tree)
	assignments := make([]OrderAssignment, 0, len(flat))
	for i, entry := range flat {
		id, ok := lookup[entry.PathKey]
		if !ok {
			return nil, &LookupError{PathKey: entry.PathKey, Position: i + 1}
		}
		assignments = append(assignments, OrderAssignment{ID: id, Order: i + 1})
	}
	return assignments, nil
}
