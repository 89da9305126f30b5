// Package editor owns the mutable questionnaire editing state: the source
// records, the derived table-of-contents tree, and the visible-section set.
// Mutations are applied optimistically and rolled back if the API rejects
// them.
package editor

import (
	"context"
	"fmt"
	"log/slog"

	qerrors "qber/internal/errors"
	"qber/internal/remote"
	"qber/internal/taxonomy"
)

// Remote is the slice of the API client the session needs. The concrete
// implementation is remote.Client; tests substitute a fake.
type Remote interface {
	LeafGroups(ctx context.Context, projectID, questionnaireID string) ([]taxonomy.LeafRecord, error)
	BulkReorder(ctx context.Context, projectID, questionnaireID string, assignments []taxonomy.OrderAssignment) ([]taxonomy.LeafRecord, error)
	BulkVisibility(ctx context.Context, projectID, questionnaireID string, ids []string, visibility remote.Visibility) error
}

// Session holds the editing state for one questionnaire. It is exclusively
// owned by its caller and not safe for concurrent use; mutations are
// serialized by construction, which also rules out the stale-response races
// a fire-and-forget design would have.
type Session struct {
	remote Remote
	logger *slog.Logger

	projectID       string
	questionnaireID string

	records  []taxonomy.LeafRecord
	tree     []*taxonomy.Node
	lookup   taxonomy.PathLookup
	selected map[string]bool
}

// snapshot captures the state a failed mutation restores.
type snapshot struct {
	records  []taxonomy.LeafRecord
	selected map[string]bool
}

// NewSession creates a session scoped to one (project, questionnaire) pair.
func NewSession(r Remote, logger *slog.Logger, projectID, questionnaireID string) *Session {
	return &Session{
		remote:          r,
		logger:          logger,
		projectID:       projectID,
		questionnaireID: questionnaireID,
		selected:        make(map[string]bool),
	}
}

// Refresh fetches the authoritative leaf groups and rebuilds all derived
// state from scratch.
func (s *Session) Refresh(ctx context.Context) error {
	records, err := s.remote.LeafGroups(ctx, s.projectID, s.questionnaireID)
	if err != nil {
		return qerrors.New(qerrors.RemoteUnavailable, "failed to fetch leaf groups", err)
	}
	s.rebuild(records)
	return nil
}

// Load seeds the session from records obtained elsewhere (the offline cache).
func (s *Session) Load(records []taxonomy.LeafRecord) {
	s.rebuild(records)
}

// rebuild replaces the records and rederives tree, lookup, and selection.
// The tree is always rebuilt whole; it is never patched incrementally.
func (s *Session) rebuild(records []taxonomy.LeafRecord) {
	// Own a copy so callers (and the API client) never share backing arrays
	// with mutable session state.
	owned := make([]taxonomy.LeafRecord, len(records))
	copy(owned, records)
	s.records = owned
	s.tree = taxonomy.BuildTree(taxonomy.ExtractPaths(records))
	s.lookup = taxonomy.NewPathLookup(records)
	s.selected = taxonomy.InitialSelection(records)
	s.logger.Debug("tree rebuilt", "records", len(records))
}

// Records returns the current source records.
func (s *Session) Records() []taxonomy.LeafRecord {
	return s.records
}

// Tree returns the current table-of-contents tree.
func (s *Session) Tree() []*taxonomy.Node {
	return s.tree
}

// Selection recomputes the tri-state status of every node.
func (s *Session) Selection() map[string]taxonomy.Selection {
	return taxonomy.ComputeSelection(s.tree, s.selected)
}

// MoveSection moves the node at pathKey so that its first leaf lands at
// position (1-based) in the flattened display order. Moving a group moves
// all its descendant leaves as one contiguous block. The new order is
// applied locally first, then persisted; the server's authoritative records
// replace the optimistic state on success, and the previous state is
// restored on failure.
func (s *Session) MoveSection(ctx context.Context, pathKey string, position int) error {
	node := taxonomy.FindNode(s.tree, pathKey)
	if node == nil {
		return qerrors.New(qerrors.LookupFailed, "no section at the given path", nil)
	}

	assignments, err := s.movedAssignments(node, position)
	if err != nil {
		return err
	}

	prev := s.snapshot()
	s.applyOrders(assignments)

	authoritative, err := s.remote.BulkReorder(ctx, s.projectID, s.questionnaireID, assignments)
	if err != nil {
		s.restore(prev)
		return qerrors.New(qerrors.MutationRejected, "reorder rejected", err)
	}
	s.rebuild(authoritative)
	return nil
}

// movedAssignments computes the contiguous 1-based order after moving node's
// leaf block to the given position.
func (s *Session) movedAssignments(node *taxonomy.Node, position int) ([]taxonomy.OrderAssignment, error) {
	flat := taxonomy.Flatten(s.tree)

	moving := make(map[string]bool)
	for _, id := range taxonomy.DescendantLeafIDs(node) {
		moving[id] = true
	}

	var block, rest []string
	for _, entry := range flat {
		id, ok := s.lookup[entry.PathKey]
		if !ok {
			return nil, qerrors.New(qerrors.LookupFailed, "flattened section has no record", &taxonomy.LookupError{PathKey: entry.PathKey})
		}
		if moving[id] {
			block = append(block, id)
		} else {
			rest = append(rest, id)
		}
	}

	if position < 1 {
		position = 1
	}
	if position > len(rest)+1 {
		position = len(rest) + 1
	}

	ordered := make([]string, 0, len(flat))
	ordered = append(ordered, rest[:position-1]...)
	ordered = append(ordered, block...)
	ordered = append(ordered, rest[position-1:]...)

	assignments := make([]taxonomy.OrderAssignment, len(ordered))
	for i, id := range ordered {
		assignments[i] = taxonomy.OrderAssignment{ID: id, Order: i + 1}
	}
	return assignments, nil
}

// applyOrders applies an order assignment to the local records and rebuilds.
func (s *Session) applyOrders(assignments []taxonomy.OrderAssignment) {
	byID := make(map[string]int, len(assignments))
	for _, a := range assignments {
		byID[a.ID] = a.Order
	}
	records := make([]taxonomy.LeafRecord, len(s.records))
	copy(records, s.records)
	for i := range records {
		if order, ok := byID[records[i].ID]; ok {
			records[i].Order = order
		}
	}
	selected := s.selected
	s.rebuild(records)
	s.selected = selected
}

// ToggleLeaf flips the visibility of a single section.
func (s *Session) ToggleLeaf(ctx context.Context, recordID string) error {
	visible := !s.selected[recordID]
	return s.setVisibility(ctx, []string{recordID}, visible)
}

// ToggleGroup sets the visibility of every section under the group at
// pathKey in one batch mutation.
func (s *Session) ToggleGroup(ctx context.Context, pathKey string, visible bool) error {
	node := taxonomy.FindNode(s.tree, pathKey)
	if node == nil {
		return qerrors.New(qerrors.LookupFailed, "no section at the given path", nil)
	}
	return s.setVisibility(ctx, taxonomy.DescendantLeafIDs(node), visible)
}

func (s *Session) setVisibility(ctx context.Context, ids []string, visible bool) error {
	if len(ids) == 0 {
		return nil
	}

	prev := s.snapshot()
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		s.selected[id] = visible
		idSet[id] = true
	}
	for i := range s.records {
		if idSet[s.records[i].ID] {
			s.records[i].IsHidden = !visible
		}
	}

	wire := remote.Hide
	if visible {
		wire = remote.Show
	}
	if err := s.remote.BulkVisibility(ctx, s.projectID, s.questionnaireID, ids, wire); err != nil {
		s.restore(prev)
		return qerrors.New(qerrors.MutationRejected,
			fmt.Sprintf("visibility change rejected for %d section(s)", len(ids)), err)
	}

	// Confirmed: rebuild so the tree's hidden flags match the records.
	s.rebuild(s.records)
	return nil
}

func (s *Session) snapshot() snapshot {
	records := make([]taxonomy.LeafRecord, len(s.records))
	copy(records, s.records)
	selected := make(map[string]bool, len(s.selected))
	for id, on := range s.selected {
		selected[id] = on
	}
	return snapshot{records: records, selected: selected}
}

func (s *Session) restore(prev snapshot) {
	s.rebuild(prev.records)
	s.selected = prev.selected
}
