// Package taxonomy builds the questionnaire table-of-contents tree from flat
// taxonomy leaf records and derives order and visibility state from it.
package taxonomy

// MatrixType distinguishes the two grouping shapes a leaf group can have.
// It is carried through tree construction untouched; only the rendering
// layer cares about the difference.
type MatrixType string

const (
	// Matrix1D is a single-axis pillar group
	Matrix1D MatrixType = "MATRIX_1D"
	// Matrix2D is a two-axis pillar/sector cross group
	Matrix2D MatrixType = "MATRIX_2D"
)

// LeafRecord is one taxonomy leaf group as delivered by the Qber API.
// Category codes are expected to be prefix-contiguous (category2 implies
// category1, and so on). That assumption is not enforced: missing trailing
// levels are truncated during path extraction.
type LeafRecord struct {
	ID string `json:"id"`

	Category1        string `json:"category1,omitempty"`
	Category1Display string `json:"category1Display,omitempty"`
	Category2        string `json:"category2,omitempty"`
	Category2Display string `json:"category2Display,omitempty"`
	Category3        string `json:"category3,omitempty"`
	Category3Display string `json:"category3Display,omitempty"`
	Category4        string `json:"category4,omitempty"`
	Category4Display string `json:"category4Display,omitempty"`

	Type     MatrixType `json:"type"`
	IsHidden bool       `json:"isHidden"`
	Order    int        `json:"order"`
}

// PathSegment is one category level's code/label pair.
type PathSegment struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// PathedRecord is a LeafRecord reduced to the fields tree construction needs,
// with its category levels flattened into an ordered path.
type PathedRecord struct {
	ID       string
	Path     []PathSegment
	Type     MatrixType
	IsHidden bool
	Order    int
}

// categories returns the four category levels in order.
func (r *LeafRecord) categories() [4]PathSegment {
	return [4]PathSegment{
		{Key: r.Category1, Label: r.Category1Display},
		{Key: r.Category2, Label: r.Category2Display},
		{Key: r.Category3, Label: r.Category3Display},
		{Key: r.Category4, Label: r.Category4Display},
	}
}

// ExtractPath builds the category path for a single record. The path stops at
// (and excludes) the first level whose code or display label is empty. A record
// with no category1 yields an empty path and is handled downstream as a
// degenerate single-node leaf.
func ExtractPath(r *LeafRecord) []PathSegment {
	levels := r.categories()
	path := make([]PathSegment, 0, len(levels))
	for _, seg := range levels {
		if seg.Key == "" || seg.Label == "" {
			break
		}
		path = append(path, seg)
	}
	return path
}

// ExtractPaths maps every record to its pathed form. No error is raised for
// malformed input; truncation is the only reaction to missing levels.
func ExtractPaths(records []LeafRecord) []PathedRecord {
	pathed := make([]PathedRecord, 0, len(records))
	for i := range records {
		r := &records[i]
		pathed = append(pathed, PathedRecord{
			ID:       r.ID,
			Path:     ExtractPath(r),
			Type:     r.Type,
			IsHidden: r.IsHidden,
			Order:    r.Order,
		})
	}
	return pathed
}

// InitialSelection seeds the visible-id set from the records' hidden flags.
func InitialSelection(records []LeafRecord) map[string]bool {
	selected := make(map[string]bool, len(records))
	for i := range records {
		if !records[i].IsHidden {
			selected[records[i].ID] = true
		}
	}
	return selected
}
