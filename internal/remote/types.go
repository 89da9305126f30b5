package remote

import (
	"qber/internal/taxonomy"
)

// Visibility is the wire value for the bulk visibility mutation.
type Visibility string

const (
	// Show marks sections visible
	Show Visibility = "SHOW"
	// Hide marks sections hidden
	Hide Visibility = "HIDE"
)

// graphqlRequest is the standard GraphQL-over-HTTP POST body.
type graphqlRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	OperationName string                 `json:"operationName,omitempty"`
}

// graphqlErrorInfo is one entry of a GraphQL response's errors array.
type graphqlErrorInfo struct {
	Message string   `json:"message"`
	Path    []string `json:"path,omitempty"`
}

// leafGroupsData is the response shape of the LeafGroups query.
type leafGroupsData struct {
	Questionnaire struct {
		LeafGroups []taxonomy.LeafRecord `json:"leafGroups"`
	} `json:"questionnaire"`
}

// bulkReorderData is the response shape of the BulkReorder mutation. The
// server echoes the authoritative post-mutation leaf groups so the caller
// can rebuild its tree from them.
type bulkReorderData struct {
	BulkReorderLeafGroups struct {
		OK         bool                  `json:"ok"`
		LeafGroups []taxonomy.LeafRecord `json:"leafGroups"`
	} `json:"bulkReorderLeafGroups"`
}

// bulkVisibilityData is the response shape of the BulkVisibility mutation.
type bulkVisibilityData struct {
	BulkUpdateLeafGroupsVisibility struct {
		OK  bool     `json:"ok"`
		IDs []string `json:"ids"`
	} `json:"bulkUpdateLeafGroupsVisibility"`
}
