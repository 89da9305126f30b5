package remote

import (
	"context"
	"fmt"

	"qber/internal/taxonomy"
)

const leafGroupsQuery = `
query LeafGroups($projectId: ID!, $questionnaireId: ID!) {
  questionnaire(projectId: $projectId, id: $questionnaireId) {
    leafGroups {
      id
      type
      order
      isHidden
      category1
      category1Display
      category2
      category2Display
      category3
      category3Display
      category4
      category4Display
    }
  }
}`

const bulkReorderMutation = `
mutation BulkReorder($projectId: ID!, $questionnaireId: ID!, $data: [LeafGroupOrderInput!]!) {
  bulkReorderLeafGroups(projectId: $projectId, questionnaireId: $questionnaireId, data: $data) {
    ok
    leafGroups {
      id
      type
      order
      isHidden
      category1
      category1Display
      category2
      category2Display
      category3
      category3Display
      category4
      category4Display
    }
  }
}`

const bulkVisibilityMutation = `
mutation BulkVisibility($projectId: ID!, $questionnaireId: ID!, $ids: [ID!]!, $visibility: Visibility!) {
  bulkUpdateLeafGroupsVisibility(projectId: $projectId, questionnaireId: $questionnaireId, ids: $ids, visibility: $visibility) {
    ok
    ids
  }
}`

// LeafGroups fetches the questionnaire's taxonomy leaf groups.
func (c *Client) LeafGroups(ctx context.Context, projectID, questionnaireID string) ([]taxonomy.LeafRecord, error) {
	var data leafGroupsData
	err := c.do(ctx, "LeafGroups", leafGroupsQuery, map[string]interface{}{
		"projectId":       projectID,
		"questionnaireId": questionnaireID,
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.Questionnaire.LeafGroups, nil
}

// BulkReorder persists a contiguous 1-based order assignment and returns the
// authoritative post-mutation leaf groups.
func (c *Client) BulkReorder(ctx context.Context, projectID, questionnaireID string, assignments []taxonomy.OrderAssignment) ([]taxonomy.LeafRecord, error) {
	data := make([]map[string]interface{}, len(assignments))
	for i, a := range assignments {
		data[i] = map[string]interface{}{"id": a.ID, "order": a.Order}
	}

	var out bulkReorderData
	err := c.do(ctx, "BulkReorder", bulkReorderMutation, map[string]interface{}{
		"projectId":       projectID,
		"questionnaireId": questionnaireID,
		"data":            data,
	}, &out)
	if err != nil {
		return nil, err
	}
	if !out.BulkReorderLeafGroups.OK {
		return nil, fmt.Errorf("reorder rejected by server")
	}
	return out.BulkReorderLeafGroups.LeafGroups, nil
}

// BulkVisibility toggles visibility for a batch of leaf group ids.
func (c *Client) BulkVisibility(ctx context.Context, projectID, questionnaireID string, ids []string, visibility Visibility) error {
	var out bulkVisibilityData
	err := c.do(ctx, "BulkVisibility", bulkVisibilityMutation, map[string]interface{}{
		"projectId":       projectID,
		"questionnaireId": questionnaireID,
		"ids":             ids,
		"visibility":      string(visibility),
	}, &out)
	if err != nil {
		return err
	}
	if !out.BulkUpdateLeafGroupsVisibility.OK {
		return fmt.Errorf("visibility change rejected by server")
	}
	return nil
}
