package modelsheet

import "github.com/ukaji3/modelsheet-go/pkg/modelsheet/models"

// CollectLeafIDs returns the unique object ids beneath a category node, in
// discovery order.
//
// Each level is inspected as a whole. When any entry at the level has
// children, the walk continues into the first such entry only and everything
// else at that level is discarded. A level made entirely of leaves is the
// result. Entries without an object id are ignored.
func CollectLeafIDs(category models.HierarchyNode) []int64 {
	if category.IsLeaf() {
		return []int64{}
	}
	return collectLevel(category.Children)
}

func collectLevel(entries []models.HierarchyNode) []int64 {
	for _, entry := range entries {
		if !entry.IsLeaf() {
			return collectLevel(entry.Children)
		}
	}

	ids := make([]int64, 0, len(entries))
	seen := make(map[int64]struct{}, len(entries))
	for _, entry := range entries {
		if !entry.HasObjectID {
			continue
		}
		if _, dup := seen[entry.ObjectID]; dup {
			continue
		}
		seen[entry.ObjectID] = struct{}{}
		ids = append(ids, entry.ObjectID)
	}
	return ids
}
