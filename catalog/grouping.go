package catalog

import (
	"github.com/fastfood-planner/planner-api/types"
)

// DefaultCategory is the bucket used for items whose
// catalog record carries no category
const DefaultCategory = "Other"

// Group partitions a menu into category buckets in a single pass.
// Categories appear in the order they are first encountered and items keep
// their input order within each bucket.
// Items with an empty category are bucketed under DefaultCategory.
// An empty input yields an empty grouped menu
func Group(items []types.MenuItem) types.GroupedMenu {
	grouped := types.GroupedMenu{}
	indexes := make(map[string]int)

	for _, item := range items {
		category := item.Category
		if category == "" {
			category = DefaultCategory
		}

		index, ok := indexes[category]
		if !ok {
			index = len(grouped)
			indexes[category] = index
			grouped = append(grouped, types.MenuCategory{Name: category})
		}

		grouped[index].Items = append(grouped[index].Items, item)
	}

	return grouped
}
