package catalog

import (
	"testing"

	"github.com/fastfood-planner/planner-api/types"
)

func TestGroupEmpty(t *testing.T) {
	grouped := Group(nil)
	if len(grouped) != 0 {
		t.Errorf("expected no categories for an empty menu, got %+v", grouped)
	}
}

func TestGroupFirstSeenOrder(t *testing.T) {
	items := []types.MenuItem{
		{ID: 1, Name: "Cheeseburger", Category: "Burgers"},
		{ID: 2, Name: "Cola", Category: "Drinks"},
		{ID: 3, Name: "Double Burger", Category: "Burgers"},
		{ID: 4, Name: "Fries", Category: "Sides"},
		{ID: 5, Name: "Lemonade", Category: "Drinks"},
	}

	grouped := Group(items)
	if len(grouped) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(grouped))
	}
	for i, want := range []string{"Burgers", "Drinks", "Sides"} {
		if grouped[i].Name != want {
			t.Errorf("category %d: expected %q, got %q", i, want, grouped[i].Name)
		}
	}

	burgers := grouped.Category("Burgers")
	if len(burgers) != 2 || burgers[0].ID != 1 || burgers[1].ID != 3 {
		t.Errorf("expected burgers in input order, got %+v", burgers)
	}
}

func TestGroupDefaultCategory(t *testing.T) {
	items := []types.MenuItem{
		{ID: 1, Name: "Cheeseburger", Category: "Burgers"},
		{ID: 2, Name: "Mystery Special"},
		{ID: 3, Name: "Apple Pie", Category: ""},
	}

	grouped := Group(items)
	other := grouped.Category(DefaultCategory)
	if len(other) != 2 || other[0].ID != 2 || other[1].ID != 3 {
		t.Errorf("expected uncategorized items under %q, got %+v", DefaultCategory, other)
	}
}

func TestGroupEveryItemAppearsOnce(t *testing.T) {
	items := []types.MenuItem{
		{ID: 1, Category: "A"},
		{ID: 2, Category: "B"},
		{ID: 3, Category: "A"},
		{ID: 4},
	}

	grouped := Group(items)
	seen := make(map[int]int)
	for _, category := range grouped {
		for _, item := range category.Items {
			seen[item.ID]++
		}
	}

	if len(seen) != len(items) {
		t.Errorf("expected %d distinct items, got %d", len(items), len(seen))
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("item %d appears %d times", id, count)
		}
	}
}

func TestGroupedMenuCategoryMissing(t *testing.T) {
	grouped := Group([]types.MenuItem{{ID: 1, Category: "Burgers"}})
	if items := grouped.Category("Desserts"); items != nil {
		t.Errorf("expected nil for a missing category, got %+v", items)
	}
}
