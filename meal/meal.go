package meal

import (
	"github.com/fastfood-planner/planner-api/types"
)

// Meal is an in-progress selection of menu items being assembled
// before it is logged.
// It is an ordered mapping from catalog item to quantity:
// each distinct item identifier appears in at most one entry,
// and entries keep their first-insertion order for display.
//
// A Meal is owned by a single session and is not safe for
// concurrent use on its own; callers serialize access
type Meal struct {
	entries []types.MealItem
}

// New creates an empty meal
func New() *Meal {
	return &Meal{}
}

// Add records one more unit of the given catalog item.
// If the meal already contains an entry for the item's identifier,
// its quantity is incremented in place and the entry does not move;
// otherwise a new entry with quantity 1 is appended
func (m *Meal) Add(item types.MenuItem) {
	for i := range m.entries {
		if m.entries[i].Item.ID == item.ID {
			m.entries[i].Quantity++
			return
		}
	}

	m.entries = append(m.entries, types.MealItem{
		Item:     item,
		Quantity: 1,
	})
}

// Remove takes one unit of the item with the given identifier
// out of the meal.
// The entry is dropped entirely when its quantity reaches zero;
// removing an item that is not in the meal is a no-op
func (m *Meal) Remove(id int) {
	for i := range m.entries {
		if m.entries[i].Item.ID != id {
			continue
		}

		if m.entries[i].Quantity > 1 {
			m.entries[i].Quantity--
			return
		}

		m.entries = append(m.entries[:i], m.entries[i+1:]...)
		return
	}
}

// Clear unconditionally empties the meal
func (m *Meal) Clear() {
	m.entries = nil
}

// Items returns a copy of the meal's entries in first-insertion order
func (m *Meal) Items() []types.MealItem {
	items := make([]types.MealItem, len(m.entries))
	copy(items, m.entries)
	return items
}

// Count returns the total number of units in the meal
// (the sum of all entry quantities)
func (m *Meal) Count() int {
	count := 0
	for _, entry := range m.entries {
		count += entry.Quantity
	}

	return count
}

// ItemIDs flattens the meal into the wire shape the upstream
// log endpoint expects: one identifier repeated per unit of quantity
func (m *Meal) ItemIDs() []int {
	ids := make([]int, 0, m.Count())
	for _, entry := range m.entries {
		for i := 0; i < entry.Quantity; i++ {
			ids = append(ids, entry.Item.ID)
		}
	}

	return ids
}
