package types

// MenuItem is a single catalog record from the upstream nutrition API.
// All nutrition fields are per single serving;
// cholesterol and sodium are in milligrams, the rest in grams
type MenuItem struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	ServingSize   string  `json:"serving_size"`
	Calories      float64 `json:"calories"`
	Fat           float64 `json:"fat"`
	SatFat        float64 `json:"sat_fat"`
	TransFat      float64 `json:"trans_fat"`
	Cholesterol   float64 `json:"cholesterol"`
	Sodium        float64 `json:"sodium"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fiber         float64 `json:"fiber"`
	Sugar         float64 `json:"sugar"`
	Protein       float64 `json:"protein"`
}

// Restaurant is a single restaurant from the upstream nutrition API.
// MenuItems is only populated on the single-restaurant endpoint;
// the list endpoint returns identifiers and names only
type Restaurant struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	MenuItems []MenuItem `json:"menu_items,omitempty"`
}

// MenuCategory is one bucket of a grouped menu:
// a category name together with its items in catalog order
type MenuCategory struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// GroupedMenu partitions a menu into categories.
// Categories appear in first-seen order and every item of the
// source menu appears in exactly one bucket
type GroupedMenu []MenuCategory

// Category finds the bucket with the given name,
// or returns nil if the grouped menu has no such category
func (g GroupedMenu) Category(name string) []MenuItem {
	for _, category := range g {
		if category.Name == name {
			return category.Items
		}
	}

	return nil
}

// RandomMeal is the upstream response for a server-suggested
// list of items near a calorie target
type RandomMeal struct {
	Items         []MenuItem `json:"items"`
	TotalCalories float64    `json:"total_calories"`
}
