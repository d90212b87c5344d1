package meal

import (
	"github.com/fastfood-planner/planner-api/types"
)

// Totals computes the field-wise nutrition sum over the given meal entries,
// multiplying each item's per-unit values by its quantity.
// Accumulation is plain floating point with no rounding;
// rounding for display is a presentation concern.
// An empty slice yields the zero value
func Totals(items []types.MealItem) types.MealTotals {
	var totals types.MealTotals
	for _, entry := range items {
		quantity := float64(entry.Quantity)
		totals.Calories += entry.Item.Calories * quantity
		totals.Fat += entry.Item.Fat * quantity
		totals.SatFat += entry.Item.SatFat * quantity
		totals.TransFat += entry.Item.TransFat * quantity
		totals.Cholesterol += entry.Item.Cholesterol * quantity
		totals.Sodium += entry.Item.Sodium * quantity
		totals.Carbohydrates += entry.Item.Carbohydrates * quantity
		totals.Fiber += entry.Item.Fiber * quantity
		totals.Sugar += entry.Item.Sugar * quantity
		totals.Protein += entry.Item.Protein * quantity
	}

	return totals
}

// Impact derives the calorie impact of logging a meal on top of what the
// user has already consumed today.
// The predicted total is consumed + the meal's calories,
// and remaining is the calorie goal minus the predicted total.
// Remaining may be negative when the user would exceed their goal;
// that is informational, not an error
func Impact(totals types.MealTotals, consumed float64, goal int) (predicted float64, remaining float64) {
	predicted = consumed + totals.Calories
	remaining = float64(goal) - predicted
	return predicted, remaining
}
