package types

// MealItem is one entry of an in-progress meal:
// a catalog item together with how many units of it the meal contains.
// Quantity is always positive
type MealItem struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
}

// MealTotals is the field-wise nutrition sum over an in-progress meal,
// each item's per-unit values multiplied by its quantity.
// Recomputed on demand and never stored
type MealTotals struct {
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
