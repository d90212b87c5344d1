package types

// Tracker is the upstream running total of what the user has
// consumed on a single day
type Tracker struct {
	Date             string  `json:"date"`
	CaloriesConsumed float64 `json:"calories_consumed"`
	ProteinConsumed  float64 `json:"protein_consumed"`
	FatConsumed      float64 `json:"fat_consumed"`
	CarbsConsumed    float64 `json:"carbs_consumed"`
}

// LoggedItem is a single item within a history entry,
// with the quantity that was logged
type LoggedItem struct {
	Item     MenuItem `json:"menu_item"`
	Quantity int      `json:"quantity"`
}

// HistoryEntry is a read-only record of a previously logged day:
// the aggregate nutrition consumed plus the items that composed it
type HistoryEntry struct {
	ID               int          `json:"id"`
	Date             string       `json:"date"`
	CaloriesConsumed float64      `json:"calories_consumed"`
	ProteinConsumed  float64      `json:"protein_consumed"`
	FatConsumed      float64      `json:"fat_consumed"`
	CarbsConsumed    float64      `json:"carbs_consumed"`
	Items            []LoggedItem `json:"items"`
}
