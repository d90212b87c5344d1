package types

// FavoriteMeal is a named, reusable meal template owned by the upstream API.
// Quantity is represented by repetition of the same item in Items
type FavoriteMeal struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}
