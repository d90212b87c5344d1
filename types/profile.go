package types

// Profile is the per-user profile stored by the upstream nutrition API
type Profile struct {
	CalorieGoal  int    `json:"calorie_goal"`
	AboutMe      string `json:"about_me"`
	FavoriteFood string `json:"favorite_food"`
}
