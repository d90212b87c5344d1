package meal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-chi/jwtauth"

	"github.com/fastfood-planner/planner-api/auth"
	"github.com/fastfood-planner/planner-api/catalog"
	"github.com/fastfood-planner/planner-api/session"
	"github.com/fastfood-planner/planner-api/types"
	"github.com/fastfood-planner/planner-api/upstream"
)

// fakeCatalog serves a fixed item set without the refresh machinery
type fakeCatalog struct {
	items map[int]types.MenuItem
}

func (f *fakeCatalog) GetAllRestaurants() ([]types.Restaurant, error) { return nil, nil }
func (f *fakeCatalog) GetRestaurant(id int) (*types.Restaurant, error) {
	return nil, catalog.NewRestaurantNotFoundError(id)
}
func (f *fakeCatalog) GetMenu(restaurantID int) ([]types.MenuItem, error) { return nil, nil }
func (f *fakeCatalog) GetAllItems() ([]types.MenuItem, error)            { return nil, nil }
func (f *fakeCatalog) GetItem(id int) (*types.MenuItem, error) {
	if item, ok := f.items[id]; ok {
		return &item, nil
	}
	return nil, catalog.NewItemNotFoundError(id)
}

// fakeAPI records upstream calls and returns canned responses
type fakeAPI struct {
	tracker       types.Tracker
	profile       types.Profile
	randomMeal    types.RandomMeal
	loggedItemIDs []int
	savedFavorite *types.FavoriteMeal
	logMealErr    error
}

func (f *fakeAPI) Login(ctx context.Context, username string, password string) (string, error) {
	return "", nil
}
func (f *fakeAPI) Register(ctx context.Context, username string, email string, password string) (string, error) {
	return "", nil
}
func (f *fakeAPI) GetProfile(ctx context.Context, token string) (*types.Profile, error) {
	profile := f.profile
	return &profile, nil
}
func (f *fakeAPI) UpdateProfile(ctx context.Context, token string, profile types.Profile) (*types.Profile, error) {
	f.profile = profile
	return &profile, nil
}
func (f *fakeAPI) GetTracker(ctx context.Context, token string) (*types.Tracker, error) {
	tracker := f.tracker
	return &tracker, nil
}
func (f *fakeAPI) LogMeal(ctx context.Context, token string, itemIDs []int) (*types.Tracker, error) {
	if f.logMealErr != nil {
		return nil, f.logMealErr
	}
	f.loggedItemIDs = itemIDs
	tracker := f.tracker
	return &tracker, nil
}
func (f *fakeAPI) GetHistory(ctx context.Context, token string) ([]types.HistoryEntry, error) {
	return nil, nil
}
func (f *fakeAPI) GetFavorites(ctx context.Context, token string) ([]types.FavoriteMeal, error) {
	return nil, nil
}
func (f *fakeAPI) CreateFavorite(ctx context.Context, token string, name string, itemIDs []int) (*types.FavoriteMeal, error) {
	f.savedFavorite = &types.FavoriteMeal{ID: 1, Name: name, Items: nil}
	return f.savedFavorite, nil
}
func (f *fakeAPI) DeleteFavorite(ctx context.Context, token string, id int) error { return nil }
func (f *fakeAPI) LogFavorite(ctx context.Context, token string, id int) (*types.Tracker, error) {
	tracker := f.tracker
	return &tracker, nil
}
func (f *fakeAPI) GetRandomMeal(ctx context.Context, token string, target int) (*types.RandomMeal, error) {
	randomMeal := f.randomMeal
	randomMeal.TotalCalories = float64(target)
	return &randomMeal, nil
}

var testItems = map[int]types.MenuItem{
	1: {ID: 1, Name: "Cheeseburger", Category: "Burgers", Calories: 500, Protein: 25},
	2: {ID: 2, Name: "Fries", Category: "Sides", Calories: 400, Protein: 5},
}

type fixture struct {
	router   http.Handler
	session  *session.Session
	api      *fakeAPI
	sessions *session.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	sessions := session.NewManager(time.Hour, time.Hour)
	serverSession, err := sessions.Create("alice", "upstream-token")
	if err != nil {
		t.Fatalf("could not create a session: %v", err)
	}

	api := &fakeAPI{
		tracker: types.Tracker{Date: "2021-04-10", CaloriesConsumed: 1200},
		profile: types.Profile{CalorieGoal: 2000},
	}
	router := Routes(&fakeCatalog{items: testItems}, sessions, api)

	return &fixture{
		router:   router,
		session:  serverSession,
		api:      api,
		sessions: sessions,
	}
}

// request performs a request against the meal routes with the JWT claims
// that reference the given session already attached to the context,
// as the verifier middleware would do upstream of the handlers
func (f *fixture) request(t *testing.T, method string, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("could not encode request body: %v", err)
		}
		payload = bytes.NewReader(encoded)
	} else {
		payload = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, payload)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		Username:  f.session.Username,
		SessionID: f.session.ID,
		IssuedAt:  time.Now(),
	})
	req = req.WithContext(jwtauth.NewContext(req.Context(), token, nil))

	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeMeal(t *testing.T, recorder *httptest.ResponseRecorder) MealResponse {
	t.Helper()

	var response MealResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	return response
}

func TestCurrentEmptyMeal(t *testing.T) {
	f := newFixture(t)

	recorder := f.request(t, http.MethodGet, "/", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	response := decodeMeal(t, recorder)
	if len(response.Items) != 0 || response.Count != 0 {
		t.Errorf("expected an empty meal, got %+v", response)
	}
	if response.Totals.Calories != 0 {
		t.Errorf("expected zero totals, got %+v", response.Totals)
	}
}

func TestAddItem(t *testing.T) {
	f := newFixture(t)

	recorder := f.request(t, http.MethodPost, "/items", map[string]int{"id": 1})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", recorder.Code, recorder.Body)
	}

	response := decodeMeal(t, recorder)
	if response.Count != 1 || response.Items[0].Item.Name != "Cheeseburger" {
		t.Errorf("expected the cheeseburger in the meal, got %+v", response)
	}

	// A second add increments the quantity without adding an entry
	recorder = f.request(t, http.MethodPost, "/items", map[string]int{"id": 1})
	response = decodeMeal(t, recorder)
	if len(response.Items) != 1 || response.Items[0].Quantity != 2 || response.Count != 2 {
		t.Errorf("expected quantity 2 on a single entry, got %+v", response)
	}
	if response.Totals.Calories != 1000 {
		t.Errorf("expected 1000 calories, got %v", response.Totals.Calories)
	}
}

func TestAddUnknownItem(t *testing.T) {
	f := newFixture(t)

	recorder := f.request(t, http.MethodPost, "/items", map[string]int{"id": 999})
	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", recorder.Code)
	}
	if _, count := f.session.MealItems(); count != 0 {
		t.Errorf("expected the meal to be untouched, got %d units", count)
	}
}

func TestRemoveItem(t *testing.T) {
	f := newFixture(t)
	f.session.AddToMeal(testItems[1])
	f.session.AddToMeal(testItems[1])

	recorder := f.request(t, http.MethodDelete, "/items/1", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
	response := decodeMeal(t, recorder)
	if response.Count != 1 {
		t.Errorf("expected 1 unit left, got %+v", response)
	}

	// Removing an absent item still succeeds
	recorder = f.request(t, http.MethodDelete, "/items/999", nil)
	if recorder.Code != http.StatusOK {
		t.Errorf("expected status 200 for an absent item, got %d", recorder.Code)
	}
}

func TestRemoveItemBadID(t *testing.T) {
	f := newFixture(t)

	recorder := f.request(t, http.MethodDelete, "/items/banana", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", recorder.Code)
	}
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	f.session.AddToMeal(testItems[1])

	recorder := f.request(t, http.MethodDelete, "/", nil)
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", recorder.Code)
	}
	if _, count := f.session.MealItems(); count != 0 {
		t.Errorf("expected an empty meal, got %d units", count)
	}
}

func TestReview(t *testing.T) {
	f := newFixture(t)
	f.session.AddToMeal(testItems[1]) // 500 calories
	f.session.AddToMeal(testItems[2]) // 400 calories

	recorder := f.request(t, http.MethodGet, "/review", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", recorder.Code, recorder.Body)
	}

	var response ReviewResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}

	if response.Totals.Calories != 900 {
		t.Errorf("expected 900 meal calories, got %v", response.Totals.Calories)
	}
	if response.CaloriesConsumed != 1200 || response.CalorieGoal != 2000 {
		t.Errorf("expected the upstream tracker and goal, got %+v", response)
	}
	if response.PredictedTotal != 2100 {
		t.Errorf("expected predicted total 2100, got %v", response.PredictedTotal)
	}
	if response.Remaining != -100 {
		t.Errorf("expected -100 remaining, got %v", response.Remaining)
	}
}

func TestLogEmptyMeal(t *testing.T) {
	f := newFixture(t)

	recorder := f.request(t, http.MethodPost, "/log", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for an empty meal, got %d", recorder.Code)
	}
}

func TestLog(t *testing.T) {
	f := newFixture(t)
	f.session.AddToMeal(testItems[1])
	f.session.AddToMeal(testItems[1])
	f.session.AddToMeal(testItems[2])

	recorder := f.request(t, http.MethodPost, "/log", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", recorder.Code, recorder.Body)
	}

	if want := []int{1, 1, 2}; !reflect.DeepEqual(f.api.loggedItemIDs, want) {
		t.Errorf("expected the flattened ids %v submitted upstream, got %v", want, f.api.loggedItemIDs)
	}
	if _, count := f.session.MealItems(); count != 0 {
		t.Errorf("expected the meal to be cleared after logging, got %d units", count)
	}

	var tracker types.Tracker
	if err := json.NewDecoder(recorder.Body).Decode(&tracker); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if tracker.Date != "2021-04-10" {
		t.Errorf("expected the updated tracker in the response, got %+v", tracker)
	}
}

func TestLogUpstreamFailureKeepsMeal(t *testing.T) {
	f := newFixture(t)
	f.session.AddToMeal(testItems[1])
	f.api.logMealErr = upstream.NewStatusError(http.StatusInternalServerError, "")

	recorder := f.request(t, http.MethodPost, "/log", nil)
	if recorder.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", recorder.Code)
	}
	if _, count := f.session.MealItems(); count != 1 {
		t.Errorf("expected the meal to survive the failed log, got %d units", count)
	}
}

func TestSaveFavorite(t *testing.T) {
	f := newFixture(t)

	// Nothing has been logged yet
	recorder := f.request(t, http.MethodPost, "/favorite", map[string]string{"name": "My usual"})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 before any log, got %d", recorder.Code)
	}

	f.session.AddToMeal(testItems[1])
	f.request(t, http.MethodPost, "/log", nil)

	recorder = f.request(t, http.MethodPost, "/favorite", map[string]string{"name": "My usual"})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", recorder.Code, recorder.Body)
	}
	if f.api.savedFavorite == nil || f.api.savedFavorite.Name != "My usual" {
		t.Errorf("expected the favorite to be created upstream, got %+v", f.api.savedFavorite)
	}
}

func TestSaveFavoriteEmptyName(t *testing.T) {
	f := newFixture(t)
	f.session.AddToMeal(testItems[1])
	f.request(t, http.MethodPost, "/log", nil)

	recorder := f.request(t, http.MethodPost, "/favorite", map[string]string{"name": "   "})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for a blank name, got %d", recorder.Code)
	}
}

func TestSuggestDefaultTarget(t *testing.T) {
	f := newFixture(t)

	recorder := f.request(t, http.MethodGet, "/suggest", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	var response types.RandomMeal
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if response.TotalCalories != defaultSuggestTarget {
		t.Errorf("expected the default target %d to be used, got %v",
			defaultSuggestTarget, response.TotalCalories)
	}
}

func TestSuggestBadTarget(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{"banana", "0", "-100"} {
		recorder := f.request(t, http.MethodGet, "/suggest?target="+target, nil)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("target %q: expected status 400, got %d", target, recorder.Code)
		}
	}
}

func TestExpiredSessionIsUnauthorized(t *testing.T) {
	f := newFixture(t)
	f.sessions.Delete(f.session.ID)

	recorder := f.request(t, http.MethodGet, "/", nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 for a dead session, got %d", recorder.Code)
	}
}
