package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/fastfood-planner/planner-api/types"
)

// API is the per-user surface of the upstream nutrition REST API.
// Every method takes the user's upstream token;
// the client itself holds no ambient authentication state
type API interface {
	Login(ctx context.Context, username string, password string) (string, error)
	Register(ctx context.Context, username string, email string, password string) (string, error)
	GetProfile(ctx context.Context, token string) (*types.Profile, error)
	UpdateProfile(ctx context.Context, token string, profile types.Profile) (*types.Profile, error)
	GetTracker(ctx context.Context, token string) (*types.Tracker, error)
	LogMeal(ctx context.Context, token string, itemIDs []int) (*types.Tracker, error)
	GetHistory(ctx context.Context, token string) ([]types.HistoryEntry, error)
	GetFavorites(ctx context.Context, token string) ([]types.FavoriteMeal, error)
	CreateFavorite(ctx context.Context, token string, name string, itemIDs []int) (*types.FavoriteMeal, error)
	DeleteFavorite(ctx context.Context, token string, id int) error
	LogFavorite(ctx context.Context, token string, id int) (*types.Tracker, error)
	GetRandomMeal(ctx context.Context, token string, target int) (*types.RandomMeal, error)
}

// Client is a typed HTTP client for the upstream nutrition REST API.
// Safe for concurrent use
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new client for the API rooted at the given base URL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Login exchanges credentials for an upstream API token
func (c *Client) Login(ctx context.Context, username string, password string) (string, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	var result struct {
		Token string `json:"token"`
	}
	err := c.call(ctx, http.MethodPost, "/login/", "", body, &result)
	if err != nil {
		return "", err
	}

	return result.Token, nil
}

// Register creates a new account and returns its upstream API token.
// Field-keyed validation failures are returned as a *ValidationError
func (c *Client) Register(ctx context.Context, username string, email string, password string) (string, error) {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/register/", "", body)
	if err != nil {
		return "", err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "could not reach the upstream API")
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusBadRequest {
		// The registration endpoint reports validation failures
		// as a map of field name to messages
		fields := make(map[string][]string)
		if err := json.NewDecoder(res.Body).Decode(&fields); err == nil && len(fields) > 0 {
			return "", NewValidationError(fields)
		}

		return "", NewStatusError(res.StatusCode, "")
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", NewStatusError(res.StatusCode, extractMessage(res))
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return "", errors.Wrap(err, "could not decode upstream registration response")
	}

	return result.Token, nil
}

// ListRestaurants gets the restaurant list (identifiers and names)
func (c *Client) ListRestaurants(ctx context.Context, token string) ([]types.Restaurant, error) {
	var restaurants []types.Restaurant
	err := c.call(ctx, http.MethodGet, "/restaurants/", token, nil, &restaurants)
	if err != nil {
		return nil, err
	}

	return restaurants, nil
}

// FetchRestaurant gets a single restaurant with its embedded menu items
func (c *Client) FetchRestaurant(ctx context.Context, token string, id int) (*types.Restaurant, error) {
	var restaurant types.Restaurant
	err := c.call(ctx, http.MethodGet, fmt.Sprintf("/restaurants/%d/", id), token, nil, &restaurant)
	if err != nil {
		return nil, err
	}

	return &restaurant, nil
}

// GetProfile gets the current user's profile
func (c *Client) GetProfile(ctx context.Context, token string) (*types.Profile, error) {
	var profile types.Profile
	err := c.call(ctx, http.MethodGet, "/profile/", token, nil, &profile)
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// UpdateProfile replaces the current user's profile
func (c *Client) UpdateProfile(ctx context.Context, token string, profile types.Profile) (*types.Profile, error) {
	var updated types.Profile
	err := c.call(ctx, http.MethodPut, "/profile/", token, profile, &updated)
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// GetTracker gets the current day's consumption totals
func (c *Client) GetTracker(ctx context.Context, token string) (*types.Tracker, error) {
	var tracker types.Tracker
	err := c.call(ctx, http.MethodGet, "/tracker/", token, nil, &tracker)
	if err != nil {
		return nil, err
	}

	return &tracker, nil
}

// LogMeal submits a flattened meal (one identifier per unit of quantity)
// and returns the updated tracker
func (c *Client) LogMeal(ctx context.Context, token string, itemIDs []int) (*types.Tracker, error) {
	body := map[string]interface{}{
		"item_ids": itemIDs,
	}

	var tracker types.Tracker
	err := c.call(ctx, http.MethodPost, "/log_meal/", token, body, &tracker)
	if err != nil {
		return nil, err
	}

	return &tracker, nil
}

// GetHistory gets the logged-day aggregates, most recent first
func (c *Client) GetHistory(ctx context.Context, token string) ([]types.HistoryEntry, error) {
	var history []types.HistoryEntry
	err := c.call(ctx, http.MethodGet, "/history/", token, nil, &history)
	if err != nil {
		return nil, err
	}

	return history, nil
}

// GetFavorites gets the user's saved favorite meals
func (c *Client) GetFavorites(ctx context.Context, token string) ([]types.FavoriteMeal, error) {
	var favorites []types.FavoriteMeal
	err := c.call(ctx, http.MethodGet, "/favorites/", token, nil, &favorites)
	if err != nil {
		return nil, err
	}

	return favorites, nil
}

// CreateFavorite saves a flattened meal as a named favorite
func (c *Client) CreateFavorite(ctx context.Context, token string, name string, itemIDs []int) (*types.FavoriteMeal, error) {
	body := map[string]interface{}{
		"name":     name,
		"item_ids": itemIDs,
	}

	var favorite types.FavoriteMeal
	err := c.call(ctx, http.MethodPost, "/favorites/", token, body, &favorite)
	if err != nil {
		return nil, err
	}

	return &favorite, nil
}

// DeleteFavorite removes a favorite by its identifier
func (c *Client) DeleteFavorite(ctx context.Context, token string, id int) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/favorites/%d/", id), token, nil, nil)
}

// LogFavorite logs a favorite as a new meal and returns the updated tracker
func (c *Client) LogFavorite(ctx context.Context, token string, id int) (*types.Tracker, error) {
	var tracker types.Tracker
	err := c.call(ctx, http.MethodPost, fmt.Sprintf("/favorites/%d/log/", id), token, nil, &tracker)
	if err != nil {
		return nil, err
	}

	return &tracker, nil
}

// GetRandomMeal gets a server-suggested item list near a calorie target
func (c *Client) GetRandomMeal(ctx context.Context, token string, target int) (*types.RandomMeal, error) {
	path := "/random_meal/?" + url.Values{"target": {fmt.Sprint(target)}}.Encode()

	var randomMeal types.RandomMeal
	err := c.call(ctx, http.MethodGet, path, token, nil, &randomMeal)
	if err != nil {
		return nil, err
	}

	return &randomMeal, nil
}

// newRequest builds a request against the base URL,
// attaching the token header and encoding the body as JSON when given
func (c *Client) newRequest(ctx context.Context, method string, path string,
	token string, body interface{}) (*http.Request, error) {

	var payload *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "could not encode upstream request body")
		}
		payload = bytes.NewReader(encoded)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, err
	}

	req.Header.Add("Accept", "application/json")
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Token %s", token))
	}

	return req, nil
}

// call performs a request and decodes a 2xx JSON response into out
// (out may be nil for endpoints with no meaningful body)
func (c *Client) call(ctx context.Context, method string, path string,
	token string, body interface{}, out interface{}) error {

	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "could not reach the upstream API")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return NewStatusError(res.StatusCode, extractMessage(res))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "could not decode upstream response for %s %s", method, path)
	}

	return nil
}

// extractMessage pulls a human-readable message out of an upstream
// error response body, which uses either an 'error' or 'detail' key
func extractMessage(res *http.Response) string {
	raw, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return ""
	}

	var parsed struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ""
	}

	if parsed.Error != "" {
		return parsed.Error
	}
	return parsed.Detail
}
