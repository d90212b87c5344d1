package upstream

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/hako/durafmt"

	"github.com/fastfood-planner/planner-api/catalog"
	"github.com/fastfood-planner/planner-api/env"
	"github.com/fastfood-planner/planner-api/types"
)

// Provider bundles together a stateful connection to the upstream
// nutrition API: a service-account session used to refresh the shared
// catalog, the typed client itself, and the catalog cache in front of it.
//
// Per-user calls go through the embedded Client with each user's own token;
// only the catalog refresh uses the service-account session
type Provider struct {
	stopFetch         chan struct{}
	stopReloadSession chan struct{}

	// Config values
	fetchPeriod         time.Duration
	reloadSessionPeriod time.Duration
	username            string
	password            string

	sessionMu    sync.Mutex
	serviceToken string

	*Client
	*catalog.Cache
}

// NewProvider loads values from the environment
// and creates the provider
// (doesn't involve authentication or start goroutines)
func NewProvider() (*Provider, error) {
	baseURL, err := env.GetEnv("upstream base URL", "UPSTREAM_BASE_URL")
	if err != nil {
		return nil, err
	}

	username, err := env.GetEnv("upstream service username", "UPSTREAM_USERNAME")
	if err != nil {
		return nil, err
	}

	password, err := env.GetEnv("upstream service password", "UPSTREAM_PASSWORD")
	if err != nil {
		return nil, err
	}

	fetchPeriod, err := env.GetDurationEnv("upstream catalog fetch period", "UPSTREAM_FETCH_PERIOD")
	if err != nil {
		return nil, err
	}

	reloadSessionPeriod, err := env.GetDurationEnv("upstream reload session period", "UPSTREAM_RELOAD_SESSION_PERIOD")
	if err != nil {
		return nil, err
	}

	return &Provider{
		stopFetch:         make(chan struct{}),
		stopReloadSession: make(chan struct{}),

		fetchPeriod:         fetchPeriod,
		reloadSessionPeriod: reloadSessionPeriod,
		username:            username,
		password:            password,

		Client: NewClient(baseURL),
		Cache:  &catalog.Cache{},
	}, nil
}

// Connect initializes the service-account session
// and starts goroutines to periodically re-authenticate/fetch
func (p *Provider) Connect(ctx context.Context) error {
	// Load the session
	err := p.ReloadSession(ctx)
	if err != nil {
		return err
	}

	// Start the periodic goroutines
	go p.periodFetch()
	go p.periodReloadSession()

	return nil
}

// ReloadSession exchanges the service-account credentials
// for a fresh upstream token
func (p *Provider) ReloadSession(ctx context.Context) error {
	token, err := p.Login(ctx, p.username, p.password)
	if err != nil {
		return err
	}

	p.sessionMu.Lock()
	p.serviceToken = token
	p.sessionMu.Unlock()

	return nil
}

// ServiceToken returns the current service-account token
func (p *Provider) ServiceToken() string {
	p.sessionMu.Lock()
	defer p.sessionMu.Unlock()

	return p.serviceToken
}

// Periodically fetches the catalog from the upstream API
// and stores the data into the cache
func (p *Provider) periodFetch() {
	humanDuration := durafmt.Parse(p.fetchPeriod).LimitFirstN(2).String()
	p.tryFetch(humanDuration)
	for {
		select {
		case <-p.stopFetch:
			return
		case <-time.After(p.fetchPeriod):
			p.tryFetch(humanDuration)
		}
	}
}

// Attempts to fetch the restaurant list and every menu,
// reloading the cache on success and printing out an error otherwise
func (p *Provider) tryFetch(delayUntilNext string) {
	ctx := context.Background()
	token := p.ServiceToken()

	restaurants, err := p.ListRestaurants(ctx, token)
	if err != nil {
		// Report error,
		// but continue the goroutine
		log.Println("an error occurred while fetching the upstream restaurant list:")
		log.Println(err)
		return
	}

	// The list endpoint only carries identifiers and names,
	// so pull each restaurant's menu separately
	full := make([]types.Restaurant, 0, len(restaurants))
	totalItems := 0
	for _, restaurant := range restaurants {
		detail, err := p.FetchRestaurant(ctx, token, restaurant.ID)
		if err != nil {
			log.Printf("an error occurred while fetching the menu for restaurant %d:\n", restaurant.ID)
			log.Println(err)
			return
		}

		full = append(full, *detail)
		totalItems += len(detail.MenuItems)
	}

	p.Cache.Load(full)
	log.Printf("reloaded upstream catalog cache (%d restaurants, %d items); fetching again in %s\n",
		len(full), totalItems, delayUntilNext)
}

// Periodically reloads the service-account session
func (p *Provider) periodReloadSession() {
	humanDuration := durafmt.Parse(p.reloadSessionPeriod).LimitFirstN(2).String()
	log.Printf("reloading upstream API session in %s", humanDuration)
	for {
		select {
		case <-p.stopReloadSession:
			return
		case <-time.After(p.reloadSessionPeriod):
			err := p.ReloadSession(context.Background())
			if err != nil {
				// Report error,
				// but continue the goroutine
				log.Println("an error occurred while reloading the upstream API session:")
				log.Println(err)
			} else {
				log.Printf("reloaded upstream API session; reloading again in %s\n", humanDuration)
			}
		}
	}
}

// Disconnect stops all periodic goroutines
// (for re-authentication and fetching)
func (p *Provider) Disconnect(ctx context.Context) error {
	p.stopFetch <- struct{}{}
	p.stopReloadSession <- struct{}{}

	return nil
}
