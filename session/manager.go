package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/fastfood-planner/planner-api/auth"
	"github.com/fastfood-planner/planner-api/meal"
	"github.com/fastfood-planner/planner-api/types"
)

// Session is the server-side state for one authenticated client:
// the user's upstream token, the meal they are currently building,
// and the flattened copy of the last meal they logged
// (retained to back the save-as-favorite follow-up).
//
// The session is the single logical owner of its meal;
// the internal mutex serializes concurrent requests from the same client
type Session struct {
	ID            string
	Username      string
	UpstreamToken string

	mu         sync.Mutex
	meal       *meal.Meal
	lastLogged []int
	lastSeen   time.Time
}

// AddToMeal records one more unit of the given catalog item
// in the session's in-progress meal
func (s *Session) AddToMeal(item types.MenuItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.meal.Add(item)
}

// RemoveFromMeal takes one unit of the item with the given identifier
// out of the in-progress meal (a no-op when the item is absent)
func (s *Session) RemoveFromMeal(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.meal.Remove(id)
}

// ClearMeal discards the in-progress meal
func (s *Session) ClearMeal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.meal.Clear()
}

// MealItems returns a snapshot of the in-progress meal's entries
// together with the total unit count
func (s *Session) MealItems() ([]types.MealItem, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.meal.Items(), s.meal.Count()
}

// MealItemIDs returns the flattened wire shape of the in-progress meal
func (s *Session) MealItemIDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.meal.ItemIDs()
}

// CompleteLog clears the in-progress meal after a successful upstream log
// and retains the flattened copy as the last logged meal
func (s *Session) CompleteLog(itemIDs []int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastLogged = itemIDs
	s.meal.Clear()
}

// LastLogged returns the flattened copy of the most recently logged meal,
// or false when nothing has been logged in this session
func (s *Session) LastLogged() ([]int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastLogged == nil {
		return nil, false
	}

	ids := make([]int, len(s.lastLogged))
	copy(ids, s.lastLogged)
	return ids, true
}

// Manager owns every live session, keyed by session identifier.
// A background sweeper evicts sessions that have been idle past the
// configured TTL; an evicted session's meal is gone, which is the
// intended lifetime for unsaved in-progress state
type Manager struct {
	stopSweep chan struct{}

	mu       sync.Mutex
	sessions map[string]*Session
	maxIdle  time.Duration
}

// NewManager creates a new Manager and starts the goroutine
// that evicts idle sessions
func NewManager(sweepInterval time.Duration, maxIdle time.Duration) *Manager {
	m := &Manager{
		stopSweep: make(chan struct{}),
		sessions:  make(map[string]*Session),
		maxIdle:   maxIdle,
	}

	go m.sweep(sweepInterval)
	return m
}

// Create provisions a new session with a unique identifier
// and an empty meal
func (m *Manager) Create(username string, upstreamToken string) (*Session, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:            id.String(),
		Username:      username,
		UpstreamToken: upstreamToken,
		meal:          meal.New(),
		lastSeen:      time.Now(),
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	return session, nil
}

// Get looks up a live session by its identifier,
// marking it as recently used
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, NewNotFoundError(id)
	}

	session.mu.Lock()
	session.lastSeen = time.Now()
	session.mu.Unlock()

	return session, nil
}

// Delete drops a session unconditionally (logout)
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
}

// FromRequest resolves the server-side session for an authenticated request
// by reading the session identifier out of the verified JWT claims
func (m *Manager) FromRequest(r *http.Request) (*Session, error) {
	_, claims, err := auth.FromContext(r.Context())
	if err != nil {
		return nil, err
	}

	return m.Get(claims.SessionID)
}

// Stop ends the background eviction goroutine
func (m *Manager) Stop() {
	m.stopSweep <- struct{}{}
}

// Blocking function that periodically evicts idle sessions
func (m *Manager) sweep(interval time.Duration) {
	for {
		select {
		case <-m.stopSweep:
			return
		case now := <-time.After(interval):
			m.mu.Lock()
			for id, session := range m.sessions {
				session.mu.Lock()
				idle := now.Sub(session.lastSeen)
				session.mu.Unlock()

				if idle > m.maxIdle {
					delete(m.sessions, id)
				}
			}
			m.mu.Unlock()
		}
	}
}
