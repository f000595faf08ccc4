package memory

import (
	"context"
	"sync"
)

// SessionStore is an in-memory implementation of app.SessionRepository: the set
// of cities already served per player.
type SessionStore struct {
	mu   sync.RWMutex
	used map[string][]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{used: make(map[string][]string)}
}

func (s *SessionStore) UsedCities(_ context.Context, username string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cities := s.used[username]
	out := make([]string, len(cities))
	copy(out, cities)
	return out, nil
}

func (s *SessionStore) SaveUsedCities(_ context.Context, username string, cities []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]string, len(cities))
	copy(stored, cities)
	s.used[username] = stored
	return nil
}
