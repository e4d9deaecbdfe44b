package game

import (
	"sync"

	"github.com/google/uuid"
)

// Store holds the live sessions, keyed by their stable session ID.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*ImpostorGame
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*ImpostorGame),
	}
}

func (s *Store) Add(g *ImpostorGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[g.SessionID] = g
}

func (s *Store) Get(id uuid.UUID) (*ImpostorGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.sessions[id]
	return g, exists
}

func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
