// Package session tracks which word IDs have already been served during the
// running session, partitioned per difficulty tier. The record is
// append-only for the life of the session and is not required to survive a
// process restart.
package session

import (
	"context"
	"sync"

	"github.com/blondy007/Impostor/internal/models"
)

// UsedWordStore records served word IDs per difficulty tier.
type UsedWordStore interface {
	// UsedIDs returns a snapshot of the IDs already served for a tier.
	UsedIDs(ctx context.Context, difficulty models.Difficulty) (map[string]struct{}, error)
	// MarkUsed appends a word ID to a tier's used set.
	MarkUsed(ctx context.Context, difficulty models.Difficulty, wordID string) error
	// Reset clears the whole record. Used when a new session begins.
	Reset(ctx context.Context) error
}

// MemoryStore is the process-local UsedWordStore used when no Redis address
// is configured.
type MemoryStore struct {
	mu   sync.Mutex
	used map[models.Difficulty]map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{used: make(map[models.Difficulty]map[string]struct{})}
}

func (s *MemoryStore) UsedIDs(_ context.Context, difficulty models.Difficulty) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[string]struct{}, len(s.used[difficulty]))
	for id := range s.used[difficulty] {
		snapshot[id] = struct{}{}
	}
	return snapshot, nil
}

func (s *MemoryStore) MarkUsed(_ context.Context, difficulty models.Difficulty, wordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tier, ok := s.used[difficulty]
	if !ok {
		tier = make(map[string]struct{})
		s.used[difficulty] = tier
	}
	tier[wordID] = struct{}{}
	return nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used = make(map[models.Difficulty]map[string]struct{})
	return nil
}
