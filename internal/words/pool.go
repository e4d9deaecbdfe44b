// Package words resolves the secret word for a game: a local catalog pool
// with session-scoped repeat tracking, an unreliable external generator,
// and the resolver that arbitrates between them.
package words

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/samber/lo"

	"github.com/blondy007/Impostor/internal/models"
	"github.com/blondy007/Impostor/internal/session"
)

// Pool serves unused catalog words for a difficulty tier. The random source
// is injected so selection is deterministic under test.
type Pool struct {
	mu      sync.Mutex
	catalog []models.Word
	used    session.UsedWordStore
	rng     *rand.Rand
}

func NewPool(catalog []models.Word, used session.UsedWordStore, rng *rand.Rand) *Pool {
	return &Pool{catalog: catalog, used: used, rng: rng}
}

// PickUnused selects uniformly among catalog words of the given difficulty
// that have not been served this session, marks the winner used, and
// returns it. The second return is false when the tier is exhausted; an
// exhausted pick has no side effects.
func (p *Pool) PickUnused(ctx context.Context, difficulty models.Difficulty) (models.Word, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	usedIDs, err := p.used.UsedIDs(ctx, difficulty)
	if err != nil {
		return models.Word{}, false, fmt.Errorf("failed to load used words: %w", err)
	}

	candidates := lo.Filter(p.catalog, func(w models.Word, _ int) bool {
		if w.Difficulty != difficulty {
			return false
		}
		_, served := usedIDs[w.ID]
		return !served
	})
	if len(candidates) == 0 {
		return models.Word{}, false, nil
	}

	word := candidates[p.rng.Intn(len(candidates))]
	if err := p.used.MarkUsed(ctx, difficulty, word.ID); err != nil {
		return models.Word{}, false, fmt.Errorf("failed to mark word used: %w", err)
	}
	return word, true, nil
}
