package words

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blondy007/Impostor/internal/models"
	"github.com/blondy007/Impostor/internal/session"
)

func testCatalog() []models.Word {
	return []models.Word{
		{ID: "e1", Text: "Cat", Category: "Animals", Difficulty: models.DifficultyEasy},
		{ID: "e2", Text: "Bread", Category: "Food", Difficulty: models.DifficultyEasy},
		{ID: "m1", Text: "Lighthouse", Category: "Places", Difficulty: models.DifficultyMedium},
	}
}

func TestPickUnusedNeverRepeatsWithinSession(t *testing.T) {
	ctx := context.Background()
	pool := NewPool(testCatalog(), session.NewMemoryStore(), rand.New(rand.NewSource(1)))

	seen := make(map[string]bool)
	for i := 0; i < 2; i++ {
		word, ok, err := pool.PickUnused(ctx, models.DifficultyEasy)
		require.NoError(t, err)
		require.True(t, ok)
		assert.False(t, seen[word.ID], "word %s served twice", word.ID)
		seen[word.ID] = true
	}

	// Both EASY words are spent now.
	_, ok, err := pool.PickUnused(ctx, models.DifficultyEasy)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPickUnusedFiltersByDifficulty(t *testing.T) {
	ctx := context.Background()
	pool := NewPool(testCatalog(), session.NewMemoryStore(), rand.New(rand.NewSource(1)))

	word, ok, err := pool.PickUnused(ctx, models.DifficultyMedium)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "m1", word.ID)
}

func TestPickUnusedExhaustedTierHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	pool := NewPool(testCatalog(), store, rand.New(rand.NewSource(1)))

	_, ok, err := pool.PickUnused(ctx, models.DifficultyExtreme)
	require.NoError(t, err)
	assert.False(t, ok)

	used, err := store.UsedIDs(ctx, models.DifficultyExtreme)
	require.NoError(t, err)
	assert.Empty(t, used)
}

func TestPickUnusedTiersAreIndependent(t *testing.T) {
	ctx := context.Background()
	pool := NewPool(testCatalog(), session.NewMemoryStore(), rand.New(rand.NewSource(7)))

	for i := 0; i < 2; i++ {
		_, ok, err := pool.PickUnused(ctx, models.DifficultyEasy)
		require.NoError(t, err)
		require.True(t, ok)
	}

	// Exhausting EASY must not touch MEDIUM.
	_, ok, err := pool.PickUnused(ctx, models.DifficultyMedium)
	require.NoError(t, err)
	assert.True(t, ok)
}
