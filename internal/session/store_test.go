package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blondy007/Impostor/internal/models"
)

func TestMemoryStoreTracksPerTier(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.MarkUsed(ctx, models.DifficultyEasy, "w-001"))
	require.NoError(t, store.MarkUsed(ctx, models.DifficultyEasy, "w-002"))
	require.NoError(t, store.MarkUsed(ctx, models.DifficultyHard, "w-021"))

	easy, err := store.UsedIDs(ctx, models.DifficultyEasy)
	require.NoError(t, err)
	assert.Len(t, easy, 2)
	assert.Contains(t, easy, "w-001")

	hard, err := store.UsedIDs(ctx, models.DifficultyHard)
	require.NoError(t, err)
	assert.Len(t, hard, 1)

	medium, err := store.UsedIDs(ctx, models.DifficultyMedium)
	require.NoError(t, err)
	assert.Empty(t, medium)
}

func TestMemoryStoreResetClearsEverything(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.MarkUsed(ctx, models.DifficultyEasy, "w-001"))
	require.NoError(t, store.MarkUsed(ctx, models.DifficultyExtreme, "w-031"))
	require.NoError(t, store.Reset(ctx))

	for _, tier := range models.Difficulties {
		used, err := store.UsedIDs(ctx, tier)
		require.NoError(t, err)
		assert.Empty(t, used)
	}
}

func TestMemoryStoreSnapshotIsDetached(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.MarkUsed(ctx, models.DifficultyEasy, "w-001"))

	snapshot, err := store.UsedIDs(ctx, models.DifficultyEasy)
	require.NoError(t, err)
	snapshot["w-999"] = struct{}{}

	fresh, err := store.UsedIDs(ctx, models.DifficultyEasy)
	require.NoError(t, err)
	assert.NotContains(t, fresh, "w-999", "callers must not be able to mutate the record")
}
