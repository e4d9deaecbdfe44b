package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blondy007/Impostor/internal/models"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	words, err := Load("")
	require.NoError(t, err)
	require.NotEmpty(t, words)

	perTier := make(map[models.Difficulty]int)
	for _, w := range words {
		assert.True(t, w.Difficulty.Valid())
		perTier[w.Difficulty]++
	}
	for _, tier := range models.Difficulties {
		assert.Greater(t, perTier[tier], 0, "tier %s has no words", tier)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	payload := `[
		{"id": "x1", "text": "Quasar", "category": "Science", "difficulty": "EXTREME"},
		{"id": "x2", "text": "Harbor", "category": "Places", "difficulty": "EASY"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	words, err := Load(path)
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, "Quasar", words[0].Text)
}

func TestLoadRejectsInvalidEntries(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"empty catalog", `[]`},
		{"missing text", `[{"id": "x1", "text": "", "category": "A", "difficulty": "EASY"}]`},
		{"unknown difficulty", `[{"id": "x1", "text": "Word", "category": "A", "difficulty": "NIGHTMARE"}]`},
		{"duplicate id", `[
			{"id": "x1", "text": "Word", "category": "A", "difficulty": "EASY"},
			{"id": "x1", "text": "Other", "category": "A", "difficulty": "EASY"}
		]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "words.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.payload), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestCategoriesDeduplicatesInOrder(t *testing.T) {
	words := []models.Word{
		{ID: "1", Text: "a", Category: "Animals", Difficulty: models.DifficultyEasy},
		{ID: "2", Text: "b", Category: "Food", Difficulty: models.DifficultyEasy},
		{ID: "3", Text: "c", Category: "Animals", Difficulty: models.DifficultyHard},
	}
	assert.Equal(t, []string{"Animals", "Food"}, Categories(words))
}
