// Package catalog supplies the static word catalog the game draws secret
// words from. The catalog ships embedded in the binary and can be replaced
// by a JSON file or a Postgres table.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/lo"

	"github.com/blondy007/Impostor/internal/models"
)

//go:embed words.json
var embeddedCatalog []byte

// Load reads the word catalog from path, or the embedded default when path
// is empty. Entries with an invalid difficulty or empty text are rejected.
func Load(path string) ([]models.Word, error) {
	data := embeddedCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read word catalog %s: %w", path, err)
		}
	}

	var words []models.Word
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("failed to parse word catalog: %w", err)
	}
	if err := validate(words); err != nil {
		return nil, err
	}
	return words, nil
}

// Categories derives the distinct category names present in the catalog,
// preserving first-seen order.
func Categories(words []models.Word) []string {
	return lo.Uniq(lo.Map(words, func(w models.Word, _ int) string {
		return w.Category
	}))
}

func validate(words []models.Word) error {
	if len(words) == 0 {
		return fmt.Errorf("word catalog is empty")
	}
	seen := make(map[string]struct{}, len(words))
	for i, w := range words {
		if w.ID == "" || w.Text == "" {
			return fmt.Errorf("catalog entry %d is missing id or text", i)
		}
		if !w.Difficulty.Valid() {
			return fmt.Errorf("catalog entry %s has unknown difficulty %q", w.ID, w.Difficulty)
		}
		if _, dup := seen[w.ID]; dup {
			return fmt.Errorf("catalog entry %s has a duplicate id", w.ID)
		}
		seen[w.ID] = struct{}{}
	}
	return nil
}
