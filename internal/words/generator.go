package words

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blondy007/Impostor/internal/models"
)

const (
	defaultGeminiModel    = "gemini-2.0-flash"
	geminiEndpointPattern = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
)

// GeminiGenerator asks the Gemini generateContent endpoint for a single
// surprising noun. Each request carries a random nonce so repeated calls do
// not converge on the same word.
type GeminiGenerator struct {
	APIKey string
	Model  string
	Client *http.Client
	Log    *logrus.Logger
}

func NewGeminiGenerator(apiKey string, log *logrus.Logger) *GeminiGenerator {
	return &GeminiGenerator{
		APIKey: apiKey,
		Model:  defaultGeminiModel,
		Client: &http.Client{},
		Log:    log,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
	Config   geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
	TopK        int     `json:"topK"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Fetch implements Generator. Errors are returned for the resolver to
// absorb; they never reach the state machine.
func (g *GeminiGenerator) Fetch(ctx context.Context, difficulty models.Difficulty, categories []string) (string, error) {
	nonce := fmt.Sprintf("%08x-%d", rand.Uint32(), time.Now().UnixMilli())
	prompt := fmt.Sprintf(`ACT AS A RANDOM WORD GENERATOR FOR THE PARTY GAME "THE IMPOSTOR".

DIFFICULTY: %s.
CATEGORIES: %s.
NONCE: %s.

RULES:
1. Produce one completely fresh, surprising word.
2. Avoid cliche words (dog, pizza, car, table).
3. It must be a concrete noun or a clear concept.
4. For EXTREME difficulty, prefer uncommon scientific or philosophical terms.

ANSWER WITH THE WORD ONLY, NOTHING ELSE.`, difficulty, strings.Join(categories, ", "), nonce)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		Config:   geminiGenConfig{Temperature: 1.0, TopP: 0.99, TopK: 100},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generator request: %w", err)
	}

	url := fmt.Sprintf(geminiEndpointPattern, g.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build generator request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generator request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode generator response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	word := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	// Models occasionally answer with extra lines; keep only the first.
	if idx := strings.IndexByte(word, '\n'); idx >= 0 {
		word = strings.TrimSpace(word[:idx])
	}
	g.Log.WithFields(logrus.Fields{"difficulty": difficulty, "word": word}).Debug("generator produced word")
	return word, nil
}
