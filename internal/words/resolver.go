package words

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blondy007/Impostor/internal/config"
	"github.com/blondy007/Impostor/internal/models"
)

// ErrSelectionCancelled signals that no word was resolved and the user
// declined (or was unable) to change course. It is control flow, not a
// fault: callers leave prior state intact and return to the screen that
// initiated the action, and must never log it as an error.
var ErrSelectionCancelled = errors.New("word selection cancelled")

// Choice is the answer to a two-option user decision.
type Choice int

const (
	ChoicePrimary Choice = iota
	ChoiceSecondary
)

// Prompter is the modal-dialog boundary. PresentDecision blocks the
// resolution (not the rest of the UI) until the human answers; an error is
// treated as declining. PresentInfo shows a terminal notice.
type Prompter interface {
	PresentDecision(ctx context.Context, title, message, primaryLabel, secondaryLabel string) (Choice, error)
	PresentInfo(ctx context.Context, title, message string)
}

// Generator produces a fresh secret word on demand. Implementations are
// treated as unreliable: an error, a timeout and an empty string are all
// equivalent "no result" outcomes.
type Generator interface {
	Fetch(ctx context.Context, difficulty models.Difficulty, categories []string) (string, error)
}

// Urgency picks the generator timeout budget: tight when the whole table is
// waiting on game start, looser for a mid-round word change.
type Urgency int

const (
	UrgencyStart Urgency = iota
	UrgencyChange
)

const (
	startFetchTimeout  = 2 * time.Second
	changeFetchTimeout = 5 * time.Second
)

// Resolution is a resolved secret word plus the effective configuration,
// which may differ from the input when the user enabled AI generation
// during exhaustion handling.
type Resolution struct {
	Word   string
	Config config.GameConfig
}

// Resolver arbitrates between the local pool and the external generator
// according to the game configuration.
type Resolver struct {
	pool     *Pool
	gen      Generator
	prompter Prompter
	log      *logrus.Logger

	// epoch tags each generator attempt so a late response can never be
	// applied over a newer resolution.
	epoch atomic.Uint64
}

func NewResolver(pool *Pool, gen Generator, prompter Prompter, log *logrus.Logger) *Resolver {
	return &Resolver{pool: pool, gen: gen, prompter: prompter, log: log}
}

// Resolve produces the secret word for a new game or a word-change request.
// Generator failures never propagate; they degrade to the fallback chain.
// The only non-nil errors are ErrSelectionCancelled and unexpected store
// failures.
func (r *Resolver) Resolve(ctx context.Context, cfg config.GameConfig, urgency Urgency) (Resolution, error) {
	if cfg.AIWordGenerationEnabled {
		return r.resolveGeneratorFirst(ctx, cfg, urgency)
	}
	return r.resolveLocalFirst(ctx, cfg, urgency)
}

// resolveLocalFirst implements the AI-disabled branch: local pool, then the
// exhaustion decision, then one generator attempt if the user opted in.
func (r *Resolver) resolveLocalFirst(ctx context.Context, cfg config.GameConfig, urgency Urgency) (Resolution, error) {
	word, ok, err := r.pool.PickUnused(ctx, cfg.Difficulty)
	if err != nil {
		return Resolution{}, err
	}
	if ok {
		return Resolution{Word: word.Text, Config: cfg}, nil
	}

	r.log.WithField("difficulty", cfg.Difficulty).Info("local word pool exhausted, asking user")
	choice, err := r.prompter.PresentDecision(ctx,
		"No words left",
		"Every local word for this difficulty has been played. Generate a fresh one with AI?",
		"Enable AI generation",
		"Keep local only",
	)
	if err != nil || choice != ChoicePrimary {
		return Resolution{}, ErrSelectionCancelled
	}

	cfg.AIWordGenerationEnabled = true
	if generated := r.fetchBounded(ctx, cfg, urgency); generated != "" {
		return Resolution{Word: generated, Config: cfg}, nil
	}
	r.prompter.PresentInfo(ctx, "AI generation failed", "No word could be generated. Try another difficulty.")
	return Resolution{}, ErrSelectionCancelled
}

// resolveGeneratorFirst implements the AI-enabled branch: generator first,
// local pool as fallback.
func (r *Resolver) resolveGeneratorFirst(ctx context.Context, cfg config.GameConfig, urgency Urgency) (Resolution, error) {
	if generated := r.fetchBounded(ctx, cfg, urgency); generated != "" {
		return Resolution{Word: generated, Config: cfg}, nil
	}

	word, ok, err := r.pool.PickUnused(ctx, cfg.Difficulty)
	if err != nil {
		return Resolution{}, err
	}
	if ok {
		return Resolution{Word: word.Text, Config: cfg}, nil
	}
	r.prompter.PresentInfo(ctx, "No word available", "AI generation failed and the local pool is exhausted.")
	return Resolution{}, ErrSelectionCancelled
}

// fetchBounded races the generator against a fixed budget. The in-flight
// call is not aborted, only abandoned; a response carrying a stale epoch
// token is discarded rather than applied.
func (r *Resolver) fetchBounded(ctx context.Context, cfg config.GameConfig, urgency Urgency) string {
	if r.gen == nil {
		return ""
	}

	timeout := startFetchTimeout
	if urgency == UrgencyChange {
		timeout = changeFetchTimeout
	}

	token := r.epoch.Add(1)
	type fetchResult struct {
		token uint64
		word  string
	}
	results := make(chan fetchResult, 1)

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	go func() {
		defer cancel()
		word, err := r.gen.Fetch(fetchCtx, cfg.Difficulty, cfg.Categories)
		if err != nil {
			r.log.WithError(err).Debug("word generator failed, falling back")
			word = ""
		}
		results <- fetchResult{token: token, word: strings.TrimSpace(word)}
	}()

	select {
	case res := <-results:
		if res.token != r.epoch.Load() {
			r.log.Debug("discarding stale word generator response")
			return ""
		}
		return res.word
	case <-time.After(timeout):
		r.log.WithField("timeout", timeout).Debug("word generator timed out")
		return ""
	case <-ctx.Done():
		return ""
	}
}
