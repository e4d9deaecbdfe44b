package config

import (
	"strings"

	"github.com/samber/lo"

	"github.com/blondy007/Impostor/internal/models"
)

const (
	MinPlayers      = 3
	MaxImpostors    = 3
	MinTimerSeconds = 15
	MaxTimerSeconds = 180
)

// DefaultCategories is the full category set used when the caller supplies
// none. The catalog package derives the live set from the loaded catalog.
var DefaultCategories = []string{
	"Animals", "Food", "Objects", "Places", "Professions", "Sports", "Science", "Culture",
}

// GameConfig is the per-game option set. It is normalized once at setup and
// immutable afterwards, with one exception: the explicit "enable AI word
// generation" decision during word-exhaustion handling may flip
// AIWordGenerationEnabled on the copy returned by the word resolver.
type GameConfig struct {
	PlayerCount             int                 `json:"playerCount"`
	ImpostorCount           int                 `json:"impostorCount"`
	Difficulty              models.Difficulty   `json:"difficulty"`
	Categories              []string            `json:"categories"`
	VoteMode                models.VoteMode     `json:"voteMode"`
	AIWordGenerationEnabled bool                `json:"aiWordGenerationEnabled"`
	TimerEnabled            bool                `json:"timerEnabled"`
	TimerSeconds            int                 `json:"timerSeconds"`
	WinCondition            models.WinCondition `json:"winCondition"`
}

// Default returns the configuration a fresh setup screen starts from.
func Default() GameConfig {
	return GameConfig{
		PlayerCount:             7,
		ImpostorCount:           1,
		Difficulty:              models.DifficultyMedium,
		Categories:              append([]string(nil), DefaultCategories...),
		VoteMode:                models.VoteModeGroup,
		AIWordGenerationEnabled: false,
		TimerEnabled:            true,
		TimerSeconds:            60,
		WinCondition:            models.WinConditionTwoLeft,
	}
}

// Normalize produces a fully valid GameConfig from an untrusted one.
// Numeric fields are clamped, enums fall back to defaults, and categories
// are trimmed and deduplicated. A zero PlayerCount or TimerSeconds means
// "unset" and takes the default rather than the clamp floor. Note the
// impostor bound here is only playerCount-1; the stricter "at least two
// civilians" bound is applied at game start against the actual name list.
func Normalize(c GameConfig) GameConfig {
	def := Default()

	if c.PlayerCount == 0 {
		c.PlayerCount = def.PlayerCount
	}
	if c.PlayerCount < MinPlayers {
		c.PlayerCount = MinPlayers
	}

	maxImpostors := max(1, min(MaxImpostors, c.PlayerCount-1))
	c.ImpostorCount = clamp(c.ImpostorCount, 1, maxImpostors)

	if !c.Difficulty.Valid() {
		c.Difficulty = def.Difficulty
	}

	c.Categories = sanitizeCategories(c.Categories)

	if c.VoteMode != models.VoteModeIndividual && c.VoteMode != models.VoteModeGroup {
		c.VoteMode = def.VoteMode
	}
	if c.WinCondition != models.WinConditionTwoLeft && c.WinCondition != models.WinConditionParity {
		c.WinCondition = def.WinCondition
	}

	if c.TimerSeconds == 0 {
		c.TimerSeconds = def.TimerSeconds
	}
	c.TimerSeconds = clamp(c.TimerSeconds, MinTimerSeconds, MaxTimerSeconds)

	return c
}

// ClampImpostorsForStart applies the game-start invariant that at least two
// civilians must remain structurally possible.
func ClampImpostorsForStart(impostorCount, playerCount int) int {
	return clamp(impostorCount, 1, max(1, playerCount-2))
}

func sanitizeCategories(categories []string) []string {
	cleaned := lo.FilterMap(categories, func(c string, _ int) (string, bool) {
		c = strings.TrimSpace(c)
		return c, c != ""
	})
	cleaned = lo.Uniq(cleaned)
	if len(cleaned) == 0 {
		return append([]string(nil), DefaultCategories...)
	}
	return cleaned
}

func clamp(v, floor, ceil int) int {
	if v < floor {
		return floor
	}
	if v > ceil {
		return ceil
	}
	return v
}
