package game

import (
	"github.com/google/uuid"

	"github.com/blondy007/Impostor/internal/config"
	"github.com/blondy007/Impostor/internal/models"
)

// Snapshot is the obfuscated view of the session handed to the device UI.
// Roles stay hidden until the game is over; the secret word is never
// included (it is served per player through RevealFor).
type Snapshot struct {
	SessionID       uuid.UUID         `json:"sessionId"`
	GameID          uuid.UUID         `json:"gameId"`
	Phase           Phase             `json:"phase"`
	RoundNumber     int               `json:"roundNumber"`
	Config          config.GameConfig `json:"config"`
	Players         []models.Player   `json:"players"`
	LastExpelled    *models.Player    `json:"lastExpelled,omitempty"`
	Clues           []models.Clue     `json:"clues"`
	DebateRemaining int               `json:"debateRemaining"`
}

// Snapshot builds a consistent view of the current state.
func (g *ImpostorGame) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	revealRoles := g.Phase == PhaseGameOver

	players := make([]models.Player, len(g.Players))
	for i, p := range g.Players {
		cp := *p
		if !revealRoles {
			cp.Role = ""
		}
		players[i] = cp
	}

	var lastExpelled *models.Player
	if g.LastExpelled != nil {
		// The expelled player's role is public the moment they leave.
		cp := *g.LastExpelled
		lastExpelled = &cp
	}

	clues := make([]models.Clue, len(g.Clues))
	copy(clues, g.Clues)

	return Snapshot{
		SessionID:       g.SessionID,
		GameID:          g.GameID,
		Phase:           g.Phase,
		RoundNumber:     g.RoundNumber,
		Config:          g.Config,
		Players:         players,
		LastExpelled:    lastExpelled,
		Clues:           clues,
		DebateRemaining: g.debateRemaining,
	}
}
