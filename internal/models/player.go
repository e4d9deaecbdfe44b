package models

import "github.com/google/uuid"

// Player is one seat at the table. The list is created wholesale at game
// start and replaced at the next game; a player's Role never changes and
// Eliminated only ever flips false -> true within a game.
type Player struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Role             Role      `json:"role"`
	Eliminated       bool      `json:"isEliminated"`
	EliminationRound int       `json:"eliminationRound,omitempty"`
	VotesReceived    int       `json:"votesReceived"`
}
