package models

import "github.com/google/uuid"

// Clue is one spoken hint, recorded for the round it was given in.
type Clue struct {
	PlayerID uuid.UUID `json:"playerId"`
	Text     string    `json:"text"`
}
