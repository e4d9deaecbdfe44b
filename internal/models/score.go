package models

import "github.com/google/uuid"

// ScoreRoundLog records how one expulsion changed the session scoreboard.
// SessionRound counts scored rounds across games in the running session;
// GameRound is the round number within the game that produced it.
type ScoreRoundLog struct {
	SessionRound int                    `json:"sessionRound"`
	GameRound    int                    `json:"gameRound"`
	ExpelledName string                 `json:"expelledName"`
	ExpelledRole Role                   `json:"expelledRole"`
	Deltas       map[uuid.UUID]int      `json:"deltas"`
	Notes        map[uuid.UUID][]string `json:"notes"`
}
