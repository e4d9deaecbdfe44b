// Package models holds the shared domain types of the impostor word game.
// They carry no behavior beyond validation; all game logic lives in the
// game package.
package models

// Role is a player's hidden allegiance for one game.
type Role string

const (
	RoleCivilian Role = "CIVIL"
	RoleImpostor Role = "IMPOSTOR"
)

// Difficulty selects the word tier secret words are drawn from.
type Difficulty string

const (
	DifficultyEasy    Difficulty = "EASY"
	DifficultyMedium  Difficulty = "MEDIUM"
	DifficultyHard    Difficulty = "HARD"
	DifficultyExtreme Difficulty = "EXTREME"
)

// Difficulties lists every tier in ascending order.
var Difficulties = []Difficulty{
	DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExtreme,
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExtreme:
		return true
	}
	return false
}

// VoteMode selects how a round's vote is conducted: one ballot per player,
// or a single table-wide consensus.
type VoteMode string

const (
	VoteModeIndividual VoteMode = "INDIVIDUAL"
	VoteModeGroup      VoteMode = "GROUP"
)

// WinCondition selects the attrition rule that hands the impostors the win:
// TWO_LEFT when only two players remain, PARITY when active impostors reach
// the active civilian count. Civilians always win by expelling the last
// impostor, regardless of this setting.
type WinCondition string

const (
	WinConditionTwoLeft WinCondition = "TWO_LEFT"
	WinConditionParity  WinCondition = "PARITY"
)
