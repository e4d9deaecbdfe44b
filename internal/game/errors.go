package game

import "errors"

var (
	// ErrInvalidTransition is returned when an operation is attempted in a
	// phase it does not belong to.
	ErrInvalidTransition = errors.New("invalid phase transition")

	// ErrNoVotes is returned when a vote phase closes with every voter
	// abstaining; the resolver refuses to conclude.
	ErrNoVotes = errors.New("need at least one vote")

	// ErrNotEnoughPlayers is returned when a game is started with fewer
	// names than the minimum table size.
	ErrNotEnoughPlayers = errors.New("not enough players")

	// ErrAlreadyVoted is returned when a voter casts twice in one phase.
	ErrAlreadyVoted = errors.New("player has already voted")

	// ErrInvalidVote is returned for votes by or against players who are
	// not active in the current round.
	ErrInvalidVote = errors.New("invalid vote")

	// ErrInvalidClue is returned when a clue is empty, too short, or equals
	// the secret word.
	ErrInvalidClue = errors.New("invalid clue")
)
