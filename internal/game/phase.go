package game

// Phase is the screen/state the session is in. HOME, SETUP and LIBRARY are
// navigational; the round lifecycle runs from ROLE_REVEAL to GAME_OVER.
type Phase string

const (
	PhaseHome        Phase = "HOME"
	PhaseSetup       Phase = "SETUP"
	PhaseLibrary     Phase = "LIBRARY"
	PhaseRoleReveal  Phase = "ROLE_REVEAL"
	PhaseRoundClues  Phase = "ROUND_CLUES"
	PhaseRoundDebate Phase = "ROUND_DEBATE"
	PhaseRoundVote   Phase = "ROUND_VOTE"
	PhaseRoundResult Phase = "ROUND_RESULT"
	PhaseGameOver    Phase = "GAME_OVER"
)

func (p Phase) String() string {
	return string(p)
}

// InRound reports whether the phase is part of an in-progress game.
func (p Phase) InRound() bool {
	switch p {
	case PhaseRoleReveal, PhaseRoundClues, PhaseRoundDebate, PhaseRoundVote, PhaseRoundResult:
		return true
	}
	return false
}

// CanTransitionTo checks a forward transition. An explicit abort to HOME is
// always allowed and handled separately.
func (p Phase) CanTransitionTo(target Phase) bool {
	if target == PhaseHome {
		return true
	}
	validTransitions := map[Phase][]Phase{
		PhaseHome:        {PhaseSetup, PhaseLibrary},
		PhaseSetup:       {PhaseRoleReveal},
		PhaseLibrary:     {},
		PhaseRoleReveal:  {PhaseRoundClues},
		PhaseRoundClues:  {PhaseRoundDebate},
		PhaseRoundDebate: {PhaseRoundVote},
		PhaseRoundVote:   {PhaseRoundResult, PhaseGameOver},
		PhaseRoundResult: {PhaseRoundClues},
		PhaseGameOver:    {PhaseSetup},
	}

	for _, allowed := range validTransitions[p] {
		if allowed == target {
			return true
		}
	}
	return false
}
