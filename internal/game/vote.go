package game

import (
	"github.com/google/uuid"

	"github.com/blondy007/Impostor/internal/models"
)

// Tally accumulates one vote phase. It remembers the order in which targets
// received their first vote, because the tie-break policy is "earliest
// target to reach the leading count wins" and must stay deterministic.
type Tally struct {
	mode        models.VoteMode
	targetOrder []uuid.UUID
	counts      map[uuid.UUID]int
	ballots     map[uuid.UUID]models.Ballot
}

func NewTally(mode models.VoteMode) *Tally {
	return &Tally{
		mode:    mode,
		counts:  make(map[uuid.UUID]int),
		ballots: make(map[uuid.UUID]models.Ballot),
	}
}

// Cast records one voter's ballot. Abstentions are recorded but add no
// count. A repeated voter is rejected.
func (t *Tally) Cast(voterID uuid.UUID, ballot models.Ballot) error {
	if _, voted := t.ballots[voterID]; voted {
		return ErrAlreadyVoted
	}
	t.ballots[voterID] = ballot
	if ballot.Abstain {
		return nil
	}
	if _, seen := t.counts[ballot.Target]; !seen {
		t.targetOrder = append(t.targetOrder, ballot.Target)
	}
	t.counts[ballot.Target]++
	return nil
}

// HasVoted reports whether a voter already cast this phase.
func (t *Tally) HasVoted(voterID uuid.UUID) bool {
	_, voted := t.ballots[voterID]
	return voted
}

// VoterCount returns how many ballots (including abstentions) were cast.
func (t *Tally) VoterCount() int {
	return len(t.ballots)
}

// Resolve closes the tally. The target with the strictly highest count is
// expelled; on ties the target that first received a vote wins. When every
// voter abstained it refuses to conclude with ErrNoVotes.
func (t *Tally) Resolve() (models.VoteResolution, error) {
	if len(t.counts) == 0 {
		return models.VoteResolution{}, ErrNoVotes
	}

	var expelled uuid.UUID
	best := -1
	for _, target := range t.targetOrder {
		if t.counts[target] > best {
			best = t.counts[target]
			expelled = target
		}
	}

	votesByVoter := make(map[uuid.UUID]models.Ballot, len(t.ballots))
	for voter, ballot := range t.ballots {
		votesByVoter[voter] = ballot
	}
	return models.VoteResolution{
		ExpelledID:   expelled,
		Mode:         t.mode,
		VotesByVoter: votesByVoter,
	}, nil
}

// ResolveUnanimous produces the group-consensus outcome: a single
// collective target with no per-voter attribution.
func ResolveUnanimous(target uuid.UUID) models.VoteResolution {
	return models.VoteResolution{
		ExpelledID:   target,
		Mode:         models.VoteModeGroup,
		VotesByVoter: map[uuid.UUID]models.Ballot{},
	}
}
