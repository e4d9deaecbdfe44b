package models

import "github.com/google/uuid"

// Ballot is a single voter's choice: either a target or an explicit abstain.
type Ballot struct {
	Target  uuid.UUID `json:"target"`
	Abstain bool      `json:"abstain"`
}

// VoteResolution is the outcome of one vote phase. VotesByVoter is empty on
// the group-unanimous path, where no per-voter attribution exists.
type VoteResolution struct {
	ExpelledID   uuid.UUID            `json:"expelledId"`
	Mode         VoteMode             `json:"mode"`
	VotesByVoter map[uuid.UUID]Ballot `json:"votesByVoter"`
}
