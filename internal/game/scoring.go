package game

import (
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/blondy007/Impostor/internal/models"
)

const (
	pointsVotedImpostorOut = 2
	pointsGroupConsensus   = 1
	pointsImpostorSurvived = 1
	pointsWinningSide      = 3
)

// Scoreboard keeps session-wide score totals and a per-round history.
// Totals accumulate across games until the session is reset.
type Scoreboard struct {
	Totals       map[uuid.UUID]int
	History      []models.ScoreRoundLog
	sessionRound int
}

func NewScoreboard() *Scoreboard {
	return &Scoreboard{Totals: make(map[uuid.UUID]int)}
}

// RecordExpulsion scores one resolved vote. Voters who named an expelled
// impostor are rewarded individually; on the group-unanimous path there is
// no per-voter attribution, so the collective hit credits every active
// civilian instead. Impostors that outlive an expelled civilian collect a
// survival point.
func (s *Scoreboard) RecordExpulsion(gameRound int, expelled *models.Player, res models.VoteResolution, players []*models.Player) models.ScoreRoundLog {
	s.sessionRound++
	log := models.ScoreRoundLog{
		SessionRound: s.sessionRound,
		GameRound:    gameRound,
		ExpelledName: expelled.Name,
		ExpelledRole: expelled.Role,
		Deltas:       make(map[uuid.UUID]int),
		Notes:        make(map[uuid.UUID][]string),
	}

	if expelled.Role == models.RoleImpostor {
		if len(res.VotesByVoter) > 0 {
			for voter, ballot := range res.VotesByVoter {
				if !ballot.Abstain && ballot.Target == expelled.ID {
					log.Deltas[voter] += pointsVotedImpostorOut
					log.Notes[voter] = append(log.Notes[voter], "voted the impostor out")
				}
			}
		} else {
			// Group consensus: credit the active civilians collectively.
			civilians := lo.Filter(players, func(p *models.Player, _ int) bool {
				return p.Role == models.RoleCivilian && !p.Eliminated
			})
			for _, c := range civilians {
				log.Deltas[c.ID] += pointsGroupConsensus
				log.Notes[c.ID] = append(log.Notes[c.ID], "group consensus hit")
			}
		}
	} else {
		for _, p := range players {
			if p.Role == models.RoleImpostor && !p.Eliminated {
				log.Deltas[p.ID] += pointsImpostorSurvived
				log.Notes[p.ID] = append(log.Notes[p.ID], "survived the round")
			}
		}
	}

	for id, delta := range log.Deltas {
		s.Totals[id] += delta
	}
	s.History = append(s.History, log)
	return log
}

// RecordGameEnd awards the winning side its bonus.
func (s *Scoreboard) RecordGameEnd(winner models.Role, players []*models.Player) {
	for _, p := range players {
		if p.Role == winner {
			s.Totals[p.ID] += pointsWinningSide
		}
	}
}
