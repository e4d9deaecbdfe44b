package game

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/blondy007/Impostor/internal/config"
	"github.com/blondy007/Impostor/internal/models"
	"github.com/blondy007/Impostor/internal/words"
)

// GameEventType is an enum-like type for broadcasting session events.
type GameEventType string

const (
	EventPhaseChanged   GameEventType = "phase_changed"
	EventWordChanged    GameEventType = "word_changed"
	EventClueRecorded   GameEventType = "clue_recorded"
	EventDebateTick     GameEventType = "debate_tick"
	EventVoteProgress   GameEventType = "vote_progress"
	EventPlayerExpelled GameEventType = "player_expelled"
	EventGameOver       GameEventType = "game_over"
)

// GameEvent is pushed to the device UI whenever session state changes.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// WordSource is what the machine needs from the word resolver.
type WordSource interface {
	Resolve(ctx context.Context, cfg config.GameConfig, urgency words.Urgency) (words.Resolution, error)
}

// ImpostorGame owns the authoritative session state and drives every phase
// transition. All mutation goes through its public operations; each
// operation is atomic under the internal mutex, so no observer can see a
// player marked eliminated before the win condition was evaluated.
type ImpostorGame struct {
	// SessionID is the stable key the session is stored under; GameID is
	// regenerated for every game started within the session.
	SessionID uuid.UUID
	GameID    uuid.UUID

	mu           sync.Mutex
	Phase        Phase
	Config       config.GameConfig
	Players      []*models.Player
	SecretWord   string
	RoundNumber  int
	LastExpelled *models.Player
	Clues        []models.Clue

	words      WordSource
	scoreboard *Scoreboard
	rng        *rand.Rand
	log        *logrus.Logger

	// BroadcastFn is used to push events to the device UI. If nil, no
	// broadcast is done.
	BroadcastFn func(ev GameEvent)

	tally *Tally

	debateTimer     *time.Timer
	debateRemaining int
	timerGen        int
}

// NewImpostorGame builds an idle session sitting on the home screen.
func NewImpostorGame(source WordSource, rng *rand.Rand, log *logrus.Logger) *ImpostorGame {
	return &ImpostorGame{
		SessionID:  uuid.New(),
		Phase:      PhaseHome,
		Config:     config.Default(),
		words:      source,
		scoreboard: NewScoreboard(),
		rng:        rng,
		log:        log,
	}
}

// OpenSetup moves from HOME or GAME_OVER to the setup screen.
func (g *ImpostorGame) OpenSetup() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.Phase.CanTransitionTo(PhaseSetup) {
		return ErrInvalidTransition
	}
	g.setPhaseLocked(PhaseSetup)
	return nil
}

// OpenLibrary moves from HOME to the reference-browsing screen.
func (g *ImpostorGame) OpenLibrary() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.Phase.CanTransitionTo(PhaseLibrary) {
		return ErrInvalidTransition
	}
	g.setPhaseLocked(PhaseLibrary)
	return nil
}

// GoHome aborts whatever is in progress and discards the round state. The
// session scoreboard and the used-word record survive.
func (g *ImpostorGame) GoHome() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopDebateTimerLocked()
	g.Players = nil
	g.SecretWord = ""
	g.RoundNumber = 0
	g.LastExpelled = nil
	g.Clues = nil
	g.tally = nil
	g.setPhaseLocked(PhaseHome)
}

// StartGame assigns roles, resolves the secret word and enters ROLE_REVEAL.
// On words.ErrSelectionCancelled the machine stays in SETUP with no state
// change; on any other failure it hard-resets to HOME and logs the error.
// Word resolution may block on a user decision, so no lock is held while it
// runs.
func (g *ImpostorGame) StartGame(ctx context.Context, cfg config.GameConfig, playerNames []string) error {
	g.mu.Lock()
	if g.Phase != PhaseSetup {
		g.mu.Unlock()
		return ErrInvalidTransition
	}
	if len(playerNames) < config.MinPlayers {
		g.mu.Unlock()
		return ErrNotEnoughPlayers
	}
	g.mu.Unlock()

	cfg = config.Normalize(cfg)
	cfg.PlayerCount = len(playerNames)
	cfg.ImpostorCount = config.ClampImpostorsForStart(cfg.ImpostorCount, len(playerNames))

	res, err := g.words.Resolve(ctx, cfg, words.UrgencyStart)
	if err != nil {
		if errors.Is(err, words.ErrSelectionCancelled) {
			// Expected control flow: stay on the setup screen.
			return err
		}
		g.log.WithError(err).Error("game start failed, resetting to home")
		g.GoHome()
		return err
	}

	players := AssignRoles(playerNames, cfg.ImpostorCount, g.rng)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseSetup {
		// The user navigated away while resolution was pending.
		return ErrInvalidTransition
	}
	g.GameID = uuid.New()
	g.Config = res.Config
	g.Players = players
	g.SecretWord = res.Word
	g.RoundNumber = 1
	g.LastExpelled = nil
	g.Clues = nil
	g.tally = nil
	g.setPhaseLocked(PhaseRoleReveal)
	g.log.WithFields(logrus.Fields{
		"game":      g.GameID,
		"players":   len(players),
		"impostors": cfg.ImpostorCount,
	}).Info("game started")
	return nil
}

// FinishReveal moves from ROLE_REVEAL into the first clue round.
func (g *ImpostorGame) FinishReveal() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseRoleReveal {
		return ErrInvalidTransition
	}
	g.setPhaseLocked(PhaseRoundClues)
	return nil
}

// SubmitClue records one player's clue for the current round. A clue that
// is shorter than two characters or gives away the secret word is rejected.
func (g *ImpostorGame) SubmitClue(playerID uuid.UUID, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseRoundClues {
		return ErrInvalidTransition
	}
	player := g.findActiveLocked(playerID)
	if player == nil {
		return ErrInvalidVote
	}

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < 2 {
		return ErrInvalidClue
	}
	if strings.EqualFold(text, strings.TrimSpace(g.SecretWord)) {
		return ErrInvalidClue
	}

	g.Clues = append(g.Clues, models.Clue{PlayerID: playerID, Text: text})
	g.broadcastLocked(EventClueRecorded, map[string]interface{}{
		"player": player.Name,
		"clue":   text,
	})
	return nil
}

// FinishClues moves into the debate phase and starts the countdown when the
// timer is enabled.
func (g *ImpostorGame) FinishClues() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseRoundClues {
		return ErrInvalidTransition
	}
	g.setPhaseLocked(PhaseRoundDebate)
	if g.Config.TimerEnabled {
		g.startDebateTimerLocked()
	}
	return nil
}

// BeginVote moves from debate into the vote phase.
func (g *ImpostorGame) BeginVote() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.beginVoteLocked()
}

func (g *ImpostorGame) beginVoteLocked() error {
	if g.Phase != PhaseRoundDebate {
		return ErrInvalidTransition
	}
	g.stopDebateTimerLocked()
	// Vote counts are per phase; a fresh vote starts from zero. The ballot
	// tally is always the individual flow, even under group mode, where it
	// serves the fall-through after a failed consensus.
	for _, p := range g.Players {
		p.VotesReceived = 0
	}
	g.tally = NewTally(models.VoteModeIndividual)
	g.setPhaseLocked(PhaseRoundVote)
	return nil
}

// CastVote records one active player's ballot during the vote phase.
// Voting for yourself or for an eliminated player is rejected; abstaining
// is always allowed.
func (g *ImpostorGame) CastVote(voterID uuid.UUID, ballot models.Ballot) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseRoundVote || g.tally == nil {
		return ErrInvalidTransition
	}
	if g.findActiveLocked(voterID) == nil {
		return ErrInvalidVote
	}
	if !ballot.Abstain {
		if ballot.Target == voterID || g.findActiveLocked(ballot.Target) == nil {
			return ErrInvalidVote
		}
	}
	if err := g.tally.Cast(voterID, ballot); err != nil {
		return err
	}
	g.broadcastLocked(EventVoteProgress, map[string]interface{}{
		"voted": g.tally.VoterCount(),
		"total": len(g.activePlayersLocked()),
	})
	return nil
}

// ResolveVote closes the individual tally, expels the winner and evaluates
// the win condition. With every voter abstaining it returns ErrNoVotes and
// the vote phase stays open.
func (g *ImpostorGame) ResolveVote() (models.VoteResolution, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseRoundVote || g.tally == nil {
		return models.VoteResolution{}, ErrInvalidTransition
	}
	res, err := g.tally.Resolve()
	if err != nil {
		return models.VoteResolution{}, err
	}
	g.applyResolutionLocked(res)
	return res, nil
}

// ResolveGroupVote applies the unanimous-consensus outcome directly. When
// the table cannot reach consensus the UI falls through to the individual
// flow instead of calling this.
func (g *ImpostorGame) ResolveGroupVote(target uuid.UUID) (models.VoteResolution, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseRoundVote {
		return models.VoteResolution{}, ErrInvalidTransition
	}
	if g.findActiveLocked(target) == nil {
		return models.VoteResolution{}, ErrInvalidVote
	}
	res := ResolveUnanimous(target)
	g.applyResolutionLocked(res)
	return res, nil
}

// applyResolutionLocked books the vote counts, scores the round, and runs
// the expulsion.
func (g *ImpostorGame) applyResolutionLocked(res models.VoteResolution) {
	for _, ballot := range res.VotesByVoter {
		if ballot.Abstain {
			continue
		}
		if p := g.findPlayerLocked(ballot.Target); p != nil {
			p.VotesReceived++
		}
	}
	if expelled := g.findPlayerLocked(res.ExpelledID); expelled != nil {
		g.scoreboard.RecordExpulsion(g.RoundNumber, expelled, res, g.Players)
	}
	g.handleExpulsionLocked(res.ExpelledID)
}

// HandleExpulsion marks the named player eliminated and decides whether the
// game continues. Unknown IDs are a defensive no-op.
func (g *ImpostorGame) HandleExpulsion(playerID uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handleExpulsionLocked(playerID)
}

func (g *ImpostorGame) handleExpulsionLocked(playerID uuid.UUID) {
	player := g.findPlayerLocked(playerID)
	if player == nil {
		g.log.WithField("player", playerID).Warn("expulsion target not found, ignoring")
		return
	}

	player.Eliminated = true
	player.EliminationRound = g.RoundNumber
	snapshot := *player
	g.LastExpelled = &snapshot

	g.broadcastLocked(EventPlayerExpelled, map[string]interface{}{
		"player": player.Name,
		"role":   string(player.Role),
	})

	over, winner := g.evaluateOutcomeLocked()
	if over {
		g.scoreboard.RecordGameEnd(winner, g.Players)
		g.setPhaseLocked(PhaseGameOver)
		g.broadcastLocked(EventGameOver, map[string]interface{}{
			"winner": string(winner),
			"word":   g.SecretWord,
		})
		return
	}
	g.setPhaseLocked(PhaseRoundResult)
}

// evaluateOutcomeLocked applies the win-condition precedence: civilians win
// the moment no impostor is active; otherwise the configured attrition rule
// decides whether the impostors have won.
func (g *ImpostorGame) evaluateOutcomeLocked() (bool, models.Role) {
	var civilians, impostors int
	for _, p := range g.Players {
		if p.Eliminated {
			continue
		}
		if p.Role == models.RoleImpostor {
			impostors++
		} else {
			civilians++
		}
	}

	switch {
	case impostors == 0:
		return true, models.RoleCivilian
	case g.Config.WinCondition == models.WinConditionTwoLeft && civilians+impostors <= 2:
		return true, models.RoleImpostor
	case g.Config.WinCondition == models.WinConditionParity && impostors >= civilians:
		return true, models.RoleImpostor
	}
	return false, ""
}

// NextRound advances from the round result into the next clue round.
func (g *ImpostorGame) NextRound() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseRoundResult {
		return ErrInvalidTransition
	}
	g.RoundNumber++
	g.Clues = nil
	g.tally = nil
	g.setPhaseLocked(PhaseRoundClues)
	return nil
}

// ChangeWord re-resolves the secret word mid-round with the current
// configuration. A cancelled selection leaves word and config untouched;
// any other failure abandons the attempt silently, since the round is
// already in progress.
func (g *ImpostorGame) ChangeWord(ctx context.Context) {
	g.mu.Lock()
	if g.Phase != PhaseRoundClues {
		g.mu.Unlock()
		return
	}
	cfg := g.Config
	gameID := g.GameID
	g.mu.Unlock()

	res, err := g.words.Resolve(ctx, cfg, words.UrgencyChange)
	if err != nil {
		if !errors.Is(err, words.ErrSelectionCancelled) {
			g.log.WithError(err).Debug("mid-round word change failed, keeping current word")
		}
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseRoundClues || g.GameID != gameID {
		// A newer decision superseded this resolution; discard it.
		return
	}
	g.SecretWord = res.Word
	g.Config = res.Config
	g.broadcastLocked(EventWordChanged, nil)
}

// ActivePlayers returns the non-eliminated players in table order.
func (g *ImpostorGame) ActivePlayers() []*models.Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.activePlayersLocked()
}

// RevealFor returns the private reveal for one player: impostors get no
// word, civilians get the secret word.
func (g *ImpostorGame) RevealFor(playerID uuid.UUID) (models.Role, string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.findPlayerLocked(playerID)
	if p == nil {
		return "", "", false
	}
	if p.Role == models.RoleImpostor {
		return p.Role, "", true
	}
	return p.Role, g.SecretWord, true
}

// Scoreboard exposes the session scoreboard.
func (g *ImpostorGame) Scoreboard() *Scoreboard {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scoreboard
}

func (g *ImpostorGame) activePlayersLocked() []*models.Player {
	return lo.Filter(g.Players, func(p *models.Player, _ int) bool {
		return !p.Eliminated
	})
}

func (g *ImpostorGame) findPlayerLocked(id uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *ImpostorGame) findActiveLocked(id uuid.UUID) *models.Player {
	if p := g.findPlayerLocked(id); p != nil && !p.Eliminated {
		return p
	}
	return nil
}

func (g *ImpostorGame) setPhaseLocked(phase Phase) {
	g.Phase = phase
	g.broadcastLocked(EventPhaseChanged, map[string]interface{}{
		"phase": phase.String(),
		"round": g.RoundNumber,
	})
}

func (g *ImpostorGame) broadcastLocked(t GameEventType, payload map[string]interface{}) {
	if g.BroadcastFn == nil {
		return
	}
	g.BroadcastFn(GameEvent{Type: t, Payload: payload})
}

// --- debate countdown ---

// startDebateTimerLocked kicks off the once-per-second countdown. Each tick
// carries the generation it was scheduled under; a tick from a stale
// generation is discarded, so the vote transition fires exactly once even
// if a callback lands after the phase already changed.
func (g *ImpostorGame) startDebateTimerLocked() {
	g.debateRemaining = g.Config.TimerSeconds
	g.timerGen++
	g.scheduleTickLocked(g.timerGen)
}

func (g *ImpostorGame) scheduleTickLocked(gen int) {
	g.debateTimer = time.AfterFunc(time.Second, func() {
		g.handleDebateTick(gen)
	})
}

func (g *ImpostorGame) handleDebateTick(gen int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.timerGen || g.Phase != PhaseRoundDebate {
		return
	}
	g.debateRemaining--
	g.broadcastLocked(EventDebateTick, map[string]interface{}{
		"remaining": g.debateRemaining,
	})
	if g.debateRemaining <= 0 {
		if err := g.beginVoteLocked(); err != nil {
			g.log.WithError(err).Warn("debate timer could not open the vote")
		}
		return
	}
	g.scheduleTickLocked(gen)
}

func (g *ImpostorGame) stopDebateTimerLocked() {
	g.timerGen++
	if g.debateTimer != nil {
		g.debateTimer.Stop()
		g.debateTimer = nil
	}
	g.debateRemaining = 0
}

// DebateRemaining reports the seconds left on the debate countdown.
func (g *ImpostorGame) DebateRemaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.debateRemaining
}
