// Package handlers is the HTTP boundary between the single-device UI and
// the game engine: REST operations for every screen action, a WebSocket
// event stream, and the HTTP-backed decision prompter.
package handlers

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/blondy007/Impostor/internal/config"
	"github.com/blondy007/Impostor/internal/game"
	"github.com/blondy007/Impostor/internal/models"
	"github.com/blondy007/Impostor/internal/session"
	"github.com/blondy007/Impostor/internal/words"
)

// GameServer wires one device's sessions to the word pipeline and the
// event stream.
type GameServer struct {
	mu        sync.Mutex
	store     *game.Store
	prompters map[uuid.UUID]*HTTPPrompter
	conns     map[uuid.UUID][]*websocket.Conn

	catalog   []models.Word
	usedWords session.UsedWordStore
	generator words.Generator
	logger    *logrus.Logger
}

func NewGameServer(catalog []models.Word, usedWords session.UsedWordStore, generator words.Generator, logger *logrus.Logger) *GameServer {
	return &GameServer{
		store:     game.NewStore(),
		prompters: make(map[uuid.UUID]*HTTPPrompter),
		conns:     make(map[uuid.UUID][]*websocket.Conn),
		catalog:   catalog,
		usedWords: usedWords,
		generator: generator,
		logger:    logger,
	}
}

// CreateSessionHandler builds a fresh session with its own prompter, pool
// and resolver, and returns its ID.
func (gs *GameServer) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	prompter := NewHTTPPrompter(gs.logger)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	pool := words.NewPool(gs.catalog, gs.usedWords, rng)
	resolver := words.NewResolver(pool, gs.generator, prompter, gs.logger)
	g := game.NewImpostorGame(resolver, rng, gs.logger)
	g.BroadcastFn = gs.broadcastFunc(g.SessionID)

	gs.store.Add(g)
	gs.mu.Lock()
	gs.prompters[g.SessionID] = prompter
	gs.mu.Unlock()

	gs.logger.WithField("session", g.SessionID).Info("session created")
	writeJSON(w, http.StatusCreated, map[string]interface{}{"sessionId": g.SessionID})
}

// SessionHandler dispatches /session/{id}/{action} requests.
func (gs *GameServer) SessionHandler(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/session/"), "/")
	if len(parts) < 2 || parts[0] == "" {
		http.Error(w, "missing session id in path (/session/{id}/{action})", http.StatusBadRequest)
		return
	}
	sessionID, err := uuid.Parse(parts[0])
	if err != nil {
		http.Error(w, "invalid session id format", http.StatusBadRequest)
		return
	}
	g, ok := gs.store.Get(sessionID)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	gs.mu.Lock()
	prompter := gs.prompters[sessionID]
	gs.mu.Unlock()

	action := strings.Join(parts[1:], "/")
	switch action {
	case "state":
		writeJSON(w, http.StatusOK, g.Snapshot())
	case "setup":
		gs.simpleTransition(w, g.OpenSetup)
	case "library":
		gs.simpleTransition(w, g.OpenLibrary)
	case "home":
		g.GoHome()
		writeJSON(w, http.StatusOK, g.Snapshot())
	case "start":
		gs.handleStart(w, r, g)
	case "reveal":
		gs.handleReveal(w, r, g)
	case "reveal/done":
		gs.simpleTransition(w, g.FinishReveal)
	case "clue":
		gs.handleClue(w, r, g)
	case "clues/done":
		gs.simpleTransition(w, g.FinishClues)
	case "vote/begin":
		gs.simpleTransition(w, g.BeginVote)
	case "vote":
		gs.handleVote(w, r, g)
	case "vote/group":
		gs.handleGroupVote(w, r, g)
	case "vote/resolve":
		gs.handleVoteResolve(w, g)
	case "next-round":
		gs.simpleTransition(w, g.NextRound)
	case "word/change":
		g.ChangeWord(r.Context())
		writeJSON(w, http.StatusOK, g.Snapshot())
	case "decision":
		gs.handleDecision(w, r, prompter)
	case "notices":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"pending": prompter.Pending(),
			"notices": prompter.DrainNotices(),
		})
	case "scoreboard":
		sb := g.Scoreboard()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"totals":  sb.Totals,
			"history": sb.History,
		})
	default:
		http.Error(w, "unknown action", http.StatusNotFound)
	}
}

type startRequest struct {
	Config      config.GameConfig `json:"config"`
	PlayerNames []string          `json:"playerNames"`
}

// handleStart blocks until word resolution completes. An exhaustion
// decision is answered through POST /session/{id}/decision on a separate
// request, so blocking here does not wedge the device.
func (gs *GameServer) handleStart(w http.ResponseWriter, r *http.Request, g *game.ImpostorGame) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	err := g.StartGame(r.Context(), req.Config, req.PlayerNames)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, g.Snapshot())
	case errors.Is(err, words.ErrSelectionCancelled):
		// Not an error: the user kept their settings. Stay on setup.
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"cancelled": true,
			"state":     g.Snapshot(),
		})
	case errors.Is(err, game.ErrNotEnoughPlayers), errors.Is(err, game.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "game start failed", http.StatusInternalServerError)
	}
}

func (gs *GameServer) handleReveal(w http.ResponseWriter, r *http.Request, g *game.ImpostorGame) {
	playerID, err := uuid.Parse(r.URL.Query().Get("player"))
	if err != nil {
		http.Error(w, "invalid player id", http.StatusBadRequest)
		return
	}
	role, word, ok := g.RevealFor(playerID)
	if !ok {
		http.Error(w, "player not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"role": role,
		"word": word,
	})
}

type clueRequest struct {
	PlayerID uuid.UUID `json:"playerId"`
	Text     string    `json:"text"`
}

func (gs *GameServer) handleClue(w http.ResponseWriter, r *http.Request, g *game.ImpostorGame) {
	var req clueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := g.SubmitClue(req.PlayerID, req.Text); err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"accepted": true})
}

type voteRequest struct {
	VoterID  uuid.UUID `json:"voterId"`
	TargetID uuid.UUID `json:"targetId"`
	Abstain  bool      `json:"abstain"`
}

func (gs *GameServer) handleVote(w http.ResponseWriter, r *http.Request, g *game.ImpostorGame) {
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	ballot := models.Ballot{Target: req.TargetID, Abstain: req.Abstain}
	if err := g.CastVote(req.VoterID, ballot); err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"accepted": true})
}

type groupVoteRequest struct {
	TargetID uuid.UUID `json:"targetId"`
}

func (gs *GameServer) handleGroupVote(w http.ResponseWriter, r *http.Request, g *game.ImpostorGame) {
	var req groupVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	res, err := g.ResolveGroupVote(req.TargetID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"resolution": res,
		"state":      g.Snapshot(),
	})
}

func (gs *GameServer) handleVoteResolve(w http.ResponseWriter, g *game.ImpostorGame) {
	res, err := g.ResolveVote()
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"resolution": res,
		"state":      g.Snapshot(),
	})
}

type decisionRequest struct {
	DecisionID uuid.UUID `json:"decisionId"`
	Primary    bool      `json:"primary"`
}

func (gs *GameServer) handleDecision(w http.ResponseWriter, r *http.Request, prompter *HTTPPrompter) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	choice := words.ChoiceSecondary
	if req.Primary {
		choice = words.ChoicePrimary
	}
	if err := prompter.Answer(req.DecisionID, choice); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"accepted": true})
}

func (gs *GameServer) simpleTransition(w http.ResponseWriter, op func() error) {
	if err := op(); err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"accepted": true})
}

// writeGameError maps engine sentinels onto HTTP statuses.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, game.ErrNoVotes),
		errors.Is(err, game.ErrInvalidVote),
		errors.Is(err, game.ErrAlreadyVoted),
		errors.Is(err, game.ErrInvalidClue),
		errors.Is(err, game.ErrNotEnoughPlayers):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
