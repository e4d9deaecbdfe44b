package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/blondy007/Impostor/internal/game"
)

// WSHandler upgrades /session/{id}/ws and streams game events to the
// device until it disconnects. The socket is read in a loop only to
// observe closure; all game input goes through the REST endpoints.
func (gs *GameServer) WSHandler(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/ws/session/"), "/")
	sessionID, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid session id format", http.StatusBadRequest)
		return
	}
	if _, ok := gs.store.Get(sessionID); !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		gs.logger.WithError(err).Warn("websocket accept failed")
		return
	}

	gs.mu.Lock()
	gs.conns[sessionID] = append(gs.conns[sessionID], conn)
	gs.mu.Unlock()

	gs.logger.WithField("session", sessionID).Debug("websocket attached")

	defer func() {
		gs.detachConn(sessionID, conn)
		conn.Close(websocket.StatusNormalClosure, "closing")
	}()

	// Drain incoming frames so pings are handled and closure is noticed.
	for {
		if _, _, err := conn.Read(r.Context()); err != nil {
			return
		}
	}
}

func (gs *GameServer) detachConn(sessionID uuid.UUID, conn *websocket.Conn) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	conns := gs.conns[sessionID]
	for i, c := range conns {
		if c == conn {
			gs.conns[sessionID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(gs.conns[sessionID]) == 0 {
		delete(gs.conns, sessionID)
	}
}

// broadcastFunc builds the engine's event callback for one session:
// snapshot the attached sockets under the lock, then write to each one
// asynchronously with a short timeout so a stalled client cannot block
// the engine.
func (gs *GameServer) broadcastFunc(sessionID uuid.UUID) func(ev game.GameEvent) {
	return func(ev game.GameEvent) {
		payload, err := json.Marshal(ev)
		if err != nil {
			gs.logger.WithError(err).Error("failed to marshal game event")
			return
		}

		gs.mu.Lock()
		conns := make([]*websocket.Conn, len(gs.conns[sessionID]))
		copy(conns, gs.conns[sessionID])
		gs.mu.Unlock()

		for _, conn := range conns {
			go func(c *websocket.Conn) {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				if err := c.Write(ctx, websocket.MessageText, payload); err != nil {
					gs.logger.WithFields(logrus.Fields{
						"session": sessionID,
						"event":   ev.Type,
					}).WithError(err).Debug("event write failed, dropping connection")
					gs.detachConn(sessionID, c)
					c.Close(websocket.StatusNormalClosure, "write failed")
				}
			}(conn)
		}
	}
}
