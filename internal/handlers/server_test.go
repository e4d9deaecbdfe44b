package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blondy007/Impostor/internal/catalog"
	"github.com/blondy007/Impostor/internal/config"
	"github.com/blondy007/Impostor/internal/game"
	"github.com/blondy007/Impostor/internal/models"
	"github.com/blondy007/Impostor/internal/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	words, err := catalog.Load("")
	require.NoError(t, err)

	gs := NewGameServer(words, session.NewMemoryStore(), nil, quietLogger())
	mux := http.NewServeMux()
	mux.HandleFunc("/session", gs.CreateSessionHandler)
	mux.HandleFunc("/session/", gs.SessionHandler)
	mux.HandleFunc("/ws/session/", gs.WSHandler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, srv.URL+"/session", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		SessionID string `json:"sessionId"`
	}
	decodeBody(t, resp, &created)
	require.NotEmpty(t, created.SessionID)
	return created.SessionID
}

func startGame(t *testing.T, srv *httptest.Server, sessionID string, names []string) game.Snapshot {
	t.Helper()
	resp := postJSON(t, srv.URL+"/session/"+sessionID+"/setup", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	cfg := config.Default()
	cfg.TimerEnabled = false
	resp = postJSON(t, srv.URL+"/session/"+sessionID+"/start", map[string]interface{}{
		"config":      cfg,
		"playerNames": names,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap game.Snapshot
	decodeBody(t, resp, &snap)
	return snap
}

func TestCreateAndStartSession(t *testing.T) {
	srv := newTestServer(t)
	sessionID := createSession(t, srv)

	snap := startGame(t, srv, sessionID, []string{"Ana", "Bruno", "Carla", "Diego"})
	assert.Equal(t, game.PhaseRoleReveal, snap.Phase)
	assert.Len(t, snap.Players, 4)
	for _, p := range snap.Players {
		assert.Empty(t, p.Role, "the public snapshot must not leak roles")
	}
}

func TestStartRejectsTooFewPlayers(t *testing.T) {
	srv := newTestServer(t)
	sessionID := createSession(t, srv)

	resp := postJSON(t, srv.URL+"/session/"+sessionID+"/setup", nil)
	resp.Body.Close()
	resp = postJSON(t, srv.URL+"/session/"+sessionID+"/start", map[string]interface{}{
		"playerNames": []string{"Ana", "Bruno"},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRevealServesRolePrivately(t *testing.T) {
	srv := newTestServer(t)
	sessionID := createSession(t, srv)
	snap := startGame(t, srv, sessionID, []string{"Ana", "Bruno", "Carla", "Diego"})

	impostors := 0
	for _, p := range snap.Players {
		resp, err := http.Get(fmt.Sprintf("%s/session/%s/reveal?player=%s", srv.URL, sessionID, p.ID))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var reveal struct {
			Role models.Role `json:"role"`
			Word string      `json:"word"`
		}
		decodeBody(t, resp, &reveal)
		if reveal.Role == models.RoleImpostor {
			impostors++
			assert.Empty(t, reveal.Word, "impostors must not see the secret word")
		} else {
			assert.NotEmpty(t, reveal.Word)
		}
	}
	assert.Equal(t, 1, impostors)
}

func TestGroupVoteFlowOverREST(t *testing.T) {
	srv := newTestServer(t)
	sessionID := createSession(t, srv)
	snap := startGame(t, srv, sessionID, []string{"Ana", "Bruno", "Carla", "Diego", "Elena"})
	base := srv.URL + "/session/" + sessionID

	for _, action := range []string{"reveal/done", "clues/done", "vote/begin"} {
		resp := postJSON(t, base+"/"+action, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, "action %s", action)
		resp.Body.Close()
	}

	resp := postJSON(t, base+"/vote/group", map[string]interface{}{
		"targetId": snap.Players[0].ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result struct {
		State game.Snapshot `json:"state"`
	}
	decodeBody(t, resp, &result)

	require.NotNil(t, result.State.LastExpelled)
	assert.Equal(t, snap.Players[0].ID, result.State.LastExpelled.ID)
	assert.NotEmpty(t, result.State.LastExpelled.Role, "the expelled role is public")
	assert.Contains(t, []game.Phase{game.PhaseRoundResult, game.PhaseGameOver}, result.State.Phase)
}

func TestVoteOutsidePhaseConflicts(t *testing.T) {
	srv := newTestServer(t)
	sessionID := createSession(t, srv)
	snap := startGame(t, srv, sessionID, []string{"Ana", "Bruno", "Carla", "Diego"})

	resp := postJSON(t, srv.URL+"/session/"+sessionID+"/vote", map[string]interface{}{
		"voterId":  snap.Players[0].ID,
		"targetId": snap.Players[1].ID,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUnknownSessionIs404(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/session/" + uuid.NewString() + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
