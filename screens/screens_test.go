package screens

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"chickencoup/models"
	"chickencoup/room"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLeaderboard struct {
	entries []models.LeaderboardEntry
	err     error
	limit   int
}

func (s *stubLeaderboard) Top(_ context.Context, limit int) ([]models.LeaderboardEntry, error) {
	s.limit = limit
	return s.entries, s.err
}

func setupRouter(rooms RoomDirectory, lb LeaderboardReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	router := gin.New()
	router.GET("/rooms", func(c *gin.Context) { RoomsHandler(c, rooms, logger) })
	router.GET("/rooms/:code/players", func(c *gin.Context) { RoomPlayersHandler(c, rooms, logger) })
	router.GET("/leaderboard", func(c *gin.Context) { LeaderboardHandler(c, lb, logger) })
	router.GET("/healthz", Healthz)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newRegistry(t *testing.T) *room.Registry {
	t.Helper()
	hub := nopNotifier{}
	r := room.NewRegistry(hub, nil, zap.NewNop())
	require.NoError(t, r.JoinRoom("ABCD", "alice", "Alice"))
	require.NoError(t, r.JoinRoom("ABCD", "bob", "Bob"))
	require.NoError(t, r.SubmitChoice("alice", "rock"))
	return r
}

func TestRoomsHandler(t *testing.T) {
	router := setupRouter(newRegistry(t), nil)

	w := get(router, "/rooms")
	assert.Equal(t, http.StatusOK, w.Code)

	var dir []room.RoomSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dir))
	require.Len(t, dir, 1)
	assert.Equal(t, "ABCD", dir[0].Code)
	assert.Equal(t, []string{"Alice", "Bob"}, dir[0].ParticipantNames)
}

func TestRoomPlayersHandler(t *testing.T) {
	router := setupRouter(newRegistry(t), nil)

	w := get(router, "/rooms/ABCD/players")
	assert.Equal(t, http.StatusOK, w.Code)

	var view map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "awaiting_choices", view["status"])
	participants := view["participants"].([]interface{})
	require.Len(t, participants, 2)
	alice := participants[0].(map[string]interface{})
	assert.Equal(t, true, alice["hasChosen"])
	assert.NotContains(t, alice, "choice")

	w = get(router, "/rooms/NOPE/players")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"room not found"}`, w.Body.String())
}

func TestLeaderboardHandler(t *testing.T) {
	lb := &stubLeaderboard{entries: []models.LeaderboardEntry{{WinningPlayerName: "Alice", WinningPlayerLives: 3, LosingPlayerName: "Bob"}}}
	router := setupRouter(newRegistry(t), lb)

	w := get(router, "/leaderboard?limit=5")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, lb.limit)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0]["winningPlayerName"])
	assert.Equal(t, float64(3), rows[0]["winningPlayerLives"])

	w = get(router, "/leaderboard?limit=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	lb.err = errors.New("db down")
	w = get(router, "/leaderboard")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLeaderboardDisabled(t *testing.T) {
	router := setupRouter(newRegistry(t), nil)
	w := get(router, "/leaderboard")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthz(t *testing.T) {
	router := setupRouter(newRegistry(t), nil)
	w := get(router, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
