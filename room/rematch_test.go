package room

import (
	"testing"

	"chickencoup/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRematchIgnoredWhilePlaying(t *testing.T) {
	r, n, _ := newTestRegistry(t)
	seatAliceAndBob(t, r)

	r.RequestRematch("ABCD", alice)
	assert.Empty(t, n.received(bob, EventRematchRequested))
}

func TestRematchNeedsBothPlayers(t *testing.T) {
	r, n, _ := newTestRegistry(t)
	seatAliceAndBob(t, r)
	playToGameOver(t, r)

	r.RequestRematch("ABCD", bob)
	r.RequestRematch("ABCD", bob)
	assert.Len(t, n.received(alice, EventRematchRequested), 1)
	assert.Empty(t, n.received(alice, EventRematch))

	view, err := r.Players("ABCD")
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingRematch, view.Status)
	assert.Equal(t, 0, view.Lives[bob])

	startsBefore := len(n.received(alice, EventStartGame))
	r.RequestRematch("ABCD", alice)

	rematches := n.received(bob, EventRematch)
	require.Len(t, rematches, 1)
	assert.Equal(t, RematchPayload{RoomCode: "ABCD", Lives: game.StartingLives}, rematches[0])
	assert.Len(t, n.received(alice, EventStartGame), startsBefore+1)

	view, err = r.Players("ABCD")
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingChoices, view.Status)
	assert.Equal(t, map[game.ParticipantID]int{alice: 10, bob: 10}, view.Lives)
	assert.Contains(t, view.GameLog, "Bob wants a rematch")
	assert.Equal(t, "Rematch started", view.GameLog[len(view.GameLog)-1])

	// a late duplicate after the restart is ignored
	r.RequestRematch("ABCD", alice)
	assert.Len(t, n.received(bob, EventRematch), 1)
}

func TestRematchRequestDroppedWhenPlayerLeaves(t *testing.T) {
	r, n, _ := newTestRegistry(t)
	seatAliceAndBob(t, r)
	playToGameOver(t, r)
	r.RequestRematch("ABCD", bob)

	r.ExitRoom("ABCD", bob)
	require.NoError(t, r.JoinRoom("ABCD", carol, "Carol"))
	r.RequestRematch("ABCD", alice)

	assert.Empty(t, n.received(alice, EventRematch))
}
