package room

import (
	"errors"
	"testing"
	"time"

	"chickencoup/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundResolvesOnlyWhenBothChose(t *testing.T) {
	r, n, _ := newTestRegistry(t)
	seatAliceAndBob(t, r)

	require.NoError(t, r.SubmitChoice(alice, game.Rock))
	assert.Empty(t, n.received(alice, EventResult))
	require.Len(t, n.received(bob, EventNextMove), 1)
	assert.Equal(t, PlayerPayload{RoomCode: "ABCD", PlayerID: alice}, n.received(bob, EventNextMove)[0])

	// a second choice in the same round does not replace the first
	require.NoError(t, r.SubmitChoice(alice, game.Paper))
	assert.Len(t, n.received(bob, EventNextMove), 1)

	require.NoError(t, r.SubmitChoice(bob, game.Scissors))
	results := n.received(alice, EventResult)
	require.Len(t, results, 1)

	res := results[0].(RoundPayload)
	assert.Equal(t, alice, res.WinnerID)
	assert.False(t, res.Draw)
	assert.Equal(t, map[game.ParticipantID]int{alice: 10, bob: 9}, res.Lives)
	assert.Equal(t, game.Rock, res.Players[0].Choice)
	assert.Equal(t, game.Scissors, res.Players[1].Choice)

	view, err := r.Players("ABCD")
	require.NoError(t, err)
	assert.Equal(t, StatusRoundOver, view.Status)
	assert.Equal(t, []string{
		"Alice has joined the room",
		"Bob has joined the room",
		"Alice chose rock",
		"Bob chose scissors",
		"Alice wins the round!",
	}, view.GameLog)
	for _, p := range view.Participants {
		assert.False(t, p.HasChosen)
	}
}

func TestDrawKeepsLives(t *testing.T) {
	r, n, _ := newTestRegistry(t)
	seatAliceAndBob(t, r)

	require.NoError(t, r.SubmitChoice(alice, game.Dragon))
	require.NoError(t, r.SubmitChoice(bob, game.Dragon))

	res := n.received(alice, EventResult)[0].(RoundPayload)
	assert.True(t, res.Draw)
	assert.Empty(t, res.WinnerID)
	assert.Equal(t, map[game.ParticipantID]int{alice: 10, bob: 10}, res.Lives)
	assert.Equal(t, "It's a draw!", res.GameLog[len(res.GameLog)-1])
}

func TestSubmitChoiceErrors(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	err := r.SubmitChoice(alice, game.Choice("lizard"))
	assert.True(t, errors.Is(err, game.ErrInvalidChoice))

	assert.ErrorIs(t, r.SubmitChoice(alice, game.Rock), ErrNotInRoom)
}

func TestContinueGame(t *testing.T) {
	r, n, _ := newTestRegistry(t)
	seatAliceAndBob(t, r)

	// nothing to continue before a round is over
	r.ContinueGame("ABCD", alice)
	assert.Len(t, n.received(alice, EventStartGame), 1)

	require.NoError(t, r.SubmitChoice(alice, game.Ant))
	require.NoError(t, r.SubmitChoice(bob, game.Dragon))

	r.ContinueGame("ABCD", bob)
	assert.Len(t, n.received(alice, EventStartGame), 2)
	view, err := r.Players("ABCD")
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingChoices, view.Status)
}

func TestChoiceDuringRoundOverContinues(t *testing.T) {
	r, n, _ := newTestRegistry(t)
	seatAliceAndBob(t, r)
	require.NoError(t, r.SubmitChoice(alice, game.Rock))
	require.NoError(t, r.SubmitChoice(bob, game.Rock))

	require.NoError(t, r.SubmitChoice(alice, game.Paper))
	require.NoError(t, r.SubmitChoice(bob, game.Rock))

	results := n.received(alice, EventResult)
	require.Len(t, results, 2)
	assert.Equal(t, alice, results[1].(RoundPayload).WinnerID)
}

// playToGameOver has Alice win ten straight rounds.
func playToGameOver(t *testing.T, r *Registry) {
	t.Helper()
	for i := 0; i < game.StartingLives; i++ {
		require.NoError(t, r.SubmitChoice(alice, game.Paper))
		require.NoError(t, r.SubmitChoice(bob, game.Rock))
		r.ContinueGame("ABCD", alice)
	}
}

func TestGameOverExactlyOnce(t *testing.T) {
	r, n, sink := newTestRegistry(t)
	seatAliceAndBob(t, r)

	playToGameOver(t, r)

	overs := n.received(bob, EventGameOver)
	require.Len(t, overs, 1)
	over := overs[0].(RoundPayload)
	assert.Equal(t, alice, over.WinnerID)
	assert.Equal(t, 0, over.Lives[bob])
	assert.Equal(t, 10, over.Lives[alice])
	assert.Equal(t, "Alice wins the game!", over.GameLog[len(over.GameLog)-1])
	assert.Len(t, n.received(bob, EventResult), game.StartingLives-1)

	// the game is frozen until a rematch
	require.NoError(t, r.SubmitChoice(alice, game.Paper))
	require.NoError(t, r.SubmitChoice(bob, game.Rock))
	r.ContinueGame("ABCD", bob)
	assert.Len(t, n.received(bob, EventGameOver), 1)

	view, err := r.Players("ABCD")
	require.NoError(t, err)
	assert.Equal(t, StatusGameOver, view.Status)

	assert.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 10*time.Millisecond)
	sink.mu.Lock()
	rec := sink.records[0]
	sink.mu.Unlock()
	assert.Equal(t, "ABCD", rec.RoomCode)
	assert.Equal(t, "Alice", rec.WinnerName)
	assert.Equal(t, 10, rec.WinnerLives)
	assert.Equal(t, "Bob", rec.LoserName)
	assert.Equal(t, 0, rec.LoserLives)
}

func TestGameOverSurvivesSinkFailure(t *testing.T) {
	r, n, sink := newTestRegistry(t)
	sink.err = errors.New("db down")
	seatAliceAndBob(t, r)

	playToGameOver(t, r)

	assert.Len(t, n.received(alice, EventGameOver), 1)
	assert.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestBotRoom(t *testing.T) {
	r, n, sink := newTestRegistry(t, WithCodeGenerator(sequentialCodes("BOT001")))

	code, err := r.CreateRoom("IGNORED", alice, "Alice", game.DifficultyImpossible)
	require.NoError(t, err)
	assert.Equal(t, "BOT001", code)
	assert.Len(t, n.received(alice, EventStartGame), 1)

	view, err := r.Players(code)
	require.NoError(t, err)
	require.Len(t, view.Participants, 2)
	assert.True(t, view.Participants[1].IsBot)
	assert.Equal(t, "Bot (impossible)", view.Participants[1].Name)

	// the bot answers at once, so every human choice resolves a round
	for i := 0; i < 200; i++ {
		require.NoError(t, r.SubmitChoice(alice, game.Rock))
		view, err = r.Players(code)
		require.NoError(t, err)
		if view.Status == StatusGameOver {
			break
		}
		r.ContinueGame(code, alice)
	}
	assert.Equal(t, StatusGameOver, view.Status)
	assert.Len(t, n.received(alice, EventGameOver), 1)

	// the bot joins the rematch as soon as the human asks
	r.RequestRematch(code, alice)
	assert.Len(t, n.received(alice, EventRematch), 1)
	assert.Len(t, n.received(alice, EventRematchRequested), 2)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, sink.count())

	// a bot-only room is torn down
	r.ExitAll(alice)
	_, err = r.Players(code)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestEasyBotCountersAtLastLife(t *testing.T) {
	r, n, _ := newTestRegistry(t, WithCodeGenerator(sequentialCodes("EASY01")))
	code, err := r.CreateRoom("", alice, "Alice", game.DifficultyEasy)
	require.NoError(t, err)

	rm := r.lookup(code)
	rm.mu.Lock()
	bot := rm.participants[1]
	rm.lives.Initialize(bot.ID, 1)
	rm.mu.Unlock()

	require.NoError(t, r.SubmitChoice(alice, game.Rock))

	res := n.received(alice, EventResult)
	require.Len(t, res, 1)
	round := res[0].(RoundPayload)
	assert.Equal(t, game.Paper, round.Players[1].Choice)
	assert.Equal(t, bot.ID, round.WinnerID)
}
