package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedger_DecrementStopsAtZero(t *testing.T) {
	l := NewLedger()
	l.Initialize("alice", 2)

	assert.True(t, l.Decrement("alice"))
	assert.False(t, l.IsDepleted("alice"))
	assert.True(t, l.Decrement("alice"))
	assert.True(t, l.IsDepleted("alice"))

	assert.False(t, l.Decrement("alice"))
	assert.Equal(t, 0, l.Get("alice"))
}

func TestLedger_UnknownParticipant(t *testing.T) {
	l := NewLedger()
	assert.False(t, l.Decrement("ghost"))
	assert.False(t, l.IsDepleted("ghost"))
	assert.False(t, l.AnyDepleted())
}

func TestLedger_ResetAll(t *testing.T) {
	l := NewLedger()
	l.Initialize("alice", StartingLives)
	l.Initialize("bob", 0)
	assert.True(t, l.AnyDepleted())

	l.ResetAll(StartingLives)
	assert.Equal(t, StartingLives, l.Get("alice"))
	assert.Equal(t, StartingLives, l.Get("bob"))
	assert.False(t, l.AnyDepleted())
}

func TestLedger_SnapshotIsCopy(t *testing.T) {
	l := NewLedger()
	l.Initialize("alice", 3)
	snap := l.Snapshot()
	l.Decrement("alice")
	assert.Equal(t, 3, snap["alice"])

	l.Remove("alice")
	assert.Empty(t, l)
}
