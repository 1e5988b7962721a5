package game

import "github.com/google/uuid"

// ParticipantID identifies a player independently of the connection carrying it.
type ParticipantID string

// NewParticipantID returns a fresh handle for a human connection.
func NewParticipantID() ParticipantID {
	return ParticipantID(uuid.New().String())
}

// NewBotID returns a fresh handle for a synthetic participant.
func NewBotID() ParticipantID {
	return ParticipantID("bot-" + uuid.New().String())
}
