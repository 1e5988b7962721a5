package room

import (
	"context"

	"chickencoup/game"
	"chickencoup/models"
)

// Notifier delivers outbound events. Implementations must not block: they are called
// while a room's critical section is held.
type Notifier interface {
	ToParticipant(id game.ParticipantID, event string, payload interface{})
	ToParticipants(ids []game.ParticipantID, event string, payload interface{})
	ToAll(event string, payload interface{})
}

// LeaderboardSink records finished human-vs-human games.
type LeaderboardSink interface {
	RecordGame(ctx context.Context, record models.GameRecord) error
}

// DirectoryObserver is told about every directory change. It must not block.
type DirectoryObserver interface {
	DirectoryChanged(directory []RoomSummary)
}

// NopSink drops every record. Used when no database is configured.
type NopSink struct{}

func (NopSink) RecordGame(context.Context, models.GameRecord) error { return nil }
