package room

import "chickencoup/game"

type MembershipPayload struct {
	RoomCode string             `json:"roomCode"`
	PlayerID game.ParticipantID `json:"playerId"`
	Name     string             `json:"name"`
	Players  []PlayerView       `json:"players"`
}

type RoomCodePayload struct {
	RoomCode string `json:"roomCode"`
}

type PlayerPayload struct {
	RoomCode string             `json:"roomCode"`
	PlayerID game.ParticipantID `json:"playerId"`
}

// RoundPayload is sent with both result and game-over.
type RoundPayload struct {
	RoomCode string                     `json:"roomCode"`
	Players  []PlayerView               `json:"players"`
	Lives    map[game.ParticipantID]int `json:"lives"`
	WinnerID game.ParticipantID         `json:"winnerId,omitempty"`
	Draw     bool                       `json:"draw"`
	GameLog  []string                   `json:"gameLog"`
}

type RematchPayload struct {
	RoomCode string `json:"roomCode"`
	Lives    int    `json:"lives"`
}

type ChatPayload struct {
	RoomCode string `json:"roomCode"`
	ChatMessage
}
