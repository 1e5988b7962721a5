package room

// Outbound event names delivered to connections.
const (
	EventRoomUpdated      = "room-updated"
	EventPlayerJoined     = "player-joined"
	EventPlayerLeft       = "player-left"
	EventPlayerExit       = "player-exit"
	EventRoomFull         = "room-full"
	EventStartGame        = "start-game"
	EventNextMove         = "next-move"
	EventResult           = "result"
	EventGameOver         = "game-over"
	EventRematchRequested = "rematch-requested"
	EventRematch          = "rematch"
	EventChatMessage      = "chat-message"
)
