package room

import "errors"

var (
	ErrRoomCodeTaken = errors.New("room code already taken")
	ErrRoomFull      = errors.New("room is full")
	ErrRoomNotFound  = errors.New("room not found")
)

// ErrNotInRoom is returned when a participant acts without being seated anywhere.
var ErrNotInRoom = errors.New("not in a room")
