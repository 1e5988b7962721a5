package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"chickencoup/game"
	"chickencoup/models"
)

// Inbound event names.
const (
	TypeCreateRoom   = "create-room"
	TypeJoinRoom     = "join-room"
	TypeChoose       = "choose"
	TypeContinueGame = "continue-game"
	TypeRematch      = "rematch"
	TypeExitRoom     = "exit-room"
	TypeSendMessage  = "send-message"
)

// Outbound event names owned by the gateway.
const (
	TypeWelcome          = "welcome"
	TypeCreateRoomResult = "create-room-result"
	TypeError            = "error"
)

var (
	ErrUnknownEvent = errors.New("unknown event type")
	ErrBadPayload   = errors.New("malformed payload")
)

// Event is an inbound client event. The set of implementations is closed.
type Event interface{ isEvent() }

type CreateRoom struct {
	RoomCode      string          `json:"roomCode"`
	Name          string          `json:"name"`
	BotDifficulty game.Difficulty `json:"botDifficulty"`
	RequestID     string          `json:"requestId"`
}

type JoinRoom struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
}

type Choose struct {
	Choice game.Choice `json:"choice"`
}

type ContinueGame struct {
	RoomCode string `json:"roomCode"`
}

type Rematch struct {
	RoomCode string `json:"roomCode"`
}

type ExitRoom struct {
	RoomCode string `json:"roomCode"`
}

type SendMessage struct {
	RoomCode string `json:"roomCode"`
	Text     string `json:"text"`
}

func (CreateRoom) isEvent()   {}
func (JoinRoom) isEvent()     {}
func (Choose) isEvent()       {}
func (ContinueGame) isEvent() {}
func (Rematch) isEvent()      {}
func (ExitRoom) isEvent()     {}
func (SendMessage) isEvent()  {}

func decodeInto[T Event](raw json.RawMessage) (Event, error) {
	var ev T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
	}
	return ev, nil
}

var decoders = map[string]func(json.RawMessage) (Event, error){
	TypeCreateRoom:   decodeCreateRoom,
	TypeJoinRoom:     decodeInto[JoinRoom],
	TypeChoose:       decodeChoose,
	TypeContinueGame: decodeInto[ContinueGame],
	TypeRematch:      decodeInto[Rematch],
	TypeExitRoom:     decodeInto[ExitRoom],
	TypeSendMessage:  decodeInto[SendMessage],
}

func decodeCreateRoom(raw json.RawMessage) (Event, error) {
	ev, err := decodeInto[CreateRoom](raw)
	if err != nil {
		return nil, err
	}
	create := ev.(CreateRoom)
	if create.BotDifficulty != "" {
		d, err := game.ParseDifficulty(strings.ToLower(string(create.BotDifficulty)))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		create.BotDifficulty = d
	}
	return create, nil
}

func decodeChoose(raw json.RawMessage) (Event, error) {
	ev, err := decodeInto[Choose](raw)
	if err != nil {
		return nil, err
	}
	choose := ev.(Choose)
	c, err := game.ParseChoice(strings.ToLower(string(choose.Choice)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	choose.Choice = c
	return choose, nil
}

// Decode parses one websocket text frame into an Event.
func Decode(data []byte) (Event, error) {
	var frame models.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	decode, ok := decoders[frame.Type]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownEvent, frame.Type)
	}
	return decode(frame.Payload)
}

// Outbound payloads.

type WelcomePayload struct {
	PlayerID game.ParticipantID `json:"playerId"`
}

type CreateRoomResultPayload struct {
	RequestID string `json:"requestId,omitempty"`
	Success   bool   `json:"success"`
	RoomCode  string `json:"roomCode,omitempty"`
	Message   string `json:"message,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
