package gateway

import (
	"errors"

	"chickencoup/game"
	"chickencoup/models"
	"chickencoup/room"

	"go.uber.org/zap"
)

func (g *Gateway) dispatch(client *models.Client, ev Event) {
	id := game.ParticipantID(client.ParticipantID)

	switch ev := ev.(type) {
	case CreateRoom:
		name := g.nameFor(client, ev.Name)
		code, err := g.sessions.CreateRoom(ev.RoomCode, id, name, ev.BotDifficulty)
		result := CreateRoomResultPayload{RequestID: ev.RequestID, Success: err == nil, RoomCode: code}
		if err != nil {
			result.Message = err.Error()
		}
		g.hub.ToParticipant(id, TypeCreateRoomResult, result)

	case JoinRoom:
		err := g.sessions.JoinRoom(ev.RoomCode, id, g.nameFor(client, ev.Name))
		switch {
		case err == nil, errors.Is(err, room.ErrRoomFull):
			// room-full has already been sent
		default:
			g.hub.ToParticipant(id, TypeError, ErrorPayload{Message: err.Error()})
		}

	case Choose:
		if err := g.sessions.SubmitChoice(id, ev.Choice); err != nil {
			g.hub.ToParticipant(id, TypeError, ErrorPayload{Message: err.Error()})
		}

	case ContinueGame:
		g.sessions.ContinueGame(ev.RoomCode, id)

	case Rematch:
		g.sessions.RequestRematch(ev.RoomCode, id)

	case ExitRoom:
		g.sessions.ExitRoom(ev.RoomCode, id)

	case SendMessage:
		g.sessions.SendMessage(ev.RoomCode, id, ev.Text)

	default:
		g.logger.Error("Unhandled event", zap.String("playerID", client.ParticipantID), zap.Any("event", ev))
	}
}

// nameFor prefers the name sent with the event and remembers it for later events.
func (g *Gateway) nameFor(client *models.Client, name string) string {
	if name = cleanName(name); name != "" {
		client.Name = name
	}
	return client.Name
}
