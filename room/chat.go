package room

import (
	"strings"
	"time"
	"unicode/utf8"

	"chickencoup/game"

	"go.uber.org/zap"
)

// MaxMessageLength caps a chat message, counted in runes.
const MaxMessageLength = 500

// SendMessage appends a chat line to the room and relays it to both seats.
func (r *Registry) SendMessage(code string, senderID game.ParticipantID, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		text = string([]rune(text)[:MaxMessageLength])
	}

	r.withMember(code, senderID, func(rm *Room, p *Participant) {
		msg := ChatMessage{SenderID: senderID, Name: p.Name, Text: text, SentAt: time.Now()}
		rm.messages = append(rm.messages, msg)
		r.logger.Debug("Chat message", zap.String("roomCode", code), zap.String("playerID", string(senderID)))
		r.notifier.ToParticipants(rm.memberIDs(), EventChatMessage, ChatPayload{RoomCode: code, ChatMessage: msg})
	})
}
