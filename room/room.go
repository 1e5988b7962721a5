package room

import (
	"math/rand"
	"sync"
	"time"

	"chickencoup/game"
)

// Capacity is the number of participants a room holds.
const Capacity = 2

// Status is the room's position in the match state machine.
type Status string

const (
	StatusAwaitingPlayers Status = "awaiting_players"
	StatusAwaitingChoices Status = "awaiting_choices"
	StatusRoundOver       Status = "round_over"
	StatusGameOver        Status = "game_over"
	StatusAwaitingRematch Status = "awaiting_rematch"
)

// Participant occupies one of a room's two slots.
type Participant struct {
	ID     game.ParticipantID
	Name   string
	Choice *game.Choice
	IsBot  bool
}

// ChatMessage is one entry of a room's chat history.
type ChatMessage struct {
	SenderID game.ParticipantID `json:"senderId"`
	Name     string             `json:"name"`
	Text     string             `json:"text"`
	SentAt   time.Time          `json:"sentAt"`
}

// Room is a two-seat session. All fields are guarded by mu.
type Room struct {
	mu sync.Mutex

	code            string
	participants    []*Participant
	lives           game.Ledger
	rematchRequests map[game.ParticipantID]bool
	messages        []ChatMessage
	gameLog         []string
	status          Status
	botDifficulty   game.Difficulty
	rng             *rand.Rand

	// closed is set once the room leaves the registry; late events become no-ops.
	closed bool
}

func newRoom(code string, rng *rand.Rand) *Room {
	return &Room{
		code:            code,
		participants:    make([]*Participant, 0, Capacity),
		lives:           game.NewLedger(),
		rematchRequests: make(map[game.ParticipantID]bool),
		status:          StatusAwaitingPlayers,
		rng:             rng,
	}
}

func (r *Room) participant(id game.ParticipantID) *Participant {
	for _, p := range r.participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) opponent(id game.ParticipantID) *Participant {
	for _, p := range r.participants {
		if p.ID != id {
			return p
		}
	}
	return nil
}

func (r *Room) full() bool {
	return len(r.participants) >= Capacity
}

func (r *Room) humanCount() int {
	n := 0
	for _, p := range r.participants {
		if !p.IsBot {
			n++
		}
	}
	return n
}

func (r *Room) allHuman() bool {
	return r.humanCount() == len(r.participants)
}

// memberIDs lists the ids of everyone seated, bots included. The notifier ignores ids
// without a connection.
func (r *Room) memberIDs() []game.ParticipantID {
	ids := make([]game.ParticipantID, 0, len(r.participants))
	for _, p := range r.participants {
		ids = append(ids, p.ID)
	}
	return ids
}

func (r *Room) appendLog(line string) {
	r.gameLog = append(r.gameLog, line)
}

func (r *Room) clearChoices() {
	for _, p := range r.participants {
		p.Choice = nil
	}
}

func (r *Room) bothChosen() bool {
	if len(r.participants) < Capacity {
		return false
	}
	for _, p := range r.participants {
		if p.Choice == nil {
			return false
		}
	}
	return true
}

func (r *Room) remove(id game.ParticipantID) *Participant {
	for i, p := range r.participants {
		if p.ID == id {
			r.participants = append(r.participants[:i], r.participants[i+1:]...)
			r.lives.Remove(id)
			delete(r.rematchRequests, id)
			return p
		}
	}
	return nil
}

// PlayerView is a participant as shown to clients. Choice is only filled in when the
// round it belongs to has been resolved.
type PlayerView struct {
	ID        game.ParticipantID `json:"id"`
	Name      string             `json:"name"`
	IsBot     bool               `json:"isBot"`
	Choice    game.Choice        `json:"choice,omitempty"`
	HasChosen bool               `json:"hasChosen"`
}

func (r *Room) playerViews(revealChoices bool) []PlayerView {
	views := make([]PlayerView, 0, len(r.participants))
	for _, p := range r.participants {
		v := PlayerView{ID: p.ID, Name: p.Name, IsBot: p.IsBot, HasChosen: p.Choice != nil}
		if revealChoices && p.Choice != nil {
			v.Choice = *p.Choice
		}
		views = append(views, v)
	}
	return views
}

func (r *Room) logSnapshot() []string {
	out := make([]string, len(r.gameLog))
	copy(out, r.gameLog)
	return out
}

// RoomSummary is one row of the room directory.
type RoomSummary struct {
	Code             string   `json:"code"`
	ParticipantCount int      `json:"participantCount"`
	ParticipantNames []string `json:"participantNames"`
}

func (r *Room) summary() RoomSummary {
	names := make([]string, 0, len(r.participants))
	for _, p := range r.participants {
		names = append(names, p.Name)
	}
	return RoomSummary{Code: r.code, ParticipantCount: len(r.participants), ParticipantNames: names}
}

// PlayersView answers the per-room query endpoint.
type PlayersView struct {
	Code         string                     `json:"code"`
	Status       Status                     `json:"status"`
	Participants []PlayerView               `json:"participants"`
	Lives        map[game.ParticipantID]int `json:"lives"`
	GameLog      []string                   `json:"gameLog"`
	Messages     []ChatMessage              `json:"messages"`
}

func (r *Room) playersView() PlayersView {
	messages := make([]ChatMessage, len(r.messages))
	copy(messages, r.messages)
	return PlayersView{
		Code:         r.code,
		Status:       r.status,
		Participants: r.playerViews(false),
		Lives:        r.lives.Snapshot(),
		GameLog:      r.logSnapshot(),
		Messages:     messages,
	}
}
