package room

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"chickencoup/game"

	"go.uber.org/zap"
)

// Registry owns every live room. Membership changes hold mu for writing and then the
// room's own lock; in-room events only hold the room lock.
type Registry struct {
	mu          sync.RWMutex
	rooms       map[string]*Room
	memberships map[game.ParticipantID]string

	notifier     Notifier
	sink         LeaderboardSink
	observer     DirectoryObserver
	logger       *zap.Logger
	newRand      func() *rand.Rand
	generateCode func() (string, error)
}

type Option func(*Registry)

// WithRand replaces the random source handed to each room's bot.
func WithRand(newRand func() *rand.Rand) Option {
	return func(r *Registry) { r.newRand = newRand }
}

func WithCodeGenerator(gen func() (string, error)) Option {
	return func(r *Registry) { r.generateCode = gen }
}

func WithDirectoryObserver(o DirectoryObserver) Option {
	return func(r *Registry) { r.observer = o }
}

func NewRegistry(notifier Notifier, sink LeaderboardSink, logger *zap.Logger, opts ...Option) *Registry {
	if sink == nil {
		sink = NopSink{}
	}
	r := &Registry{
		rooms:        make(map[string]*Room),
		memberships:  make(map[game.ParticipantID]string),
		notifier:     notifier,
		sink:         sink,
		logger:       logger,
		newRand:      game.NewRand,
		generateCode: GenerateCode,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateRoom opens a room for the creator. With a bot difficulty the code is always
// server-generated and the bot takes the second seat at once.
func (r *Registry) CreateRoom(code string, creatorID game.ParticipantID, creatorName string, difficulty game.Difficulty) (string, error) {
	code = strings.TrimSpace(code)

	r.mu.Lock()
	defer r.mu.Unlock()

	if difficulty == "" && code != "" {
		if _, exists := r.rooms[code]; exists {
			r.logger.Info("Room code taken", zap.String("roomCode", code), zap.String("playerID", string(creatorID)))
			return "", ErrRoomCodeTaken
		}
	}
	if difficulty != "" || code == "" {
		generated, err := r.uniqueCodeLocked()
		if err != nil {
			return "", err
		}
		code = generated
	}

	r.leaveCurrentLocked(creatorID, code)

	rm := newRoom(code, r.newRand())
	r.rooms[code] = rm
	r.logger.Info("Room created", zap.String("roomCode", code), zap.String("creator", creatorName), zap.String("botDifficulty", string(difficulty)))

	rm.mu.Lock()
	r.seatLocked(rm, creatorID, creatorName, false)
	if difficulty != "" {
		rm.botDifficulty = difficulty
		botName := fmt.Sprintf("Bot (%s)", difficulty)
		r.seatLocked(rm, game.NewBotID(), botName, true)
	}
	if rm.full() {
		r.startGameLocked(rm)
	}
	rm.mu.Unlock()

	r.publishDirectoryLocked()
	return code, nil
}

// JoinRoom seats a participant, creating the room when the code is unknown.
func (r *Registry) JoinRoom(code string, id game.ParticipantID, name string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.memberships[id] == code {
		return nil
	}

	rm, exists := r.rooms[code]
	if exists {
		rm.mu.Lock()
		full := rm.full()
		rm.mu.Unlock()
		if full {
			r.logger.Info("Room is full, cannot join", zap.String("roomCode", code), zap.String("playerID", string(id)))
			r.notifier.ToParticipant(id, EventRoomFull, RoomCodePayload{RoomCode: code})
			return ErrRoomFull
		}
	}

	r.leaveCurrentLocked(id, code)

	if !exists {
		rm = newRoom(code, r.newRand())
		r.rooms[code] = rm
		r.logger.Info("Room created on join", zap.String("roomCode", code))
	}

	rm.mu.Lock()
	r.seatLocked(rm, id, name, false)
	if rm.full() {
		r.startGameLocked(rm)
	}
	rm.mu.Unlock()

	r.publishDirectoryLocked()
	return nil
}

// seatLocked appends a participant and announces it. Caller holds both locks.
func (r *Registry) seatLocked(rm *Room, id game.ParticipantID, name string, isBot bool) {
	rm.participants = append(rm.participants, &Participant{ID: id, Name: name, IsBot: isBot})
	rm.lives.Initialize(id, game.StartingLives)
	rm.appendLog(fmt.Sprintf("%s has joined the room", name))
	if !isBot {
		r.memberships[id] = rm.code
	}

	r.logger.Info("Player joined room",
		zap.String("roomCode", rm.code),
		zap.String("playerID", string(id)),
		zap.String("name", name),
		zap.Bool("isBot", isBot),
		zap.Int("participants", len(rm.participants)),
	)
	r.notifier.ToParticipants(rm.memberIDs(), EventPlayerJoined, MembershipPayload{
		RoomCode: rm.code,
		PlayerID: id,
		Name:     name,
		Players:  rm.playerViews(false),
	})
}

// ExitRoom handles a voluntary exit. Unknown rooms and non-members are ignored.
func (r *Registry) ExitRoom(code string, id game.ParticipantID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.memberships[id] != code {
		return
	}
	r.removeLocked(code, id, EventPlayerExit)
	r.publishDirectoryLocked()
}

// ExitAll removes a disconnected participant from whatever room it sits in.
func (r *Registry) ExitAll(id game.ParticipantID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.memberships[id]
	if ok {
		r.removeLocked(code, id, EventPlayerLeft)
	}
	r.publishDirectoryLocked()
}

func (r *Registry) leaveCurrentLocked(id game.ParticipantID, next string) {
	if current, ok := r.memberships[id]; ok && current != next {
		r.removeLocked(current, id, EventPlayerExit)
	}
}

// removeLocked unseats id and tears the room down when no human is left. Caller holds mu.
func (r *Registry) removeLocked(code string, id game.ParticipantID, event string) {
	delete(r.memberships, id)

	rm, ok := r.rooms[code]
	if !ok {
		return
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	p := rm.remove(id)
	if p == nil {
		return
	}
	rm.appendLog(fmt.Sprintf("%s has left the room", p.Name))
	r.logger.Info("Player left room", zap.String("roomCode", code), zap.String("playerID", string(id)), zap.String("reason", event))

	if rm.humanCount() == 0 {
		rm.closed = true
		delete(r.rooms, code)
		r.logger.Info("Room deleted", zap.String("roomCode", code))
		return
	}

	// the match is void once a seat empties; the remaining player waits for a new opponent
	rm.status = StatusAwaitingPlayers
	rm.clearChoices()
	clear(rm.rematchRequests)
	rm.lives.ResetAll(game.StartingLives)

	r.notifier.ToParticipants(rm.memberIDs(), event, MembershipPayload{
		RoomCode: code,
		PlayerID: id,
		Name:     p.Name,
		Players:  rm.playerViews(false),
	})
}

func (r *Registry) uniqueCodeLocked() (string, error) {
	for {
		code, err := r.generateCode()
		if err != nil {
			return "", fmt.Errorf("generate room code: %w", err)
		}
		if _, exists := r.rooms[code]; !exists {
			return code, nil
		}
		r.logger.Debug("Collision on room code, regenerating", zap.String("roomCode", code))
	}
}

// Directory lists every live room sorted by code.
func (r *Registry) Directory() []RoomSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.directoryLocked()
}

func (r *Registry) directoryLocked() []RoomSummary {
	dir := make([]RoomSummary, 0, len(r.rooms))
	for _, rm := range r.rooms {
		rm.mu.Lock()
		dir = append(dir, rm.summary())
		rm.mu.Unlock()
	}
	sort.Slice(dir, func(i, j int) bool { return dir[i].Code < dir[j].Code })
	return dir
}

func (r *Registry) publishDirectoryLocked() {
	dir := r.directoryLocked()
	r.notifier.ToAll(EventRoomUpdated, dir)
	if r.observer != nil {
		r.observer.DirectoryChanged(dir)
	}
}

// Players returns the participants, lives and log of one room.
func (r *Registry) Players(code string) (PlayersView, error) {
	rm := r.lookup(code)
	if rm == nil {
		return PlayersView{}, ErrRoomNotFound
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.closed {
		return PlayersView{}, ErrRoomNotFound
	}
	return rm.playersView(), nil
}

// RoomOf reports the room a participant currently sits in.
func (r *Registry) RoomOf(id game.ParticipantID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	code, ok := r.memberships[id]
	return code, ok
}

func (r *Registry) lookup(code string) *Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[code]
}

// withMember runs fn inside the room's critical section when id is seated in code.
func (r *Registry) withMember(code string, id game.ParticipantID, fn func(rm *Room, p *Participant)) {
	rm := r.lookup(code)
	if rm == nil {
		return
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.closed {
		return
	}
	p := rm.participant(id)
	if p == nil {
		return
	}
	fn(rm, p)
}
