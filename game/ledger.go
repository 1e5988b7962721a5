package game

// StartingLives is the life pool every participant starts a game with.
const StartingLives = 10

// Ledger tracks remaining lives per participant of one room.
// It is not safe for concurrent use; the owning room serializes access.
type Ledger map[ParticipantID]int

func NewLedger() Ledger {
	return make(Ledger)
}

func (l Ledger) Initialize(id ParticipantID, lives int) {
	if lives < 0 {
		lives = 0
	}
	l[id] = lives
}

// Decrement removes one life. It returns false when the participant is unknown or
// already at zero, in which case nothing changes.
func (l Ledger) Decrement(id ParticipantID) bool {
	lives, ok := l[id]
	if !ok || lives == 0 {
		return false
	}
	l[id] = lives - 1
	return true
}

func (l Ledger) IsDepleted(id ParticipantID) bool {
	lives, ok := l[id]
	return ok && lives == 0
}

// AnyDepleted reports whether some tracked participant has no lives left.
func (l Ledger) AnyDepleted() bool {
	for _, lives := range l {
		if lives == 0 {
			return true
		}
	}
	return false
}

// ResetAll puts every tracked participant back to the given life count.
func (l Ledger) ResetAll(lives int) {
	for id := range l {
		l.Initialize(id, lives)
	}
}

func (l Ledger) Get(id ParticipantID) int {
	return l[id]
}

func (l Ledger) Remove(id ParticipantID) {
	delete(l, id)
}

// Snapshot copies the ledger so it can leave the room's critical section.
func (l Ledger) Snapshot() map[ParticipantID]int {
	out := make(map[ParticipantID]int, len(l))
	for id, lives := range l {
		out[id] = lives
	}
	return out
}
