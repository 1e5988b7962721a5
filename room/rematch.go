package room

import (
	"fmt"

	"chickencoup/game"

	"go.uber.org/zap"
)

// RequestRematch adds a participant to the rematch set of a finished game. A full set
// restarts the match with fresh lives.
func (r *Registry) RequestRematch(code string, id game.ParticipantID) {
	r.withMember(code, id, func(rm *Room, p *Participant) {
		if rm.status != StatusGameOver && rm.status != StatusAwaitingRematch {
			return
		}
		r.addRematchLocked(rm, p)

		if opp := rm.opponent(id); opp != nil && opp.IsBot {
			r.addRematchLocked(rm, opp)
		}

		if len(rm.rematchRequests) < Capacity {
			return
		}
		clear(rm.rematchRequests)
		rm.lives.ResetAll(game.StartingLives)
		rm.appendLog("Rematch started")
		r.logger.Info("Rematch started", zap.String("roomCode", code))
		r.notifier.ToParticipants(rm.memberIDs(), EventRematch, RematchPayload{RoomCode: code, Lives: game.StartingLives})
		r.startGameLocked(rm)
	})
}

func (r *Registry) addRematchLocked(rm *Room, p *Participant) {
	if rm.rematchRequests[p.ID] {
		return
	}
	rm.rematchRequests[p.ID] = true
	rm.status = StatusAwaitingRematch
	rm.appendLog(fmt.Sprintf("%s wants a rematch", p.Name))
	r.logger.Info("Rematch requested", zap.String("roomCode", rm.code), zap.String("playerID", string(p.ID)))
	r.notifier.ToParticipants(rm.memberIDs(), EventRematchRequested, PlayerPayload{RoomCode: rm.code, PlayerID: p.ID})
}
