package room

import (
	"context"
	"fmt"
	"time"

	"chickencoup/game"
	"chickencoup/models"

	"go.uber.org/zap"
)

const sinkTimeout = 5 * time.Second

// startGameLocked opens a fresh set of rounds. Caller holds the room lock.
func (r *Registry) startGameLocked(rm *Room) {
	rm.clearChoices()
	rm.status = StatusAwaitingChoices
	r.logger.Info("Game started", zap.String("roomCode", rm.code))
	r.notifier.ToParticipants(rm.memberIDs(), EventStartGame, RoomCodePayload{RoomCode: rm.code})
}

// SubmitChoice records a participant's hand for the current round. It resolves the round
// once both sides have chosen.
func (r *Registry) SubmitChoice(id game.ParticipantID, choice game.Choice) error {
	if !choice.Valid() {
		return fmt.Errorf("submit choice: %w", game.ErrInvalidChoice)
	}
	code, ok := r.RoomOf(id)
	if !ok {
		return ErrNotInRoom
	}

	r.withMember(code, id, func(rm *Room, p *Participant) {
		switch rm.status {
		case StatusRoundOver:
			rm.status = StatusAwaitingChoices
		case StatusAwaitingChoices:
		default:
			r.logger.Debug("Choice ignored", zap.String("roomCode", code), zap.String("status", string(rm.status)))
			return
		}
		if p.Choice != nil {
			return
		}

		c := choice
		p.Choice = &c
		r.logger.Info("Choice received", zap.String("roomCode", code), zap.String("playerID", string(id)))

		if opp := rm.opponent(id); opp != nil && opp.IsBot && opp.Choice == nil {
			botChoice := game.Decide(rm.rng, rm.botDifficulty, choice, rm.lives.Get(opp.ID))
			opp.Choice = &botChoice
		}

		if !rm.bothChosen() {
			r.notifier.ToParticipants(rm.memberIDs(), EventNextMove, PlayerPayload{RoomCode: code, PlayerID: id})
			return
		}
		r.resolveLocked(rm)
	})
	return nil
}

// resolveLocked settles a round where both sides have a choice.
func (r *Registry) resolveLocked(rm *Room) {
	first, second := rm.participants[0], rm.participants[1]
	defer rm.clearChoices()

	verdict := game.Resolve(*first.Choice, *second.Choice)
	rm.appendLog(fmt.Sprintf("%s chose %s", first.Name, *first.Choice))
	rm.appendLog(fmt.Sprintf("%s chose %s", second.Name, *second.Choice))

	var winner, loser *Participant
	switch {
	case verdict.Draw:
		rm.appendLog("It's a draw!")
	case verdict.FirstWins:
		winner, loser = first, second
	default:
		winner, loser = second, first
	}
	if winner != nil {
		rm.appendLog(fmt.Sprintf("%s wins the round!", winner.Name))
		rm.lives.Decrement(loser.ID)
	}

	payload := RoundPayload{
		RoomCode: rm.code,
		Players:  rm.playerViews(true),
		Draw:     verdict.Draw,
	}
	if winner != nil {
		payload.WinnerID = winner.ID
	}

	if loser != nil && rm.lives.IsDepleted(loser.ID) {
		rm.status = StatusGameOver
		rm.appendLog(fmt.Sprintf("%s wins the game!", winner.Name))
		payload.Lives = rm.lives.Snapshot()
		payload.GameLog = rm.logSnapshot()
		r.logger.Info("Game over", zap.String("roomCode", rm.code), zap.String("winner", winner.Name))
		r.notifier.ToParticipants(rm.memberIDs(), EventGameOver, payload)

		if rm.allHuman() {
			r.recordAsync(models.GameRecord{
				RoomCode:    rm.code,
				WinnerName:  winner.Name,
				WinnerLives: rm.lives.Get(winner.ID),
				LoserName:   loser.Name,
				LoserLives:  rm.lives.Get(loser.ID),
			})
		}
		return
	}

	rm.status = StatusRoundOver
	payload.Lives = rm.lives.Snapshot()
	payload.GameLog = rm.logSnapshot()
	r.notifier.ToParticipants(rm.memberIDs(), EventResult, payload)
}

func (r *Registry) recordAsync(record models.GameRecord) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
		defer cancel()
		if err := r.sink.RecordGame(ctx, record); err != nil {
			r.logger.Error("Failed to record game result", zap.String("roomCode", record.RoomCode), zap.Error(err))
		}
	}()
}

// ContinueGame moves a room from a finished round to the next one.
func (r *Registry) ContinueGame(code string, id game.ParticipantID) {
	r.withMember(code, id, func(rm *Room, _ *Participant) {
		switch rm.status {
		case StatusRoundOver:
			r.startGameLocked(rm)
		case StatusGameOver, StatusAwaitingRematch:
			r.logger.Info("Continue refused, game is over", zap.String("roomCode", code), zap.String("playerID", string(id)))
		}
	})
}
