package screens

import "chickencoup/game"

type nopNotifier struct{}

func (nopNotifier) ToParticipant(game.ParticipantID, string, interface{})     {}
func (nopNotifier) ToParticipants([]game.ParticipantID, string, interface{}) {}
func (nopNotifier) ToAll(string, interface{})                                {}
