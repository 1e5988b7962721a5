package game

import (
	"errors"
	"fmt"
)

var ErrInvalidChoice = errors.New("invalid choice")

// Choice is one of the five hands a participant can throw.
type Choice string

const (
	Rock     Choice = "rock"
	Paper    Choice = "paper"
	Scissors Choice = "scissors"
	Dragon   Choice = "dragon"
	Ant      Choice = "ant"
)

// AllChoices lists every valid choice in a fixed order. Bots draw from it.
var AllChoices = []Choice{Rock, Paper, Scissors, Dragon, Ant}

// ParseChoice validates a raw client value.
func ParseChoice(s string) (Choice, error) {
	c := Choice(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w %q", ErrInvalidChoice, s)
	}
	return c, nil
}

func (c Choice) Valid() bool {
	_, ok := beats[c]
	return ok
}

func (c Choice) String() string { return string(c) }
