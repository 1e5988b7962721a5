package game

import (
	"fmt"
	"math/rand"
	"time"
)

// Difficulty selects a bot decision policy.
type Difficulty string

const (
	// DifficultyImpossible plays uniformly at random, which makes it the beatable one.
	DifficultyImpossible Difficulty = "impossible"
	// DifficultyEasy plays randomly until its last life, then always counters.
	DifficultyEasy Difficulty = "easy"
)

func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case DifficultyEasy, DifficultyImpossible:
		return d, nil
	default:
		return "", fmt.Errorf("unknown bot difficulty %q", s)
	}
}

// counters maps a choice to the choice the easy bot answers with at its last life.
// ant falls back to rock, which does beat ant.
var counters = map[Choice]Choice{
	Rock:     Paper,
	Paper:    Scissors,
	Scissors: Rock,
	Dragon:   Ant,
	Ant:      Rock,
}

// Counter returns the fixed answer to the given choice.
func Counter(c Choice) Choice {
	if answer, ok := counters[c]; ok {
		return answer
	}
	return Rock
}

// NewRand builds a private random source for one room's bot.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Decide picks the bot's choice. The opponent's choice is already known when this runs.
func Decide(rng *rand.Rand, difficulty Difficulty, opponent Choice, botLife int) Choice {
	if difficulty == DifficultyEasy && botLife == 1 {
		return Counter(opponent)
	}
	return AllChoices[rng.Intn(len(AllChoices))]
}
