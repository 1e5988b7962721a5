package game

// beats maps each choice to the set of choices it defeats.
// ant beats only dragon; dragon loses only to ant.
var beats = map[Choice]map[Choice]bool{
	Rock:     {Scissors: true, Ant: true},
	Paper:    {Rock: true, Ant: true},
	Scissors: {Paper: true, Ant: true},
	Dragon:   {Rock: true, Paper: true, Scissors: true},
	Ant:      {Dragon: true},
}

// Verdict is the outcome of a single round seen from the first participant.
type Verdict struct {
	Draw      bool
	FirstWins bool
}

// SecondWins reports whether the second participant took the round.
func (v Verdict) SecondWins() bool { return !v.Draw && !v.FirstWins }

// Beats reports whether a defeats b.
func Beats(a, b Choice) bool {
	return beats[a][b]
}

// Resolve decides a round between two choices. Equal choices are a draw; otherwise the
// first choice wins when the second is in its beats set.
func Resolve(first, second Choice) Verdict {
	if first == second {
		return Verdict{Draw: true}
	}
	return Verdict{FirstWins: Beats(first, second)}
}
