package hilo

import (
	"math/rand/v2"

	"github.com/timpalpant/hilo/cards"
	"github.com/timpalpant/hilo/gamestate"
)

// Strategy decides whether the next card will be higher or lower than the
// card on the table, given full visibility into what has and has not been
// dealt. Implementations must be safe to share between workers.
type Strategy interface {
	Guess(table cards.Card, remaining, dealt cards.Set) gamestate.Guess
}

// RandomStrategy guesses Higher or Lower uniformly at random, ignoring the
// state of the deck. It is a baseline rather than a competitive strategy.
type RandomStrategy struct{}

func (RandomStrategy) Guess(table cards.Card, remaining, dealt cards.Set) gamestate.Guess {
	// The top-level functions of math/rand/v2 use a per-goroutine source,
	// so concurrent workers do not contend on a lock.
	return gamestate.Guess(rand.IntN(2))
}

// CountingStrategy guesses whichever side has more cards remaining in the
// deck, breaking ties with Higher.
type CountingStrategy struct{}

func (CountingStrategy) Guess(table cards.Card, remaining, dealt cards.Set) gamestate.Guess {
	if remaining.CountBelow(table) > remaining.CountAbove(table) {
		return gamestate.Lower
	}
	return gamestate.Higher
}
