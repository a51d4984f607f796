package hilo

import (
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/timpalpant/hilo/cards"
)

// ErrDeckExhausted is the panic value (possibly wrapped) when a card is
// dealt from an empty deck. Game loops must check IsEmpty before dealing.
var ErrDeckExhausted = errors.New("no more cards available")

// Deck is a reshufflable 52 card deck that deals cards on demand and
// tracks which cards have been dealt.
//
// A Deck is owned by exactly one worker and is not safe for concurrent use.
type Deck interface {
	// Shuffle permutes all 52 positions of the deck. Positions that were
	// already dealt stay dealt, so the dealt cards are whatever the new
	// order puts there. Call Reset first for a clean redeal.
	Shuffle()
	// Reset makes every card available again, optionally shuffling.
	Reset(shuffle bool)
	// DealCard returns the next available card and marks it dealt.
	// It panics with ErrDeckExhausted if the deck is empty.
	DealCard() cards.Card
	IsEmpty() bool
	// Remaining is the multiset of cards that have not been dealt.
	Remaining() cards.Set
	// Dealt is the multiset of cards that have been dealt.
	Dealt() cards.Set
	// Order is the current order of the whole deck, dealt cards first.
	Order() cards.Stack
	// Copy returns a new, independently shuffled deck of the same kind.
	Copy() Deck
	// Name identifies the kind of deck, e.g. in configuration files.
	Name() string
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// fisherYates shuffles s uniformly.
func fisherYates(s []cards.Card, rng *rand.Rand) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
