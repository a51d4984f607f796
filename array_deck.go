package hilo

import (
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/timpalpant/hilo/cards"
)

const ArrayDeckName = "ArrayDeck"

// ArrayDeck is a Deck built on a fixed array of card values and a parallel
// array of used flags. Dealing scans forward from the first position that
// may be unused, so a full deal of the deck is O(n) overall.
type ArrayDeck struct {
	order cards.Stack
	used  [cards.DeckSize]bool
	// All positions before next are used.
	next   int
	nDealt int

	remaining cards.Set
	dealt     cards.Set

	rng *rand.Rand
}

// NewArrayDeck creates a new, shuffled ArrayDeck using the given seed.
func NewArrayDeck(seed uint64) *ArrayDeck {
	d := &ArrayDeck{
		order:     cards.StandardDeck,
		remaining: cards.StandardSet,
		rng:       newRand(seed),
	}
	d.Shuffle()
	return d
}

func (d *ArrayDeck) Shuffle() {
	fisherYates(d.order[:], d.rng)
	d.dealt = cards.NewSet()
	for i, card := range d.order {
		if d.used[i] {
			d.dealt.Add(card)
		}
	}
	d.remaining = cards.StandardSet
	d.remaining.RemoveAll(d.dealt)
}

func (d *ArrayDeck) Reset(shuffle bool) {
	d.used = [cards.DeckSize]bool{}
	d.next = 0
	d.nDealt = 0
	if shuffle {
		d.Shuffle()
	} else {
		d.remaining = cards.StandardSet
		d.dealt = cards.NewSet()
	}
}

func (d *ArrayDeck) DealCard() cards.Card {
	for i := d.next; i < len(d.used); i++ {
		if !d.used[i] {
			d.used[i] = true
			d.next = i + 1
			d.nDealt++
			card := d.order[i]
			d.remaining.Remove(card)
			d.dealt.Add(card)
			return card
		}
	}

	panic(errors.Wrap(ErrDeckExhausted, ArrayDeckName))
}

func (d *ArrayDeck) IsEmpty() bool {
	return d.nDealt == len(d.used)
}

func (d *ArrayDeck) Remaining() cards.Set {
	return d.remaining
}

func (d *ArrayDeck) Dealt() cards.Set {
	return d.dealt
}

func (d *ArrayDeck) Order() cards.Stack {
	return d.order
}

func (d *ArrayDeck) Copy() Deck {
	return NewArrayDeck(d.rng.Uint64())
}

func (d *ArrayDeck) Name() string {
	return ArrayDeckName
}
