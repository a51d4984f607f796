package hilo

import (
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/timpalpant/hilo/cards"
)

const QueueDeckName = "QueueDeck"

// QueueDeck is a Deck built on a queue of undealt cards and a list of used
// cards. Dealing pops the front of the queue in O(1).
type QueueDeck struct {
	queue []cards.Card
	used  []cards.Card
	// Backing storage for queue and used, so dealing never allocates.
	qbuf cards.Stack
	ubuf cards.Stack

	remaining cards.Set
	dealt     cards.Set

	rng *rand.Rand
}

// NewQueueDeck creates a new, shuffled QueueDeck using the given seed.
func NewQueueDeck(seed uint64) *QueueDeck {
	d := &QueueDeck{rng: newRand(seed)}
	d.load(cards.StandardDeck, 0)
	d.Shuffle()
	return d
}

// load refills the deck from the given order, with the first nUsed cards dealt.
func (d *QueueDeck) load(order cards.Stack, nUsed int) {
	d.ubuf = order
	d.qbuf = order
	d.used = d.ubuf[:nUsed]
	d.queue = d.qbuf[nUsed:]
	d.dealt = cards.NewSetFromCards(d.used)
	d.remaining = cards.NewSetFromCards(d.queue)
}

func (d *QueueDeck) Shuffle() {
	order := d.Order()
	fisherYates(order[:], d.rng)
	d.load(order, len(d.used))
}

func (d *QueueDeck) Reset(shuffle bool) {
	d.load(d.Order(), 0)
	if shuffle {
		d.Shuffle()
	}
}

func (d *QueueDeck) DealCard() cards.Card {
	if len(d.queue) == 0 {
		panic(errors.Wrap(ErrDeckExhausted, QueueDeckName))
	}

	card := d.queue[0]
	d.queue = d.queue[1:]
	d.used = append(d.used, card)
	d.remaining.Remove(card)
	d.dealt.Add(card)
	return card
}

func (d *QueueDeck) IsEmpty() bool {
	return len(d.queue) == 0
}

func (d *QueueDeck) Remaining() cards.Set {
	return d.remaining
}

func (d *QueueDeck) Dealt() cards.Set {
	return d.dealt
}

func (d *QueueDeck) Order() cards.Stack {
	var result cards.Stack
	n := copy(result[:], d.used)
	copy(result[n:], d.queue)
	return result
}

func (d *QueueDeck) Copy() Deck {
	return NewQueueDeck(d.rng.Uint64())
}

func (d *QueueDeck) Name() string {
	return QueueDeckName
}
