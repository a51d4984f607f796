package hilo

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"

	"github.com/timpalpant/hilo/cards"
)

var deckKinds = []struct {
	name    string
	newDeck func(seed uint64) Deck
}{
	{ArrayDeckName, func(seed uint64) Deck { return NewArrayDeck(seed) }},
	{QueueDeckName, func(seed uint64) Deck { return NewQueueDeck(seed) }},
}

func checkConservation(t *testing.T, d Deck) {
	t.Helper()
	remaining, dealt := d.Remaining(), d.Dealt()
	if remaining.Len()+dealt.Len() != cards.DeckSize {
		t.Fatalf("%d remaining + %d dealt != %d", remaining.Len(), dealt.Len(), cards.DeckSize)
	}

	undealt := cards.StandardSet
	undealt.RemoveAll(dealt)
	if undealt != remaining {
		t.Fatalf("remaining %v + dealt %v is not a full deck", remaining, dealt)
	}

	order := d.Order()
	if order.ToSet() != cards.StandardSet {
		t.Fatalf("deck order is not a full deck: %v", order)
	}
}

func TestDeckConservation(t *testing.T) {
	for _, kind := range deckKinds {
		t.Run(kind.name, func(t *testing.T) {
			d := kind.newDeck(1)
			rng := rand.New(rand.NewSource(1234))
			var dealt cards.Set
			for i := 0; i < 5000; i++ {
				checkConservation(t, d)
				if d.Dealt() != dealt {
					t.Fatalf("deck reports %v dealt, expected %v", d.Dealt(), dealt)
				}

				if d.IsEmpty() || rng.Intn(40) == 0 {
					d.Reset(rng.Intn(2) == 0)
					dealt = cards.NewSet()
					continue
				}

				card := d.DealCard()
				if !card.IsValid() {
					t.Fatalf("dealt invalid card %v", card)
				}
				// Add panics if a fifth copy of the same rank is dealt.
				dealt.Add(card)
			}
		})
	}
}

func TestDeckExhaustion(t *testing.T) {
	for _, kind := range deckKinds {
		t.Run(kind.name, func(t *testing.T) {
			d := kind.newDeck(2)
			for i := 0; i < cards.DeckSize; i++ {
				if d.IsEmpty() {
					t.Fatalf("deck empty after only %d cards", i)
				}
				d.DealCard()
			}

			if !d.IsEmpty() {
				t.Fatalf("deck not empty after %d cards", cards.DeckSize)
			}

			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("expected panic when dealing from an empty deck")
				}
				err, ok := r.(error)
				if !ok || errors.Cause(err) != ErrDeckExhausted {
					t.Errorf("got panic %v, expected %v", r, ErrDeckExhausted)
				}
			}()
			d.DealCard()
		})
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	for _, kind := range deckKinds {
		t.Run(kind.name, func(t *testing.T) {
			d := kind.newDeck(3)
			before := d.Order()
			d.Shuffle()
			after := d.Order()
			if after.ToSet() != before.ToSet() {
				t.Errorf("shuffle changed cards: %v -> %v", before, after)
			}
			if after == before {
				t.Errorf("shuffle did not change the order: %v", after)
			}
		})
	}
}

func TestShuffleKeepsDealtPositions(t *testing.T) {
	for _, kind := range deckKinds {
		t.Run(kind.name, func(t *testing.T) {
			d := kind.newDeck(4)
			for i := 0; i < 10; i++ {
				d.DealCard()
			}

			d.Shuffle()
			checkConservation(t, d)
			order := d.Order()
			expected := cards.NewSetFromCards(order[:10])
			if d.Dealt() != expected {
				t.Errorf("got dealt %v, expected %v", d.Dealt(), expected)
			}
			if card := d.DealCard(); card != order[10] {
				t.Errorf("dealt %v, expected %v", card, order[10])
			}
		})
	}
}

func TestResetWithoutShuffle(t *testing.T) {
	for _, kind := range deckKinds {
		t.Run(kind.name, func(t *testing.T) {
			d := kind.newDeck(5)
			before := d.Order()
			for i := 0; i < 20; i++ {
				d.DealCard()
			}

			d.Reset(false)
			if d.Order() != before {
				t.Errorf("reset changed order: %v -> %v", before, d.Order())
			}
			if d.Remaining() != cards.StandardSet || !d.Dealt().IsEmpty() {
				t.Errorf("reset left cards dealt: %v", d.Dealt())
			}

			for i := 0; i < cards.DeckSize; i++ {
				if card := d.DealCard(); card != before[i] {
					t.Fatalf("card %d: dealt %v, expected %v", i, card, before[i])
				}
			}
		})
	}
}

func TestCopy(t *testing.T) {
	for _, kind := range deckKinds {
		t.Run(kind.name, func(t *testing.T) {
			d := kind.newDeck(6)
			d.DealCard()
			c := d.Copy()
			if c.Name() != d.Name() {
				t.Errorf("copy is a %v, expected %v", c.Name(), d.Name())
			}
			if c.Remaining() != cards.StandardSet {
				t.Errorf("copy is not a fresh deck: %v", c.Dealt())
			}

			before := d.Order()
			for !c.IsEmpty() {
				c.DealCard()
			}
			if d.Order() != before || d.Dealt().Len() != 1 {
				t.Errorf("dealing from the copy changed the source deck")
			}
		})
	}
}

func TestShuffleUniformTopCard(t *testing.T) {
	for _, kind := range deckKinds {
		t.Run(kind.name, func(t *testing.T) {
			d := kind.newDeck(7)
			counts := make(map[cards.Card]int)
			const n = 13000
			for i := 0; i < n; i++ {
				d.Shuffle()
				order := d.Order()
				counts[order[0]]++
			}

			for _, rank := range cards.Ranks() {
				if c := counts[rank]; c < 700 || c > 1300 {
					t.Errorf("%v was on top %d times out of %d, expected ~%d", rank, c, n, n/cards.NumRanks)
				}
			}
		})
	}
}

func benchmarkDeal(b *testing.B, d Deck) {
	for i := 0; i < b.N; i++ {
		if d.IsEmpty() {
			d.Reset(false)
		}
		d.DealCard()
	}
}

func BenchmarkArrayDeckDeal(b *testing.B) {
	benchmarkDeal(b, NewArrayDeck(1))
}

func BenchmarkQueueDeckDeal(b *testing.B) {
	benchmarkDeal(b, NewQueueDeck(1))
}

func BenchmarkArrayDeckShuffle(b *testing.B) {
	d := NewArrayDeck(1)
	for i := 0; i < b.N; i++ {
		d.Shuffle()
	}
}

func BenchmarkQueueDeckShuffle(b *testing.B) {
	d := NewQueueDeck(1)
	for i := 0; i < b.N; i++ {
		d.Shuffle()
	}
}

func benchmarkFullDeck(b *testing.B, d Deck) {
	for i := 0; i < b.N; i++ {
		d.Reset(true)
		for !d.IsEmpty() {
			d.DealCard()
		}
	}
}

func BenchmarkFullArrayDeck(b *testing.B) {
	benchmarkFullDeck(b, NewArrayDeck(1))
}

func BenchmarkFullQueueDeck(b *testing.B) {
	benchmarkFullDeck(b, NewQueueDeck(1))
}
