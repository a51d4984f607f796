package cards

import (
	"fmt"
	"strings"
)

const (
	bitsPerCardCount uint = 4
	maxCountPerType       = (1 << bitsPerCardCount) - 1
	mask                  = Set(1<<bitsPerCardCount) - 1
)

// Set represents an unordered multiset of cards.
// Set.CountOf(Card) is the number of that Card in the set.
//
// The maximum count for a single rank is 15. Therefore the counts for
// all ranks fit in a single uint64: 4 bits per Card x 15 values = 60 bits.
// Sets are plain values and may be copied freely.
type Set uint64

func NewSet() Set {
	return Set(0)
}

// NewSetFromCards creates a new Set from the given slice of Cards.
func NewSetFromCards(cards []Card) Set {
	result := Set(0)
	for _, card := range cards {
		result.Add(card)
	}

	return result
}

// IsEmpty returns whether this Set contains any Cards.
func (s Set) IsEmpty() bool {
	return s == 0
}

// CountOf gets the number of the given type of Card in the Set.
func (s Set) CountOf(card Card) uint8 {
	shift := uint(card) * bitsPerCardCount
	return uint8((s >> shift) & mask)
}

// CountAbove returns the number of cards in the Set strictly higher than card.
func (s Set) CountAbove(card Card) int {
	n := 0
	for c := card + 1; c <= Ace; c++ {
		n += int(s.CountOf(c))
	}
	return n
}

// CountBelow returns the number of cards in the Set strictly lower than card.
func (s Set) CountBelow(card Card) int {
	n := 0
	for c := Two; c < card; c++ {
		n += int(s.CountOf(c))
	}
	return n
}

func (s Set) Iter(cb func(card Card, count uint8)) {
	for card := Card(0); s > 0; card++ {
		count := uint8(s & mask)
		if count > 0 {
			cb(card, count)
		}
		s >>= bitsPerCardCount
	}
}

// Len gets the total number of Cards in the Set.
func (s Set) Len() int {
	n := 0
	s.Iter(func(card Card, count uint8) {
		n += int(count)
	})
	return n
}

// AsSlice returns a slice of Cards with the given number of each
// Card as found in this Set, in ascending order.
func (s Set) AsSlice() []Card {
	var result []Card
	s.Iter(func(card Card, count uint8) {
		for i := uint8(0); i < count; i++ {
			result = append(result, card)
		}
	})

	return result
}

// Add includes one of the given Card in the Set.
func (s *Set) Add(card Card) {
	s.AddN(card, 1)
}

// AddN panics if the count of card would overflow.
func (s *Set) AddN(card Card, n int) {
	if int(s.CountOf(card))+n > maxCountPerType {
		panic(fmt.Errorf("cannot hold more than %d of card %v", maxCountPerType, card))
	}

	shift := uint(card) * bitsPerCardCount
	*s += Set(n) << shift
}

// Remove removes one of the given Card from the Set.
// Remove panics if the card is not present in the Set.
func (s *Set) Remove(card Card) {
	s.RemoveN(card, 1)
}

func (s *Set) RemoveN(card Card, n int) {
	if int(s.CountOf(card)) < n {
		panic(fmt.Errorf("card %v not in set", card))
	}

	shift := uint(card) * bitsPerCardCount
	*s -= Set(n) << shift
}

// RemoveAll removes the given cards from the set.
// RemoveAll panics if the cards are not present to be removed.
func (s *Set) RemoveAll(cards Set) {
	for card := Card(0); card <= Ace; card++ {
		if s.CountOf(card) < cards.CountOf(card) {
			panic(fmt.Errorf("cannot remove %d %v cards from set with only %d",
				cards.CountOf(card), card, s.CountOf(card)))
		}
	}

	*s -= cards
}

// String implements Stringer.
func (s Set) String() string {
	result := make([]string, 0)
	s.Iter(func(card Card, count uint8) {
		cardCount := fmt.Sprintf("%d %v", count, card)
		result = append(result, cardCount)
	})

	return "{" + strings.Join(result, ", ") + "}"
}
