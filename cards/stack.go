package cards

import (
	"strings"
)

// Stack is an ordered full deck of cards. Position 0 is the top of the deck.
//
// Stack is a fixed-size array rather than a slice so that snapshots of a
// deck's order can be taken and stored without allocating.
type Stack [DeckSize]Card

// ToSet returns the multiset of (known) cards in the Stack.
func (s *Stack) ToSet() Set {
	var result Set
	for _, card := range s {
		if card != Unknown {
			result.Add(card)
		}
	}
	return result
}

// Values returns the cards as ints, top first.
func (s *Stack) Values() []int {
	result := make([]int, len(s))
	for i, card := range s {
		result[i] = int(card)
	}
	return result
}

// String implements Stringer.
func (s Stack) String() string {
	cards := make([]string, 0, len(s))
	for _, c := range s {
		cards = append(cards, c.String())
	}

	return "[Stack: " + strings.Join(cards, ", ") + "]"
}
