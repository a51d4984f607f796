package cards

// StandardDeck is the full 52 card Hi-Lo deck in sorted order:
// four of each rank from Two through Ace.
var StandardDeck = newStandardStack()

// StandardSet is the multiset of cards in StandardDeck.
var StandardSet = StandardDeck.ToSet()

func newStandardStack() Stack {
	var result Stack
	for i := range result {
		result[i] = Card(i/CopiesPerRank) + Two
	}
	return result
}
