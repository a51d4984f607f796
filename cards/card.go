package cards

// Card represents the rank of one card in a standard 52 card deck.
// Suits do not matter in Hi-Lo, so a Card is just its value: 2..14,
// with Jack = 11, Queen = 12, King = 13 and Ace = 14.
type Card uint8

const (
	Unknown Card = 0
	Two     Card = iota + 1
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var cardStr = [...]string{
	"Unknown", "", // Never used.
	"2", "3", "4", "5", "6", "7", "8", "9", "10",
	"J", "Q", "K", "A",
}

// String implements Stringer.
func (c Card) String() string {
	if int(c) >= len(cardStr) {
		return "Invalid"
	}
	return cardStr[c]
}

// IsValid returns whether c is one of the ranks Two through Ace.
func (c Card) IsValid() bool {
	return c >= Two && c <= Ace
}

const (
	// The number of distinct ranks in the deck.
	NumRanks = int(Ace-Two) + 1
	// The number of copies (suits) of each rank.
	CopiesPerRank = 4
	// The number of cards in a full deck.
	DeckSize = NumRanks * CopiesPerRank
)

// Ranks returns all valid ranks in ascending order.
func Ranks() []Card {
	result := make([]Card, 0, NumRanks)
	for c := Two; c <= Ace; c++ {
		result = append(result, c)
	}
	return result
}
