package gamestate

import (
	"fmt"

	"github.com/timpalpant/hilo/cards"
)

// Event records one turn of a game: the card on the table, the guess
// made about it, and the card that was drawn next.
type Event struct {
	TableCard cards.Card
	DrawnCard cards.Card
	Guess     Guess
}

func NewEvent(table, drawn cards.Card, guess Guess) Event {
	return Event{TableCard: table, DrawnCard: drawn, Guess: guess}
}

func (e Event) String() string {
	return fmt.Sprintf("%v->%v:%v:%v", e.TableCard, e.DrawnCard, e.Guess, e.Result())
}

// Outcome compares the drawn card against the table card.
func (e Event) Outcome() Outcome {
	switch {
	case e.DrawnCard > e.TableCard:
		return OutcomeHigher
	case e.DrawnCard < e.TableCard:
		return OutcomeLower
	default:
		return OutcomeTie
	}
}

// Result gets whether the guess was right. Ties are neither won nor lost.
func (e Event) Result() Result {
	switch e.Outcome() {
	case OutcomeTie:
		return Tie
	case Outcome(e.Guess):
		return Win
	default:
		return Lose
	}
}

// Event is packed as bits within a [2]uint8:
//   [0-3] TableCard (2 - 14)
//   [4-7] DrawnCard (2 - 14)
//   [8]   Guess (0 or 1)
func encodeEvent(e Event) [2]uint8 {
	var result [2]uint8
	result[0] = uint8(e.TableCard & 0xf)
	result[0] += uint8(e.DrawnCard << 4)
	result[1] = uint8(e.Guess & 0x1)
	return result
}

func decodeEvent(packed [2]uint8) Event {
	return Event{
		TableCard: cards.Card(packed[0] & 0xf),
		DrawnCard: cards.Card(packed[0] >> 4),
		Guess:     Guess(packed[1] & 0x1),
	}
}
