package gamestate

import (
	"fmt"

	"github.com/timpalpant/hilo/cards"
)

// MaxNumEvents is the number of card pairs in a full deck.
const MaxNumEvents = cards.DeckSize / 2

// GameLog records one playthrough of a deck: the order the deck started
// in, and every Event until the deck ran out.
// It is bit-packed and pre-sized, rather than a slice, to avoid allocations
// in the game loop.
type GameLog struct {
	start  cards.Stack
	events [MaxNumEvents][2]byte
	n      int
}

// NewGameLog begins a log for a game dealt from the given deck order.
func NewGameLog(start cards.Stack) GameLog {
	return GameLog{start: start}
}

func (g *GameLog) String() string {
	return fmt.Sprintf("%v %v", g.start, g.AsSlice())
}

// StartDeck returns the deck order the game was dealt from.
func (g *GameLog) StartDeck() cards.Stack {
	return g.start
}

func (g *GameLog) Len() int {
	return g.n
}

func (g *GameLog) Get(i int) Event {
	if i >= g.n {
		panic(fmt.Errorf("index out of range: %d %v", i, g))
	}

	return decodeEvent(g.events[i])
}

func (g *GameLog) Append(e Event) {
	if g.n >= len(g.events) {
		panic(fmt.Errorf("game log exceeded max length: %v", g))
	}

	g.events[g.n] = encodeEvent(e)
	g.n++
}

func (g *GameLog) AsSlice() []Event {
	result := make([]Event, g.n)
	for i, packed := range g.events[:g.n] {
		result[i] = decodeEvent(packed)
	}
	return result
}

// Tally counts the wins, losses and ties in the game.
func (g *GameLog) Tally() (wins, losses, ties int) {
	for _, packed := range g.events[:g.n] {
		switch decodeEvent(packed).Result() {
		case Win:
			wins++
		case Lose:
			losses++
		default:
			ties++
		}
	}
	return
}
