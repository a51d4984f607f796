package backup

import (
	"github.com/timpalpant/hilo/gamestate"
)

// Record is the serialized form of one game.
type Record struct {
	Worker int           `json:"worker"`
	Game   int64         `json:"game"`
	Deck   []int         `json:"deck"`
	Events []EventRecord `json:"events"`
	Wins   int           `json:"wins"`
	Losses int           `json:"losses"`
	Ties   int           `json:"ties"`
}

type EventRecord struct {
	TableCard int    `json:"table"`
	DrawnCard int    `json:"drawn"`
	Guess     string `json:"guess"`
	Result    string `json:"result"`
}

// NewRecord converts the nth game played by a worker.
func NewRecord(worker int, n int64, game *gamestate.GameLog) Record {
	start := game.StartDeck()
	events := make([]EventRecord, game.Len())
	for i, e := range game.AsSlice() {
		events[i] = EventRecord{
			TableCard: int(e.TableCard),
			DrawnCard: int(e.DrawnCard),
			Guess:     e.Guess.String(),
			Result:    e.Result().String(),
		}
	}

	wins, losses, ties := game.Tally()
	return Record{
		Worker: worker,
		Game:   n,
		Deck:   start.Values(),
		Events: events,
		Wins:   wins,
		Losses: losses,
		Ties:   ties,
	}
}
