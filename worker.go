package hilo

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/timpalpant/hilo/bench"
	"github.com/timpalpant/hilo/gamestate"
)

// HistoryBackup receives the games a worker played during each reporting
// window. Implementations are called from the worker's goroutine and must
// return promptly. games is only valid for the duration of the call.
type HistoryBackup interface {
	Backup(worker int, games []gamestate.GameLog) error
}

// Worker repeatedly plays games of Hi-Lo with its own deck, and every
// window games publishes its throughput to a shared Aggregator.
type Worker struct {
	id       int
	deck     Deck
	strategy Strategy
	sampler  *bench.Sampler
	agg      *bench.Aggregator
	backup   HistoryBackup

	// Games played in the current window, and their logs if backing up.
	games   int
	history []gamestate.GameLog
	played  int64
}

type WorkerOption func(*Worker)

// WithBackup hands each window's games to b. By default games are discarded.
func WithBackup(b HistoryBackup) WorkerOption {
	return func(w *Worker) {
		w.backup = b
	}
}

// WithClock makes the worker's sampler read time from now.
func WithClock(now func() time.Time) WorkerOption {
	return func(w *Worker) {
		w.sampler = bench.NewSamplerWithClock(w.sampler.Window(), now)
	}
}

// NewWorker creates a worker that owns deck and reports into slot id of agg
// every window games.
func NewWorker(id int, deck Deck, strategy Strategy, window int, agg *bench.Aggregator, opts ...WorkerOption) *Worker {
	w := &Worker{
		id:       id,
		deck:     deck,
		strategy: strategy,
		sampler:  bench.NewSampler(window),
		agg:      agg,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.backup != nil {
		w.history = make([]gamestate.GameLog, 0, window)
	}
	return w
}

func (w *Worker) ID() int {
	return w.id
}

// GamesPlayed returns the total number of games played. It must only be
// called once Run has returned.
func (w *Worker) GamesPlayed() int64 {
	return w.played
}

// Run plays games until ctx is cancelled. Cancellation is only checked
// between games, so a game in progress is always finished.
func (w *Worker) Run(ctx context.Context) {
	w.sampler.Start()
	for {
		game := w.PlayGame()
		w.played++
		w.games++
		if w.backup != nil {
			w.history = append(w.history, game)
		}

		if w.games >= w.sampler.Window() {
			w.report()
		}

		if ctx.Err() != nil {
			return
		}
	}
}

// PlayGame deals through the whole deck, guessing on each pair of cards,
// then resets the deck for the next game.
func (w *Worker) PlayGame() gamestate.GameLog {
	game := gamestate.NewGameLog(w.deck.Order())
	for !w.deck.IsEmpty() {
		table := w.deck.DealCard()
		guess := w.strategy.Guess(table, w.deck.Remaining(), w.deck.Dealt())
		drawn := w.deck.DealCard()
		game.Append(gamestate.NewEvent(table, drawn, guess))
	}

	w.deck.Reset(true)
	return game
}

func (w *Worker) report() {
	if gps, ok := w.sampler.Mark(); ok {
		glog.V(2).Infof("Worker %d: %.1f games/sec over %d games", w.id, gps, w.games)
	} else {
		glog.V(1).Infof("Worker %d: skipped sample with zero elapsed time", w.id)
	}

	w.backupHistory()
	w.games = 0

	// Computed before publishing so the shared lock is only held for the copy.
	summary := w.sampler.Summary()
	w.agg.Publish(w.id, summary)
	w.sampler.Start()
}

func (w *Worker) backupHistory() {
	if w.backup == nil {
		return
	}

	if err := w.backup.Backup(w.id, w.history); err != nil {
		glog.Warningf("Worker %d: failed to back up %d games: %v", w.id, len(w.history), err)
	}
	w.history = w.history[:0]
}
