package hilo

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/hilo/bench"
	"github.com/timpalpant/hilo/cards"
	"github.com/timpalpant/hilo/gamestate"
)

// tickingClock advances by one millisecond every time it is read.
func tickingClock() func() time.Time {
	var n atomic.Int64
	return func() time.Time {
		return time.Unix(0, n.Add(int64(time.Millisecond)))
	}
}

type recordingBackup struct {
	batches [][]gamestate.GameLog
	onBatch func(n int)
}

func (b *recordingBackup) Backup(worker int, games []gamestate.GameLog) error {
	b.batches = append(b.batches, append([]gamestate.GameLog(nil), games...))
	if b.onBatch != nil {
		b.onBatch(len(b.batches))
	}
	return nil
}

func TestPlayGame(t *testing.T) {
	agg := bench.NewAggregator(1, nil)
	w := NewWorker(0, NewQueueDeck(1), CountingStrategy{}, 10, agg)

	game := w.PlayGame()
	require.Equal(t, gamestate.MaxNumEvents, game.Len())

	start := game.StartDeck()
	assert.Equal(t, cards.StandardSet, start.ToSet())
	for i, event := range game.AsSlice() {
		assert.Equal(t, start[2*i], event.TableCard)
		assert.Equal(t, start[2*i+1], event.DrawnCard)
	}

	// The deck is ready for the next game.
	assert.Equal(t, cards.StandardSet, w.deck.Remaining())
	assert.False(t, w.deck.IsEmpty())
}

func TestWorkerStopsAfterCurrentGame(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agg := bench.NewAggregator(1, nil)
	w := NewWorker(0, NewArrayDeck(1), RandomStrategy{}, 10, agg)
	w.Run(ctx)

	assert.Equal(t, int64(1), w.GamesPlayed())
	assert.Equal(t, bench.Empty, agg.Slot(0).State)
}

func TestWorkerReportsEveryWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backup := &recordingBackup{onBatch: func(n int) {
		if n == 2 {
			cancel()
		}
	}}

	agg := bench.NewAggregator(2, nil)
	w := NewWorker(1, NewQueueDeck(2), RandomStrategy{}, 5, agg,
		WithBackup(backup), WithClock(tickingClock()))
	w.Run(ctx)

	assert.Equal(t, int64(10), w.GamesPlayed())
	require.Len(t, backup.batches, 2)
	for _, batch := range backup.batches {
		require.Len(t, batch, 5)
		for _, game := range batch {
			assert.Equal(t, gamestate.MaxNumEvents, game.Len())
		}
	}

	slot := agg.Slot(1)
	assert.Equal(t, bench.Reporting, slot.State)
	assert.Equal(t, 2, slot.Summary.Windows)
	assert.Greater(t, slot.Summary.Mean, 0.0)
	assert.Equal(t, bench.Empty, agg.Slot(0).State)
}

func TestWorkerZeroDurationWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backup := &recordingBackup{onBatch: func(n int) { cancel() }}
	frozen := time.Unix(0, 0)
	agg := bench.NewAggregator(1, nil)
	w := NewWorker(0, NewArrayDeck(3), RandomStrategy{}, 3, agg,
		WithBackup(backup), WithClock(func() time.Time { return frozen }))
	w.Run(ctx)

	slot := agg.Slot(0)
	assert.Equal(t, 1, slot.Summary.Skipped)
	assert.True(t, slot.Summary.IsEmpty())

	agg.Update()
	for _, x := range []float64{agg.OverallMean(), agg.OverallStandardDeviation(), agg.TotalThroughput()} {
		assert.False(t, math.IsNaN(x) || math.IsInf(x, 0), "got %v", x)
	}
}
