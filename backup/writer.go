// Package backup saves the games played by workers to disk as gzipped
// JSON lines, without blocking the workers that produce them.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"

	"github.com/timpalpant/hilo/gamestate"
)

const DefaultQueueSize = 16

type batch struct {
	worker int
	seq    int64
	// Number of games the worker had played before this batch.
	offset int64
	games  []gamestate.GameLog
}

// Writer saves each batch of games handed to Backup into its own file:
//
//	<dir>/<run id>/worker_NNN/batch_NNNNNNNN.jsonl.gz
//
// Batches are queued and written by a background goroutine. If the queue
// is full the batch is dropped rather than stalling the caller.
type Writer struct {
	dir   string
	runID string

	queue chan batch
	wg    sync.WaitGroup

	mu     sync.Mutex
	seqs   map[int]int64
	counts map[int]int64
	closed bool
	err    error

	written atomic.Int64
	dropped atomic.Int64
}

// NewWriter creates a Writer saving under a new run directory in dir,
// queueing at most queueSize batches.
func NewWriter(dir string, queueSize int) (*Writer, error) {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	w := &Writer{
		dir:    dir,
		runID:  uuid.New().String(),
		queue:  make(chan batch, queueSize),
		seqs:   make(map[int]int64),
		counts: make(map[int]int64),
	}
	if err := os.MkdirAll(w.RunDir(), 0777); err != nil {
		return nil, errors.Wrapf(err, "creating backup directory %v", w.RunDir())
	}

	w.wg.Add(1)
	go w.loop()
	glog.Infof("Backing up game history to %v", w.RunDir())
	return w, nil
}

// RunID identifies this run's backups.
func (w *Writer) RunID() string {
	return w.runID
}

// RunDir is the directory this run's backups are written to.
func (w *Writer) RunDir() string {
	return filepath.Join(w.dir, w.runID)
}

// Backup implements hilo.HistoryBackup. It copies games and never blocks.
func (w *Writer) Backup(worker int, games []gamestate.GameLog) error {
	if len(games) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("backup writer is closed")
	}

	b := batch{
		worker: worker,
		seq:    w.seqs[worker],
		offset: w.counts[worker],
		games:  append([]gamestate.GameLog(nil), games...),
	}
	w.seqs[worker]++
	w.counts[worker] += int64(len(games))

	select {
	case w.queue <- b:
		return nil
	default:
		w.dropped.Add(1)
		return errors.Errorf("backup queue full, dropped %d games", len(games))
	}
}

// Written returns the number of batches saved so far.
func (w *Writer) Written() int64 {
	return w.written.Load()
}

// Dropped returns the number of batches dropped because the queue was full.
func (w *Writer) Dropped() int64 {
	return w.dropped.Load()
}

// Close waits for queued batches to be written and returns the first
// error encountered while writing, if any.
func (w *Writer) Close() error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()

	w.wg.Wait()
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Writer) loop() {
	defer w.wg.Done()
	for b := range w.queue {
		filename := w.batchFilename(b.worker, b.seq)
		if err := saveBatch(b, filename); err != nil {
			glog.Errorf("Failed to save backup %v: %v", filename, err)
			w.mu.Lock()
			if w.err == nil {
				w.err = err
			}
			w.mu.Unlock()
			continue
		}

		w.written.Add(1)
		glog.V(2).Infof("Saved %d games to %v", len(b.games), filename)
	}
}

func (w *Writer) batchFilename(worker int, seq int64) string {
	return filepath.Join(w.RunDir(),
		fmt.Sprintf("worker_%03d", worker),
		fmt.Sprintf("batch_%08d.jsonl.gz", seq))
}

func saveBatch(b batch, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0777); err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	enc := jsoniter.ConfigFastest.NewEncoder(gz)
	for i := range b.games {
		rec := NewRecord(b.worker, b.offset+int64(i), &b.games[i])
		if err := enc.Encode(rec); err != nil {
			return errors.Wrapf(err, "encoding game %d", rec.Game)
		}
	}

	if err := gz.Close(); err != nil {
		return err
	}
	return f.Close()
}
