package hilo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/timpalpant/hilo/bench"
)

const defaultPollInterval = 50 * time.Millisecond

// Pool runs a fixed number of Workers in parallel, each with its own copy
// of a prototype Deck and a shared Strategy, all reporting into one
// Aggregator.
type Pool struct {
	nWorkers     int
	window       int
	strategy     Strategy
	prototype    Deck
	backup       HistoryBackup
	pollInterval time.Duration
	clock        func() time.Time

	// mu guards everything below, and every slot of agg.
	mu      sync.Mutex
	agg     *bench.Aggregator
	active  []bool
	started int
	nextID  int
	cancel  context.CancelFunc
	stopped bool

	wg sync.WaitGroup
}

type PoolOption func(*Pool)

// WithHistoryBackup gives every worker the same HistoryBackup.
func WithHistoryBackup(b HistoryBackup) PoolOption {
	return func(p *Pool) {
		p.backup = b
	}
}

// WithPollInterval sets how often Start checks whether all workers are running.
func WithPollInterval(d time.Duration) PoolOption {
	return func(p *Pool) {
		p.pollInterval = d
	}
}

// WithPoolClock makes every worker's sampler read time from now.
func WithPoolClock(now func() time.Time) PoolOption {
	return func(p *Pool) {
		p.clock = now
	}
}

// NewPool creates a pool of nWorkers workers that each report every window games.
func NewPool(nWorkers, window int, strategy Strategy, prototype Deck, opts ...PoolOption) (*Pool, error) {
	if nWorkers <= 0 {
		return nil, errors.Errorf("number of workers must be positive, got %d", nWorkers)
	}
	if window <= 0 {
		return nil, errors.Errorf("games per sample must be positive, got %d", window)
	}
	if strategy == nil || prototype == nil {
		return nil, errors.New("strategy and deck are required")
	}

	p := &Pool{
		nWorkers:     nWorkers,
		window:       window,
		strategy:     strategy,
		prototype:    prototype,
		pollInterval: defaultPollInterval,
		active:       make([]bool, nWorkers),
	}
	p.agg = bench.NewAggregator(nWorkers, &p.mu)
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Start spawns every worker and returns once all of them have begun
// running. Workers stop after Stop is called or ctx is cancelled.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return errors.New("pool already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	if p.stopped {
		cancel()
	}
	p.mu.Unlock()

	var opts []WorkerOption
	if p.backup != nil {
		opts = append(opts, WithBackup(p.backup))
	}
	if p.clock != nil {
		opts = append(opts, WithClock(p.clock))
	}

	for i := 0; i < p.nWorkers; i++ {
		// Copy here rather than in the goroutine: the prototype is not
		// safe for concurrent use.
		deck := p.prototype.Copy()
		p.wg.Add(1)
		go p.runWorker(ctx, deck, opts)
	}

	for !p.allStarted() {
		time.Sleep(p.pollInterval)
	}

	glog.Infof("Game workers startup complete (%d workers)", p.nWorkers)
	return nil
}

func (p *Pool) runWorker(ctx context.Context, deck Deck, opts []WorkerOption) {
	defer p.wg.Done()

	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.active[id] = true
	p.started++
	p.mu.Unlock()

	glog.V(1).Infof("Worker %d: started", id)
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			glog.Errorf("Worker %d: failed: %v", id, err)
			p.agg.MarkFailed(id, err)
		}

		p.mu.Lock()
		p.active[id] = false
		p.mu.Unlock()
		glog.V(1).Infof("Worker %d: finished", id)
	}()

	w := NewWorker(id, deck, p.strategy, p.window, p.agg, opts...)
	w.Run(ctx)
}

func (p *Pool) allStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started == p.nWorkers
}

// Stop asks every worker to stop after its current game. It does not wait
// for them; poll IsActive or call Wait. If the pool has not been started
// yet, its workers will each play one game and stop once it is.
func (p *Pool) Stop() {
	p.mu.Lock()
	p.stopped = true
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until every started worker has stopped.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// IsActive returns whether any worker is still running.
func (p *Pool) IsActive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, active := range p.active {
		if active {
			return true
		}
	}
	return false
}

// AllActive returns whether every worker is running.
func (p *Pool) AllActive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, active := range p.active {
		if !active {
			return false
		}
	}
	return true
}

// ActiveWorkers returns a copy of every worker's active flag, by worker ID.
func (p *Pool) ActiveWorkers() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bool(nil), p.active...)
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.nWorkers
}

// Window returns the number of games each worker plays per sample.
func (p *Pool) Window() int {
	return p.window
}

// Aggregator returns the pool's shared statistics. It is safe to query
// at any time, including while workers are running.
func (p *Pool) Aggregator() *bench.Aggregator {
	return p.agg
}
