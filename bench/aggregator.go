package bench

import (
	"fmt"
	"math"
	"sync"
)

// SlotState describes what a worker has reported to an Aggregator.
type SlotState uint8

const (
	// The worker has not reported yet.
	Empty SlotState = iota
	Reporting
	// The worker stopped abnormally. Its last summary is kept but no
	// longer counted.
	Failed
)

var slotStateStr = [...]string{
	"Empty",
	"Reporting",
	"Failed",
}

func (s SlotState) String() string {
	return slotStateStr[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s SlotState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Slot is the latest report of one worker.
type Slot struct {
	Worker  int       `json:"worker"`
	State   SlotState `json:"state"`
	Summary Summary   `json:"summary"`
	Err     string    `json:"error,omitempty"`
}

func (s Slot) counted() bool {
	return s.State == Reporting && !s.Summary.IsEmpty()
}

// Stats is a point-in-time view of the whole pool.
type Stats struct {
	Workers                  int     `json:"workers"`
	Reporting                int     `json:"reporting"`
	Failed                   int     `json:"failed"`
	OverallMean              float64 `json:"overall_mean"`
	OverallStandardDeviation float64 `json:"overall_standard_deviation"`
	TotalThroughput          float64 `json:"total_games_per_second"`
}

// Aggregator combines the summaries published by a fixed number of
// workers into pool-wide statistics.
//
// Every read and write of the slots happens under a single lock, which
// may be shared with other pool state. Critical sections only copy values
// in or out; all arithmetic happens after the lock is released.
type Aggregator struct {
	mu    sync.Locker
	slots []Slot

	overallMean              float64
	overallStandardDeviation float64
	// Each Update copies the slots as version seq and stores its results
	// only if no later version has been stored.
	seq     uint64
	applied uint64
}

// NewAggregator creates an Aggregator with one slot per worker, guarded by
// mu. If mu is nil the Aggregator uses its own mutex.
func NewAggregator(nWorkers int, mu sync.Locker) *Aggregator {
	if mu == nil {
		mu = &sync.Mutex{}
	}

	slots := make([]Slot, nWorkers)
	for i := range slots {
		slots[i].Worker = i
	}

	return &Aggregator{mu: mu, slots: slots}
}

// Len returns the number of slots.
func (a *Aggregator) Len() int {
	return len(a.slots)
}

func (a *Aggregator) checkWorker(worker int) {
	if worker < 0 || worker >= len(a.slots) {
		panic(fmt.Errorf("worker %d out of range for %d slots", worker, len(a.slots)))
	}
}

// Publish replaces the summary in the given worker's slot.
func (a *Aggregator) Publish(worker int, s Summary) {
	a.checkWorker(worker)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.slots[worker].State = Reporting
	a.slots[worker].Summary = s
}

// MarkFailed records that the given worker stopped because of err.
func (a *Aggregator) MarkFailed(worker int, err error) {
	a.checkWorker(worker)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.slots[worker].State = Failed
	a.slots[worker].Err = err.Error()
}

// Slot returns a copy of the given worker's slot.
func (a *Aggregator) Slot(worker int) Slot {
	a.checkWorker(worker)
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.slots[worker]
}

// Slots returns a copy of all slots.
func (a *Aggregator) Slots() []Slot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Slot(nil), a.slots...)
}

// Update recomputes OverallMean and OverallStandardDeviation: the mean of
// the per-worker means and the mean of the per-worker standard deviations,
// over the workers that are currently reporting. When Updates race, the
// stored values are those of the one that copied the slots last.
func (a *Aggregator) Update() {
	a.update(a.versionedSlots())
}

func (a *Aggregator) versionedSlots() ([]Slot, uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	return append([]Slot(nil), a.slots...), a.seq
}

func (a *Aggregator) update(slots []Slot, seq uint64) (overallMean, overallStdDev float64) {
	var totalMeans, totalStdDevs float64
	n := 0
	for _, slot := range slots {
		if slot.counted() {
			totalMeans += slot.Summary.Mean
			totalStdDevs += slot.Summary.StandardDeviation
			n++
		}
	}

	if n > 0 {
		overallMean = totalMeans / float64(n)
		overallStdDev = totalStdDevs / float64(n)
	}

	a.mu.Lock()
	if seq > a.applied {
		a.applied = seq
		a.overallMean = overallMean
		a.overallStandardDeviation = overallStdDev
	}
	a.mu.Unlock()
	return overallMean, overallStdDev
}

// OverallMean returns the mean games per second per worker as of the last Update.
func (a *Aggregator) OverallMean() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.overallMean
}

// OverallStandardDeviation returns the mean of the workers' standard
// deviations as of the last Update.
func (a *Aggregator) OverallStandardDeviation() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.overallStandardDeviation
}

// TotalThroughput estimates the games per second of the whole pool as the
// sum of each reporting worker's mean throughput.
func (a *Aggregator) TotalThroughput() float64 {
	return totalThroughput(a.Slots())
}

func totalThroughput(slots []Slot) float64 {
	total := 0.0
	for _, slot := range slots {
		if !slot.counted() {
			continue
		}
		m := slot.Summary.Mean
		if m > 0 && !math.IsInf(m, 0) {
			total += m
		}
	}
	return total
}

// Snapshot calls Update and returns the resulting pool-wide statistics.
func (a *Aggregator) Snapshot() Stats {
	slots, seq := a.versionedSlots()
	overallMean, overallStdDev := a.update(slots, seq)
	result := Stats{
		Workers:                  len(slots),
		OverallMean:              overallMean,
		OverallStandardDeviation: overallStdDev,
		TotalThroughput:          totalThroughput(slots),
	}
	for _, slot := range slots {
		switch slot.State {
		case Reporting:
			result.Reporting++
		case Failed:
			result.Failed++
		}
	}
	return result
}
