package relax

import (
	"errors"
	"sync"
)

// WorkingSet is the part of the grid one rank needs for an iteration: its
// interior rows starting at grid row First, plus one halo row on each side.
type WorkingSet struct {
	Rank      int
	First     int
	Size      int
	Precision float64
	Cells     []float64
}

// Relaxed is a rank's answer to a WorkingSet: its interior rows, halo rows
// excluded, and its local convergence flag.
type Relaxed struct {
	Rank      int
	Cells     []float64
	Converged bool
	Delta     float64
}

// Synchronizer moves working sets between the coordinating rank and the
// relaxing ranks. Every call blocks until all participating ranks have taken
// part, so each call is also a synchronisation point.
type Synchronizer interface {
	// Ranks is the number of ranks available to relax rows.
	Ranks() int
	// Exchange scatters sets[i] to rank sets[i].Rank, waits for every rank to
	// relax its set and gathers the results indexed by rank.
	Exchange(sets []WorkingSet) ([]Relaxed, error)
	// ReduceAnd combines the local flags of every rank.
	ReduceAnd(flags []bool) bool
	// Finish tells every rank to stop and releases the group.
	Finish() error
}

var (
	ErrNoRanks = errors.New("relax: synchronizer has no ranks")
	ErrClosed  = errors.New("relax: synchronizer is finished")
)

// LocalSynchronizer runs every rank as a goroutine of this process. Each
// iteration the coordinator sends one working set to every rank and collects
// one result from each.
type LocalSynchronizer struct {
	inboxes []chan WorkingSet
	outbox  chan Relaxed

	mu       sync.Mutex
	finished bool
	wg       sync.WaitGroup
}

// NewLocalSynchronizer starts ranks rank goroutines.
func NewLocalSynchronizer(ranks int) *LocalSynchronizer {
	s := &LocalSynchronizer{
		inboxes: make([]chan WorkingSet, ranks),
		outbox:  make(chan Relaxed, ranks),
	}
	for i := range s.inboxes {
		s.inboxes[i] = make(chan WorkingSet, 1)
		s.wg.Add(1)
		go s.rank(s.inboxes[i])
	}
	return s
}

func (s *LocalSynchronizer) rank(in <-chan WorkingSet) {
	defer s.wg.Done()
	for set := range in {
		cells, ok, delta := RelaxRows(set.Cells, set.Size, set.Precision)
		s.outbox <- Relaxed{Rank: set.Rank, Cells: cells, Converged: ok, Delta: delta}
	}
}

func (s *LocalSynchronizer) Ranks() int { return len(s.inboxes) }

func (s *LocalSynchronizer) Exchange(sets []WorkingSet) ([]Relaxed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return nil, ErrClosed
	}
	if len(sets) > len(s.inboxes) {
		return nil, errors.New("relax: more working sets than ranks")
	}
	for _, set := range sets {
		s.inboxes[set.Rank] <- set
	}
	results := make([]Relaxed, len(sets))
	for range sets {
		r := <-s.outbox
		results[r.Rank] = r
	}
	return results, nil
}

func (s *LocalSynchronizer) ReduceAnd(flags []bool) bool { return reduceAnd(flags) }

func (s *LocalSynchronizer) Finish() error {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return nil
	}
	s.finished = true
	for _, in := range s.inboxes {
		close(in)
	}
	s.mu.Unlock()
	s.wg.Wait()
	return nil
}
