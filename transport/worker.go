package transport

import (
	"fmt"
	"sync"

	"uk.ac.bris.cs/relaxation/logging"
	"uk.ac.bris.cs/relaxation/relax"
	"uk.ac.bris.cs/relaxation/stubs"
)

// RelaxOperations is the RPC receiver of a worker process. A worker keeps
// nothing between calls: every Relax call carries the full working set.
type RelaxOperations struct {
	log *logging.Logger

	mu      sync.Mutex
	relaxed int
	// finished receives the iteration count of every run the broker finishes.
	finished chan int
}

// NewRelaxOperations returns a receiver ready to be served.
func NewRelaxOperations(log *logging.Logger) *RelaxOperations {
	return &RelaxOperations{log: log, finished: make(chan int, 1)}
}

// Done delivers the iteration count of a finished run. Runs finished while
// nobody is receiving are dropped.
func (w *RelaxOperations) Done() <-chan int {
	return w.finished
}

func (w *RelaxOperations) Relax(req stubs.RelaxRequest, res *stubs.RelaxResponse) (err error) {
	if req.Size < 3 || len(req.Cells)%req.Size != 0 || len(req.Cells) < 3*req.Size {
		return fmt.Errorf("rank %d: malformed working set of %d cells for size %d", req.Rank, len(req.Cells), req.Size)
	}
	res.Cells, res.Converged, res.Delta = relax.RelaxRows(req.Cells, req.Size, req.Precision)
	res.Rank = req.Rank

	w.mu.Lock()
	w.relaxed++
	w.mu.Unlock()
	w.log.Debugf("rank %d relaxed rows %d-%d, delta %g", req.Rank, req.First, req.First+len(res.Cells)/req.Size-1, res.Delta)
	return
}

func (w *RelaxOperations) Finish(req stubs.FinishRequest, res *stubs.FinishResponse) (err error) {
	w.mu.Lock()
	res.Relaxed = w.relaxed
	w.relaxed = 0
	w.mu.Unlock()
	w.log.Infof("run finished after %d iterations, relaxed %d working sets", req.Iterations, res.Relaxed)

	select {
	case w.finished <- req.Iterations:
	default:
	}
	return
}
