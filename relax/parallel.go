package relax

import (
	"fmt"
	"sync"
	"time"
)

// run is the coordinator-owned state of a shared-memory relaxation.
// Workers only read it between the two barrier rounds of an iteration,
// and only the coordinator writes it, between those same rounds.
type run struct {
	p       Params
	ranges  []CellRange
	buffers [2]*Grid
	// current indexes the buffer read in this iteration; the other one is written.
	current int
	ok      []bool
	deltas  []float64
	done    bool
	barrier *Barrier
}

// Run relaxes the grid described by p with a pool of p.Threads goroutines
// sharing two grid buffers. It blocks until every interior cell changes by at
// most p.Precision in one iteration. Events, if non-nil, is closed on return.
func Run(p Params, events chan<- Event) (*Result, error) {
	rep := reporter{events: events, every: p.SnapshotEvery}
	if err := p.Validate(); err != nil {
		rep.abort()
		return nil, err
	}
	log := p.Log.Named("parallel")
	start := time.Now()

	grid := Initialize(p)
	log.Debugf("initialised %dx%d grid (%s, %s fill)", p.Size, p.Size, p.Boundary, p.Fill)
	dump(log, "initial grid", grid)

	workers := EffectiveWorkers(p.Size, p.Threads)
	if workers < p.Threads {
		log.Warnf("thread count %d is greater than the number of cells, using %d threads", p.Threads, workers)
	}
	rep.send(StateChange{Iteration: 0, NewState: Executing})
	if workers == 0 {
		rep.finish(0, grid)
		return &Result{Grid: grid, Elapsed: time.Since(start)}, nil
	}

	r := &run{
		p:       p,
		ranges:  PartitionCells(p.Size, workers),
		buffers: [2]*Grid{grid, grid.Clone()},
		ok:      make([]bool, workers),
		deltas:  make([]float64, workers),
		barrier: NewBarrier(workers + 1),
	}
	for _, cr := range r.ranges {
		log.Debugf("thread %d will compute %d cells starting at (%d, %d)", cr.Worker, cr.Count, cr.Row, cr.Col)
	}

	var wg sync.WaitGroup
	for _, cr := range r.ranges {
		wg.Add(1)
		go func(cr CellRange) {
			defer wg.Done()
			r.work(cr)
		}(cr)
	}

	iterations := 0
	for {
		// Every worker has written its cells of the next buffer.
		r.barrier.Wait()
		iterations++
		converged := reduceAnd(r.ok)
		delta := maxOf(r.deltas)
		rep.iteration(iterations, delta, converged, r.buffers[1-r.current])
		log.Infof("finished iteration %d, delta %g", iterations, delta)
		dump(log, fmt.Sprintf("grid after iteration %d", iterations), r.buffers[1-r.current])
		if converged {
			r.done = true
		} else {
			r.current = 1 - r.current
		}
		// Workers see the decision and the swapped buffers after this round.
		r.barrier.Wait()
		if converged {
			break
		}
	}
	wg.Wait()
	log.Debugf("threads joined")

	result := r.buffers[1-r.current]
	rep.finish(iterations, result)
	return &Result{
		Grid:       result,
		Iterations: iterations,
		Workers:    workers,
		Elapsed:    time.Since(start),
	}, nil
}

func (r *run) work(cr CellRange) {
	for {
		cur, next := r.buffers[r.current], r.buffers[1-r.current]
		r.ok[cr.Worker], r.deltas[cr.Worker] = relaxCells(cur.Cells, next.Cells, r.p.Size, cr, r.p.Precision)
		r.barrier.Wait()
		r.barrier.Wait()
		if r.done {
			return
		}
	}
}

func reduceAnd(flags []bool) bool {
	for _, ok := range flags {
		if !ok {
			return false
		}
	}
	return true
}

func maxOf(values []float64) float64 {
	var max float64
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}
