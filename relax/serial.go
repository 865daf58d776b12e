package relax

import (
	"fmt"
	"time"
)

// RunSerial is the single-threaded form of Run: one pass over the whole
// interior per iteration, no partitioning and no synchronisation.
func RunSerial(p Params, events chan<- Event) (*Result, error) {
	rep := reporter{events: events, every: p.SnapshotEvery}
	if err := p.Validate(); err != nil {
		rep.abort()
		return nil, err
	}
	log := p.Log.Named("serial")
	start := time.Now()

	cur := Initialize(p)
	dump(log, "initial grid", cur)
	rep.send(StateChange{Iteration: 0, NewState: Executing})
	total := interiorCells(p.Size)
	if total == 0 {
		rep.finish(0, cur)
		return &Result{Grid: cur, Elapsed: time.Since(start)}, nil
	}

	next := cur.Clone()
	all := CellRange{Row: 1, Col: 1, Count: total}
	iterations := 0
	for {
		ok, delta := relaxCells(cur.Cells, next.Cells, p.Size, all, p.Precision)
		iterations++
		rep.iteration(iterations, delta, ok, next)
		log.Infof("finished iteration %d, delta %g", iterations, delta)
		dump(log, fmt.Sprintf("grid after iteration %d", iterations), next)
		if ok {
			break
		}
		cur, next = next, cur
	}
	rep.finish(iterations, next)
	return &Result{Grid: next, Iterations: iterations, Workers: 1, Elapsed: time.Since(start)}, nil
}
