package relax

import (
	"fmt"
	"time"
)

// RunDistributed relaxes the grid described by p over the ranks of s. The
// caller is the coordinating rank and owns the canonical grid between
// iterations. Every iteration re-sends each rank its full working set,
// combines the local flags and gathers the relaxed rows back. The ranks are
// always released with Finish before RunDistributed returns.
func RunDistributed(p Params, s Synchronizer, events chan<- Event) (*Result, error) {
	rep := reporter{events: events, every: p.SnapshotEvery}
	if s == nil || s.Ranks() < 1 {
		rep.abort()
		return nil, ErrNoRanks
	}
	if err := p.Validate(); err != nil {
		s.Finish()
		rep.abort()
		return nil, err
	}
	log := p.Log.Named("distributed")
	start := time.Now()

	grid := Initialize(p)
	dump(log, "initial grid", grid)
	ranks := EffectiveRanks(p.Size, s.Ranks())
	if ranks < s.Ranks() {
		log.Warnf("process count %d is greater than the number of rows, using %d processes", s.Ranks(), ranks)
	}
	rep.send(StateChange{Iteration: 0, NewState: Executing})
	if ranks == 0 {
		if err := s.Finish(); err != nil {
			log.Warnf("finish: %v", err)
		}
		rep.finish(0, grid)
		return &Result{Grid: grid, Elapsed: time.Since(start)}, nil
	}

	rows := PartitionRows(p.Size, ranks)
	for _, r := range rows {
		log.Debugf("process %d: scatter displ %d count %d, gather displ %d count %d", r.Rank,
			r.ScatterOffset(p.Size), r.ScatterCount(p.Size), r.GatherOffset(p.Size), r.GatherCount(p.Size))
	}

	iterations := 0
	for {
		relaxed, err := s.Exchange(scatter(grid, rows, p.Precision))
		if err == nil {
			err = gather(grid, rows, relaxed)
		}
		if err != nil {
			if ferr := s.Finish(); ferr != nil {
				log.Warnf("finish after failure: %v", ferr)
			}
			rep.abort()
			return nil, fmt.Errorf("relax: iteration %d: %w", iterations+1, err)
		}

		flags := make([]bool, len(relaxed))
		deltas := make([]float64, len(relaxed))
		for i, r := range relaxed {
			flags[i], deltas[i] = r.Converged, r.Delta
		}
		converged := s.ReduceAnd(flags)
		iterations++
		delta := maxOf(deltas)
		rep.iteration(iterations, delta, converged, grid)
		log.Infof("finished iteration %d, delta %g", iterations, delta)
		dump(log, fmt.Sprintf("grid after iteration %d", iterations), grid)
		if converged {
			break
		}
	}

	if err := s.Finish(); err != nil {
		log.Warnf("finish: %v", err)
	}
	rep.finish(iterations, grid)
	return &Result{
		Grid:       grid,
		Iterations: iterations,
		Workers:    ranks,
		Elapsed:    time.Since(start),
	}, nil
}

// scatter copies every rank's rows, halo rows included, out of the canonical grid.
func scatter(g *Grid, rows []RowRange, precision float64) []WorkingSet {
	sets := make([]WorkingSet, len(rows))
	for i, r := range rows {
		off := r.ScatterOffset(g.Size)
		cells := make([]float64, r.ScatterCount(g.Size))
		copy(cells, g.Cells[off:off+len(cells)])
		sets[i] = WorkingSet{Rank: r.Rank, First: r.First, Size: g.Size, Precision: precision, Cells: cells}
	}
	return sets
}

// gather writes every rank's relaxed interior rows back into the canonical grid.
func gather(g *Grid, rows []RowRange, relaxed []Relaxed) error {
	if len(relaxed) != len(rows) {
		return fmt.Errorf("gathered %d results from %d ranks", len(relaxed), len(rows))
	}
	for i, r := range rows {
		want := r.GatherCount(g.Size)
		if len(relaxed[i].Cells) != want {
			return fmt.Errorf("rank %d returned %d cells, want %d", r.Rank, len(relaxed[i].Cells), want)
		}
		copy(g.Cells[r.GatherOffset(g.Size):], relaxed[i].Cells)
	}
	return nil
}
