package relax

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"uk.ac.bris.cs/relaxation/logging"
)

// fourByFour is the converged 4x4 grid with the top row and left column at 1
// and everything else starting at 0, relaxed to a precision of 0.01.
var fourByFour = []float64{
	1, 1, 1, 1,
	1, 0.7421875, 0.4921875, 0,
	1, 0.4921875, 0.2421875, 0,
	1, 0, 0, 0,
}

type runner func(p Params, events chan<- Event) (*Result, error)

func runners() map[string]runner {
	return map[string]runner{
		"serial":   RunSerial,
		"parallel": Run,
		"distributed": func(p Params, events chan<- Event) (*Result, error) {
			return RunDistributed(p, NewLocalSynchronizer(p.Threads), events)
		},
	}
}

func TestFourByFour(t *testing.T) {
	for name, run := range runners() {
		for _, threads := range []int{1, 2, 3, 4} {
			res, err := run(Params{Size: 4, Precision: 0.01, Threads: threads}, nil)
			if err != nil {
				t.Fatalf("%s/%d: %v", name, threads, err)
			}
			if res.Iterations != 6 {
				t.Fatalf("%s/%d: converged in %d iterations, want 6", name, threads, res.Iterations)
			}
			for i, v := range fourByFour {
				if res.Grid.Cells[i] != v {
					t.Fatalf("%s/%d: cell %d = %v, want %v", name, threads, i, res.Grid.Cells[i], v)
				}
			}
		}
	}
}

func TestFourByFourAllEdges(t *testing.T) {
	res, err := Run(Params{Size: 4, Precision: 0.01, Threads: 2, Boundary: AllEdges}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Iterations != 7 {
		t.Fatalf("converged in %d iterations, want 7", res.Iterations)
	}
	for _, pos := range [][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}} {
		if v := res.Grid.At(pos[0], pos[1]); v != 0.9921875 {
			t.Fatalf("%v = %v, want 0.9921875", pos, v)
		}
	}
}

func TestResultIndependentOfWorkerCount(t *testing.T) {
	p := Params{Size: 14, Precision: 1e-4, Threads: 1, Fill: Random, Seed: DefaultSeed}
	reference, err := RunSerial(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	for name, run := range runners() {
		for _, threads := range []int{1, 2, 3, 7, 16, 500} {
			p.Threads = threads
			res, err := run(p, nil)
			if err != nil {
				t.Fatalf("%s/%d: %v", name, threads, err)
			}
			if diff := res.Grid.MaxDiff(reference.Grid); diff > 1e-12 {
				t.Fatalf("%s/%d: differs from the serial run by %g", name, threads, diff)
			}
			if d := res.Iterations - reference.Iterations; d < -1 || d > 1 {
				t.Fatalf("%s/%d: %d iterations, serial took %d", name, threads, res.Iterations, reference.Iterations)
			}
		}
	}
}

func TestBoundaryUnchanged(t *testing.T) {
	p := Params{Size: 9, Precision: 1e-3, Threads: 4, Fill: Random, Seed: 7}
	start := Initialize(p)
	for name, run := range runners() {
		res, err := run(p, nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		for row := 0; row < p.Size; row++ {
			for col := 0; col < p.Size; col++ {
				if start.IsBoundary(row, col) && res.Grid.At(row, col) != start.At(row, col) {
					t.Fatalf("%s: boundary cell (%d, %d) changed", name, row, col)
				}
			}
		}
	}
}

func TestRunClampsThreads(t *testing.T) {
	res, err := Run(Params{Size: 4, Precision: 0.01, Threads: 100}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Workers != 4 {
		t.Fatalf("ran %d workers, want 4", res.Workers)
	}
}

func TestRunWithoutInterior(t *testing.T) {
	for name, run := range runners() {
		res, err := run(Params{Size: 2, Precision: 0.1, Threads: 3}, nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if res.Iterations != 0 {
			t.Fatalf("%s: %d iterations on a grid without interior", name, res.Iterations)
		}
	}
}

func TestRunRejectsInvalidParams(t *testing.T) {
	for name, run := range runners() {
		events := make(chan Event, 1)
		_, err := run(Params{Size: 5, Precision: -1, Threads: 1}, events)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected a config error, got %v", name, err)
		}
		if _, open := <-events; open {
			t.Fatalf("%s: events channel left open after a rejected run", name)
		}
	}
}

func TestRunEvents(t *testing.T) {
	for name, run := range runners() {
		events := make(chan Event)
		collected := make(chan []Event)
		go func() {
			var all []Event
			for e := range events {
				all = append(all, e)
			}
			collected <- all
		}()

		res, err := run(Params{Size: 4, Precision: 0.01, Threads: 2, SnapshotEvery: 2}, events)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		all := <-collected

		var iterations, snapshots int
		for _, e := range all {
			switch e := e.(type) {
			case IterationComplete:
				iterations++
				if e.Converged != (e.Iteration == res.Iterations) {
					t.Fatalf("%s: iteration %d reported converged=%v", name, e.Iteration, e.Converged)
				}
			case Snapshot:
				snapshots++
				if e.Iteration%2 != 0 {
					t.Fatalf("%s: snapshot at iteration %d", name, e.Iteration)
				}
			}
		}
		if iterations != 6 || snapshots != 3 {
			t.Fatalf("%s: got %d iteration and %d snapshot events, want 6 and 3", name, iterations, snapshots)
		}
		if first, ok := all[0].(StateChange); !ok || first.NewState != Executing {
			t.Fatalf("%s: first event = %v", name, all[0])
		}
		final, ok := all[len(all)-1].(FinalIterationComplete)
		if !ok || final.Iterations != 6 || final.Grid.MaxDiff(res.Grid) != 0 {
			t.Fatalf("%s: last event = %v", name, all[len(all)-1])
		}
	}
}

func TestDeltaNeverIncreases(t *testing.T) {
	p := Params{Size: 20, Precision: 1e-4, Threads: 3, Fill: Random, Seed: DefaultSeed}
	for name, run := range runners() {
		events := make(chan Event)
		deltas := make(chan []float64)
		go func() {
			var all []float64
			for e := range events {
				if e, ok := e.(IterationComplete); ok {
					all = append(all, e.Delta)
				}
			}
			deltas <- all
		}()

		res, err := run(p, events)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		all := <-deltas
		if len(all) != res.Iterations {
			t.Fatalf("%s: %d deltas for %d iterations", name, len(all), res.Iterations)
		}
		for i := 1; i < len(all); i++ {
			if all[i] > all[i-1]+1e-12 {
				t.Fatalf("%s: delta rose from %g to %g at iteration %d", name, all[i-1], all[i], i+1)
			}
		}
	}
}

func TestDebugLogDumpsGrid(t *testing.T) {
	for name, run := range runners() {
		var buf bytes.Buffer
		p := Params{Size: 4, Precision: 0.01, Threads: 2, Log: logging.New(&buf, logging.Debug)}
		if _, err := run(p, nil); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		out := buf.String()
		for _, want := range []string{"initial grid:", "grid after iteration 6:", "1.000000 0.742188 0.492188 0.000000"} {
			if !strings.Contains(out, want) {
				t.Fatalf("%s: debug log is missing %q:\n%s", name, want, out)
			}
		}
	}

	var buf bytes.Buffer
	p := Params{Size: 4, Precision: 0.01, Threads: 2, Log: logging.New(&buf, logging.Info)}
	if _, err := Run(p, nil); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "initial grid") {
		t.Fatal("grid dumped above debug level")
	}
}
