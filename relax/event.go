package relax

import "fmt"

// Event is sent by a coordinator to report progress of a run.
type Event interface {
	fmt.Stringer
	// GetIteration is the number of iterations completed when the event was sent.
	GetIteration() int
}

// State is the coarse state of a run.
type State int

const (
	Executing State = iota
	Converged
)

func (s State) String() string {
	switch s {
	case Executing:
		return "Executing"
	case Converged:
		return "Converged"
	}
	return "Unknown"
}

// StateChange is sent when the run starts executing and when it converges.
type StateChange struct {
	Iteration int
	NewState  State
}

// IterationComplete is sent after the convergence decision of every iteration.
// Delta is the largest change of any cell in that iteration.
type IterationComplete struct {
	Iteration int
	Delta     float64
	Converged bool
}

// Snapshot carries a copy of the grid after an iteration, see Params.SnapshotEvery.
type Snapshot struct {
	Iteration int
	Grid      *Grid
}

// FinalIterationComplete is the last event of a run before the channel closes.
type FinalIterationComplete struct {
	Iterations int
	Grid       *Grid
}

func (e StateChange) String() string {
	return e.NewState.String()
}

func (e StateChange) GetIteration() int {
	return e.Iteration
}

func (e IterationComplete) String() string {
	return fmt.Sprintf("Iteration %d: delta %.3g", e.Iteration, e.Delta)
}

func (e IterationComplete) GetIteration() int {
	return e.Iteration
}

func (e Snapshot) String() string {
	return fmt.Sprintf("Snapshot at %d", e.Iteration)
}

func (e Snapshot) GetIteration() int {
	return e.Iteration
}

func (e FinalIterationComplete) String() string {
	return fmt.Sprintf("Converged after %d iterations", e.Iterations)
}

func (e FinalIterationComplete) GetIteration() int {
	return e.Iterations
}

// reporter wraps an optional events channel.
type reporter struct {
	events chan<- Event
	every  int
}

func (r reporter) send(e Event) {
	if r.events != nil {
		r.events <- e
	}
}

func (r reporter) iteration(n int, delta float64, converged bool, g *Grid) {
	if r.events == nil {
		return
	}
	r.events <- IterationComplete{Iteration: n, Delta: delta, Converged: converged}
	if r.every > 0 && n%r.every == 0 {
		r.events <- Snapshot{Iteration: n, Grid: g.Clone()}
	}
}

func (r reporter) finish(n int, g *Grid) {
	if r.events == nil {
		return
	}
	r.events <- StateChange{Iteration: n, NewState: Converged}
	r.events <- FinalIterationComplete{Iterations: n, Grid: g.Clone()}
	close(r.events)
}

// abort closes the channel of a run that failed before it started.
func (r reporter) abort() {
	if r.events != nil {
		close(r.events)
	}
}
