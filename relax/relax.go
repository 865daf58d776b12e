package relax

import (
	"errors"
	"fmt"
	"math"
	"time"

	"uk.ac.bris.cs/relaxation/logging"
)

// Boundary selects which edges of the grid start at 1.
// Every edge cell is fixed for the whole run either way; the convention only
// decides their initial value.
type Boundary int

const (
	// TopLeft fixes the top row and left column at 1. The bottom row and
	// right column take the fill value.
	TopLeft Boundary = iota
	// AllEdges fixes all four edges at 1.
	AllEdges
)

func (b Boundary) String() string {
	switch b {
	case TopLeft:
		return "top-left"
	case AllEdges:
		return "all-edges"
	}
	return fmt.Sprintf("boundary(%d)", int(b))
}

// ParseBoundary is the inverse of Boundary.String.
func ParseBoundary(s string) (Boundary, error) {
	switch s {
	case "", "top-left":
		return TopLeft, nil
	case "all-edges":
		return AllEdges, nil
	}
	return TopLeft, &ConfigError{Field: "boundary", Reason: fmt.Sprintf("unknown convention %q", s)}
}

// Fill selects the initial value of every cell that is not set to 1.
type Fill int

const (
	Zero Fill = iota
	// Random draws values in [0, 1) from a source seeded with Params.Seed.
	Random
)

func (f Fill) String() string {
	switch f {
	case Zero:
		return "zero"
	case Random:
		return "random"
	}
	return fmt.Sprintf("fill(%d)", int(f))
}

// ParseFill is the inverse of Fill.String.
func ParseFill(s string) (Fill, error) {
	switch s {
	case "", "zero":
		return Zero, nil
	case "random":
		return Random, nil
	}
	return Zero, &ConfigError{Field: "fill", Reason: fmt.Sprintf("unknown fill %q", s)}
}

// MaxSize is the largest grid dimension a run accepts.
const MaxSize = 10_000_000

// DefaultSeed reproduces the fixed seed of the pthread benchmarks.
const DefaultSeed = 42

// Params provides the details of one relaxation run. It is built once and
// shared read-only by the coordinator and every worker.
type Params struct {
	Size      int
	Precision float64
	Threads   int
	Boundary  Boundary
	Fill      Fill
	Seed      int64

	// SnapshotEvery emits a Snapshot event every n iterations; 0 disables them.
	SnapshotEvery int

	Log *logging.Logger
}

// ErrInvalidConfig is matched by every ConfigError.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError rejects a run before any state is allocated.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("relax: invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Validate checks the parameters the engine cannot run without.
func (p Params) Validate() error {
	if p.Size < 2 {
		return &ConfigError{Field: "size", Reason: fmt.Sprintf("must be at least 2, got %d", p.Size)}
	}
	if p.Size > MaxSize || p.Size > math.MaxInt/p.Size {
		return &ConfigError{Field: "size", Reason: fmt.Sprintf("must be at most %d, got %d", MaxSize, p.Size)}
	}
	if !(p.Precision > 0) {
		return &ConfigError{Field: "precision", Reason: fmt.Sprintf("must be greater than 0, got %v", p.Precision)}
	}
	if p.Threads < 1 {
		return &ConfigError{Field: "threads", Reason: fmt.Sprintf("must be at least 1, got %d", p.Threads)}
	}
	if p.SnapshotEvery < 0 {
		return &ConfigError{Field: "snapshot_every", Reason: "must not be negative"}
	}
	return nil
}

// Result is what a finished run hands back to the caller.
type Result struct {
	Grid       *Grid
	Iterations int
	// Workers is the number of workers (or ranks) that actually ran after clamping.
	Workers int
	Elapsed time.Duration
}
