package relax

import (
	"errors"
	"testing"
)

func TestRunDistributedClampsRanks(t *testing.T) {
	s := NewLocalSynchronizer(5)
	res, err := RunDistributed(Params{Size: 4, Precision: 0.01, Threads: 5}, s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Workers != 2 {
		t.Fatalf("ran %d ranks, want 2", res.Workers)
	}
	if _, err := s.Exchange(nil); !errors.Is(err, ErrClosed) {
		t.Fatalf("synchronizer should be finished after the run, got %v", err)
	}
}

func TestRunDistributedNeedsRanks(t *testing.T) {
	if _, err := RunDistributed(Params{Size: 4, Precision: 0.01, Threads: 1}, nil, nil); !errors.Is(err, ErrNoRanks) {
		t.Fatalf("expected ErrNoRanks, got %v", err)
	}
	if _, err := RunDistributed(Params{Size: 4, Precision: 0.01, Threads: 1}, NewLocalSynchronizer(0), nil); !errors.Is(err, ErrNoRanks) {
		t.Fatalf("expected ErrNoRanks, got %v", err)
	}
}

// brokenSynchronizer fails on a given exchange, or returns short rows.
type brokenSynchronizer struct {
	failAt    int
	shortRows bool
	calls     int
	finished  bool
}

func (b *brokenSynchronizer) Ranks() int { return 2 }

func (b *brokenSynchronizer) Exchange(sets []WorkingSet) ([]Relaxed, error) {
	b.calls++
	if b.calls == b.failAt {
		return nil, errors.New("connection reset")
	}
	out := make([]Relaxed, len(sets))
	for i, set := range sets {
		cells, ok, delta := RelaxRows(set.Cells, set.Size, set.Precision)
		if b.shortRows {
			cells = cells[1:]
		}
		out[i] = Relaxed{Rank: set.Rank, Cells: cells, Converged: ok, Delta: delta}
	}
	return out, nil
}

func (b *brokenSynchronizer) ReduceAnd(flags []bool) bool { return reduceAnd(flags) }

func (b *brokenSynchronizer) Finish() error {
	b.finished = true
	return nil
}

func TestRunDistributedFailsFast(t *testing.T) {
	cases := map[string]*brokenSynchronizer{
		"exchange error": {failAt: 3},
		"short rows":     {shortRows: true},
	}
	for name, s := range cases {
		events := make(chan Event, 16)
		_, err := RunDistributed(Params{Size: 6, Precision: 1e-6, Threads: 2}, s, events)
		if err == nil {
			t.Fatalf("%s: expected an error", name)
		}
		if !s.finished {
			t.Fatalf("%s: ranks were not released", name)
		}
		for range events {
		}
	}
}

func TestLocalSynchronizerExchange(t *testing.T) {
	s := NewLocalSynchronizer(2)
	defer s.Finish()

	g := Initialize(Params{Size: 6})
	rows := PartitionRows(6, 2)
	relaxed, err := s.Exchange(scatter(g, rows, 0.1))
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range relaxed {
		if r.Rank != i {
			t.Fatalf("result %d came from rank %d", i, r.Rank)
		}
		if len(r.Cells) != rows[i].GatherCount(6) {
			t.Fatalf("rank %d returned %d cells", i, len(r.Cells))
		}
	}
	if relaxed[0].Converged || relaxed[0].Delta != 0.5 || relaxed[1].Delta != 0.25 {
		t.Fatalf("unexpected first iteration: %+v", relaxed)
	}
	if !s.ReduceAnd([]bool{true, true}) || s.ReduceAnd([]bool{true, false}) {
		t.Fatal("ReduceAnd is a logical and")
	}
}
