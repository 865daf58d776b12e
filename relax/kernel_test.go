package relax

import (
	"reflect"
	"testing"
)

func TestRelaxCellsWritesOnlyItsRange(t *testing.T) {
	cur := Initialize(Params{Size: 4})
	next := NewGrid(4)
	for i := range next.Cells {
		next.Cells[i] = -1
	}
	ok, delta := relaxCells(cur.Cells, next.Cells, 4, CellRange{Row: 1, Col: 2, Count: 2}, 0.01)
	if ok || delta != 0.25 {
		t.Fatalf("got ok=%v delta=%v, want false 0.25", ok, delta)
	}
	for i, v := range next.Cells {
		switch i {
		case next.Index(1, 2):
			if v != 0.25 {
				t.Fatalf("(1, 2) = %v, want 0.25", v)
			}
		case next.Index(2, 1):
			if v != 0.25 {
				t.Fatalf("(2, 1) = %v, want 0.25", v)
			}
		default:
			if v != -1 {
				t.Fatalf("cell %d outside the range was written: %v", i, v)
			}
		}
	}
}

func TestRelaxRows(t *testing.T) {
	in := Initialize(Params{Size: 4}).Cells
	out, ok, delta := RelaxRows(in, 4, 0.01)
	want := []float64{
		1, 0.5, 0.25, 0,
		1, 0.25, 0, 0,
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("RelaxRows = %v, want %v", out, want)
	}
	if ok || delta != 0.5 {
		t.Fatalf("got ok=%v delta=%v, want false 0.5", ok, delta)
	}
	if _, ok, _ := RelaxRows(in, 4, 0.5); !ok {
		t.Fatal("a change equal to the precision is within precision")
	}
}

func TestRelaxRowsWithoutInterior(t *testing.T) {
	out, ok, _ := RelaxRows(make([]float64, 8), 4, 0.1)
	if out != nil || !ok {
		t.Fatalf("two halo rows alone should relax nothing, got %v %v", out, ok)
	}
}
