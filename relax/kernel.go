package relax

import "math"

// relaxCells averages every cell of r from cur into next. It reports whether
// every cell moved by at most precision, and the largest move seen.
// Only cells of r are written, so workers with disjoint ranges can share next.
func relaxCells(cur, next []float64, size int, r CellRange, precision float64) (bool, float64) {
	var delta float64
	row, col := r.Row, r.Col
	for c := 0; c < r.Count; c++ {
		i := row*size + col
		v := (cur[i-size] + cur[i+size] + cur[i-1] + cur[i+1]) / 4
		next[i] = v
		if d := math.Abs(v - cur[i]); d > delta {
			delta = d
		}
		col++
		if col == size-1 {
			col = 1
			row++
		}
	}
	return delta <= precision, delta
}

// RelaxRows relaxes a working set: the rows in `in` are one halo row, the
// interior rows and one more halo row, each size cells wide. The returned
// slice holds only the interior rows; their edge columns are copied through.
func RelaxRows(in []float64, size int, precision float64) ([]float64, bool, float64) {
	rows := len(in)/size - 2
	if rows < 1 {
		return nil, true, 0
	}
	out := make([]float64, rows*size)
	var delta float64
	for r := 0; r < rows; r++ {
		src := (r + 1) * size
		dst := r * size
		out[dst] = in[src]
		out[dst+size-1] = in[src+size-1]
		for col := 1; col < size-1; col++ {
			i := src + col
			v := (in[i-size] + in[i+size] + in[i-1] + in[i+1]) / 4
			out[dst+col] = v
			if d := math.Abs(v - in[i]); d > delta {
				delta = d
			}
		}
	}
	return out, delta <= precision, delta
}
