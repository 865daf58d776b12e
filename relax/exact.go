package relax

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MaxExactSize bounds Exact, which builds a dense (size-2)² square system.
const MaxExactSize = 40

// Exact solves the discrete Laplace equation on the interior of the starting
// grid of p directly, giving the fixed point the relaxation converges to.
func Exact(p Params) (*Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Size > MaxExactSize {
		return nil, &ConfigError{Field: "size", Reason: fmt.Sprintf("exact solve supports at most %d, got %d", MaxExactSize, p.Size)}
	}
	g := Initialize(p)
	n := interiorCells(p.Size)
	if n == 0 {
		return g, nil
	}

	width := p.Size - 2
	unknown := func(row, col int) int { return (row-1)*width + (col - 1) }

	a := mat.NewDense(n, n, nil)
	b := mat.NewVecDense(n, nil)
	for row := 1; row <= width; row++ {
		for col := 1; col <= width; col++ {
			k := unknown(row, col)
			a.Set(k, k, 4)
			var rhs float64
			for _, nb := range [4][2]int{{row - 1, col}, {row + 1, col}, {row, col - 1}, {row, col + 1}} {
				if g.IsBoundary(nb[0], nb[1]) {
					rhs += g.At(nb[0], nb[1])
					continue
				}
				a.Set(k, unknown(nb[0], nb[1]), -1)
			}
			b.SetVec(k, rhs)
		}
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("relax: exact solve: %w", err)
	}
	for row := 1; row <= width; row++ {
		for col := 1; col <= width; col++ {
			g.Set(row, col, x.AtVec(unknown(row, col)))
		}
	}
	return g, nil
}
