package relax

import (
	"math"
	"math/rand"
	"strconv"
	"strings"

	"uk.ac.bris.cs/relaxation/logging"
)

// Grid is a square matrix of cells stored row-major in one flat slice.
type Grid struct {
	Size  int
	Cells []float64
}

// NewGrid allocates a size x size grid of zeroes.
func NewGrid(size int) *Grid {
	return &Grid{Size: size, Cells: make([]float64, size*size)}
}

// Initialize builds the starting grid described by p.
func Initialize(p Params) *Grid {
	g := NewGrid(p.Size)
	var rnd *rand.Rand
	if p.Fill == Random {
		rnd = rand.New(rand.NewSource(p.Seed))
	}
	last := p.Size - 1
	for row := 0; row < p.Size; row++ {
		for col := 0; col < p.Size; col++ {
			fixed := row == 0 || col == 0
			if p.Boundary == AllEdges {
				fixed = fixed || row == last || col == last
			}
			switch {
			case fixed:
				g.Set(row, col, 1)
			case rnd != nil:
				g.Set(row, col, rnd.Float64())
			}
		}
	}
	return g
}

func (g *Grid) Index(row, col int) int { return row*g.Size + col }

func (g *Grid) At(row, col int) float64 { return g.Cells[row*g.Size+col] }

func (g *Grid) Set(row, col int, v float64) { g.Cells[row*g.Size+col] = v }

// Row returns the cells of one row, sharing storage with the grid.
func (g *Grid) Row(row int) []float64 {
	return g.Cells[row*g.Size : (row+1)*g.Size]
}

// IsBoundary reports whether a cell is on an edge and therefore never written.
func (g *Grid) IsBoundary(row, col int) bool {
	return row == 0 || col == 0 || row == g.Size-1 || col == g.Size-1
}

// Interior is the number of cells the engine relaxes.
func (g *Grid) Interior() int {
	return interiorCells(g.Size)
}

func (g *Grid) Clone() *Grid {
	c := &Grid{Size: g.Size, Cells: make([]float64, len(g.Cells))}
	copy(c.Cells, g.Cells)
	return c
}

// MaxDiff is the largest absolute difference between matching cells.
func (g *Grid) MaxDiff(other *Grid) float64 {
	var max float64
	for i, v := range g.Cells {
		if d := math.Abs(v - other.Cells[i]); d > max {
			max = d
		}
	}
	return max
}

// String prints one row per line with six decimals per cell.
func (g *Grid) String() string {
	var b strings.Builder
	for row := 0; row < g.Size; row++ {
		for col, v := range g.Row(row) {
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(v, 'f', 6, 64))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// dump writes the whole grid at debug level.
func dump(log *logging.Logger, label string, g *Grid) {
	if log.Enabled(logging.Debug) {
		log.Debugf("%s:\n%s", label, g)
	}
}

func interiorCells(size int) int {
	if size < 3 {
		return 0
	}
	return (size - 2) * (size - 2)
}
