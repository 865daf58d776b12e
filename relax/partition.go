package relax

// CellRange is a contiguous run of interior cells in row-major order.
// It starts at (Row, Col) and walks Count cells along the row, wrapping from
// column size-2 to column 1 of the next row.
type CellRange struct {
	Worker int
	Row    int
	Col    int
	Count  int
}

// Cells lists the grid positions of the range as [row, col] pairs.
func (r CellRange) Cells(size int) [][2]int {
	cells := make([][2]int, 0, r.Count)
	row, col := r.Row, r.Col
	for c := 0; c < r.Count; c++ {
		cells = append(cells, [2]int{row, col})
		col++
		if col == size-1 {
			col = 1
			row++
		}
	}
	return cells
}

// EffectiveWorkers clamps a worker count to one cell per worker.
func EffectiveWorkers(size, workers int) int {
	if total := interiorCells(size); workers > total {
		return total
	}
	return workers
}

// PartitionCells splits the interior of a size x size grid between workers.
// Every worker gets total/workers cells and the first total%workers workers
// get one more. Excess workers are dropped.
func PartitionCells(size, workers int) []CellRange {
	workers = EffectiveWorkers(size, workers)
	if workers < 1 {
		return nil
	}
	total := interiorCells(size)
	base, extra := total/workers, total%workers
	width := size - 2

	ranges := make([]CellRange, workers)
	offset := 0
	for w := range ranges {
		count := base
		if w < extra {
			count++
		}
		ranges[w] = CellRange{
			Worker: w,
			Row:    1 + offset/width,
			Col:    1 + offset%width,
			Count:  count,
		}
		offset += count
	}
	return ranges
}

// RowRange assigns interior rows [First, First+Rows) to a rank. The rank also
// reads rows First-1 and First+Rows as halo rows but never writes them.
type RowRange struct {
	Rank  int
	First int
	Rows  int
}

// ScatterOffset is the index of the first cell sent to the rank (the top halo row).
func (r RowRange) ScatterOffset(size int) int { return (r.First - 1) * size }

// ScatterCount is the number of cells sent to the rank, halo rows included.
func (r RowRange) ScatterCount(size int) int { return (r.Rows + 2) * size }

// GatherOffset is the index of the first cell the rank writes back.
func (r RowRange) GatherOffset(size int) int { return r.First * size }

// GatherCount is the number of cells the rank writes back, halo rows excluded.
func (r RowRange) GatherCount(size int) int { return r.Rows * size }

// EffectiveRanks clamps a rank count to one interior row per rank.
func EffectiveRanks(size, ranks int) int {
	if rows := size - 2; ranks > rows {
		if rows < 0 {
			return 0
		}
		return rows
	}
	return ranks
}

// PartitionRows splits the interior rows between ranks with the same
// base plus remainder rule as PartitionCells.
func PartitionRows(size, ranks int) []RowRange {
	ranks = EffectiveRanks(size, ranks)
	if ranks < 1 {
		return nil
	}
	total := size - 2
	base, extra := total/ranks, total%ranks

	ranges := make([]RowRange, ranks)
	first := 1
	for r := range ranges {
		rows := base
		if r < extra {
			rows++
		}
		ranges[r] = RowRange{Rank: r, First: first, Rows: rows}
		first += rows
	}
	return ranges
}
