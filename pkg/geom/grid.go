package geom

// InterpolateGaps fills NoData cells in place with the mean of their valid
// 3x3 neighbours.
//
// Each pass reads from a snapshot of the grid as it stood when the pass began,
// so fill order inside a pass does not matter. A single pass only reaches
// cells adjacent to data; wide holes need more passes. Cells with no valid
// neighbour stay NoData. passes < 1 is treated as 1.
func InterpolateGaps(data []float32, ncols, nrows int, nodata float64, passes int) {
	if passes < 1 {
		passes = 1
	}
	limit := nodata + 0.1
	snapshot := make([]float32, len(data))

	for p := 0; p < passes; p++ {
		copy(snapshot, data)
		filled := 0
		for row := 0; row < nrows; row++ {
			for col := 0; col < ncols; col++ {
				idx := row*ncols + col
				if float64(snapshot[idx]) > limit {
					continue
				}
				var sum float64
				var n int
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						r, c := row+dy, col+dx
						if r < 0 || r >= nrows || c < 0 || c >= ncols {
							continue
						}
						if v := float64(snapshot[r*ncols+c]); v > limit {
							sum += v
							n++
						}
					}
				}
				if n > 0 {
					data[idx] = float32(sum / float64(n))
					filled++
				}
			}
		}
		if filled == 0 {
			return
		}
	}
}

// FindNearestValidCell searches outward from (col, row) for a cell whose
// value exceeds [NoDataThreshold]. Rows are top-down.
//
// The start cell is checked first, then the perimeter of each square ring of
// radius 1..maxRadius. Within a ring columns are scanned west to east and,
// per column, rows north to south; the first hit wins. ok is false when the
// search is exhausted.
func FindNearestValidCell(col, row int, data []float32, h Header, maxRadius int) (c Cell, ok bool) {
	valid := func(c, r int) bool {
		return h.InBounds(c, r) && float64(data[h.Index(c, r)]) > NoDataThreshold
	}

	if valid(col, row) {
		return Cell{Col: col, Row: row}, true
	}
	for r := 1; r <= maxRadius; r++ {
		for i := -r; i <= r; i++ {
			for j := -r; j <= r; j++ {
				if abs(i) != r && abs(j) != r {
					continue
				}
				if valid(col+i, row+j) {
					return Cell{Col: col + i, Row: row + j}, true
				}
			}
		}
	}
	return Cell{}, false
}
