package geom

// DiscretizeLine returns the cells visited by Bresenham's algorithm between
// two grid positions. Endpoints are rounded to whole cells first. The path is
// 8-connected and includes both endpoints.
func DiscretizeLine(x0, y0, x1, y1 float64) []Cell {
	cx, cy := Round(x0), Round(y0)
	ex, ey := Round(x1), Round(y1)

	dx, dy := abs(ex-cx), abs(ey-cy)
	sx, sy := 1, 1
	if cx >= ex {
		sx = -1
	}
	if cy >= ey {
		sy = -1
	}
	err := dx - dy

	cells := make([]Cell, 0, max(dx, dy)+1)
	for {
		cells = append(cells, Cell{Col: cx, Row: cy})
		if cx == ex && cy == ey {
			return cells
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			cx += sx
		}
		if e2 < dx {
			err += dx
			cy += sy
		}
	}
}

// DiscretizePolyline rasterizes every segment of a world-space path and
// returns the distinct cells in first-visit order. Rows are bottom-up.
//
// xll and yll are the grid's lower-left corner; segment endpoints are
// expressed relative to the center of cell (0, 0) before snapping.
func DiscretizePolyline(pts []Point, cellSize, xll, yll float64) []Cell {
	ox, oy := xll+cellSize/2, yll+cellSize/2
	seen := make(map[Cell]struct{})
	var out []Cell

	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		seg := DiscretizeLine(
			(a.X-ox)/cellSize, (a.Y-oy)/cellSize,
			(b.X-ox)/cellSize, (b.Y-oy)/cellSize,
		)
		for _, c := range seg {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
