package geom

import "math"

// PointInPolygon reports whether (x, y) lies inside ring using ray casting
// with the odd-crossing rule. The ring may be open or closed.
func PointInPolygon(x, y float64, ring []Point) bool {
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i].X, ring[i].Y
		xj, yj := ring[j].X, ring[j].Y
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// CellsInPolygon returns every cell whose center lies strictly inside ring.
// Rows are bottom-up. There is no partial-coverage weighting.
//
// xll and yll are the grid's lower-left corner. When bounds is nil the
// ring's own bounding box limits the search.
func CellsInPolygon(ring []Point, cellSize, xll, yll float64, bounds *Bounds) []Cell {
	if len(ring) == 0 || cellSize <= 0 {
		return nil
	}
	b := BoundsOf(ring)
	if bounds != nil {
		b = *bounds
	}

	startCol := int(math.Floor((b.MinX - xll) / cellSize))
	endCol := int(math.Floor((b.MaxX - xll) / cellSize))
	startRow := int(math.Floor((b.MinY - yll) / cellSize))
	endRow := int(math.Floor((b.MaxY - yll) / cellSize))

	var cells []Cell
	for row := startRow; row <= endRow; row++ {
		cy := yll + float64(row)*cellSize + cellSize/2
		for col := startCol; col <= endCol; col++ {
			cx := xll + float64(col)*cellSize + cellSize/2
			if PointInPolygon(cx, cy, ring) {
				cells = append(cells, Cell{Col: col, Row: row})
			}
		}
	}
	return cells
}

// CellsInPolygon is the package function limited to the cells of h. Rows
// are bottom-up and every returned cell is in bounds. The scan covers only
// the overlap of the ring's bounding box with the grid, so a ring far from
// the grid costs nothing.
func (h Header) CellsInPolygon(ring []Point) []Cell {
	if h.NCols <= 0 || h.NRows <= 0 {
		return nil
	}
	b, ok := BoundsOf(ring).Intersect(h.centers())
	if !ok {
		return nil
	}
	return CellsInPolygon(ring, h.CellSize, h.XLLCorner, h.YLLCorner, &b)
}

// centers returns the box spanned by the centers of the outermost cells.
func (h Header) centers() Bounds {
	return Bounds{
		MinX: h.OriginX(),
		MinY: h.OriginY(),
		MaxX: h.CenterX(h.NCols - 1),
		MaxY: h.OriginY() + float64(h.NRows-1)*h.CellSize,
	}
}
