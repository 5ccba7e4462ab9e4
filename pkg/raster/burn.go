package raster

import "github.com/matzehuels/floodprep/pkg/geom"

// BurnBuildings returns a copy of base with every polygon feature burned in.
//
// For each footprint the candidate window is the footprint's bounding box
// snapped to cells and clamped to the grid. A cell is burned when its center
// lies inside the ring and its current value is not NoData. Non-polygon
// features are ignored. base is never modified.
func BurnBuildings(base []float32, h geom.Header, features []Feature) []float32 {
	out := make([]float32, len(base))
	copy(out, base)
	for _, f := range features {
		burn(out, h, f)
	}
	return out
}

func burn(data []float32, h geom.Header, f Feature) {
	if f.Geometry.Type != geom.TypePolygon || f.Geometry.IsEmpty() {
		return
	}
	ring := f.Geometry.Coordinates
	height := f.Properties.BurnHeight()
	absolute := f.Properties.Mode() == ModeAbsolute

	minC, maxC := h.NCols, -1
	minR, maxR := h.NRows, -1
	for _, p := range ring {
		c := h.Col(p.X)
		r := geom.ToTopDownRow(h.NRows, h.Row(p.Y))
		minC, maxC = min(minC, c), max(maxC, c)
		minR, maxR = min(minR, r), max(maxR, r)
	}
	minC, maxC = max(minC, 0), min(maxC, h.NCols-1)
	minR, maxR = max(minR, 0), min(maxR, h.NRows-1)

	for r := minR; r <= maxR; r++ {
		cy := h.CenterY(r)
		for c := minC; c <= maxC; c++ {
			if !geom.PointInPolygon(h.CenterX(c), cy, ring) {
				continue
			}
			idx := h.Index(c, r)
			if float64(data[idx]) <= geom.NoDataThreshold {
				continue
			}
			if absolute {
				data[idx] = float32(height)
			} else {
				data[idx] += float32(height)
			}
		}
	}
}

// RoughnessGrid fills a grid with def and overrides the cells of every
// polygon feature carrying a positive manning (or roughness) value.
// def <= 0 selects DefaultRoughness.
func RoughnessGrid(h geom.Header, features []Feature, def float64) []float32 {
	if def <= 0 {
		def = DefaultRoughness
	}
	data := make([]float32, h.Len())
	for i := range data {
		data[i] = float32(def)
	}

	for _, f := range features {
		n, ok := f.Properties.FrictionValue()
		if !ok || f.Geometry.Type != geom.TypePolygon {
			continue
		}
		for _, cell := range h.CellsInPolygon(f.Geometry.Coordinates) {
			data[h.Index(cell.Col, geom.ToTopDownRow(h.NRows, cell.Row))] = float32(n)
		}
	}
	return data
}

// RoughnessASC renders RoughnessGrid as ASCII grid text. It returns false,
// and no text, when features is empty.
func RoughnessASC(h geom.Header, features []Feature, def float64) ([]byte, bool) {
	if len(features) == 0 {
		return nil, false
	}
	return ASC(RoughnessGrid(h, features, def), h), true
}
