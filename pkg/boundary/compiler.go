package boundary

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floodprep/pkg/geom"
)

// BDYFile is the artifact name of the combined boundary file.
const BDYFile = "flow.bdy"

// DefaultRescueRadius is the search radius, in cells, for relocating an
// invalid boundary cell.
const DefaultRescueRadius = 3

// ErrGridMismatch is returned when the DEM does not match its header.
var ErrGridMismatch = errors.New("dem does not match header")

// Compiler turns boundary specs into solver files. The zero value is ready
// to use. A Compiler holds no state between calls.
type Compiler struct {
	Logger       *log.Logger
	RescueRadius int
}

// NewCompiler returns a compiler logging to logger.
func NewCompiler(logger *log.Logger) *Compiler {
	return &Compiler{Logger: logger, RescueRadius: DefaultRescueRadius}
}

// Result holds the compiled boundary files.
//
// BDY is empty and Series is nil when no boundary survived. Series maps
// file names (bc_0.txt, bc_1.txt, ...) to their content; the numbering only
// counts emitted boundaries.
type Result struct {
	BDY      []byte
	Series   map[string][]byte
	Resolved []Resolved
	Warnings []Warning
}

// Empty reports whether no boundary was emitted.
func (r *Result) Empty() bool { return len(r.Resolved) == 0 }

// Compile resolves specs against dem, a top-down grid described by h.
// Inactive specs are skipped. Degenerate geometry never returns an error;
// it is rescued or dropped and reported in Result.Warnings.
func (c *Compiler) Compile(specs []Spec, h geom.Header, dem []float32) (*Result, error) {
	if h.CellSize <= 0 || h.NCols <= 0 || h.NRows <= 0 {
		return nil, fmt.Errorf("%w: invalid header %dx%d cellsize %v", ErrGridMismatch, h.NCols, h.NRows, h.CellSize)
	}
	if len(dem) != h.Len() {
		return nil, fmt.Errorf("%w: %d values for %dx%d grid", ErrGridMismatch, len(dem), h.NCols, h.NRows)
	}

	res := &Result{}
	var bdy bytes.Buffer
	for _, s := range specs {
		if !s.Active {
			continue
		}
		cells, warns := c.resolve(s, h, dem)
		res.Warnings = append(res.Warnings, warns...)
		if len(cells) == 0 {
			continue
		}

		flow := s.SignedValue() / float64(len(cells))
		if flow == 0 {
			flow = 0 // drop negative zero
		}
		name := fmt.Sprintf("bc_%d.txt", len(res.Resolved))
		if res.Series == nil {
			res.Series = make(map[string][]byte)
		}
		res.Series[name] = steadySeries(flow, s.SeriesDuration())

		fmt.Fprintf(&bdy, "%s\n", s.DisplayName())
		for _, cell := range cells {
			fmt.Fprintf(&bdy, "P %d %d %s\n", cell.Col, cell.Row, name)
		}

		res.Resolved = append(res.Resolved, Resolved{
			Name:        s.DisplayName(),
			Cells:       cells,
			FlowPerCell: flow,
			SeriesFile:  name,
		})
		c.logger().Debug("resolved boundary",
			"name", s.DisplayName(),
			"cells", len(cells),
			"flow_per_cell", flow,
			"series", name)
	}
	res.BDY = bdy.Bytes()
	return res, nil
}

// =============================================================================
// Resolution
// =============================================================================

// resolve runs discretize, validate and rescue for one spec. The returned
// cells are top-down.
func (c *Compiler) resolve(s Spec, h geom.Header, dem []float32) ([]geom.Cell, []Warning) {
	name := s.DisplayName()
	candidates := discretize(s.Geometry, h)
	if len(candidates) == 0 {
		c.logger().Warn("boundary has no geometry", "name", name, "type", s.Geometry.Type)
		return nil, []Warning{{Kind: WarnDropped, Boundary: name}}
	}

	var (
		valid []geom.Cell
		warns []Warning
	)
	for _, cand := range candidates {
		top := geom.Cell{Col: cand.Col, Row: geom.ToTopDownRow(h.NRows, cand.Row)}
		if isValid(top, h, dem) {
			valid = append(valid, top)
			continue
		}
		if len(candidates) != 1 {
			continue
		}
		if found, ok := geom.FindNearestValidCell(top.Col, top.Row, dem, h, c.radius()); ok {
			valid = append(valid, found)
			warns = append(warns, c.warn(Warning{Kind: WarnRelocated, Boundary: name, From: top, To: found}))
		} else {
			return nil, append(warns, c.warn(Warning{Kind: WarnDropped, Boundary: name, From: top}))
		}
	}
	if len(valid) > 0 {
		return valid, warns
	}

	// Every cell of a multi-cell shape was NoData.
	ring := s.Geometry.Coordinates
	if s.Geometry.Type != geom.TypePolygon {
		first := geom.Cell{Col: candidates[0].Col, Row: geom.ToTopDownRow(h.NRows, candidates[0].Row)}
		return nil, append(warns, c.warn(Warning{Kind: WarnDropped, Boundary: name, From: first}))
	}
	centroid := snap(geom.Centroid(ring), h)
	from := geom.Cell{Col: centroid.Col, Row: geom.ToTopDownRow(h.NRows, centroid.Row)}
	found, ok := geom.FindNearestValidCell(from.Col, from.Row, dem, h, c.radius())
	if !ok {
		return nil, append(warns, c.warn(Warning{Kind: WarnDropped, Boundary: name, From: from}))
	}
	return []geom.Cell{found}, append(warns, c.warn(Warning{Kind: WarnCentroidRescue, Boundary: name, From: from, To: found}))
}

// discretize returns bottom-up candidate cells for g.
func discretize(g geom.Geometry, h geom.Header) []geom.Cell {
	if g.IsEmpty() {
		return nil
	}
	switch g.Type {
	case geom.TypePolygon:
		cells := h.CellsInPolygon(g.Coordinates)
		if len(cells) == 0 {
			return []geom.Cell{snap(geom.Centroid(g.Coordinates), h)}
		}
		return cells
	case geom.TypeLineString:
		if len(g.Coordinates) == 1 {
			return []geom.Cell{snap(g.Coordinates[0], h)}
		}
		return geom.DiscretizePolyline(g.Coordinates, h.CellSize, h.XLLCorner, h.YLLCorner)
	case geom.TypePoint:
		return []geom.Cell{snap(g.Coordinates[0], h)}
	}
	return nil
}

// snap returns the bottom-up cell containing p.
func snap(p geom.Point, h geom.Header) geom.Cell {
	return geom.Cell{Col: h.Col(p.X), Row: h.Row(p.Y)}
}

func isValid(c geom.Cell, h geom.Header, dem []float32) bool {
	return h.InBounds(c.Col, c.Row) && float64(dem[h.Index(c.Col, c.Row)]) > geom.NoDataThreshold
}

func (c *Compiler) warn(w Warning) Warning {
	c.logger().Warn("boundary "+string(w.Kind), "detail", w.String())
	return w
}

func (c *Compiler) radius() int {
	if c.RescueRadius <= 0 {
		return DefaultRescueRadius
	}
	return c.RescueRadius
}

func (c *Compiler) logger() *log.Logger {
	if c.Logger == nil {
		return discard
	}
	return c.Logger
}

var discard = log.NewWithOptions(io.Discard, log.Options{})

// steadySeries renders a two-point constant series. Columns are separated by
// a single space.
func steadySeries(v, duration float64) []byte {
	return fmt.Appendf(nil, "2\n0.0 %.8f\n%.1f %.8f\n", v, duration, v)
}
