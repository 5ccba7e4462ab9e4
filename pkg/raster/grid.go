package raster

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/floodprep/pkg/geom"
)

// ErrNoPoints is returned when an XYZ input holds no usable sample.
var ErrNoPoints = errors.New("no XYZ points")

// Grid is a raster with its header. Data is row-major, row 0 north, and has
// exactly Header.Len() values.
type Grid struct {
	geom.Header
	Data []float32 `json:"data"`
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	data := make([]float32, len(g.Data))
	copy(data, g.Data)
	return &Grid{Header: g.Header, Data: data}
}

// At returns the value at (col, row), row counted top-down. ok is false when
// the cell is outside the grid.
func (g *Grid) At(col, row int) (v float32, ok bool) {
	if !g.InBounds(col, row) {
		return 0, false
	}
	return g.Data[g.Index(col, row)], true
}

// Check reports whether the data length matches the header.
func (g *Grid) Check() error {
	if g.NCols <= 0 || g.NRows <= 0 || g.CellSize <= 0 {
		return fmt.Errorf("invalid grid header %dx%d cellsize %v", g.NCols, g.NRows, g.CellSize)
	}
	if len(g.Data) != g.Len() {
		return fmt.Errorf("grid has %d values, header needs %d", len(g.Data), g.Len())
	}
	return nil
}

// =============================================================================
// XYZ Synthesis
// =============================================================================

// ParseXYZ reads "x y z" triples, one per line. Fields may be separated by
// whitespace, commas or semicolons. Blank lines, lines starting with '#',
// lines with fewer than three fields and lines whose first three fields are
// not finite numbers are skipped.
func ParseXYZ(data []byte) ([]geom.XYZ, error) {
	var points []geom.XYZ
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.FieldsFunc(line, isFieldSep)
		if len(fields) < 3 {
			continue
		}
		x, errX := strconv.ParseFloat(fields[0], 64)
		y, errY := strconv.ParseFloat(fields[1], 64)
		z, errZ := strconv.ParseFloat(fields[2], 64)
		if errX != nil || errY != nil || errZ != nil || !finite(x, y, z) {
			continue
		}
		points = append(points, geom.XYZ{X: x, Y: y, Z: z})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read xyz: %w", err)
	}
	return points, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func isFieldSep(r rune) bool {
	switch r {
	case ' ', '\t', '\r', ',', ';':
		return true
	}
	return false
}

// FromXYZ builds an elevation grid from XYZ text.
//
// Every sample is written to the cell it snaps to; samples falling outside
// the inferred extent are skipped and later samples overwrite earlier ones in
// the same cell. Cells that received no sample are then patched by passes
// rounds of neighbour averaging.
func FromXYZ(data []byte, passes int) (*Grid, error) {
	points, err := ParseXYZ(data)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	return FromPoints(points, passes)
}

// FromPoints is FromXYZ for already parsed samples.
func FromPoints(points []geom.XYZ, passes int) (*Grid, error) {
	h, err := geom.HeaderFromPoints(points)
	if err != nil {
		return nil, err
	}

	data := make([]float32, h.Len())
	for i := range data {
		data[i] = float32(h.NoData)
	}
	for _, p := range points {
		col := h.Col(p.X)
		row := geom.ToTopDownRow(h.NRows, h.Row(p.Y))
		if h.InBounds(col, row) {
			data[h.Index(col, row)] = float32(p.Z)
		}
	}

	geom.InterpolateGaps(data, h.NCols, h.NRows, h.NoData, passes)
	return &Grid{Header: h, Data: data}, nil
}
