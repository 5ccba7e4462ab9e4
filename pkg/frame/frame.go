package frame

import (
	"errors"

	"github.com/matzehuels/floodprep/pkg/geom"
)

// UnstableThreshold is the depth below which a frame is flagged unstable.
const UnstableThreshold = -0.1

// MaxCells bounds ncols*nrows accepted from a header. It matches the limit
// applied when grids are synthesized.
const MaxCells = geom.MaxCells

// Header errors reported in Frame.Err.
var (
	ErrEmpty       = errors.New("empty buffer")
	ErrShortHeader = errors.New("invalid header: fewer than 6 lines")
	ErrBadHeader   = errors.New("invalid header content")
)

// Frame is one decoded raster. A fresh Frame is returned per call and the
// caller owns it.
type Frame struct {
	geom.Header

	// Data holds NRows*NCols values, row-major, row 0 north. NoData cells
	// are 0.
	Data []float32

	// Min and Max cover valid cells only; both are 0 when there are none.
	Min, Max float64

	Valid            bool
	HasNegativeDepth bool

	// Count is the number of values stored. Truncated is set when the body
	// held fewer than NCols*NRows values; the remainder stays 0.
	Count     int
	Truncated bool

	// BadTokens counts tokens that could not be parsed; they are stored
	// as 0.
	BadTokens int

	Err error
}

// CellArea returns the area of one cell in square map units.
func (f *Frame) CellArea() float64 { return f.CellSize * f.CellSize }

// At returns the value at (col, row), row counted top-down.
func (f *Frame) At(col, row int) (float32, bool) {
	if f.Data == nil || !f.InBounds(col, row) {
		return 0, false
	}
	return f.Data[f.Index(col, row)], true
}
