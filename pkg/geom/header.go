package geom

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// NoData is the sentinel written for cells without a value.
const NoData = -9999.0

// NoDataThreshold separates valid values from NoData. A cell is valid only
// when its value is strictly greater than this threshold.
const NoDataThreshold = -9990.0

// minCellSpacing is the smallest X difference treated as a real grid step.
const minCellSpacing = 0.001

// MaxCells bounds NCols*NRows of any grid built or decoded by floodprep.
const MaxCells = 1 << 28

// Point cloud errors returned by HeaderFromPoints.
var (
	ErrEmptyPointCloud = errors.New("empty point cloud")
	ErrNonFinite       = errors.New("non-finite coordinate")
	ErrGridTooLarge    = errors.New("grid too large")
)

// Header describes a regular raster with square cells.
//
// XLLCorner/YLLCorner locate the outer lower-left corner of the grid, not the
// center of the first cell. NCols*NRows is the exact length of any data slice
// paired with the header.
type Header struct {
	NCols     int     `json:"ncols" bson:"ncols"`
	NRows     int     `json:"nrows" bson:"nrows"`
	CellSize  float64 `json:"cellsize" bson:"cellsize"`
	XLLCorner float64 `json:"xllcorner" bson:"xllcorner"`
	YLLCorner float64 `json:"yllcorner" bson:"yllcorner"`
	NoData    float64 `json:"nodata_value" bson:"nodata_value"`
}

// Len returns the number of cells.
func (h Header) Len() int { return h.NCols * h.NRows }

// OriginX returns the X coordinate of the center of column 0.
func (h Header) OriginX() float64 { return h.XLLCorner + h.CellSize/2 }

// OriginY returns the Y coordinate of the center of the southernmost row.
func (h Header) OriginY() float64 { return h.YLLCorner + h.CellSize/2 }

// Col snaps a world X coordinate to its column.
func (h Header) Col(x float64) int { return Round((x - h.OriginX()) / h.CellSize) }

// Row snaps a world Y coordinate to its bottom-up row.
func (h Header) Row(y float64) int { return Round((y - h.OriginY()) / h.CellSize) }

// CenterX returns the world X coordinate of the center of col.
func (h Header) CenterX(col int) float64 { return h.OriginX() + float64(col)*h.CellSize }

// CenterY returns the world Y coordinate of the center of a top-down row.
func (h Header) CenterY(row int) float64 {
	return h.OriginY() + float64(h.NRows-1-row)*h.CellSize
}

// InBounds reports whether (col, row) addresses a cell of the grid.
func (h Header) InBounds(col, row int) bool {
	return col >= 0 && col < h.NCols && row >= 0 && row < h.NRows
}

// Index returns the row-major offset of (col, row), row counted top-down.
func (h Header) Index(col, row int) int { return row*h.NCols + col }

// ToTopDownRow converts a bottom-up row index to the top-down raster row.
// The conversion is its own inverse.
func ToTopDownRow(nrows, row int) int { return nrows - 1 - row }

// Round rounds v to the nearest integer, halves rounding up.
func Round(v float64) int { return int(math.Floor(v + 0.5)) }

// HeaderFromPoints derives a raster header from a regularly spaced point cloud.
//
// The cell size is the smallest gap between consecutive sorted X coordinates
// (gaps below 1mm are ignored), rounded to three decimals. If every point
// shares one X, the cell size falls back to 1.0. Irregular scatter yields a
// wrong cell size; the points are assumed to lie on a grid.
//
// A NaN or infinite ordinate returns ErrNonFinite, and an extent needing more
// than MaxCells cells returns ErrGridTooLarge.
func HeaderFromPoints(points []XYZ) (Header, error) {
	if len(points) == 0 {
		return Header{}, ErrEmptyPointCloud
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	xs := make([]float64, len(points))
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return Header{}, fmt.Errorf("%w: point %d (%v, %v, %v)", ErrNonFinite, i, p.X, p.Y, p.Z)
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		xs[i] = p.X
	}
	sort.Float64s(xs)

	cs := math.Inf(1)
	for i := 1; i < len(xs); i++ {
		if d := xs[i] - xs[i-1]; d > minCellSpacing && d < cs {
			cs = d
		}
	}
	if math.IsInf(cs, 1) {
		cs = 1.0
	}
	cs = math.Round(cs*1000) / 1000

	cols := math.Floor((maxX-minX)/cs+0.5) + 1
	rows := math.Floor((maxY-minY)/cs+0.5) + 1
	if cols*rows > MaxCells {
		return Header{}, fmt.Errorf("%w: %.0fx%.0f cells at cellsize %v exceeds %d", ErrGridTooLarge, cols, rows, cs, MaxCells)
	}

	return Header{
		NCols:     int(cols),
		NRows:     int(rows),
		CellSize:  cs,
		XLLCorner: minX - cs/2,
		YLLCorner: minY - cs/2,
		NoData:    NoData,
	}, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
