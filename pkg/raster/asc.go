package raster

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/matzehuels/floodprep/pkg/geom"
)

// WriteASC writes data as an ESRI ASCII grid.
//
// The six header lines are followed by NRows lines of space separated values.
// Values are written with the shortest decimal form that round-trips to the
// same float32, so no precision is lost.
func WriteASC(w io.Writer, data []float32, h geom.Header) error {
	if len(data) < h.Len() {
		return fmt.Errorf("grid has %d values, header needs %d", len(data), h.Len())
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols         %d\n", h.NCols)
	fmt.Fprintf(bw, "nrows         %d\n", h.NRows)
	fmt.Fprintf(bw, "xllcorner     %.4f\n", h.XLLCorner)
	fmt.Fprintf(bw, "yllcorner     %.4f\n", h.YLLCorner)
	fmt.Fprintf(bw, "cellsize      %.4f\n", h.CellSize)
	fmt.Fprintf(bw, "NODATA_value  %d\n", int(geom.NoData))

	buf := make([]byte, 0, 32)
	for row := 0; row < h.NRows; row++ {
		for col := 0; col < h.NCols; col++ {
			if col > 0 {
				bw.WriteByte(' ')
			}
			buf = strconv.AppendFloat(buf[:0], float64(data[row*h.NCols+col]), 'f', -1, 32)
			bw.Write(buf)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ASC returns data rendered by WriteASC.
func ASC(data []float32, h geom.Header) []byte {
	var buf bytes.Buffer
	buf.Grow(h.Len()*8 + 128)
	if err := WriteASC(&buf, data, h); err != nil {
		return nil
	}
	return buf.Bytes()
}

// ASC renders the grid as ESRI ASCII grid text.
func (g *Grid) ASC() []byte { return ASC(g.Data, g.Header) }
