package frame

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/floodprep/pkg/geom"
)

const (
	headerLines     = 6
	noDataTolerance = 1e-4
	maxToken        = 64
)

// Decode parses an ESRI ASCII grid.
//
// The header ends at the sixth newline. Keys are matched case-insensitively;
// ncols and nrows are required, xllcenter/yllcenter are accepted in place of
// the corner keys and nodata_value defaults to -9999. Body values are read
// in order until NCols*NRows have been stored; anything after that is
// ignored.
func Decode(raw []byte) *Frame {
	f := &Frame{}
	if len(raw) == 0 {
		f.Err = ErrEmpty
		return f
	}

	end, lines := 0, 0
	for end < len(raw) && lines < headerLines {
		if raw[end] == '\n' {
			lines++
		}
		end++
	}
	if lines < headerLines {
		f.Err = ErrShortHeader
		return f
	}

	h, err := parseHeader(raw[:end])
	if err != nil {
		f.Err = err
		return f
	}
	f.Header = h
	f.Data = make([]float32, h.Len())
	f.decodeBody(raw[end:])
	f.Valid = true
	return f
}

// =============================================================================
// Header
// =============================================================================

func parseHeader(text []byte) (geom.Header, error) {
	h := geom.Header{NoData: geom.NoData}
	var ncols, nrows float64
	var xcenter, ycenter bool

	for _, line := range bytes.Split(text, []byte{'\n'}) {
		fields := strings.Fields(string(line))
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return h, fmt.Errorf("%w: %s %q", ErrBadHeader, fields[0], fields[1])
		}
		switch strings.ToLower(fields[0]) {
		case "ncols":
			ncols = v
		case "nrows":
			nrows = v
		case "xllcorner":
			h.XLLCorner = v
		case "yllcorner":
			h.YLLCorner = v
		case "xllcenter":
			h.XLLCorner, xcenter = v, true
		case "yllcenter":
			h.YLLCorner, ycenter = v, true
		case "cellsize":
			h.CellSize = v
		case "nodata_value":
			h.NoData = v
		}
	}

	if !isCount(ncols) || !isCount(nrows) {
		return h, fmt.Errorf("%w: ncols=%v nrows=%v", ErrBadHeader, ncols, nrows)
	}
	if ncols*nrows > MaxCells {
		return h, fmt.Errorf("%w: %vx%v exceeds %d cells", ErrBadHeader, ncols, nrows, MaxCells)
	}
	h.NCols, h.NRows = int(ncols), int(nrows)
	if xcenter {
		h.XLLCorner -= h.CellSize / 2
	}
	if ycenter {
		h.YLLCorner -= h.CellSize / 2
	}
	return h, nil
}

func isCount(v float64) bool {
	return v >= 1 && v == math.Trunc(v) && v <= MaxCells
}

// =============================================================================
// Body
// =============================================================================

func isNumberByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E'
}

func (f *Frame) decodeBody(body []byte) {
	var tok [maxToken]byte
	n := 0
	f.Min, f.Max = math.Inf(1), math.Inf(-1)

	for _, c := range body {
		if isNumberByte(c) {
			if n < maxToken {
				tok[n] = c
			}
			n++
			continue
		}
		if n > 0 {
			f.store(tok[:min(n, maxToken)], n > maxToken)
			n = 0
		}
	}
	if n > 0 {
		f.store(tok[:min(n, maxToken)], n > maxToken)
	}

	if math.IsInf(f.Min, 1) {
		f.Min, f.Max = 0, 0
	}
	f.Truncated = f.Count < len(f.Data)
}

func (f *Frame) store(tok []byte, overflow bool) {
	if f.Count >= len(f.Data) {
		return
	}

	v, ok := 0.0, false
	if !overflow {
		v, ok = parseFloat(tok)
	}
	if !ok {
		f.BadTokens++
		v = 0
	} else if math.Abs(v-f.NoData) < noDataTolerance {
		v = 0
	} else {
		f.Min = math.Min(f.Min, v)
		f.Max = math.Max(f.Max, v)
		if v < UnstableThreshold {
			f.HasNegativeDepth = true
		}
	}
	f.Data[f.Count] = float32(v)
	f.Count++
}
