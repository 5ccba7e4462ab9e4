// Package frame decodes solver raster output into typed numeric frames.
//
// # Decoding
//
// [Decode] reads an ESRI ASCII grid from a byte slice. The six header lines
// are decoded as text; the body is crawled byte by byte into a single
// preallocated []float32 without building strings, so large depth grids
// decode without garbage. Numbers short enough for an exact float64 product
// take an allocation-free path; longer ones fall back to strconv.
//
// Decode never panics and never returns an error value: a malformed header
// yields a [Frame] with Valid=false and Err set. NoData cells decode to 0 and
// are excluded from Min/Max.
//
//	f := frame.Decode(raw)
//	if !f.Valid {
//	    return f.Err
//	}
//	if f.HasNegativeDepth {
//	    logger.Warn("solver instability", "min", f.Min)
//	}
//
// # Instability
//
// Depths below [UnstableThreshold] cannot be physical and usually mean the
// solver's time step was too large. They are kept in the data and flagged
// with HasNegativeDepth.
//
// # Result Files
//
// Solver output files are named <resroot>-<nnnn>.wd.asc. [FrameID] extracts
// the frame number and [IsDepthFile] recognizes depth grids.
//
// # Summaries
//
// [Summarize] reduces a frame to wet area, stored volume and depth
// statistics using gonum.
package frame
