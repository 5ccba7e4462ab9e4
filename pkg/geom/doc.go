// Package geom provides the stateless grid/vector primitives used to map
// planar geometry onto a regular raster.
//
// # Overview
//
// Everything in this package is a pure function over caller-owned values:
// line rasterization, point-in-polygon tests, polygon cell enumeration, gap
// filling and nearest-valid-cell search. Nothing here allocates shared state,
// so the functions can be called from any goroutine.
//
// # Cell Coordinates
//
// Two row conventions meet in this package:
//
//   - Raster rows are top-down: row 0 is the northern edge, matching the
//     ESRI ASCII grid layout written by package raster.
//   - Vector helpers ([DiscretizeLine], [DiscretizePolyline], [CellsInPolygon])
//     return bottom-up rows: row 0 is the southern edge, i.e.
//     row = (y - yll) / cellsize.
//
// [ToTopDownRow] is the single conversion between the two. Callers crossing
// from vector cells to raster indices apply it exactly once.
//
// # Rounding
//
// World coordinates snap to cells with [Round], which rounds halves up
// (floor(v+0.5)) rather than away from zero. The distinction matters for
// points sitting exactly half a cell west or south of the origin.
//
// # Headers
//
// [Header] describes a raster: size, cell size, lower-left corner and NoData
// sentinel. [HeaderFromPoints] infers one from a regularly spaced point cloud:
//
//	h, err := geom.HeaderFromPoints(points)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(h.NCols, h.NRows, h.CellSize)
//
// Point clouds with NaN or infinite ordinates, or extents needing more than
// [MaxCells] cells, are rejected.
//
// # GeoJSON
//
// [Geometry] encodes as a GeoJSON geometry object through
// github.com/ctessum/geom/encoding/geojson. [DecodeGeoJSON] splits Multi*
// geometries and collections into simple parts. Cell membership stays on the
// odd-crossing [PointInPolygon]: a cell center on a polygon edge follows the
// crossing rule, never an on-edge status.
package geom
