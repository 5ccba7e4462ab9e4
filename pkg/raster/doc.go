// Package raster synthesizes the gridded inputs of a flood scenario: the
// elevation model, building burns and the friction map.
//
// # Elevation
//
// [FromXYZ] turns a regularly spaced point cloud into a [Grid]. The header is
// inferred by [geom.HeaderFromPoints]; each sample is snapped to its cell and
// NoData gaps left between samples are patched with [geom.InterpolateGaps].
//
//	g, err := raster.FromXYZ(xyz, 1)
//	if err != nil {
//	    return err
//	}
//	terrain := raster.ASC(g.Data, g.Header)
//
// # Buildings
//
// [BurnBuildings] raises (or sets) the elevation of every cell whose center
// falls inside a building footprint. It never mutates its input: the source
// DEM stays reusable across repeated edits. Features are applied in order, so
// a later footprint overrides an earlier one where they overlap.
//
// # Friction
//
// [RoughnessASC] builds a Manning's n grid from polygon features. It reports
// false when there is nothing to write, in which case the friction file is
// omitted and the solver falls back to its global friction value.
//
// # Row Order
//
// Grid data is row-major with row 0 at the northern edge, the layout of the
// ESRI ASCII grid format. Vector cell sets from package geom are bottom-up and
// are converted with [geom.ToTopDownRow] before indexing.
package raster
