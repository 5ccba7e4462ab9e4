// Package boundary compiles inflow and outflow specifications into the
// solver's boundary files.
//
// # Pipeline
//
// Each active [Spec] goes through the same steps:
//
//  1. Discretize: a polygon becomes the cells whose centers it contains, a
//     line becomes its Bresenham trace and a point becomes the cell it snaps
//     to. A polygon smaller than one cell falls back to its centroid.
//  2. Validate: every candidate is looked up in the DEM (top-down rows) and
//     kept only when it is inside the grid and holds data.
//  3. Rescue: a lone invalid cell is moved to the nearest valid cell within
//     [Compiler.RescueRadius]. A polygon whose every cell is invalid is
//     rescued from its centroid. When rescue finds nothing the boundary is
//     dropped rather than injecting flow into a void.
//  4. Split: the signed discharge is divided evenly over the surviving cells.
//  5. Emit: one steady two-point series file per boundary and one "P" line
//     per cell in the combined boundary file.
//
// Rescues and drops are reported as typed [Warning] values on the [Result]
// and logged at warn level.
//
// # Sign Convention
//
// A boundary whose Type contains "OUT" (any case) drains the domain; its
// discharge is written negative. All other boundaries are inflows.
//
// # Rain
//
// [PrepareRain] and [PrepareRainSeries] produce the rainfall time series in
// the same two-column format, converting mm/h to m/s.
package boundary
