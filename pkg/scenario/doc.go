// Package scenario compiles a complete flood scenario into the solver's
// input file set.
//
// # Overview
//
// A [Scenario] bundles terrain (raw XYZ text or a ready [raster.Grid]),
// building footprints, roughness polygons, rain and discharge boundaries.
// [Compiler.Compile] runs the whole chain:
//
//  1. Synthesize the DEM from XYZ, or take the supplied grid
//  2. Burn buildings into a copy of the DEM
//  3. Emit terrain.asc and, when roughness polygons exist, friction.asc
//  4. Emit rain.txt for a steady pulse or a hyetograph
//  5. Resolve boundaries against the burned DEM into flow.bdy and bc_<n>.txt
//  6. Emit run.par, referencing only the files that were produced
//
// The result is an in-memory [Artifacts] map; writing it anywhere is the
// caller's business. A Compiler keeps no state between calls, so one value
// can serve concurrent requests.
//
// # Parameter File
//
// [ParFile] writes the solver defaults in a fixed order, applies overrides
// in place and appends unknown override keys sorted by name. Every line is
// the key padded to 20 columns, a space and the value.
//
// # Validation
//
// [Scenario.Validate] checks struct tags with go-playground/validator and the
// cross-field rules (exactly one terrain source, rain series ordering).
// Failures carry [errors.ErrCodeInvalidScenario].
package scenario
