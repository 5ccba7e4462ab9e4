// Package pkg provides the libraries behind floodprep, a compiler from terrain
// and boundary-condition data to the input files of a raster overland-flow
// solver (LISFLOOD-FP style), and a decoder for the solver's depth grids.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Core - Pure, in-memory compilation and decoding with no I/O
//  2. Outer surface - Manifests, caching, persistence and directory watching
//  3. Support - Structured errors, observability hooks and build info
//
// # Architecture
//
// The typical data flow through floodprep:
//
//	Scenario manifest (TOML/YAML/JSON) + XYZ points + GeoJSON
//	         ↓
//	    [io] package (load manifest, import features)
//	         ↓
//	    [pipeline] package (cache lookup, hooks, timing)
//	         ↓
//	    [scenario] package (orchestrate one compilation)
//	       ↙        ↘
//	  [raster]     [boundary]
//	  (DEM, burn,  (validate, rescue,
//	   friction)    split, emit)
//	         ↓
//	terrain.asc, friction.asc, rain.txt, flow.bdy, bc_<n>.txt, run.par
//	         ↓
//	    (external solver)
//	         ↓
//	res-*.wd.asc → [watch] → [frame] (decode + summarize)
//
// # Quick Start
//
// Compile a scenario from scattered points and a single inflow:
//
//	s := &scenario.Scenario{
//	    Name: "demo",
//	    XYZ:  points,
//	    Boundaries: []boundary.Spec{{
//	        Name: "inlet", Type: "QFIX", Value: 2, Active: true,
//	        Geometry: geom.NewPoint(10, 20),
//	    }},
//	}
//	res, err := scenario.NewCompiler(logger).Compile(s)
//	if err != nil {
//	    return err
//	}
//	for name, data := range res.Artifacts {
//	    os.WriteFile(name, data, 0644)
//	}
//
// Decode a solver output frame:
//
//	f := frame.Decode(raw)
//	if !f.Valid {
//	    return f.Err
//	}
//	if f.HasNegativeDepth {
//	    log.Warn("solver instability")
//	}
//
// # Main Packages
//
// ## Core
//
// [geom] - Geometry kernel: half-up rounding, Bresenham line rasterization,
// point-in-polygon tests, grid headers and nearest-valid-cell search.
//
// [raster] - Grid synthesis: XYZ parsing, DEM construction with gap filling,
// building burn-in, roughness grids and ESRI ASCII encoding.
//
// [boundary] - Boundary compilation: discretize, validate against the burned
// DEM, rescue onto valid cells, split flow per cell and emit flow.bdy and
// per-boundary series files. Also rainfall files.
//
// [scenario] - Orchestration of one compilation into an artifact set,
// including the run.par parameter file.
//
// [frame] - Single-allocation decoding of solver depth grids and wet-cell
// statistics.
//
// ## Outer surface
//
// [io] - Scenario manifests, GeoJSON import and artifact export.
//
// [pipeline] - Compile and decode with caching, observability hooks and
// timing. Used by the CLI, the HTTP server and the watcher.
//
// [cache] - File and Redis caches for compiled scenarios and frame summaries.
//
// [store] - File and MongoDB persistence for compiled runs.
//
// [watch] - fsnotify-driven decoding of a solver result directory.
//
// ## Support
//
// [errors] - Machine-readable error codes shared by the CLI and the API.
//
// [observability] - Hook interfaces for metrics and tracing.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test ./pkg/boundary/...           # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// Redis and MongoDB tests run only when FLOODPREP_REDIS_ADDR and
// FLOODPREP_MONGO_URI are set.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/floodprep/pkg/geom
// [raster]: https://pkg.go.dev/github.com/matzehuels/floodprep/pkg/raster
// [boundary]: https://pkg.go.dev/github.com/matzehuels/floodprep/pkg/boundary
// [scenario]: https://pkg.go.dev/github.com/matzehuels/floodprep/pkg/scenario
// [frame]: https://pkg.go.dev/github.com/matzehuels/floodprep/pkg/frame
// [io]: https://pkg.go.dev/github.com/matzehuels/floodprep/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/floodprep/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/floodprep/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/floodprep/pkg/store
// [watch]: https://pkg.go.dev/github.com/matzehuels/floodprep/pkg/watch
// [errors]: https://pkg.go.dev/github.com/matzehuels/floodprep/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/floodprep/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/floodprep/pkg/buildinfo
package pkg
