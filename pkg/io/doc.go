// Package io loads scenarios from disk and writes compiled artifacts back.
//
// # Overview
//
// The compiler packages work on in-memory values only. This package is the
// file-system edge around them:
//
//   - GeoJSON import: building footprints, roughness zones and boundary
//     conditions drawn in a GIS tool
//   - Scenario manifests: a TOML, YAML or JSON file naming the terrain
//     points, GeoJSON layers, rain, options and solver parameters
//   - Artifact export: writing a compiled artifact set into a run directory
//
// # GeoJSON
//
// [ReadGeoJSON] accepts a FeatureCollection, a single Feature or a bare
// geometry. Geometries are decoded by [geom.DecodeGeoJSON]; multi-part
// geometries are split into one feature per part.
// Features are classified by their "kind" property:
//
//	{"type": "Feature",
//	 "properties": {"kind": "building", "height": 12},
//	 "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,0]]]}}
//
// Without a kind, a "type" property of BUILDING or BOUNDARY (any case)
// decides, and so does a solver boundary type such as QFIX or OUTFLOW.
// Otherwise polygons are buildings, or roughness zones when they carry
// manning, and points or lines are boundaries. Boundary properties are name, type, value, active (default
// true) and duration. Features without geometry are skipped and counted.
//
// # Manifests
//
// A manifest references its inputs by path, relative to the manifest file:
//
//	name = "riverside"
//	xyz = "survey/points.xyz"
//	features = ["site.geojson"]
//
//	[rain]
//	intensity = 25.0
//	duration = 3600.0
//
//	[[boundary]]
//	name = "upstream"
//	type = "QFIX"
//	value = 4.5
//	points = [[100.0, 0.0], [120.0, 0.0]]
//
//	[par]
//	sim_time = 7200
//
// Use [LoadManifest] to read a manifest and every file it references into a
// [scenario.Scenario].
//
// # Export
//
// [WriteArtifacts] writes each artifact under its own name into a directory,
// creating it if needed.
package io
