package io_test

import (
	"fmt"

	floodio "github.com/matzehuels/floodprep/pkg/io"
)

func ExampleReadGeoJSON() {
	doc := `{"type": "FeatureCollection", "features": [
	  {"type": "Feature", "properties": {"height": 6},
	   "geometry": {"type": "Polygon", "coordinates": [[[0,0],[4,0],[4,4],[0,0]]]}},
	  {"type": "Feature", "properties": {"type": "QFIX", "value": 3},
	   "geometry": {"type": "LineString", "coordinates": [[0,10],[5,10]]}}
	]}`

	layers, err := floodio.ReadGeoJSON([]byte(doc), "")
	if err != nil {
		panic(err)
	}
	fmt.Println("buildings:", len(layers.Buildings))
	fmt.Println("boundary:", layers.Boundaries[0].Name, layers.Boundaries[0].Value)
	// Output:
	// buildings: 1
	// boundary: Imported Boundary 3
}
