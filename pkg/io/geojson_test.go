package io

import (
	"strings"
	"testing"

	"github.com/matzehuels/floodprep/pkg/geom"
)

const siteGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature",
     "properties": {"name": "hall", "height": "12.5"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]}},
    {"type": "Feature",
     "properties": {"kind": "roughness", "manning": 0.08},
     "geometry": {"type": "Polygon", "coordinates": [[[20,0],[30,0],[30,10],[20,0]]]}},
    {"type": "Feature",
     "properties": {"name": "inflow", "type": "QFIX", "value": 2.5},
     "geometry": {"type": "LineString", "coordinates": [[0,50],[10,50]]}},
    {"type": "Feature",
     "properties": {"type": "HFIX", "value": 1, "active": false},
     "geometry": {"type": "Point", "coordinates": [5,5]}},
    {"type": "Feature", "properties": {}, "geometry": null}
  ]
}`

func TestReadGeoJSON(t *testing.T) {
	l, err := ReadGeoJSON([]byte(siteGeoJSON), "")
	if err != nil {
		t.Fatalf("ReadGeoJSON: %v", err)
	}

	if len(l.Buildings) != 1 {
		t.Fatalf("buildings = %d, want 1", len(l.Buildings))
	}
	b := l.Buildings[0]
	if b.Properties.Name != "hall" || b.Properties.BurnHeight() != 12.5 {
		t.Errorf("building properties = %+v", b.Properties)
	}
	if b.Properties.Kind != KindBuilding {
		t.Errorf("building kind = %q", b.Properties.Kind)
	}

	if len(l.Roughness) != 1 {
		t.Fatalf("roughness = %d, want 1", len(l.Roughness))
	}
	if n, ok := l.Roughness[0].Properties.FrictionValue(); !ok || n != 0.08 {
		t.Errorf("friction = %v, %v", n, ok)
	}

	if len(l.Boundaries) != 2 {
		t.Fatalf("boundaries = %d, want 2", len(l.Boundaries))
	}
	in := l.Boundaries[0]
	if in.Name != "inflow" || in.Type != "QFIX" || in.Value != 2.5 || !in.Active {
		t.Errorf("inflow = %+v", in)
	}
	if in.Geometry.Type != geom.TypeLineString {
		t.Errorf("inflow geometry = %s", in.Geometry.Type)
	}
	pt := l.Boundaries[1]
	if pt.Name != DefaultBoundaryName {
		t.Errorf("default name = %q", pt.Name)
	}
	if pt.Active {
		t.Error("active=false should be honored")
	}

	if l.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", l.Skipped)
	}
}

func TestReadGeoJSONMultiParts(t *testing.T) {
	doc := `{"type": "Feature", "properties": {"height": 5},
	  "geometry": {"type": "MultiPolygon", "coordinates": [
	    [[[0,0],[1,0],[1,1],[0,0]]],
	    [[[5,5],[6,5],[6,6],[5,5]], [[5.2,5.2],[5.4,5.2],[5.4,5.4],[5.2,5.2]]]
	  ]}}`

	l, err := ReadGeoJSON([]byte(doc), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Buildings) != 2 {
		t.Fatalf("buildings = %d, want 2", len(l.Buildings))
	}
	if got := len(l.Buildings[1].Geometry.Coordinates); got != 4 {
		t.Errorf("second polygon ring = %d points, want outer ring only (4)", got)
	}

	lines := `{"type": "MultiLineString", "coordinates": [[[0,0],[1,1]], [[2,2],[3,3]]]}`
	l, err = ReadGeoJSON([]byte(lines), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Boundaries) != 2 {
		t.Errorf("bare multilinestring boundaries = %d, want 2", len(l.Boundaries))
	}
}

func TestReadGeoJSONTypeProperty(t *testing.T) {
	polygon := `{"type":"Polygon","coordinates":[[[0,0],[4,0],[4,4],[0,4],[0,0]]]}`
	tests := []struct {
		name      string
		props     string
		buildings int
		bounds    int
		roughness int
	}{
		{"boundary upper", `{"type":"BOUNDARY","value":2}`, 0, 1, 0},
		{"boundary lower", `{"type":"boundary"}`, 0, 1, 0},
		{"outflow", `{"type":"OUTFLOW","value":1}`, 0, 1, 0},
		{"solver type", `{"type":"QFIX","value":1}`, 0, 1, 0},
		{"building", `{"type":"Building","height":4}`, 1, 0, 0},
		{"building wins over manning", `{"type":"BUILDING","manning":0.1}`, 1, 0, 0},
		{"kind wins over type", `{"kind":"roughness","type":"BOUNDARY","manning":0.1}`, 0, 0, 1},
		{"untyped", `{}`, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"type":"Feature","properties":` + tt.props + `,"geometry":` + polygon + `}`
			l, err := ReadGeoJSON([]byte(doc), "")
			if err != nil {
				t.Fatal(err)
			}
			if len(l.Buildings) != tt.buildings || len(l.Boundaries) != tt.bounds || len(l.Roughness) != tt.roughness {
				t.Errorf("got %d buildings, %d boundaries, %d roughness; want %d, %d, %d",
					len(l.Buildings), len(l.Boundaries), len(l.Roughness), tt.buildings, tt.bounds, tt.roughness)
			}
		})
	}
}

func TestReadGeoJSONOutflowPolygonSign(t *testing.T) {
	doc := `{"type":"Feature","properties":{"name":"weir","type":"OUTFLOW","value":3},
	  "geometry":{"type":"Polygon","coordinates":[[[0,0],[4,0],[4,4],[0,0]]]}}`
	l, err := ReadGeoJSON([]byte(doc), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Boundaries) != 1 {
		t.Fatalf("boundaries = %d, want 1", len(l.Boundaries))
	}
	if got := l.Boundaries[0].SignedValue(); got != -3 {
		t.Errorf("SignedValue() = %v, want -3", got)
	}
}

func TestReadGeoJSONCollectionAndElevation(t *testing.T) {
	doc := `{"type":"Feature","properties":{"type":"QFIX","value":1},
	  "geometry":{"type":"GeometryCollection","geometries":[
	    {"type":"Point","coordinates":[1,2,35.5]},
	    {"type":"LineString","coordinates":[[0,0,10],[5,5,12]]}
	  ]}}`
	l, err := ReadGeoJSON([]byte(doc), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Boundaries) != 2 {
		t.Fatalf("boundaries = %d, want 2", len(l.Boundaries))
	}
	if got := l.Boundaries[0].Geometry; got.Type != geom.TypePoint || got.Coordinates[0] != (geom.Point{X: 1, Y: 2}) {
		t.Errorf("point = %+v", got)
	}
	if got := l.Boundaries[1].Geometry.Coordinates; len(got) != 2 || got[1] != (geom.Point{X: 5, Y: 5}) {
		t.Errorf("line = %+v", got)
	}
}

func TestReadGeoJSONForceKind(t *testing.T) {
	doc := `{"type": "Feature", "properties": {"value": 3},
	  "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}}`

	l, err := ReadGeoJSON([]byte(doc), KindBoundary)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Boundaries) != 1 || len(l.Buildings) != 0 {
		t.Errorf("forced boundary: %d boundaries, %d buildings", len(l.Boundaries), len(l.Buildings))
	}
}

func TestReadGeoJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		kind    string
		wantErr string
	}{
		{"Malformed", `{`, "", "decode geojson"},
		{"MissingType", `{}`, "", "missing type"},
		{"UnknownKind", `{"type":"Feature","properties":{"kind":"tree"},"geometry":{"type":"Point","coordinates":[0,0]}}`, "", "unknown feature kind"},
		{"LineBuilding", `{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}}`, KindBuilding, "must be a polygon"},
		{"Unsupported", `{"type":"Feature","geometry":{"type":"Circle","coordinates":[0,0]}}`, "", "unsupported geometry"},
		{"EmptyPolygon", `{"type":"Feature","geometry":{"type":"Polygon","coordinates":[]}}`, "", "invalid geometry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGeoJSON([]byte(tt.doc), tt.kind)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLayersMerge(t *testing.T) {
	a, err := ReadGeoJSON([]byte(siteGeoJSON), "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ReadGeoJSON([]byte(siteGeoJSON), "")
	if err != nil {
		t.Fatal(err)
	}
	a.Merge(b)
	if len(a.Buildings) != 2 || len(a.Boundaries) != 4 || a.Skipped != 2 {
		t.Errorf("merged = %d buildings, %d boundaries, %d skipped", len(a.Buildings), len(a.Boundaries), a.Skipped)
	}
}
