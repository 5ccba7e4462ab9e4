package geom

import (
	"encoding/json"
	"fmt"

	cgeom "github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
)

// geoJSONObject is a geometry object as it appears on the wire. Geometries is
// only set for a GeometryCollection.
type geoJSONObject struct {
	geojson.Geometry
	Geometries []json.RawMessage `json:"geometries,omitempty"`
}

// DecodeGeoJSON decodes a GeoJSON geometry object into simple geometries.
//
// Multi* geometries and GeometryCollection members are split into one part
// each, and polygons keep only their outer ring. Positions may carry an
// elevation or measure; only X and Y are read. A null geometry, or one with
// null coordinates, yields no parts.
func DecodeGeoJSON(data []byte) ([]Geometry, error) {
	obj, g, err := decodeGeoJSON(data)
	if err != nil || obj == nil {
		return nil, err
	}
	if obj.Type != "GeometryCollection" {
		return fromLib(g), nil
	}

	var parts []Geometry
	for i, member := range obj.Geometries {
		sub, err := DecodeGeoJSON(member)
		if err != nil {
			return nil, fmt.Errorf("geometry collection member %d: %w", i, err)
		}
		parts = append(parts, sub...)
	}
	return parts, nil
}

// decodeGeoJSON returns the wire object and, unless it is a collection or
// has null coordinates, the decoded library geometry.
func decodeGeoJSON(data []byte) (*geoJSONObject, cgeom.Geom, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil, nil
	}
	var obj geoJSONObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, nil, fmt.Errorf("geometry: %w", err)
	}
	if obj.Type == "GeometryCollection" || obj.Coordinates == nil {
		return &obj, nil, nil
	}

	obj.Coordinates = planar(obj.Coordinates)
	g, err := geojson.FromGeoJSON(&obj.Geometry)
	if err != nil {
		if obj.Type == "" {
			return nil, nil, fmt.Errorf("geometry: missing type")
		}
		return nil, nil, fmt.Errorf("%s geometry: %w", obj.Type, err)
	}
	return &obj, g, nil
}

// planar truncates every position in a decoded coordinates tree to [x, y].
func planar(v any) any {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return v
	}
	if _, isPos := arr[0].(float64); isPos {
		if len(arr) > 2 {
			return arr[:2]
		}
		return arr
	}
	for i := range arr {
		arr[i] = planar(arr[i])
	}
	return arr
}

func fromLib(g cgeom.Geom) []Geometry {
	var out []Geometry
	switch g := g.(type) {
	case cgeom.Point:
		out = append(out, NewPoint(g.X, g.Y))
	case cgeom.MultiPoint:
		for _, p := range g {
			out = append(out, NewPoint(p.X, p.Y))
		}
	case cgeom.LineString:
		out = appendPath(out, TypeLineString, cgeom.Path(g))
	case cgeom.MultiLineString:
		for _, l := range g {
			out = appendPath(out, TypeLineString, cgeom.Path(l))
		}
	case cgeom.Polygon:
		out = appendRing(out, g)
	case cgeom.MultiPolygon:
		for _, poly := range g {
			out = appendRing(out, poly)
		}
	}
	return out
}

func appendRing(out []Geometry, poly cgeom.Polygon) []Geometry {
	if len(poly) == 0 {
		return out
	}
	return appendPath(out, TypePolygon, poly[0])
}

func appendPath(out []Geometry, typ GeometryType, path cgeom.Path) []Geometry {
	if len(path) == 0 {
		return out
	}
	pts := make([]Point, len(path))
	for i, p := range path {
		pts[i] = Point(p)
	}
	return append(out, Geometry{Type: typ, Coordinates: pts})
}

func toPath(pts []Point) cgeom.Path {
	path := make(cgeom.Path, len(pts))
	for i, p := range pts {
		path[i] = cgeom.Point(p)
	}
	return path
}

// lib returns g as a library geometry, or nil when its type is unknown.
func (g Geometry) lib() cgeom.Geom {
	switch g.Type {
	case TypePoint:
		var p Point
		if len(g.Coordinates) > 0 {
			p = g.Coordinates[0]
		}
		return cgeom.Point(p)
	case TypeLineString:
		return cgeom.LineString(toPath(g.Coordinates))
	case TypePolygon:
		return cgeom.Polygon{toPath(g.Coordinates)}
	}
	return nil
}

// MarshalJSON encodes g as a GeoJSON geometry object. A geometry without a
// type encodes as null.
func (g Geometry) MarshalJSON() ([]byte, error) {
	if g.Type == "" {
		return []byte("null"), nil
	}
	lg := g.lib()
	if lg == nil {
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
	return geojson.Encode(lg)
}

// UnmarshalJSON decodes a GeoJSON Point, LineString or Polygon. Multi-part
// geometries are rejected; use DecodeGeoJSON to split them.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	obj, lg, err := decodeGeoJSON(data)
	if err != nil || obj == nil {
		return err
	}
	typ := GeometryType(obj.Type)
	switch typ {
	case TypePoint, TypeLineString, TypePolygon:
	default:
		return fmt.Errorf("unsupported geometry type %q", obj.Type)
	}

	*g = Geometry{Type: typ}
	if parts := fromLib(lg); len(parts) > 0 {
		g.Coordinates = parts[0].Coordinates
	}
	return nil
}
