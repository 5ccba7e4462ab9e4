package geom

import (
	cgeom "github.com/ctessum/geom"
)

// Point is a planar world coordinate.
type Point struct {
	X, Y float64
}

// XYZ is an elevation sample.
type XYZ struct {
	X, Y, Z float64
}

// Cell addresses a raster cell. Whether Row counts from the top or the bottom
// depends on the producer; see the package documentation.
type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Bounds is an axis-aligned bounding box in world units.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// BoundsOf returns the bounding box of pts. The result is inverted
// (Min > Max) when pts is empty.
func BoundsOf(pts []Point) Bounds {
	return fromLibBounds(cgeom.LineString(toPath(pts)).Bounds())
}

// Empty reports whether b is inverted and so contains no point.
func (b Bounds) Empty() bool { return b.lib().Empty() }

// Intersect returns the overlap of b and o. ok is false when the boxes are
// disjoint or either is empty.
func (b Bounds) Intersect(o Bounds) (Bounds, bool) {
	if b.Empty() || o.Empty() || !b.lib().Overlaps(o.lib()) {
		return Bounds{}, false
	}
	return Bounds{
		MinX: max(b.MinX, o.MinX),
		MinY: max(b.MinY, o.MinY),
		MaxX: min(b.MaxX, o.MaxX),
		MaxY: min(b.MaxY, o.MaxY),
	}, true
}

func (b Bounds) lib() *cgeom.Bounds {
	return &cgeom.Bounds{Min: cgeom.Point{X: b.MinX, Y: b.MinY}, Max: cgeom.Point{X: b.MaxX, Y: b.MaxY}}
}

func fromLibBounds(b *cgeom.Bounds) Bounds {
	return Bounds{MinX: b.Min.X, MinY: b.Min.Y, MaxX: b.Max.X, MaxY: b.Max.Y}
}

// Centroid returns the mean of the ring vertices. A closing vertex equal to
// the first one is not counted twice.
func Centroid(ring []Point) Point {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	if n == 0 {
		return Point{}
	}
	var c Point
	for _, p := range ring[:n] {
		c.X += p.X
		c.Y += p.Y
	}
	return Point{X: c.X / float64(n), Y: c.Y / float64(n)}
}

// GeometryType names the supported geometry kinds.
type GeometryType string

// Supported geometry types.
const (
	TypePoint      GeometryType = "Point"
	TypeLineString GeometryType = "LineString"
	TypePolygon    GeometryType = "Polygon"
)

// Geometry is a single point, path or polygon outer ring.
//
// For TypePoint, Coordinates holds one point. Polygon holes are dropped on
// decode; only the outer ring takes part in rasterization.
type Geometry struct {
	Type        GeometryType `json:"type" validate:"oneof=Point LineString Polygon"`
	Coordinates []Point      `json:"coordinates"`
}

// NewPoint returns a point geometry.
func NewPoint(x, y float64) Geometry {
	return Geometry{Type: TypePoint, Coordinates: []Point{{X: x, Y: y}}}
}

// NewLineString returns a path geometry.
func NewLineString(pts ...Point) Geometry {
	return Geometry{Type: TypeLineString, Coordinates: pts}
}

// NewPolygon returns a polygon geometry with the given outer ring.
func NewPolygon(ring ...Point) Geometry {
	return Geometry{Type: TypePolygon, Coordinates: ring}
}

// IsEmpty reports whether g has no coordinates.
func (g Geometry) IsEmpty() bool { return len(g.Coordinates) == 0 }
