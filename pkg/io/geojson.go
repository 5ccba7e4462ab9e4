package io

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/floodprep/pkg/boundary"
	"github.com/matzehuels/floodprep/pkg/geom"
	"github.com/matzehuels/floodprep/pkg/raster"
)

// DefaultBoundaryName names imported boundaries without a name property.
const DefaultBoundaryName = "Imported Boundary"

// Feature kinds recognized in the "kind" property.
const (
	KindBuilding  = "building"
	KindRoughness = "roughness"
	KindBoundary  = "boundary"
)

// Layers is the classified content of a GeoJSON document.
type Layers struct {
	Buildings  []raster.Feature
	Roughness  []raster.Feature
	Boundaries []boundary.Spec

	// Skipped counts features without usable geometry.
	Skipped int
}

// Merge appends the features of o to l.
func (l *Layers) Merge(o *Layers) {
	l.Buildings = append(l.Buildings, o.Buildings...)
	l.Roughness = append(l.Roughness, o.Roughness...)
	l.Boundaries = append(l.Boundaries, o.Boundaries...)
	l.Skipped += o.Skipped
}

type geoJSONObject struct {
	Type       string          `json:"type"`
	Features   []geoJSONObject `json:"features,omitempty"`
	Geometry   json.RawMessage `json:"geometry,omitempty"`
	Properties map[string]any  `json:"properties,omitempty"`
}

// ReadGeoJSON classifies the features of a GeoJSON document. forceKind, when
// non-empty, overrides every feature's kind.
func ReadGeoJSON(data []byte, forceKind string) (*Layers, error) {
	var doc geoJSONObject
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	var features []geoJSONObject
	switch doc.Type {
	case "FeatureCollection":
		features = doc.Features
	case "Feature":
		features = []geoJSONObject{doc}
	case "":
		return nil, fmt.Errorf("decode geojson: missing type")
	default:
		features = []geoJSONObject{{Type: "Feature", Geometry: data}}
	}

	layers := &Layers{}
	for i, f := range features {
		parts, err := geom.DecodeGeoJSON(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		if len(parts) == 0 {
			layers.Skipped++
			continue
		}
		for _, g := range parts {
			if err := layers.add(g, f.Properties, forceKind); err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
		}
	}
	return layers, nil
}

func (l *Layers) add(g geom.Geometry, props map[string]any, forceKind string) error {
	kind := strings.ToLower(forceKind)
	if kind == "" {
		kind = classify(g, props)
	}

	switch kind {
	case KindBuilding, KindRoughness:
		if g.Type != geom.TypePolygon {
			return fmt.Errorf("%s feature must be a polygon, got %s", kind, g.Type)
		}
		f := raster.Feature{Geometry: g, Properties: rasterProperties(props)}
		f.Properties.Kind = kind
		if kind == KindBuilding {
			l.Buildings = append(l.Buildings, f)
		} else {
			l.Roughness = append(l.Roughness, f)
		}
	case KindBoundary:
		l.Boundaries = append(l.Boundaries, boundarySpec(g, props))
	default:
		return fmt.Errorf("unknown feature kind %q", kind)
	}
	return nil
}

// classify picks a kind from the kind property, then from a BUILDING or
// BOUNDARY type property, then from the geometry. A polygon whose type names
// a solver boundary (QFIX, HVAR, OUTFLOW, ...) is a boundary.
func classify(g geom.Geometry, props map[string]any) string {
	if k, ok := stringProp(props, "kind"); ok && k != "" {
		return strings.ToLower(k)
	}
	typ, _ := stringProp(props, "type")
	switch typ = strings.ToUpper(typ); {
	case typ == "BUILDING" && g.Type == geom.TypePolygon:
		return KindBuilding
	case typ == "BOUNDARY", isBoundaryType(typ):
		return KindBoundary
	}
	if g.Type != geom.TypePolygon {
		return KindBoundary
	}
	if _, ok := floatProp(props, "manning"); ok {
		return KindRoughness
	}
	if _, ok := floatProp(props, "roughness"); ok {
		return KindRoughness
	}
	return KindBuilding
}

func isBoundaryType(typ string) bool {
	switch typ {
	case "QFIX", "QVAR", "HFIX", "HVAR", "FREE":
		return true
	}
	return strings.Contains(typ, "OUT")
}

func rasterProperties(props map[string]any) raster.Properties {
	var p raster.Properties
	p.Name, _ = stringProp(props, "name")
	if v, ok := floatProp(props, "height"); ok {
		p.Height = &v
	}
	if m, ok := stringProp(props, "elevation_mode"); ok {
		p.ElevationMode = raster.ElevationMode(strings.ToLower(m))
	}
	if v, ok := floatProp(props, "manning"); ok {
		p.Manning = &v
	}
	if v, ok := floatProp(props, "roughness"); ok {
		p.Roughness = &v
	}
	return p
}

func boundarySpec(g geom.Geometry, props map[string]any) boundary.Spec {
	s := boundary.Spec{Geometry: g, Active: true}
	s.Name, _ = stringProp(props, "name")
	if s.Name == "" {
		s.Name = DefaultBoundaryName
	}
	s.Type, _ = stringProp(props, "type")
	s.Value, _ = floatProp(props, "value")
	s.Duration, _ = floatProp(props, "duration")
	if v, ok := props["active"].(bool); ok {
		s.Active = v
	}
	return s
}

func stringProp(props map[string]any, key string) (string, bool) {
	switch v := props[key].(type) {
	case string:
		return strings.TrimSpace(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

// floatProp reads a number, accepting numeric strings as GIS tools often
// export attributes as text.
func floatProp(props map[string]any, key string) (float64, bool) {
	switch v := props[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
