package raster

import "github.com/matzehuels/floodprep/pkg/geom"

// DefaultBuildingHeight is the burn height used when a feature has none.
const DefaultBuildingHeight = 10.0

// DefaultRoughness is Manning's n for cells outside every roughness polygon.
const DefaultRoughness = 0.035

// ElevationMode selects how a building height combines with the terrain.
type ElevationMode string

// Elevation modes.
const (
	// ModeRelative adds the height to the existing terrain value.
	ModeRelative ElevationMode = "relative"
	// ModeAbsolute replaces the terrain value with the height.
	ModeAbsolute ElevationMode = "absolute"
)

// Feature is a geometry with the properties the synthesizer reads.
type Feature struct {
	Geometry   geom.Geometry `json:"geometry"`
	Properties Properties    `json:"properties"`
}

// Properties are the attributes of a building or roughness feature.
// Pointer fields distinguish "unset" from zero.
type Properties struct {
	Kind          string        `json:"kind,omitempty" toml:"kind" yaml:"kind"`
	Name          string        `json:"name,omitempty" toml:"name" yaml:"name"`
	Height        *float64      `json:"height,omitempty" toml:"height" yaml:"height"`
	ElevationMode ElevationMode `json:"elevation_mode,omitempty" toml:"elevation_mode" yaml:"elevation_mode" validate:"omitempty,oneof=relative absolute"`
	Manning       *float64      `json:"manning,omitempty" toml:"manning" yaml:"manning"`
	Roughness     *float64      `json:"roughness,omitempty" toml:"roughness" yaml:"roughness"`
}

// BurnHeight returns the building height, defaulting to DefaultBuildingHeight.
func (p Properties) BurnHeight() float64 {
	if p.Height == nil {
		return DefaultBuildingHeight
	}
	return *p.Height
}

// Mode returns the elevation mode, defaulting to ModeRelative.
func (p Properties) Mode() ElevationMode {
	if p.ElevationMode == "" {
		return ModeRelative
	}
	return p.ElevationMode
}

// FrictionValue returns the Manning coefficient, falling back to Roughness.
// ok is false when neither is set to a positive value.
func (p Properties) FrictionValue() (n float64, ok bool) {
	if p.Manning != nil && *p.Manning > 0 {
		return *p.Manning, true
	}
	if p.Roughness != nil && *p.Roughness > 0 {
		return *p.Roughness, true
	}
	return 0, false
}
