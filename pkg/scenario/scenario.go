package scenario

import (
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/floodprep/pkg/boundary"
	"github.com/matzehuels/floodprep/pkg/errors"
	"github.com/matzehuels/floodprep/pkg/geom"
	"github.com/matzehuels/floodprep/pkg/raster"
)

// Scenario is the complete input of one compilation.
//
// Exactly one of XYZ and Grid must be set. Grid data is never modified.
type Scenario struct {
	Name       string           `json:"name,omitempty" validate:"max=128"`
	XYZ        []byte           `json:"xyz,omitempty"`
	Grid       *raster.Grid     `json:"grid,omitempty"`
	Buildings  []raster.Feature `json:"buildings,omitempty" validate:"dive"`
	Roughness  []raster.Feature `json:"roughness,omitempty" validate:"dive"`
	Rain       *Rain            `json:"rain,omitempty"`
	Boundaries []boundary.Spec  `json:"boundaries,omitempty" validate:"dive"`
	Options    Options          `json:"options"`
	Par        map[string]any   `json:"par,omitempty"`
}

// Rain is either a steady pulse (Intensity for Duration seconds) or, when
// Series is non-empty, a hyetograph. Series takes precedence.
type Rain struct {
	Intensity float64              `json:"intensity,omitempty" toml:"intensity" yaml:"intensity" validate:"gte=0"`
	Duration  float64              `json:"duration,omitempty" toml:"duration" yaml:"duration" validate:"gte=0"`
	Series    []boundary.RainPoint `json:"series,omitempty" toml:"series" yaml:"series" validate:"dive"`
}

// IsZero reports whether r produces no rain file.
func (r *Rain) IsZero() bool {
	return r == nil || (len(r.Series) == 0 && r.Intensity <= 0)
}

// Options tune the compilation. Zero values select defaults.
type Options struct {
	GapFillPasses    int     `json:"gap_fill_passes,omitempty" toml:"gap_fill_passes" yaml:"gap_fill_passes" validate:"gte=0,lte=64"`
	DefaultRoughness float64 `json:"default_roughness,omitempty" toml:"default_roughness" yaml:"default_roughness" validate:"gte=0,lte=1"`
	RescueRadius     int     `json:"rescue_radius,omitempty" toml:"rescue_radius" yaml:"rescue_radius" validate:"gte=0,lte=1000"`
}

// SetDefaults fills unset options.
func (o *Options) SetDefaults() {
	if o.GapFillPasses <= 0 {
		o.GapFillPasses = 1
	}
	if o.DefaultRoughness <= 0 {
		o.DefaultRoughness = raster.DefaultRoughness
	}
	if o.RescueRadius <= 0 {
		o.RescueRadius = boundary.DefaultRescueRadius
	}
}

var validate = validator.New()

// Validate checks s without compiling it.
func (s *Scenario) Validate() error {
	if s == nil {
		return errors.New(errors.ErrCodeInvalidScenario, "scenario is nil")
	}
	if err := validate.Struct(s); err != nil {
		return errors.FromValidation(errors.ErrCodeInvalidScenario, err, "scenario")
	}

	switch {
	case len(s.XYZ) == 0 && s.Grid == nil:
		return errors.New(errors.ErrCodeInvalidScenario, "no terrain: set xyz or grid")
	case len(s.XYZ) > 0 && s.Grid != nil:
		return errors.New(errors.ErrCodeInvalidScenario, "ambiguous terrain: set only one of xyz and grid")
	case s.Grid != nil:
		if err := s.Grid.Check(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGrid, err, "supplied grid")
		}
	}

	if s.Rain != nil {
		for i := 1; i < len(s.Rain.Series); i++ {
			if s.Rain.Series[i].Time < s.Rain.Series[i-1].Time {
				return errors.New(errors.ErrCodeInvalidScenario, "rain series time goes backwards at point %d", i)
			}
		}
	}

	for i, b := range s.Boundaries {
		if b.Active && b.Geometry.IsEmpty() {
			return errors.New(errors.ErrCodeInvalidScenario, "boundary %d (%s) has no coordinates", i, b.DisplayName())
		}
	}

	for key := range s.Par {
		if !validParKey(key) {
			return errors.New(errors.ErrCodeInvalidScenario, "invalid parameter name %q", key)
		}
	}
	return nil
}

// terrain returns the elevation grid before burning.
func (s *Scenario) terrain(passes int) (*raster.Grid, error) {
	if s.Grid != nil {
		return s.Grid, nil
	}
	g, err := raster.FromXYZ(s.XYZ, passes)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGrid, err, "synthesize terrain")
	}
	return g, nil
}

// BoundaryCount returns the number of active boundaries.
func (s *Scenario) BoundaryCount() int {
	n := 0
	for _, b := range s.Boundaries {
		if b.Active {
			n++
		}
	}
	return n
}

// buildingCount returns the number of polygon footprints.
func buildingCount(fs []raster.Feature) int {
	n := 0
	for _, f := range fs {
		if f.Geometry.Type == geom.TypePolygon {
			n++
		}
	}
	return n
}
