package boundary

import (
	"fmt"
	"strings"

	"github.com/matzehuels/floodprep/pkg/geom"
)

// DefaultDuration is the series length in seconds when a Spec has none.
const DefaultDuration = 3600.0

// DefaultName labels boundaries that have no name.
const DefaultName = "Boundary"

// Spec describes one discharge boundary. Value is in m³/s and Duration in
// seconds.
type Spec struct {
	Name     string        `json:"name" toml:"name" yaml:"name"`
	Type     string        `json:"type" toml:"type" yaml:"type"`
	Geometry geom.Geometry `json:"geometry" toml:"-" yaml:"-"`
	Value    float64       `json:"value" toml:"value" yaml:"value"`
	Active   bool          `json:"active" toml:"active" yaml:"active"`
	Duration float64       `json:"duration,omitempty" toml:"duration" yaml:"duration" validate:"gte=0"`
}

// IsOutflow reports whether the boundary drains the domain.
func (s Spec) IsOutflow() bool {
	return strings.Contains(strings.ToUpper(s.Type), "OUT")
}

// SignedValue returns the discharge with the sign convention applied.
func (s Spec) SignedValue() float64 {
	v := s.Value
	if v < 0 {
		v = -v
	}
	if s.IsOutflow() {
		return -v
	}
	return v
}

// DisplayName returns Name, or DefaultName when it is empty.
func (s Spec) DisplayName() string {
	if s.Name == "" {
		return DefaultName
	}
	return s.Name
}

// SeriesDuration returns Duration, or DefaultDuration when it is unset.
func (s Spec) SeriesDuration() float64 {
	if s.Duration <= 0 {
		return DefaultDuration
	}
	return s.Duration
}

// Resolved is a boundary that survived validation.
type Resolved struct {
	Name        string      `json:"name"`
	Cells       []geom.Cell `json:"cells"` // top-down rows
	FlowPerCell float64     `json:"flow_per_cell"`
	SeriesFile  string      `json:"series_file"`
}

// Total returns the discharge carried by all cells together.
func (r Resolved) Total() float64 { return r.FlowPerCell * float64(len(r.Cells)) }

// WarningKind classifies a Warning.
type WarningKind string

// Warning kinds.
const (
	// WarnRelocated means a single invalid cell was moved to a valid neighbour.
	WarnRelocated WarningKind = "relocated"
	// WarnCentroidRescue means a polygon over NoData was snapped from its centroid.
	WarnCentroidRescue WarningKind = "centroid_rescue"
	// WarnDropped means no valid cell was found and the boundary was skipped.
	WarnDropped WarningKind = "dropped"
)

// Warning reports a degenerate boundary. From and To are top-down cells;
// To is zero for WarnDropped.
type Warning struct {
	Kind     WarningKind `json:"kind"`
	Boundary string      `json:"boundary"`
	From     geom.Cell   `json:"from"`
	To       geom.Cell   `json:"to"`
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnRelocated:
		return fmt.Sprintf("%s: moved from NoData cell (%d,%d) to (%d,%d)", w.Boundary, w.From.Col, w.From.Row, w.To.Col, w.To.Row)
	case WarnCentroidRescue:
		return fmt.Sprintf("%s: polygon covers only NoData, snapped centroid (%d,%d) to (%d,%d)", w.Boundary, w.From.Col, w.From.Row, w.To.Col, w.To.Row)
	case WarnDropped:
		return fmt.Sprintf("%s: dropped, no valid cell near (%d,%d)", w.Boundary, w.From.Col, w.From.Row)
	}
	return fmt.Sprintf("%s: %s", w.Boundary, w.Kind)
}
