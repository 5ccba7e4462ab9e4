package boundary

import (
	"bytes"
	"fmt"
)

// RainFile is the artifact name of the rainfall series.
const RainFile = "rain.txt"

// RainPoint is one sample of a hyetograph: Time in seconds from the start of
// the run, Intensity in mm/h.
type RainPoint struct {
	Time      float64 `json:"time" toml:"time" yaml:"time" validate:"gte=0"`
	Intensity float64 `json:"intensity" toml:"intensity" yaml:"intensity" validate:"gte=0"`
}

// MMHToMS converts a rain intensity from mm/h to m/s.
func MMHToMS(mmh float64) float64 { return mmh / 1000.0 / 3600.0 }

// PrepareRain renders a constant rain pulse of intensity mm/h lasting
// duration seconds. duration <= 0 selects DefaultDuration.
func PrepareRain(intensity, duration float64) []byte {
	if duration <= 0 {
		duration = DefaultDuration
	}
	v := MMHToMS(intensity)
	return fmt.Appendf(nil, "2\n0.0\t%.8f\n%.1f\t%.8f\n", v, duration, v)
}

// PrepareRainSeries renders a hyetograph with one row per point, in the
// order given. Intensities are in mm/h.
func PrepareRainSeries(points []RainPoint) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d\n", len(points))
	for _, p := range points {
		fmt.Fprintf(&buf, "%.1f\t%.8f\n", p.Time, MMHToMS(p.Intensity))
	}
	return buf.Bytes()
}
