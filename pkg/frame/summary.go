package frame

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultWetThreshold is the depth in metres above which a cell counts as
// wet.
const DefaultWetThreshold = 0.01

// Summary condenses a depth frame.
type Summary struct {
	Frame     int     `json:"frame"`
	WetCells  int     `json:"wet_cells"`
	WetArea   float64 `json:"wet_area"`
	Volume    float64 `json:"volume"`
	MeanDepth float64 `json:"mean_depth"`
	StdDepth  float64 `json:"std_depth"`
	MaxDepth  float64 `json:"max_depth"`
	Unstable  bool    `json:"unstable"`
}

// Summarize computes wet-cell statistics for f. Cells deeper than
// threshold are wet; threshold <= 0 selects DefaultWetThreshold. Volume is
// the sum of wet depths times the cell area. An invalid frame yields a zero
// Summary.
func Summarize(f *Frame, threshold float64) Summary {
	if f == nil || !f.Valid {
		return Summary{}
	}
	if threshold <= 0 {
		threshold = DefaultWetThreshold
	}

	wet := make([]float64, 0, len(f.Data)/4)
	for _, v := range f.Data {
		if d := float64(v); d > threshold {
			wet = append(wet, d)
		}
	}

	s := Summary{WetCells: len(wet), Unstable: f.HasNegativeDepth}
	if len(wet) == 0 {
		return s
	}
	area := f.CellArea()
	s.WetArea = float64(len(wet)) * area
	s.Volume = floats.Sum(wet) * area
	s.MaxDepth = floats.Max(wet)
	if len(wet) > 1 {
		s.MeanDepth, s.StdDepth = stat.MeanStdDev(wet, nil)
	} else {
		s.MeanDepth = wet[0]
	}
	return s
}
