package frame

import (
	"math"
	"testing"
)

func TestFrameID(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"res-0012.wd.asc", 12},
		{"results/res-0003.wd.asc", 3},
		{"/tmp/run7/res-0100.wd.asc", 100},
		{"res.wd.asc", 0},
		{"flood2-res-0005.wd.asc", 2},
	}
	for _, tt := range tests {
		if got := FrameID(tt.in); got != tt.want {
			t.Errorf("FrameID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIsDepthFile(t *testing.T) {
	tests := []struct {
		path, root string
		want       bool
	}{
		{"results/res-0001.wd.asc", "", true},
		{"res-0001.wd.asc", "res", true},
		{"res-0001.wdfp.asc", "", false},
		{"res-0001.elev", "", false},
		{"sim-0001.wd.asc", "", false},
		{"sim-0001.wd.asc", "sim", true},
		{"res.wd.asc", "", false},
	}
	for _, tt := range tests {
		if got := IsDepthFile(tt.path, tt.root); got != tt.want {
			t.Errorf("IsDepthFile(%q, %q) = %v, want %v", tt.path, tt.root, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	f := Decode([]byte("ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 2\nNODATA_value -9999\n0 0.5\n1.5 0.005\n"))
	s := Summarize(f, 0)

	if s.WetCells != 2 || s.WetArea != 8 || s.MaxDepth != 1.5 {
		t.Errorf("Summary = %+v", s)
	}
	if math.Abs(s.Volume-8) > 1e-9 || math.Abs(s.MeanDepth-1) > 1e-9 {
		t.Errorf("Volume/Mean = %v/%v, want 8/1", s.Volume, s.MeanDepth)
	}
	if math.Abs(s.StdDepth-math.Sqrt(0.5)) > 1e-9 {
		t.Errorf("StdDepth = %v, want %v", s.StdDepth, math.Sqrt(0.5))
	}
}

func TestSummarizeEdgeCases(t *testing.T) {
	if s := Summarize(&Frame{}, 0); s != (Summary{}) {
		t.Errorf("invalid frame summary = %+v", s)
	}
	if s := Summarize(nil, 0); s != (Summary{}) {
		t.Errorf("nil frame summary = %+v", s)
	}

	dry := Decode([]byte("ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\nNODATA_value -9999\n0\n"))
	if s := Summarize(dry, 0); s.WetCells != 0 || s.Volume != 0 {
		t.Errorf("dry summary = %+v", s)
	}

	single := Decode([]byte("ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\nNODATA_value -9999\n2\n"))
	if s := Summarize(single, 0); s.MeanDepth != 2 || s.StdDepth != 0 {
		t.Errorf("single summary = %+v", s)
	}
}
