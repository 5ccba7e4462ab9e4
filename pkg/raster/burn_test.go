package raster

import (
	"testing"

	"github.com/matzehuels/floodprep/pkg/geom"
)

func flatGrid(n int, v float32) ([]float32, geom.Header) {
	data := make([]float32, n*n)
	for i := range data {
		data[i] = v
	}
	h := geom.Header{NCols: n, NRows: n, CellSize: 1, XLLCorner: -0.5, YLLCorner: -0.5, NoData: geom.NoData}
	return data, h
}

func squareFeature(x0, y0, x1, y1 float64, props Properties) Feature {
	return Feature{
		Geometry:   geom.NewPolygon(geom.Point{X: x0, Y: y0}, geom.Point{X: x1, Y: y0}, geom.Point{X: x1, Y: y1}, geom.Point{X: x0, Y: y1}, geom.Point{X: x0, Y: y0}),
		Properties: props,
	}
}

func ptr(v float64) *float64 { return &v }

func TestBurnBuildings(t *testing.T) {
	base, h := flatGrid(4, 5)
	got := BurnBuildings(base, h, []Feature{squareFeature(0.5, 0.5, 2.5, 2.5, Properties{})})

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			want := float32(5)
			if col >= 1 && col <= 2 && row >= 1 && row <= 2 {
				want = 15
			}
			if v := got[h.Index(col, row)]; v != want {
				t.Errorf("cell (%d,%d) = %v, want %v", col, row, v, want)
			}
		}
	}
	for i, v := range base {
		if v != 5 {
			t.Fatalf("base[%d] mutated to %v", i, v)
		}
	}
}

func TestBurnBuildingsModes(t *testing.T) {
	tests := []struct {
		name     string
		features []Feature
		want     float32
	}{
		{
			name:     "RelativeHeight",
			features: []Feature{squareFeature(0.5, 0.5, 2.5, 2.5, Properties{Height: ptr(3)})},
			want:     8,
		},
		{
			name:     "Absolute",
			features: []Feature{squareFeature(0.5, 0.5, 2.5, 2.5, Properties{Height: ptr(42), ElevationMode: ModeAbsolute})},
			want:     42,
		},
		{
			name: "LastWriteWins",
			features: []Feature{
				squareFeature(0.5, 0.5, 2.5, 2.5, Properties{Height: ptr(20), ElevationMode: ModeAbsolute}),
				squareFeature(0.5, 0.5, 2.5, 2.5, Properties{Height: ptr(12), ElevationMode: ModeAbsolute}),
			},
			want: 12,
		},
		{
			name:     "IgnoresLines",
			features: []Feature{{Geometry: geom.NewLineString(geom.Point{X: 0, Y: 0}, geom.Point{X: 3, Y: 3})}},
			want:     5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, h := flatGrid(4, 5)
			got := BurnBuildings(base, h, tt.features)
			if v := got[h.Index(1, 1)]; v != tt.want {
				t.Errorf("cell (1,1) = %v, want %v", v, tt.want)
			}
		})
	}
}

func TestBurnBuildingsSkipsNoData(t *testing.T) {
	base, h := flatGrid(4, 5)
	base[h.Index(1, 1)] = float32(geom.NoData)
	got := BurnBuildings(base, h, []Feature{squareFeature(0.5, 0.5, 2.5, 2.5, Properties{})})
	if got[h.Index(1, 1)] != float32(geom.NoData) {
		t.Errorf("NoData cell burned to %v", got[h.Index(1, 1)])
	}
	if got[h.Index(2, 2)] != 15 {
		t.Errorf("cell (2,2) = %v, want 15", got[h.Index(2, 2)])
	}
}

func TestBurnBuildingsClampsToGrid(t *testing.T) {
	base, h := flatGrid(3, 0)
	got := BurnBuildings(base, h, []Feature{squareFeature(-10, -10, 10, 10, Properties{Height: ptr(1)})})
	for i, v := range got {
		if v != 1 {
			t.Errorf("cell %d = %v, want 1", i, v)
		}
	}
}

func TestRoughnessGrid(t *testing.T) {
	_, h := flatGrid(4, 0)
	features := []Feature{
		squareFeature(0.5, 0.5, 2.5, 2.5, Properties{Manning: ptr(0.1)}),
		squareFeature(-0.4, 2.6, 0.4, 3.4, Properties{Roughness: ptr(0.06)}),
		squareFeature(2.6, -0.4, 3.4, 0.4, Properties{}),
	}
	data := RoughnessGrid(h, features, 0)

	tests := []struct {
		col, row int
		want     float32
	}{
		{1, 1, 0.1},
		{2, 2, 0.1},
		{0, 0, 0.06},
		{3, 3, DefaultRoughness},
		{3, 0, DefaultRoughness},
	}
	for _, tt := range tests {
		if got := data[h.Index(tt.col, tt.row)]; got != tt.want {
			t.Errorf("cell (%d,%d) = %v, want %v", tt.col, tt.row, got, tt.want)
		}
	}
}

func TestRoughnessGridOffGrid(t *testing.T) {
	_, h := flatGrid(3, 0)
	features := []Feature{
		squareFeature(-1e6, -1e6, 1e6, 1e6, Properties{Manning: ptr(0.05)}),
		squareFeature(5e5, 5e5, 6e5, 6e5, Properties{Manning: ptr(0.2)}),
	}
	for i, v := range RoughnessGrid(h, features, 0) {
		if v != 0.05 {
			t.Errorf("cell %d = %v, want 0.05", i, v)
		}
	}
}

func TestRoughnessASCEmpty(t *testing.T) {
	_, h := flatGrid(2, 0)
	if text, ok := RoughnessASC(h, nil, 0.03); ok || text != nil {
		t.Errorf("RoughnessASC(nil) = %q, %v; want nil, false", text, ok)
	}
	if _, ok := RoughnessASC(h, []Feature{squareFeature(0, 0, 1, 1, Properties{})}, 0.03); !ok {
		t.Error("RoughnessASC should report true when features are present")
	}
}
