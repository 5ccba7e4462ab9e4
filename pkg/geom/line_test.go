package geom

import (
	"reflect"
	"testing"
)

func TestDiscretizeLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		want           []Cell
	}{
		{
			name: "diagonal",
			x0:   0, y0: 0, x1: 3, y1: 3,
			want: []Cell{{0, 0}, {1, 1}, {2, 2}, {3, 3}},
		},
		{
			name: "single cell",
			x0:   2, y0: 2, x1: 2, y1: 2,
			want: []Cell{{2, 2}},
		},
		{
			name: "horizontal reversed",
			x0:   3, y0: 1, x1: 0, y1: 1,
			want: []Cell{{3, 1}, {2, 1}, {1, 1}, {0, 1}},
		},
		{
			name: "rounds endpoints",
			x0:   0.4, y0: -0.4, x1: 2.5, y1: 0.2,
			want: []Cell{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
		},
		{
			name: "shallow slope",
			x0:   0, y0: 0, x1: 4, y1: 2,
			want: []Cell{{0, 0}, {1, 0}, {2, 1}, {3, 1}, {4, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscretizeLine(tt.x0, tt.y0, tt.x1, tt.y1)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DiscretizeLine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscretizeLineConnected(t *testing.T) {
	cells := DiscretizeLine(-3, 7, 11, -2)
	first, last := cells[0], cells[len(cells)-1]
	if first != (Cell{-3, 7}) || last != (Cell{11, -2}) {
		t.Fatalf("endpoints = %v, %v", first, last)
	}
	for i := 1; i < len(cells); i++ {
		dc, dr := abs(cells[i].Col-cells[i-1].Col), abs(cells[i].Row-cells[i-1].Row)
		if dc > 1 || dr > 1 || (dc == 0 && dr == 0) {
			t.Fatalf("step %d not 8-connected: %v -> %v", i, cells[i-1], cells[i])
		}
	}
}

func TestDiscretizePolyline(t *testing.T) {
	// Corner at (-0.5, -0.5) puts cell centers on integer coordinates.
	pts := []Point{{0, 0}, {3, 0}, {3, 2}, {0, 0}}
	got := DiscretizePolyline(pts, 1, -0.5, -0.5)

	seen := make(map[Cell]bool)
	for _, c := range got {
		if seen[c] {
			t.Fatalf("duplicate cell %v in %v", c, got)
		}
		seen[c] = true
	}

	wantPrefix := []Cell{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {3, 1}, {3, 2}}
	if !reflect.DeepEqual(got[:len(wantPrefix)], wantPrefix) {
		t.Errorf("prefix = %v, want %v", got[:len(wantPrefix)], wantPrefix)
	}
}

func TestDiscretizePolylineScaled(t *testing.T) {
	pts := []Point{{105, 205}, {125, 205}}
	got := DiscretizePolyline(pts, 10, 100, 200)
	want := []Cell{{0, 0}, {1, 0}, {2, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DiscretizePolyline() = %v, want %v", got, want)
	}
}

func TestDiscretizePolylineDegenerate(t *testing.T) {
	if got := DiscretizePolyline([]Point{{1, 1}}, 1, 0, 0); len(got) != 0 {
		t.Errorf("single point path should yield no cells, got %v", got)
	}
	if got := DiscretizePolyline(nil, 1, 0, 0); len(got) != 0 {
		t.Errorf("nil path should yield no cells, got %v", got)
	}
}
