package boundary

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/floodprep/pkg/geom"
)

const nd = float32(geom.NoData)

// grid returns an ncols x nrows DEM of ones whose cell centers sit on
// integer world coordinates.
func grid(ncols, nrows int) ([]float32, geom.Header) {
	h := geom.Header{NCols: ncols, NRows: nrows, CellSize: 1, XLLCorner: -0.5, YLLCorner: -0.5, NoData: geom.NoData}
	dem := make([]float32, h.Len())
	for i := range dem {
		dem[i] = 1
	}
	return dem, h
}

func pt(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }

func rect(x0, y0, x1, y1 float64) geom.Geometry {
	return geom.NewPolygon(pt(x0, y0), pt(x1, y0), pt(x1, y1), pt(x0, y1), pt(x0, y0))
}

func TestCompileFluxConservation(t *testing.T) {
	dem, h := grid(6, 6)
	specs := []Spec{
		{Name: "river", Type: "INFLOW", Geometry: geom.NewLineString(pt(0, 2), pt(4, 2)), Value: 10, Active: true},
		{Name: "pond", Type: "inflow", Geometry: rect(0.5, 0.5, 3.5, 2.5), Value: 7, Active: true},
		{Name: "weir", Type: "OUTFLOW", Geometry: geom.NewPoint(5, 5), Value: 4, Active: true},
	}
	res, err := (&Compiler{}).Compile(specs, h, dem)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if len(res.Resolved) != 3 {
		t.Fatalf("resolved %d boundaries, want 3", len(res.Resolved))
	}

	for i, want := range []float64{10, 7, -4} {
		r := res.Resolved[i]
		if got := r.Total(); math.Abs(got-want) > 1e-9 {
			t.Errorf("%s total = %v, want %v", r.Name, got, want)
		}
	}
	if n := len(res.Resolved[0].Cells); n != 5 {
		t.Errorf("river cells = %d, want 5", n)
	}
	if n := len(res.Resolved[1].Cells); n != 6 {
		t.Errorf("pond cells = %d, want 6", n)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestCompileEmit(t *testing.T) {
	dem, h := grid(3, 4)
	specs := []Spec{
		{Type: "INFLOW", Geometry: geom.NewPoint(1, 0), Value: 3, Active: true},
		{Name: "off", Geometry: geom.NewPoint(0, 0), Value: 1},
	}
	res, err := (&Compiler{}).Compile(specs, h, dem)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	if got, want := string(res.BDY), "Boundary\nP 1 3 bc_0.txt\n"; got != want {
		t.Errorf("BDY = %q, want %q", got, want)
	}
	if len(res.Series) != 1 {
		t.Fatalf("series files = %d, want 1", len(res.Series))
	}
	if got, want := string(res.Series["bc_0.txt"]), "2\n0.0 3.00000000\n3600.0 3.00000000\n"; got != want {
		t.Errorf("bc_0.txt = %q, want %q", got, want)
	}
}

func TestCompileTopDownLookup(t *testing.T) {
	dem, h := grid(3, 4)
	// Top raster row (world y=3) is NoData; the point sits on the valid
	// bottom row. A lookup with an unconverted row would hit the void.
	for col := 0; col < 3; col++ {
		dem[h.Index(col, 0)] = nd
	}
	specs := []Spec{{Geometry: geom.NewPoint(1, 0), Value: 1, Active: true}}
	res, err := (&Compiler{}).Compile(specs, h, dem)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("valid cell was rescued: %v", res.Warnings)
	}
	if got := res.Resolved[0].Cells[0]; got != (geom.Cell{Col: 1, Row: 3}) {
		t.Errorf("cell = %v, want (1,3)", got)
	}
}

func TestCompileRescue(t *testing.T) {
	dem, h := grid(5, 5)
	dem[h.Index(2, 2)] = nd

	specs := []Spec{{Name: "inlet", Geometry: geom.NewPoint(2, 2), Value: 2, Active: true}}
	res, err := (&Compiler{}).Compile(specs, h, dem)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if len(res.Resolved) != 1 {
		t.Fatalf("resolved = %d, want 1", len(res.Resolved))
	}
	if got := res.Resolved[0].Cells; len(got) != 1 || got[0] != (geom.Cell{Col: 1, Row: 1}) {
		t.Errorf("cells = %v, want [(1,1)]", got)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != WarnRelocated {
		t.Fatalf("warnings = %v, want one relocation", res.Warnings)
	}
	if w := res.Warnings[0]; w.From != (geom.Cell{Col: 2, Row: 2}) || w.To != (geom.Cell{Col: 1, Row: 1}) {
		t.Errorf("warning = %+v", w)
	}
}

func TestCompileRescueRadius(t *testing.T) {
	dem, h := grid(9, 9)
	for i := range dem {
		dem[i] = nd
	}
	dem[h.Index(8, 8)] = 1

	specs := []Spec{{Geometry: geom.NewPoint(4, 4), Value: 1, Active: true}}
	res, _ := (&Compiler{RescueRadius: 3}).Compile(specs, h, dem)
	if !res.Empty() {
		t.Errorf("radius 3 should not reach (8,8), got %v", res.Resolved)
	}
	res, _ = (&Compiler{RescueRadius: 4}).Compile(specs, h, dem)
	if res.Empty() || res.Resolved[0].Cells[0] != (geom.Cell{Col: 8, Row: 8}) {
		t.Errorf("radius 4 should reach (8,8), got %v", res.Resolved)
	}
}

func TestCompileCentroidRescue(t *testing.T) {
	dem, h := grid(7, 7)
	for row := 2; row <= 4; row++ {
		for col := 2; col <= 4; col++ {
			dem[h.Index(col, row)] = nd
		}
	}
	specs := []Spec{{Name: "basin", Geometry: rect(1.5, 1.5, 4.5, 4.5), Value: 9, Active: true}}
	res, err := (&Compiler{}).Compile(specs, h, dem)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if len(res.Resolved) != 1 {
		t.Fatalf("resolved = %d, want 1", len(res.Resolved))
	}
	r := res.Resolved[0]
	if len(r.Cells) != 1 || r.Cells[0] != (geom.Cell{Col: 1, Row: 1}) || r.FlowPerCell != 9 {
		t.Errorf("resolved = %+v, want 9 m3/s at (1,1)", r)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != WarnCentroidRescue {
		t.Errorf("warnings = %v, want one centroid rescue", res.Warnings)
	}
}

func TestCompileDropped(t *testing.T) {
	dem, h := grid(4, 4)
	for i := range dem {
		dem[i] = nd
	}
	dem[h.Index(0, 0)] = 1

	specs := []Spec{
		{Name: "lost", Geometry: geom.NewPoint(100, 100), Value: 1, Active: true},
		{Name: "kept", Geometry: geom.NewPoint(0, 3), Value: 1, Active: true},
	}
	res, err := (&Compiler{}).Compile(specs, h, dem)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if len(res.Resolved) != 1 || res.Resolved[0].Name != "kept" || res.Resolved[0].SeriesFile != "bc_0.txt" {
		t.Errorf("resolved = %+v, want only kept as bc_0.txt", res.Resolved)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != WarnDropped || res.Warnings[0].Boundary != "lost" {
		t.Errorf("warnings = %v, want lost dropped", res.Warnings)
	}
}

func TestCompileOffGridPolygon(t *testing.T) {
	dem, h := grid(4, 4)
	specs := []Spec{
		{Name: "wrong units", Geometry: rect(1000, 1000, 31000, 31000), Value: 3, Active: true},
		{Name: "overhang", Geometry: rect(-100, -100, 1.5, 1.5), Value: 4, Active: true},
	}
	res, err := (&Compiler{}).Compile(specs, h, dem)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	if len(res.Warnings) != 1 || res.Warnings[0].Kind != WarnDropped || res.Warnings[0].Boundary != "wrong units" {
		t.Fatalf("warnings = %v, want wrong units dropped", res.Warnings)
	}
	if len(res.Resolved) != 1 || res.Resolved[0].Name != "overhang" {
		t.Fatalf("resolved = %+v, want only overhang", res.Resolved)
	}
	if n := len(res.Resolved[0].Cells); n != 4 {
		t.Errorf("overhang cells = %d, want the 4 in-grid cells", n)
	}
	for _, c := range res.Resolved[0].Cells {
		if !h.InBounds(c.Col, c.Row) {
			t.Errorf("cell %v outside grid", c)
		}
	}
}

func TestCompileAllDropped(t *testing.T) {
	dem, h := grid(3, 3)
	for i := range dem {
		dem[i] = nd
	}
	specs := []Spec{{Geometry: geom.NewLineString(pt(0, 0), pt(2, 0)), Value: 1, Active: true}}
	res, err := (&Compiler{}).Compile(specs, h, dem)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if !res.Empty() || len(res.BDY) != 0 || res.Series != nil {
		t.Errorf("result = %+v, want empty", res)
	}
}

func TestCompileSubCellPolygon(t *testing.T) {
	dem, h := grid(4, 4)
	specs := []Spec{{Geometry: rect(1.1, 1.1, 1.3, 1.3), Value: 5, Active: true}}
	res, err := (&Compiler{}).Compile(specs, h, dem)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	// Centroid (1.2, 1.2) snaps to bottom-up (1,1), top-down (1,2).
	if got := res.Resolved[0].Cells; len(got) != 1 || got[0] != (geom.Cell{Col: 1, Row: 2}) {
		t.Errorf("cells = %v, want [(1,2)]", got)
	}
}

func TestCompileGridMismatch(t *testing.T) {
	_, h := grid(3, 3)
	if _, err := (&Compiler{}).Compile(nil, h, make([]float32, 4)); !errors.Is(err, ErrGridMismatch) {
		t.Errorf("error = %v, want ErrGridMismatch", err)
	}
}

func TestSpecSignedValue(t *testing.T) {
	tests := []struct {
		typ   string
		value float64
		want  float64
	}{
		{"INFLOW", 5, 5},
		{"INFLOW", -5, 5},
		{"OUTFLOW", 5, -5},
		{"free_outfall", 5, -5},
		{"", 2, 2},
	}
	for _, tt := range tests {
		s := Spec{Type: tt.typ, Value: tt.value}
		if got := s.SignedValue(); got != tt.want {
			t.Errorf("SignedValue(%q, %v) = %v, want %v", tt.typ, tt.value, got, tt.want)
		}
	}
}

func TestCompileZeroOutflow(t *testing.T) {
	dem, h := grid(2, 2)
	specs := []Spec{{Type: "OUT", Geometry: geom.NewPoint(0, 0), Active: true, Duration: 60}}
	res, _ := (&Compiler{}).Compile(specs, h, dem)
	if got, want := string(res.Series["bc_0.txt"]), "2\n0.0 0.00000000\n60.0 0.00000000\n"; got != want {
		t.Errorf("series = %q, want %q", got, want)
	}
}
