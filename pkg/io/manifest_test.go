package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/floodprep/pkg/errors"
	"github.com/matzehuels/floodprep/pkg/geom"
)

const pointsXYZ = "0 0 1\n1 0 1\n0 1 1\n1 1 1\n"

const tomlManifest = `
name = "riverside"
xyz = "data/points.xyz"
features = ["site.geojson"]

[rain]
intensity = 25.0

[options]
rescue_radius = 5

[[boundary]]
name = "outlet"
type = "FREE_OUT"
value = 0.5
points = [[1.0, 0.0]]

[[boundary]]
name = "bank"
type = "QFIX"
value = 1.0
active = false
points = [[0.0, 0.0], [1.0, 0.0]]

[par]
sim_time = 7200
`

const yamlManifest = `
xyz: data/points.xyz
features: [site.geojson]
rain:
  series:
    - {time: 0, intensity: 10}
    - {time: 600, intensity: 0}
par:
  saveint: 60
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadManifestTOML(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"run.toml":        tomlManifest,
		"data/points.xyz": pointsXYZ,
		"site.geojson":    siteGeoJSON,
	})

	s, err := LoadManifest(filepath.Join(dir, "run.toml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if s.Name != "riverside" {
		t.Errorf("Name = %q", s.Name)
	}
	if string(s.XYZ) != pointsXYZ {
		t.Errorf("XYZ = %q", s.XYZ)
	}
	if s.Rain == nil || s.Rain.Intensity != 25 {
		t.Errorf("Rain = %+v", s.Rain)
	}
	if s.Options.RescueRadius != 5 {
		t.Errorf("RescueRadius = %d", s.Options.RescueRadius)
	}
	if len(s.Buildings) != 1 || len(s.Roughness) != 1 {
		t.Errorf("layers = %d buildings, %d roughness", len(s.Buildings), len(s.Roughness))
	}

	// two from the GeoJSON file, two inline
	if len(s.Boundaries) != 4 {
		t.Fatalf("boundaries = %d, want 4", len(s.Boundaries))
	}
	outlet := s.Boundaries[2]
	if outlet.Geometry.Type != geom.TypePoint || !outlet.Active || !outlet.IsOutflow() {
		t.Errorf("outlet = %+v", outlet)
	}
	bank := s.Boundaries[3]
	if bank.Geometry.Type != geom.TypeLineString || bank.Active {
		t.Errorf("bank = %+v", bank)
	}
	if v, ok := s.Par["sim_time"].(int64); !ok || v != 7200 {
		t.Errorf("par sim_time = %#v", s.Par["sim_time"])
	}
}

func TestLoadManifestYAML(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"flood.yml":       yamlManifest,
		"data/points.xyz": pointsXYZ,
		"site.geojson":    siteGeoJSON,
	})

	s, err := LoadManifest(filepath.Join(dir, "flood.yml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if s.Name != "flood" {
		t.Errorf("Name should default to the file stem, got %q", s.Name)
	}
	if s.Rain == nil || len(s.Rain.Series) != 2 || s.Rain.Series[1].Time != 600 {
		t.Errorf("Rain = %+v", s.Rain)
	}
	if len(s.Buildings) != 1 || len(s.Boundaries) != 2 {
		t.Errorf("layers = %d buildings, %d boundaries", len(s.Buildings), len(s.Boundaries))
	}
}

func TestLoadManifestJSON(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"run.json": `{"name": "j", "xyz": "p.xyz", "options": {"gap_fill_passes": 2}}`,
		"p.xyz":    pointsXYZ,
	})

	s, err := LoadManifest(filepath.Join(dir, "run.json"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if s.Options.GapFillPasses != 2 {
		t.Errorf("GapFillPasses = %d", s.Options.GapFillPasses)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"bad.toml":     "name = [",
		"noxyz.toml":   `name = "x"`,
		"missing.toml": `xyz = "nope.xyz"`,
		"run.ini":      "",
	})

	tests := []struct {
		file string
		code errors.Code
	}{
		{"bad.toml", errors.ErrCodeInvalidManifest},
		{"noxyz.toml", errors.ErrCodeInvalidManifest},
		{"missing.toml", errors.ErrCodeFileNotFound},
		{"run.ini", errors.ErrCodeUnsupported},
		{"absent.toml", errors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := LoadManifest(filepath.Join(dir, tt.file))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.toml", FormatTOML},
		{"a.TOML", FormatTOML},
		{"a.yaml", FormatYAML},
		{"a.yml", FormatYAML},
		{"dir/a.json", FormatJSON},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestLoadManifestForcedKindMismatch(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"run.toml":     "xyz = \"p.xyz\"\nbuildings = \"site.geojson\"\n",
		"p.xyz":        pointsXYZ,
		"site.geojson": siteGeoJSON,
	})

	_, err := LoadManifest(filepath.Join(dir, "run.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("err = %v, want INVALID_MANIFEST for lines in a buildings layer", err)
	}
}
