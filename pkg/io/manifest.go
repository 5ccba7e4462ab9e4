package io

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/floodprep/pkg/boundary"
	"github.com/matzehuels/floodprep/pkg/errors"
	"github.com/matzehuels/floodprep/pkg/geom"
	"github.com/matzehuels/floodprep/pkg/scenario"
)

// Manifest formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Manifest is the on-disk description of a scenario. Paths are relative to
// the manifest's directory.
type Manifest struct {
	Name       string           `json:"name" toml:"name" yaml:"name"`
	XYZ        string           `json:"xyz" toml:"xyz" yaml:"xyz"`
	Features   []string         `json:"features,omitempty" toml:"features" yaml:"features"`
	Buildings  string           `json:"buildings,omitempty" toml:"buildings" yaml:"buildings"`
	Roughness  string           `json:"roughness,omitempty" toml:"roughness" yaml:"roughness"`
	Boundaries string           `json:"boundaries,omitempty" toml:"boundaries" yaml:"boundaries"`
	Boundary   []InlineBoundary `json:"boundary,omitempty" toml:"boundary" yaml:"boundary"`
	Rain       *scenario.Rain   `json:"rain,omitempty" toml:"rain" yaml:"rain"`
	Options    scenario.Options `json:"options" toml:"options" yaml:"options"`
	Par        map[string]any   `json:"par,omitempty" toml:"par" yaml:"par"`
}

// InlineBoundary is a boundary written directly in the manifest. A single
// point is a point source; more points form a line, or a polygon when
// Polygon is set.
type InlineBoundary struct {
	Name     string       `json:"name" toml:"name" yaml:"name"`
	Type     string       `json:"type" toml:"type" yaml:"type"`
	Value    float64      `json:"value" toml:"value" yaml:"value"`
	Active   *bool        `json:"active,omitempty" toml:"active" yaml:"active"`
	Duration float64      `json:"duration,omitempty" toml:"duration" yaml:"duration"`
	Polygon  bool         `json:"polygon,omitempty" toml:"polygon" yaml:"polygon"`
	Points   [][2]float64 `json:"points" toml:"points" yaml:"points"`
}

// Spec converts b to a boundary spec.
func (b InlineBoundary) Spec() boundary.Spec {
	pts := make([]geom.Point, len(b.Points))
	for i, p := range b.Points {
		pts[i] = geom.Point{X: p[0], Y: p[1]}
	}

	var g geom.Geometry
	switch {
	case b.Polygon:
		g = geom.NewPolygon(pts...)
	case len(pts) == 1:
		g = geom.NewPoint(pts[0].X, pts[0].Y)
	default:
		g = geom.NewLineString(pts...)
	}

	s := boundary.Spec{
		Name:     b.Name,
		Type:     b.Type,
		Geometry: g,
		Value:    b.Value,
		Active:   true,
		Duration: b.Duration,
	}
	if b.Active != nil {
		s.Active = *b.Active
	}
	return s
}

// FormatFromPath infers the manifest format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported manifest extension %q (use .toml, .yaml or .json)", filepath.Ext(path))
}

// ParseManifest decodes a manifest in the given format.
func ParseManifest(data []byte, format string) (*Manifest, error) {
	var m Manifest
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.Decode(string(data), &m)
	case FormatYAML:
		err = yaml.Unmarshal(data, &m)
	case FormatJSON:
		err = json.Unmarshal(data, &m)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported manifest format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s manifest", format)
	}
	return &m, nil
}

// LoadManifest reads the manifest at path and every file it references.
func LoadManifest(path string) (*scenario.Scenario, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read manifest")
	}
	m, err := ParseManifest(data, format)
	if err != nil {
		return nil, err
	}
	s, err := m.Scenario(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Scenario resolves the manifest's files against baseDir.
func (m *Manifest) Scenario(baseDir string) (*scenario.Scenario, error) {
	if m.XYZ == "" {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest has no xyz terrain file")
	}
	xyz, err := readRef(baseDir, m.XYZ)
	if err != nil {
		return nil, err
	}

	s := &scenario.Scenario{
		Name:    m.Name,
		XYZ:     xyz,
		Rain:    m.Rain,
		Options: m.Options,
		Par:     m.Par,
	}

	layers := &Layers{}
	for _, ref := range m.layerRefs() {
		if ref.path == "" {
			continue
		}
		data, err := readRef(baseDir, ref.path)
		if err != nil {
			return nil, err
		}
		l, err := ReadGeoJSON(data, ref.kind)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s", ref.path)
		}
		layers.Merge(l)
	}

	s.Buildings = layers.Buildings
	s.Roughness = layers.Roughness
	s.Boundaries = layers.Boundaries
	for _, b := range m.Boundary {
		s.Boundaries = append(s.Boundaries, b.Spec())
	}
	return s, nil
}

type layerRef struct {
	path string
	kind string
}

// layerRefs lists the GeoJSON files to import with their forced kind.
func (m *Manifest) layerRefs() []layerRef {
	refs := []layerRef{
		{m.Buildings, KindBuilding},
		{m.Roughness, KindRoughness},
		{m.Boundaries, KindBoundary},
	}
	for _, p := range m.Features {
		refs = append(refs, layerRef{path: p})
	}
	return refs
}

// readRef reads a manifest-relative file. Absolute paths are used as is.
func readRef(baseDir, ref string) ([]byte, error) {
	if err := errors.ValidatePath(ref); err != nil {
		return nil, err
	}
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, ref)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "referenced file %s", ref)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", ref)
	}
	return data, nil
}
