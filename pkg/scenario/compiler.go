package scenario

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floodprep/pkg/boundary"
	"github.com/matzehuels/floodprep/pkg/errors"
	"github.com/matzehuels/floodprep/pkg/geom"
	"github.com/matzehuels/floodprep/pkg/raster"
)

// Compiler turns scenarios into artifact sets.
type Compiler struct {
	Logger *log.Logger
}

// NewCompiler returns a compiler logging to logger. A nil logger discards.
func NewCompiler(logger *log.Logger) *Compiler {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Compiler{Logger: logger}
}

// Result is the output of one compilation.
type Result struct {
	Artifacts  Artifacts
	Header     geom.Header
	Terrain    *raster.Grid // burned DEM
	Boundaries *boundary.Result
}

// Warnings returns the boundary warnings raised during compilation.
func (r *Result) Warnings() []boundary.Warning {
	if r.Boundaries == nil {
		return nil
	}
	return r.Boundaries.Warnings
}

// Compile validates s and produces its artifacts.
func (c *Compiler) Compile(s *Scenario) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	logger := c.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	opts := s.Options
	opts.SetDefaults()

	base, err := s.terrain(opts.GapFillPasses)
	if err != nil {
		return nil, err
	}
	h := base.Header
	logger.Debug("terrain ready",
		"ncols", h.NCols,
		"nrows", h.NRows,
		"cellsize", h.CellSize)

	dem := raster.BurnBuildings(base.Data, h, s.Buildings)
	artifacts := Artifacts{TerrainFile: raster.ASC(dem, h)}

	if text, ok := raster.RoughnessASC(h, s.Roughness, opts.DefaultRoughness); ok {
		artifacts[FrictionFile] = text
	}

	if !s.Rain.IsZero() {
		if len(s.Rain.Series) > 0 {
			artifacts[RainFile] = boundary.PrepareRainSeries(s.Rain.Series)
		} else {
			artifacts[RainFile] = boundary.PrepareRain(s.Rain.Intensity, s.Rain.Duration)
		}
	}

	bc := &boundary.Compiler{Logger: logger, RescueRadius: opts.RescueRadius}
	bres, err := bc.Compile(s.Boundaries, h, dem)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "compile boundaries")
	}
	if !bres.Empty() {
		artifacts[BDYFile] = bres.BDY
		for name, data := range bres.Series {
			artifacts[name] = data
		}
	}

	artifacts[ParamFile] = parFile(s.Par, opts.DefaultRoughness,
		artifacts.Has(FrictionFile), artifacts.Has(RainFile), artifacts.Has(BDYFile))

	logger.Info("compiled scenario",
		"name", s.Name,
		"cells", h.Len(),
		"buildings", buildingCount(s.Buildings),
		"boundaries", len(bres.Resolved),
		"warnings", len(bres.Warnings),
		"artifacts", len(artifacts))

	return &Result{
		Artifacts:  artifacts,
		Header:     h,
		Terrain:    &raster.Grid{Header: h, Data: dem},
		Boundaries: bres,
	}, nil
}
