// Package pipeline runs scenario compilation and frame decoding with
// caching, hooks and logging.
//
// The core packages (scenario, frame) are pure and synchronous. This package
// is the layer the CLI and the HTTP server share: it derives cache keys,
// reports events to [observability] hooks, honors context cancellation and
// logs timings.
//
// # Usage
//
// Create a Runner and compile a scenario:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Compile(ctx, scn, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dem := result.Artifacts[scenario.TerrainFile]
//
// Decode a solver output frame:
//
//	f, err := runner.Decode(ctx, raw)
//	sum, hit, err := runner.Summarize(ctx, raw, frame.FrameID(path), 0)
package pipeline

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floodprep/pkg/boundary"
	"github.com/matzehuels/floodprep/pkg/cache"
	"github.com/matzehuels/floodprep/pkg/geom"
	"github.com/matzehuels/floodprep/pkg/scenario"
)

// Cache key types reported to observability hooks.
const (
	keyTypeCompile = "compile"
	keyTypeFrame   = "frame"
)

// =============================================================================
// Options - Runner Configuration
// =============================================================================

// Options configures a single Runner call.
type Options struct {
	// Refresh bypasses the cache lookup but still stores the new result.
	Refresh bool `json:"refresh,omitempty"`

	// Logger overrides the runner's logger for this call.
	Logger *log.Logger `json:"-"`
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a compile.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Hash identifies the scenario content and compiler settings.
	Hash string `json:"hash"`

	// Artifacts maps solver file names to contents.
	Artifacts scenario.Artifacts `json:"-"`

	// Header describes the compiled grid.
	Header geom.Header `json:"header"`

	// Warnings lists boundary rescues and drops.
	Warnings []boundary.Warning `json:"warnings,omitempty"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheHit is true when the artifacts came from the cache.
	CacheHit bool `json:"cache_hit"`
}

// Stats contains compile statistics.
type Stats struct {
	Cells       int           `json:"cells"`
	Boundaries  int           `json:"boundaries"`
	Bytes       int           `json:"bytes"`
	CompileTime time.Duration `json:"compile_time"`
}

// cachedCompile is the cache encoding of a Result.
type cachedCompile struct {
	Artifacts  map[string][]byte  `json:"artifacts"`
	Header     geom.Header        `json:"header"`
	Warnings   []boundary.Warning `json:"warnings,omitempty"`
	Boundaries int                `json:"boundaries"`
}

func encodeResult(r *Result) ([]byte, error) {
	return json.Marshal(cachedCompile{
		Artifacts:  r.Artifacts,
		Header:     r.Header,
		Warnings:   r.Warnings,
		Boundaries: r.Stats.Boundaries,
	})
}

func decodeResult(data []byte) (*Result, error) {
	var c cachedCompile
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode cached compile: %w", err)
	}
	if len(c.Artifacts) == 0 {
		return nil, fmt.Errorf("decode cached compile: no artifacts")
	}
	a := scenario.Artifacts(c.Artifacts)
	return &Result{
		Artifacts: a,
		Header:    c.Header,
		Warnings:  c.Warnings,
		Stats: Stats{
			Cells:      c.Header.Len(),
			Boundaries: c.Boundaries,
			Bytes:      a.Size(),
		},
	}, nil
}

// ScenarioHash returns the content hash of s, including its options.
func ScenarioHash(s *scenario.Scenario) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("hash scenario: %w", err)
	}
	return cache.Hash(data), nil
}

// compileKeyOpts returns the cache key options for s with defaults applied.
func compileKeyOpts(s *scenario.Scenario) cache.CompileKeyOpts {
	o := s.Options
	o.SetDefaults()
	return cache.CompileKeyOpts{
		GapFillPasses:    o.GapFillPasses,
		DefaultRoughness: o.DefaultRoughness,
		RescueRadius:     o.RescueRadius,
	}
}
