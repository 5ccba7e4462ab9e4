package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floodprep/pkg/cache"
	"github.com/matzehuels/floodprep/pkg/errors"
	"github.com/matzehuels/floodprep/pkg/frame"
	"github.com/matzehuels/floodprep/pkg/observability"
	"github.com/matzehuels/floodprep/pkg/scenario"
)

// Runner encapsulates compile and decode execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Compile validates and compiles s, serving repeated scenarios from the
// cache. Cache failures are logged and never fail the compile.
func (r *Runner) Compile(ctx context.Context, s *scenario.Scenario, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "compile")
	}
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidScenario, "scenario is nil")
	}
	logger := r.logger(opts)

	hash, err := ScenarioHash(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "encode scenario")
	}
	key := r.Keyer.CompileKey(hash, compileKeyOpts(s))

	if !opts.Refresh {
		if res, ok := r.lookupCompile(ctx, key, logger); ok {
			res.Name = s.Name
			res.Hash = hash
			logger.Info("compiled scenario (cached)",
				"name", s.Name,
				"artifacts", len(res.Artifacts))
			return res, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnCompileStart(ctx, s.Name, s.BoundaryCount())
	start := time.Now()

	compiled, err := scenario.NewCompiler(logger).Compile(s)
	elapsed := time.Since(start)
	if err != nil {
		hooks.OnCompileComplete(ctx, s.Name, 0, 0, elapsed, err)
		return nil, err
	}

	res := &Result{
		Name:      s.Name,
		Hash:      hash,
		Artifacts: compiled.Artifacts,
		Header:    compiled.Header,
		Warnings:  compiled.Warnings(),
		Stats: Stats{
			Cells:       compiled.Header.Len(),
			Boundaries:  len(compiled.Boundaries.Resolved),
			Bytes:       compiled.Artifacts.Size(),
			CompileTime: elapsed,
		},
	}
	hooks.OnCompileComplete(ctx, s.Name, len(res.Artifacts), len(res.Warnings), elapsed, nil)
	logger.Debug("compile finished", "duration", elapsed, "bytes", res.Stats.Bytes)

	if data, err := encodeResult(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.CompileTTL); err != nil {
			logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeCompile, len(data))
		}
	}
	return res, nil
}

func (r *Runner) lookupCompile(ctx context.Context, key string, logger *log.Logger) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeCompile)
		return nil, false
	}
	res, err := decodeResult(data)
	if err != nil {
		logger.Debug("discarding cache entry", "key", key, "err", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, keyTypeCompile)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeCompile)
	res.CacheHit = true
	return res, true
}

// Decode decodes one solver output frame. A frame that fails to decode is
// returned with Valid=false together with an INVALID_FRAME error.
func (r *Runner) Decode(ctx context.Context, raw []byte) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "decode")
	}
	start := time.Now()
	f := frame.Decode(raw)
	elapsed := time.Since(start)
	observability.Pipeline().OnDecodeComplete(ctx, f.Count, f.Valid, f.HasNegativeDepth, elapsed)

	if !f.Valid {
		return f, errors.Wrap(errors.ErrCodeInvalidFrame, f.Err, "decode frame")
	}
	if f.Truncated || f.BadTokens > 0 {
		r.Logger.Warn("frame body incomplete",
			"count", f.Count,
			"expected", f.Len(),
			"bad_tokens", f.BadTokens)
	}
	r.Logger.Debug("decoded frame",
		"cells", f.Count,
		"min", f.Min,
		"max", f.Max,
		"duration", elapsed)
	return f, nil
}

// Summarize decodes raw and returns its wet-cell statistics, serving
// repeated frames from the cache. The returned bool reports a cache hit.
func (r *Runner) Summarize(ctx context.Context, raw []byte, frameID int, threshold float64) (frame.Summary, bool, error) {
	key, threshold := r.frameKey(raw, threshold)
	if s, ok := r.cachedSummary(ctx, key); ok {
		s.Frame = frameID
		return s, true, nil
	}

	f, err := r.Decode(ctx, raw)
	if err != nil {
		return frame.Summary{}, false, err
	}
	return r.storeSummary(ctx, key, f, frameID, threshold), false, nil
}

// SummarizeFrame is Summarize for a frame the caller already decoded from
// raw. It never decodes raw again; on a miss the statistics are computed from
// f and cached under raw's hash.
func (r *Runner) SummarizeFrame(ctx context.Context, raw []byte, f *frame.Frame, frameID int, threshold float64) (frame.Summary, bool) {
	key, threshold := r.frameKey(raw, threshold)
	if s, ok := r.cachedSummary(ctx, key); ok {
		s.Frame = frameID
		return s, true
	}
	return r.storeSummary(ctx, key, f, frameID, threshold), false
}

func (r *Runner) frameKey(raw []byte, threshold float64) (string, float64) {
	if threshold <= 0 {
		threshold = frame.DefaultWetThreshold
	}
	return r.Keyer.FrameKey(cache.Hash(raw), threshold), threshold
}

func (r *Runner) cachedSummary(ctx context.Context, key string) (frame.Summary, bool) {
	var s frame.Summary
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		if err := json.Unmarshal(data, &s); err == nil {
			observability.Cache().OnCacheHit(ctx, keyTypeFrame)
			return s, true
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeFrame)
	return s, false
}

func (r *Runner) storeSummary(ctx context.Context, key string, f *frame.Frame, frameID int, threshold float64) frame.Summary {
	s := frame.Summarize(f, threshold)
	s.Frame = frameID
	if data, err := json.Marshal(s); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.FrameTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeFrame, len(data))
		}
	}
	return s
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
