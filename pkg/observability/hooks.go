// Package observability lets a binary observe the compile pipeline, the
// cache and the result watcher without those packages importing a metrics
// backend.
//
// Libraries emit events through the accessors:
//
//	observability.Pipeline().OnCompileStart(ctx, name, boundaries)
//	observability.Cache().OnCacheHit(ctx, "compile")
//	observability.Watch().OnFrame(ctx, path, frameID, unstable)
//
// A binary installs one value implementing any subset of the hook
// interfaces at startup:
//
//	restore := observability.Register(metrics)
//	defer restore()
//
// Events without a registered hook go to no-op implementations.
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives compile and decode events.
type PipelineHooks interface {
	OnCompileStart(ctx context.Context, scenario string, boundaries int)
	OnCompileComplete(ctx context.Context, scenario string, artifacts, warnings int, duration time.Duration, err error)
	OnDecodeComplete(ctx context.Context, cells int, valid, unstable bool, duration time.Duration)
}

// CacheHooks receives cache lookups and writes. keyType is "compile" or
// "frame".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// WatchHooks receives result frames seen by the watcher. OnError is called
// for frames that could not be read or decoded.
type WatchHooks interface {
	OnFrame(ctx context.Context, path string, frameID int, unstable bool)
	OnError(ctx context.Context, path string, err error)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnCompileStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnCompileComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnDecodeComplete(context.Context, int, bool, bool, time.Duration) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopWatchHooks struct{}

func (NoopWatchHooks) OnFrame(context.Context, string, int, bool) {}
func (NoopWatchHooks) OnError(context.Context, string, error)     {}

// hookSet is the registry content. It is replaced as a whole, never mutated.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	watch    WatchHooks
}

var noops = hookSet{NoopPipelineHooks{}, NoopCacheHooks{}, NoopWatchHooks{}}

var (
	mu     sync.RWMutex
	active = noops
)

func current() hookSet {
	mu.RLock()
	defer mu.RUnlock()
	return active
}

// Register installs h for every hook interface it implements and returns a
// function that restores the previous registrations. Interfaces h does not
// implement keep their current hooks. A nil h changes nothing.
func Register(h any) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prev := active
	if p, ok := h.(PipelineHooks); ok {
		active.pipeline = p
	}
	if c, ok := h.(CacheHooks); ok {
		active.cache = c
	}
	if w, ok := h.(WatchHooks); ok {
		active.watch = w
	}
	return func() {
		mu.Lock()
		active = prev
		mu.Unlock()
	}
}

// Reset restores the no-op hooks.
func Reset() {
	mu.Lock()
	active = noops
	mu.Unlock()
}

func Pipeline() PipelineHooks { return current().pipeline }

func Cache() CacheHooks { return current().cache }

func Watch() WatchHooks { return current().watch }
