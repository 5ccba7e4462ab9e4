// Package watch follows a solver result directory and decodes each depth
// frame as the solver writes it.
//
// The solver writes <resroot>-NNNN.wd.asc files into its result directory.
// A [Watcher] reacts to fsnotify create/write events, waits until a file has
// been quiet for [Watcher.Settle], decodes it and emits an [Event] carrying
// the frame and its wet-cell summary. Frames with negative depths below the
// instability threshold are logged at warn level.
//
// # Usage
//
//	w := watch.New("results", runner, logger)
//	events := make(chan watch.Event)
//	go func() { _ = w.Run(ctx, events) }()
//	for ev := range events {
//	    fmt.Println(ev.FrameID, ev.Summary.WetArea)
//	}
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/floodprep/pkg/frame"
	"github.com/matzehuels/floodprep/pkg/observability"
	"github.com/matzehuels/floodprep/pkg/pipeline"
)

// DefaultSettle is how long a file must be quiet before it is decoded.
const DefaultSettle = 250 * time.Millisecond

// Event reports one processed result file.
type Event struct {
	Path    string
	FrameID int
	Frame   *frame.Frame
	Summary frame.Summary
	Err     error
}

// Unstable reports whether the frame shows solver instability.
func (e Event) Unstable() bool {
	return e.Frame != nil && e.Frame.HasNegativeDepth
}

// Watcher decodes depth frames appearing in a directory.
type Watcher struct {
	Dir          string
	ResRoot      string
	Settle       time.Duration
	WetThreshold float64
	Runner       *pipeline.Runner
	Logger       *log.Logger

	// seen maps processed paths to the modification time that was decoded.
	seen map[string]time.Time
}

// New creates a watcher for dir. A nil runner decodes without caching and a
// nil logger discards.
func New(dir string, runner *pipeline.Runner, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Watcher{
		Dir:     dir,
		ResRoot: frame.DefaultResRoot,
		Settle:  DefaultSettle,
		Runner:  runner,
		Logger:  logger,
		seen:    make(map[string]time.Time),
	}
}

// Scan processes the depth files already present in the directory, in frame
// order, and returns their events. Files already seen with the same
// modification time are skipped.
func (w *Watcher) Scan(ctx context.Context) ([]Event, error) {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return nil, fmt.Errorf("read result dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !frame.IsDepthFile(e.Name(), w.ResRoot) {
			continue
		}
		paths = append(paths, filepath.Join(w.Dir, e.Name()))
	}
	sort.Slice(paths, func(i, j int) bool {
		return frame.FrameID(paths[i]) < frame.FrameID(paths[j])
	})

	var events []Event
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return events, err
		}
		if ev, ok := w.process(ctx, p); ok {
			events = append(events, ev)
		}
	}
	return events, nil
}

// Run scans the directory, then emits an event for every depth file that is
// created or rewritten until ctx is canceled. Run closes out on return.
func (w *Watcher) Run(ctx context.Context, out chan<- Event) error {
	defer close(out)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}
	w.Logger.Info("watching results", "dir", w.Dir, "resroot", w.resroot())

	initial, err := w.Scan(ctx)
	if err != nil {
		return err
	}
	for _, ev := range initial {
		if !send(ctx, out, ev) {
			return nil
		}
	}

	settle := w.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	tick := time.NewTicker(settle / 2)
	defer tick.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !frame.IsDepthFile(event.Name, w.ResRoot) {
				continue
			}
			w.Logger.Debug("result file changed", "file", event.Name, "op", event.Op.String())
			pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Error("watcher error", "err", err)

		case now := <-tick.C:
			for _, p := range ready(pending, now, settle) {
				delete(pending, p)
				ev, ok := w.process(ctx, p)
				if !ok {
					continue
				}
				if !send(ctx, out, ev) {
					return nil
				}
			}
		}
	}
}

// ready returns the pending paths quiet for at least settle, in frame order.
func ready(pending map[string]time.Time, now time.Time, settle time.Duration) []string {
	var paths []string
	for p, last := range pending {
		if now.Sub(last) >= settle {
			paths = append(paths, p)
		}
	}
	sort.Slice(paths, func(i, j int) bool {
		return frame.FrameID(paths[i]) < frame.FrameID(paths[j])
	})
	return paths
}

func send(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// process decodes path. It returns false when the file was already decoded
// at its current modification time.
func (w *Watcher) process(ctx context.Context, path string) (Event, bool) {
	if w.seen == nil {
		w.seen = make(map[string]time.Time)
	}
	ev := Event{Path: path, FrameID: frame.FrameID(path)}

	info, err := os.Stat(path)
	if err != nil {
		return w.fail(ctx, ev, fmt.Errorf("stat: %w", err)), true
	}
	if last, ok := w.seen[path]; ok && last.Equal(info.ModTime()) {
		return Event{}, false
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return w.fail(ctx, ev, fmt.Errorf("read: %w", err)), true
	}
	w.seen[path] = info.ModTime()

	f, err := w.Runner.Decode(ctx, raw)
	ev.Frame = f
	if err != nil {
		return w.fail(ctx, ev, err), true
	}

	ev.Summary = frame.Summarize(f, w.WetThreshold)
	ev.Summary.Frame = ev.FrameID
	observability.Watch().OnFrame(ctx, path, ev.FrameID, f.HasNegativeDepth)

	if f.HasNegativeDepth {
		w.Logger.Warn("solver instability",
			"frame", ev.FrameID,
			"min_depth", f.Min,
			"file", filepath.Base(path))
	} else {
		w.Logger.Info("decoded frame",
			"frame", ev.FrameID,
			"wet_cells", ev.Summary.WetCells,
			"max_depth", ev.Summary.MaxDepth)
	}
	return ev, true
}

func (w *Watcher) fail(ctx context.Context, ev Event, err error) Event {
	ev.Err = err
	observability.Watch().OnError(ctx, ev.Path, err)
	w.Logger.Error("frame failed", "file", ev.Path, "err", err)
	return ev
}

func (w *Watcher) resroot() string {
	if w.ResRoot == "" {
		return frame.DefaultResRoot
	}
	return w.ResRoot
}
