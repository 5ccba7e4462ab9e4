package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floodprep/pkg/frame"
	"github.com/matzehuels/floodprep/pkg/watch"
)

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	resroot   string
	threshold float64
	settle    time.Duration
	once      bool // decode existing files and exit
	tui       bool
	cache     cacheFlags
}

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	opts := watchOpts{
		resroot:   frame.DefaultResRoot,
		threshold: frame.DefaultWetThreshold,
		settle:    watch.DefaultSettle,
	}

	cmd := &cobra.Command{
		Use:   "watch <results-dir>",
		Short: "Decode depth grids as the solver writes them",
		Long: `Watch a solver result directory and decode every <resroot>-*.wd.asc depth
grid as soon as it is written. Frames with negative depths are reported as
solver instability.

Examples:
  floodprep watch out/results
  floodprep watch out/results --tui
  floodprep watch out/results --once --resroot storm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.resroot, "resroot", opts.resroot, "result file prefix (resroot in run.par)")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", opts.threshold, "depth in metres above which a cell is wet")
	cmd.Flags().DurationVar(&opts.settle, "settle", opts.settle, "quiet period before a changed file is decoded")
	cmd.Flags().BoolVar(&opts.once, "once", false, "decode existing files and exit")
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "show a live frame dashboard")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, dir string, opts watchOpts) error {
	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	if opts.tui {
		// Log lines would tear the dashboard.
		logger = log.New(io.Discard)
	}

	w := watch.New(dir, runner, logger)
	w.ResRoot = opts.resroot
	w.WetThreshold = opts.threshold
	w.Settle = opts.settle

	if opts.once {
		events, err := w.Scan(ctx)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			printInfo("No %s-*%s files in %s", opts.resroot, frame.DepthSuffix, dir)
			return nil
		}
		for _, ev := range events {
			printFrameEvent(ev)
		}
		return nil
	}

	watchCtx, stop := context.WithCancel(ctx)
	defer stop()

	events := make(chan watch.Event, 16)
	errc := make(chan error, 1)
	go func() { errc <- w.Run(watchCtx, events) }()

	if opts.tui {
		p := tea.NewProgram(newFrameModel(dir), tea.WithContext(ctx), tea.WithAltScreen())
		go func() {
			for ev := range events {
				p.Send(frameMsg(ev))
			}
			p.Send(watchDoneMsg{})
		}()
		_, tuiErr := p.Run()
		stop()
		if err := <-errc; err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if tuiErr != nil {
			return fmt.Errorf("dashboard: %w", tuiErr)
		}
		return nil
	}

	for ev := range events {
		printFrameEvent(ev)
	}
	if err := <-errc; err != nil {
		return err
	}
	return ctx.Err()
}

// printFrameEvent prints one decoded frame.
func printFrameEvent(ev watch.Event) {
	name := filepath.Base(ev.Path)
	switch {
	case ev.Err != nil:
		printError("frame %d %s: %v", ev.FrameID, name, ev.Err)
	case ev.Unstable():
		printWarning("frame %d %s: negative depths, max %.3f m", ev.FrameID, name, ev.Summary.MaxDepth)
	default:
		s := ev.Summary
		printSuccess("frame %d %s", ev.FrameID, name)
		printDetail("%d wet cells · %.1f m² · %.2f m³ · max %.3f m", s.WetCells, s.WetArea, s.Volume, s.MaxDepth)
	}
}
