package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floodprep/pkg/errors"
	"github.com/matzehuels/floodprep/pkg/frame"
	"github.com/matzehuels/floodprep/pkg/pipeline"
)

// decodeOpts holds the command-line flags for the decode command.
type decodeOpts struct {
	threshold float64
	json      bool
	cache     cacheFlags
}

// frameRow is one decoded file.
type frameRow struct {
	Path    string        `json:"path"`
	Summary frame.Summary `json:"summary"`
	Error   string        `json:"error,omitempty"`
}

// decodeCommand creates the decode command.
func (c *CLI) decodeCommand() *cobra.Command {
	opts := decodeOpts{threshold: frame.DefaultWetThreshold}

	cmd := &cobra.Command{
		Use:   "decode <file>...",
		Short: "Summarize solver water depth grids",
		Long: `Decode ESRI ASCII depth grids written by the solver and print wet-cell
statistics per frame. Frames are ordered by the number in their file name.

Examples:
  floodprep decode results/res-0001.wd.asc
  floodprep decode results/*.wd.asc --threshold 0.05 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDecode(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.threshold, "threshold", opts.threshold, "depth in metres above which a cell is wet")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runDecode(ctx context.Context, w io.Writer, paths []string, opts decodeOpts) error {
	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	rows, failed := decodeFiles(ctx, runner, paths, opts.threshold)
	if err := ctx.Err(); err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w, renderFrameTable(rows))
		for _, r := range rows {
			if r.Summary.Unstable {
				printWarning("Frame %d has negative depths; the solver may be unstable", r.Summary.Frame)
			}
		}
	}

	if failed > 0 {
		return errors.New(errors.ErrCodeInvalidFrame, "%d of %d frames could not be decoded", failed, len(rows))
	}
	return nil
}

// decodeFiles summarizes each path in frame order. Read and decode failures
// are recorded on the row.
func decodeFiles(ctx context.Context, runner *pipeline.Runner, paths []string, threshold float64) ([]frameRow, int) {
	logger := loggerFromContext(ctx)
	sorted := append([]string(nil), paths...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return frame.FrameID(sorted[i]) < frame.FrameID(sorted[j])
	})

	rows := make([]frameRow, 0, len(sorted))
	failed := 0
	for _, path := range sorted {
		if ctx.Err() != nil {
			break
		}
		row := frameRow{Path: path, Summary: frame.Summary{Frame: frame.FrameID(path)}}
		raw, err := os.ReadFile(path)
		if err == nil {
			row.Summary, _, err = runner.Summarize(ctx, raw, row.Summary.Frame, threshold)
		}
		if err != nil {
			logger.Debug("decode failed", "path", path, "err", err)
			row.Error = errors.UserMessage(err)
			failed++
		}
		rows = append(rows, row)
	}
	return rows, failed
}

func renderFrameTable(rows []frameRow) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		s := r.Summary
		status := "ok"
		switch {
		case r.Error != "":
			status = r.Error
		case s.Unstable:
			status = "unstable"
		}
		data = append(data, []string{
			fmt.Sprintf("%d", s.Frame),
			filepath.Base(r.Path),
			fmt.Sprintf("%d", s.WetCells),
			fmt.Sprintf("%.1f", s.WetArea),
			fmt.Sprintf("%.2f", s.Volume),
			fmt.Sprintf("%.3f", s.MeanDepth),
			fmt.Sprintf("%.3f", s.MaxDepth),
			status,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Frame", "File", "Wet", "Area m²", "Volume m³", "Mean m", "Max m", "Status").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(rows) {
				return lipgloss.NewStyle()
			}
			r := rows[row]
			switch {
			case r.Error != "":
				return lipgloss.NewStyle().Foreground(colorRed)
			case r.Summary.Unstable && col == 7:
				return StyleWarning
			case col == 0:
				return StyleNumber
			case col == 1:
				return StyleDim
			}
			return StyleValue
		})
	return t.Render()
}
