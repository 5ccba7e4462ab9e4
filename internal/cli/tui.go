package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/floodprep/pkg/watch"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	barStyle     = lipgloss.NewStyle().Foreground(colorWater)
)

// =============================================================================
// FrameModel - Live frame dashboard
// =============================================================================

// frameMsg delivers one watcher event to the dashboard.
type frameMsg watch.Event

// watchDoneMsg reports that the watcher stopped.
type watchDoneMsg struct{}

// FrameModel is the bubbletea model for the watch dashboard. Frames are kept
// in arrival order; the newest is selected unless the user scrolled away.
type FrameModel struct {
	Dir      string
	Frames   []watch.Event
	Cursor   int
	Height   int
	Offset   int
	Follow   bool
	Done     bool
	Unstable int
	Errors   int
}

// newFrameModel creates a dashboard for dir.
func newFrameModel(dir string) FrameModel {
	return FrameModel{Dir: dir, Height: 15, Follow: true}
}

func (m FrameModel) Init() tea.Cmd {
	return nil
}

func (m FrameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.Follow = false
			}
		case "down", "j":
			if m.Cursor < len(m.Frames)-1 {
				m.Cursor++
			}
			m.Follow = m.Cursor == len(m.Frames)-1
		case "end", "G":
			m.Follow = true
			m.Cursor = max(len(m.Frames)-1, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	case frameMsg:
		ev := watch.Event(msg)
		m.Frames = append(m.Frames, ev)
		switch {
		case ev.Err != nil:
			m.Errors++
		case ev.Unstable():
			m.Unstable++
		}
		if m.Follow {
			m.Cursor = len(m.Frames) - 1
		}
	case watchDoneMsg:
		m.Done = true
	}

	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

func (m FrameModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("floodprep watch"))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render(m.Dir))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ scroll  G follow  q quit"))
	b.WriteString("\n\n")

	status := fmt.Sprintf("%d frames", len(m.Frames))
	if m.Unstable > 0 {
		status += " · " + StyleWarning.Render(fmt.Sprintf("%d unstable", m.Unstable))
	}
	if m.Errors > 0 {
		status += " · " + iconError.style.Render(fmt.Sprintf("%d failed", m.Errors))
	}
	if m.Done {
		status += " · " + StyleDim.Render("watcher stopped")
	}
	b.WriteString(status)
	b.WriteString("\n")

	if len(m.Frames) == 0 {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("  waiting for depth grids..."))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Frames))
	peak := m.peakVolume()

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		ev := m.Frames[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		s := ev.Summary
		state := "ok"
		switch {
		case ev.Err != nil:
			state = "error"
		case ev.Unstable():
			state = "unstable"
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", ev.FrameID),
			fmt.Sprintf("%d", s.WetCells),
			fmt.Sprintf("%.2f", s.Volume),
			fmt.Sprintf("%.3f", s.MaxDepth),
			volumeBar(s.Volume, peak, 20),
			state,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Frame", "Wet", "Volume m³", "Max m", "", "State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Frames) {
				return lipgloss.NewStyle()
			}
			ev := m.Frames[idx]
			base := lipgloss.NewStyle()
			if idx == m.Cursor {
				base = base.Bold(true)
			}
			switch {
			case ev.Err != nil:
				return base.Foreground(colorRed)
			case ev.Unstable() && col == 6:
				return base.Foreground(colorAmber)
			case col == 5:
				return barStyle
			case idx == m.Cursor:
				return base.Foreground(colorDry)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	sel := m.Frames[m.Cursor]
	b.WriteString(StyleDim.Render(filepath.Base(sel.Path)))
	if sel.Err != nil {
		b.WriteString("  ")
		b.WriteString(iconError.style.Render(sel.Err.Error()))
	} else {
		s := sel.Summary
		b.WriteString(StyleDim.Render(fmt.Sprintf("  area %.1f m² · mean %.3f m · sd %.3f m", s.WetArea, s.MeanDepth, s.StdDepth)))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Frames))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func (m FrameModel) peakVolume() float64 {
	peak := 0.0
	for _, ev := range m.Frames {
		if ev.Summary.Volume > peak {
			peak = ev.Summary.Volume
		}
	}
	return peak
}

// volumeBar renders v relative to peak as a bar of at most width cells.
func volumeBar(v, peak float64, width int) string {
	if peak <= 0 || v <= 0 {
		return ""
	}
	n := int(v / peak * float64(width))
	if n < 1 {
		n = 1
	}
	return strings.Repeat("█", min(n, width))
}
