package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/floodprep/pkg/boundary"
	"github.com/matzehuels/floodprep/pkg/errors"
	"github.com/matzehuels/floodprep/pkg/pipeline"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorWater = lipgloss.Color("38")  // teal
	colorDry   = lipgloss.Color("35")  // green
	colorAmber = lipgloss.Color("214") // warnings, unstable frames
	colorRed   = lipgloss.Color("167") // errors
	colorBlue  = lipgloss.Color("75")  // addresses, commands
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

// Styles shared by the table, dashboard and status output.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorWater)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorWater)
	StyleLink    = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorWater)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

// statusIcon is a coloured glyph leading a status line.
type statusIcon struct {
	glyph string
	style lipgloss.Style
}

var (
	iconSuccess = statusIcon{"✓", lipgloss.NewStyle().Foreground(colorDry)}
	iconError   = statusIcon{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	iconWarning = statusIcon{"!", lipgloss.NewStyle().Foreground(colorAmber)}
	iconInfo    = statusIcon{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (i statusIcon) line(msg string) string {
	return i.style.Render(i.glyph) + " " + msg
}

// =============================================================================
// Status Lines
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(iconSuccess.line(fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Println(iconError.line(fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Println(iconWarning.line(StyleWarning.Render(fmt.Sprintf(format, args...))))
}

func printInfo(format string, args ...any) {
	fmt.Println(iconInfo.line(fmt.Sprintf(format, args...)))
}

// printDetail prints a dimmed, indented line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// ErrorMessage formats err for the terminal without the error code prefix.
func ErrorMessage(err error) string {
	return iconError.line(errors.Detail(err))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// =============================================================================
// Compile Output
// =============================================================================

// printCompileStats prints one dimmed line: grid size, cell size, boundary
// count, artifact bytes and whether the result came from the cache.
func printCompileStats(res *pipeline.Result) {
	h := res.Header
	parts := []string{
		fmt.Sprintf("%dx%d cells", h.NCols, h.NRows),
		fmt.Sprintf("%gm", h.CellSize),
		fmt.Sprintf("%d boundaries", res.Stats.Boundaries),
		formatBytes(res.Stats.Bytes),
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}

	origin := iconInfo.style.Render("fresh")
	if res.CacheHit {
		origin = iconSuccess.style.Render("cached")
	}
	parts = append(parts, origin)
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// printWarnings prints boundary rescue and drop warnings.
func printWarnings(ws []boundary.Warning) {
	for _, w := range ws {
		printWarning("%s", w.String())
	}
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
