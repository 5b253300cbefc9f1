package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/rainbowsmoke/pkg/pipeline"
)

// uiOut receives all user-facing status output. Logs go to stderr.
var uiOut io.Writer = os.Stdout

// =============================================================================
// Colors & Styles
// =============================================================================

var (
	colorAccent = lipgloss.Color("213") // pink, titles and the spinner
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for paths and values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for counts and percentages.
	StyleNumber = lipgloss.NewStyle().Foreground(colorAccent)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleNote    = lipgloss.NewStyle().Foreground(colorGray)
	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

// status line prefixes
const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Rainbow Text
// =============================================================================

// rainbow renders s with its runes spread across the hue wheel.
func rainbow(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return ""
	}
	var b strings.Builder
	for i, r := range runes {
		hue := 360 * float64(i) / float64(len(runes))
		c := colorful.Hsv(hue, 0.55, 1)
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}

// =============================================================================
// Status Lines
// =============================================================================

func printLine(icon lipgloss.Style, glyph, msg string) {
	fmt.Fprintln(uiOut, icon.Render(glyph)+" "+msg)
}

func printSuccess(format string, args ...any) {
	printLine(styleOK, iconSuccess, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printLine(StyleWarning, iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printLine(styleNote, iconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written file.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleKey.Render(key)+" "+StyleValue.Render(value))
}

func printNewline() {
	fmt.Fprintln(uiOut)
}

// =============================================================================
// Paint Summary
// =============================================================================

// paintSummary is the one-line recap printed after a paint run, e.g.
// "32768 colors · 256x128 · indexed · 1.204s · fresh".
func paintSummary(res *pipeline.Result, strategy string) string {
	parts := []string{fmt.Sprintf("%d colors", res.Stats.Colors)}
	if res.Canvas != nil {
		parts = append(parts, fmt.Sprintf("%dx%d", res.Canvas.Width(), res.Canvas.Height()))
	}
	status := styleNote.Render("fresh")
	if res.CacheHit {
		status = styleOK.Render("cached")
	} else {
		if strategy != "" {
			parts = append(parts, strategy)
		}
		parts = append(parts, res.Stats.PaintTime.Round(time.Millisecond).String())
	}

	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	parts = append(parts, status)
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}

func printSummary(res *pipeline.Result, strategy string) {
	fmt.Fprintln(uiOut, paintSummary(res, strategy))
}
