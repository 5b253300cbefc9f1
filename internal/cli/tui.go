package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/rainbowsmoke/pkg/core/canvas"
	"github.com/matzehuels/rainbowsmoke/pkg/core/color"
	"github.com/matzehuels/rainbowsmoke/pkg/pipeline"
)

// Preview limits in terminal cells. Each cell shows two canvas rows.
const (
	previewMaxCols = 96
	previewMaxRows = 32
	progressWidth  = 40
)

var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Messages
// =============================================================================

type progressMsg struct {
	processed, total int
	snapshot         *canvas.Canvas
}

type doneMsg struct {
	err error
}

// =============================================================================
// PaintModel - Live paint preview
// =============================================================================

// PaintModel is the bubbletea model that renders paint progress and a
// downsampled preview of the canvas.
type PaintModel struct {
	Title     string
	Processed int
	Total     int
	Snapshot  *canvas.Canvas
	Done      bool
	Cancelled bool
	Err       error

	cancel context.CancelFunc
}

// NewPaintModel creates a paint model. cancel is called when the user quits.
func NewPaintModel(title string, cancel context.CancelFunc) PaintModel {
	return PaintModel{Title: title, cancel: cancel}
}

func (m PaintModel) Init() tea.Cmd {
	return nil
}

func (m PaintModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case progressMsg:
		m.Processed, m.Total = msg.processed, msg.total
		m.Snapshot = msg.snapshot
	case doneMsg:
		m.Done = true
		m.Err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m PaintModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q quit"))
	b.WriteString("\n\n")

	if m.Snapshot != nil {
		b.WriteString(renderPreview(m.Snapshot, previewMaxCols, previewMaxRows))
		b.WriteString("\n")
	}

	b.WriteString(renderBar(m.Processed, m.Total, progressWidth))
	b.WriteString(" ")
	b.WriteString(StyleNumber.Render(fmt.Sprintf("%5.1f%%", percent(m.Processed, m.Total))))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d/%d", m.Processed, m.Total)))
	b.WriteString("\n")
	return b.String()
}

func percent(processed, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(processed) / float64(total)
}

// renderBar draws a fixed-width progress bar.
func renderBar(processed, total, width int) string {
	filled := 0
	if total > 0 {
		filled = processed * width / total
	}
	if filled > width {
		filled = width
	}
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// renderPreview draws c with upper half blocks, sampling the canvas down to
// at most maxCols by 2*maxRows pixels. Unplaced cells stay blank.
func renderPreview(c *canvas.Canvas, maxCols, maxRows int) string {
	w, h := c.Width(), c.Height()
	step := 1
	for w/step > maxCols || (h+step-1)/step > 2*maxRows {
		step++
	}
	cols := w / step
	rows := (h + step - 1) / step

	var b strings.Builder
	for y := 0; y < rows; y += 2 {
		for x := 0; x < cols; x++ {
			top, topOK := sample(c, x*step, y*step)
			bot, botOK := sample(c, x*step, (y+1)*step)
			style := lipgloss.NewStyle()
			if topOK {
				style = style.Foreground(lipgloss.Color(hex(top)))
			}
			if botOK {
				style = style.Background(lipgloss.Color(hex(bot)))
			}
			switch {
			case topOK:
				b.WriteString(style.Render("▀"))
			case botOK:
				b.WriteString(style.Render(" "))
			default:
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sample(c *canvas.Canvas, x, y int) (color.RGB, bool) {
	if y >= c.Height() || x >= c.Width() {
		return color.RGB{}, false
	}
	i := y*c.Width() + x
	if !c.PlacedIndex(i) {
		return color.RGB{}, false
	}
	return c.AtIndex(i), true
}

func hex(c color.RGB) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

// progressSender forwards engine progress to the TUI. Snapshots are already
// private copies, so they are passed through as is.
func progressSender(send func(tea.Msg)) func(processed, total int, snapshot *canvas.Canvas) error {
	return func(processed, total int, snapshot *canvas.Canvas) error {
		send(progressMsg{processed: processed, total: total, snapshot: snapshot})
		return nil
	}
}

// runPaintTUI runs the pipeline while a PaintModel shows its progress.
// Quitting the TUI cancels the run.
func runPaintTUI(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewPaintModel("Painting "+opts.SourceName(), cancel)
	prog := tea.NewProgram(model, tea.WithContext(ctx))

	opts.Logger = discardLogger()
	opts.Progress = progressSender(prog.Send)

	type outcome struct {
		result *pipeline.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := runner.Execute(ctx, opts)
		done <- outcome{res, err}
		prog.Send(doneMsg{err: err})
	}()

	if _, err := prog.Run(); err != nil {
		cancel()
		<-done
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("tui: %w", err)
	}

	out := <-done
	return out.result, out.err
}
