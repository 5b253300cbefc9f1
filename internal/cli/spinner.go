package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/rainbowsmoke/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 80 * time.Millisecond

// spinner animates a single status line while the palette loads. The
// message changes as loading moves from download to decode and resample.
type spinner struct {
	w   io.Writer
	mu  sync.Mutex
	msg string
	// drawn is the visible width of the last frame, used to clear it.
	drawn int

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// startSpinner draws the first frame immediately and animates until Stop
// is called or ctx ends.
func startSpinner(ctx context.Context, w io.Writer, msg string) *spinner {
	s := &spinner{
		w:       w,
		msg:     msg,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerTick)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.draw(spinnerFrames[i%len(spinnerFrames)])
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleSpinner.Render(frame) + " " + StyleDim.Render(s.msg)
	pad := ""
	if w := lipgloss.Width(line); w < s.drawn {
		pad = strings.Repeat(" ", s.drawn-w)
	} else {
		s.drawn = w
	}
	fmt.Fprintf(s.w, "\r%s%s", line, pad)
}

// SetMessage replaces the text shown from the next frame on.
func (s *spinner) SetMessage(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Message returns the current text.
func (s *spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msg
}

// Stop ends the animation and erases the line. Safe to call repeatedly.
func (s *spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.stopped

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.drawn))
		s.drawn = 0
	}
}

// =============================================================================
// Load Stages
// =============================================================================

// loadStages turns palette loading events into spinner messages and forwards
// every event to the hooks that were registered before it.
type loadStages struct {
	sp       *spinner
	pipeline observability.PipelineHooks
	http     observability.HTTPHooks
}

// trackLoad points the pipeline and HTTP hooks at sp until restore is called.
// The spinner stops itself once loading completes.
func trackLoad(sp *spinner) (restore func()) {
	st := &loadStages{sp: sp, pipeline: observability.Pipeline(), http: observability.HTTP()}
	observability.SetPipelineHooks(st)
	observability.SetHTTPHooks(st)
	return func() {
		observability.SetPipelineHooks(st.pipeline)
		observability.SetHTTPHooks(st.http)
	}
}

func (l *loadStages) OnLoadStart(ctx context.Context, source string) {
	l.sp.SetMessage("Loading " + source + "...")
	l.pipeline.OnLoadStart(ctx, source)
}

func (l *loadStages) OnLoadComplete(ctx context.Context, source string, colors int, d time.Duration, err error) {
	l.sp.Stop()
	l.pipeline.OnLoadComplete(ctx, source, colors, d, err)
}

func (l *loadStages) OnPaintStart(ctx context.Context, strategy string, total int) {
	l.pipeline.OnPaintStart(ctx, strategy, total)
}

func (l *loadStages) OnPaintProgress(ctx context.Context, processed, total int) {
	l.pipeline.OnPaintProgress(ctx, processed, total)
}

func (l *loadStages) OnPaintComplete(ctx context.Context, strategy string, d time.Duration, err error) {
	l.pipeline.OnPaintComplete(ctx, strategy, d, err)
}

func (l *loadStages) OnEncodeComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	l.pipeline.OnEncodeComplete(ctx, format, size, d, err)
}

func (l *loadStages) OnRequest(ctx context.Context, method, host, path string) {
	l.sp.SetMessage("Downloading " + host + path + "...")
	l.http.OnRequest(ctx, method, host, path)
}

func (l *loadStages) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	l.sp.SetMessage("Resampling image...")
	l.http.OnResponse(ctx, method, host, path, status, d)
}

func (l *loadStages) OnError(ctx context.Context, method, host, path string, err error) {
	l.sp.SetMessage("Retrying " + host + "...")
	l.http.OnError(ctx, method, host, path, err)
}
