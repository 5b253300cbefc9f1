// Package smoke implements the placement engine that paints a "rainbow smoke"
// image.
//
// The engine permutes a palette once with a seedable random source, then
// places the colors one at a time. Each color goes to the frontier cell whose
// placed neighbors it matches best (see package frontier for the scoring and
// tie-break rules), and the frontier grows around the placed cell. Painting
// starts from the canvas center and ends when every cell holds a color.
//
// # Usage
//
//	colors := palette.Uniform(256, 128)
//	c, err := smoke.Paint(colors, 256, 128, smoke.Options{
//	    Seed: 7,
//	    Progress: func(done, total int, snap *canvas.Canvas) error {
//	        fmt.Printf("\r%d/%d", done, total)
//	        return nil
//	    },
//	})
//
// # Progress
//
// Progress is called before placing color i whenever i is a multiple of
// ProgressInterval (so at 0 first), and once more after the last placement
// with done == total. Each call receives its own copy of the canvas. An error
// returned by Progress aborts the run; it is wrapped as REPORTER_FAILURE with
// the original error kept as the cause.
//
// The engine is single-threaded and does not support cancellation itself. A
// host that needs to stop a run returns an error (for example ctx.Err()) from
// Progress.
package smoke

import (
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rainbowsmoke/pkg/core/canvas"
	"github.com/matzehuels/rainbowsmoke/pkg/core/color"
	"github.com/matzehuels/rainbowsmoke/pkg/core/frontier"
	"github.com/matzehuels/rainbowsmoke/pkg/core/grid"
	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
)

const (
	// DefaultSeed seeds the palette shuffle when no source is supplied.
	DefaultSeed = uint64(42)

	// DefaultProgressInterval is the number of placements between reports.
	DefaultProgressInterval = 1000
)

// ProgressFunc receives (placed so far, total, copy of the canvas).
type ProgressFunc func(processed, total int, snapshot *canvas.Canvas) error

// Options configures a run. The zero value is usable.
type Options struct {
	// Seed seeds a PCG source for the palette shuffle when Rand is nil.
	Seed uint64

	// Rand, when set, is used for the shuffle instead of a seeded PCG.
	Rand *rand.Rand

	// ProgressInterval is the number of placements between Progress calls.
	// Values <= 0 use DefaultProgressInterval.
	ProgressInterval int

	// Progress is called synchronously on the engine goroutine. Optional.
	Progress ProgressFunc

	// Strategy selects the frontier implementation. Empty means scan.
	Strategy frontier.Strategy

	// Logger receives debug output. Nil disables logging.
	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = DefaultProgressInterval
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(o.Seed, o.Seed^0x5eed))
	}
	if o.Strategy == "" {
		o.Strategy = frontier.DefaultStrategy
	}
}

// Engine paints one canvas. Create it with New, then call Run, or Step until
// Done for finer control.
type Engine struct {
	opts     Options
	canvas   *canvas.Canvas
	frontier frontier.Frontier
	queue    []color.RGB
	next     int
}

// New validates the input and prepares a run. colors is not modified.
func New(colors []color.RGB, width, height int, opts Options) (*Engine, error) {
	if err := errs.ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	if err := errs.ValidateColorCount(len(colors), width, height); err != nil {
		return nil, err
	}
	opts.setDefaults()

	c, err := canvas.New(width, height)
	if err != nil {
		return nil, err
	}
	f, err := frontier.New(opts.Strategy, c)
	if err != nil {
		return nil, err
	}
	f.Reset(grid.Center(width, height))

	return &Engine{
		opts:     opts,
		canvas:   c,
		frontier: f,
		queue:    Shuffle(colors, opts.Rand),
	}, nil
}

// Paint runs the engine to completion and returns the finished canvas.
// On error no canvas is returned.
func Paint(colors []color.RGB, width, height int, opts Options) (*canvas.Canvas, error) {
	e, err := New(colors, width, height, opts)
	if err != nil {
		return nil, err
	}
	return e.Run()
}

// Run places every remaining color, reporting progress along the way.
func (e *Engine) Run() (*canvas.Canvas, error) {
	start := time.Now()
	total := len(e.queue)

	for !e.Done() {
		if e.next%e.opts.ProgressInterval == 0 {
			if err := e.report(e.next, total); err != nil {
				return nil, err
			}
		}
		if _, err := e.Step(); err != nil {
			return nil, err
		}
	}
	if err := e.report(total, total); err != nil {
		return nil, err
	}

	if e.opts.Logger != nil {
		e.opts.Logger.Debug("painted canvas",
			"width", e.canvas.Width(),
			"height", e.canvas.Height(),
			"strategy", e.opts.Strategy,
			"duration", time.Since(start).Round(time.Millisecond))
	}
	return e.canvas, nil
}

// Step places the next queued color and returns where it went.
func (e *Engine) Step() (grid.Point, error) {
	if e.Done() {
		return grid.Point{}, errs.New(errs.ErrCodeInternal, "all %d colors already placed", len(e.queue))
	}
	col := e.queue[e.next]
	p, _, ok := e.frontier.Best(col)
	if !ok {
		return grid.Point{}, errs.New(errs.ErrCodeInternal, "frontier empty after %d of %d placements", e.next, len(e.queue))
	}
	if err := e.canvas.Set(p, col); err != nil {
		return grid.Point{}, err
	}
	e.frontier.Commit(p)
	e.next++
	return p, nil
}

// Done reports whether every color has been placed.
func (e *Engine) Done() bool { return e.next == len(e.queue) }

// Placed returns the number of colors placed so far.
func (e *Engine) Placed() int { return e.next }

// Canvas returns the live canvas. It must not be modified.
func (e *Engine) Canvas() *canvas.Canvas { return e.canvas }

// Frontier returns the live frontier. It must not be modified.
func (e *Engine) Frontier() frontier.Frontier { return e.frontier }

// Queue returns the shuffled color order.
func (e *Engine) Queue() []color.RGB { return e.queue }

func (e *Engine) report(done, total int) error {
	if e.opts.Progress == nil {
		return nil
	}
	if err := e.opts.Progress(done, total, e.canvas.Clone()); err != nil {
		return errs.Wrap(errs.ErrCodeReporterFailure, err, "progress callback failed at %d/%d", done, total)
	}
	return nil
}

// Shuffle returns a uniformly permuted copy of colors.
func Shuffle(colors []color.RGB, rng *rand.Rand) []color.RGB {
	out := make([]color.RGB, len(colors))
	copy(out, colors)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
