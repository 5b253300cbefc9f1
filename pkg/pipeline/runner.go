package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rainbowsmoke/pkg/cache"
	"github.com/matzehuels/rainbowsmoke/pkg/core/canvas"
	"github.com/matzehuels/rainbowsmoke/pkg/core/color"
	"github.com/matzehuels/rainbowsmoke/pkg/core/smoke"
	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
	"github.com/matzehuels/rainbowsmoke/pkg/observability"
	"github.com/matzehuels/rainbowsmoke/pkg/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the preview server use it.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → paint → encode pipeline with caching.
// Cancelling ctx stops the paint stage at its next progress report.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Format: sink.Format(opts.Format)}

	// Stage 1: Load
	loadStart := time.Now()
	colors, err := r.LoadColors(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Colors = len(colors)
	result.PaletteHash = cache.Hash(color.Bytes(colors))

	opts.Logger.Info("loaded colors",
		"source", opts.SourceName(),
		"colors", len(colors),
		"duration", result.Stats.LoadTime)

	// Stage 2: Paint (or reuse a cached canvas)
	paintStart := time.Now()
	c, hit, err := r.PaintWithCacheInfo(ctx, colors, result.PaletteHash, opts)
	if err != nil {
		return nil, fmt.Errorf("paint: %w", err)
	}
	result.Canvas = c
	result.CacheHit = hit
	result.Stats.PaintTime = time.Since(paintStart)

	opts.Logger.Info("painted canvas",
		"size", sizeString(opts.Width, opts.Height),
		"strategy", opts.Strategy,
		"cached", hit,
		"duration", result.Stats.PaintTime)

	// Stage 3: Encode
	encodeStart := time.Now()
	artifact, err := r.Encode(ctx, c, opts)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	result.Artifact = artifact
	result.Stats.EncodeTime = time.Since(encodeStart)

	opts.Logger.Debug("encoded canvas",
		"format", opts.Format,
		"bytes", len(artifact),
		"duration", result.Stats.EncodeTime)

	return result, nil
}

// PaintWithCacheInfo paints colors, reusing a cached canvas when one exists
// for the same palette and options, and reports whether it did.
func (r *Runner) PaintWithCacheInfo(ctx context.Context, colors []color.RGB, paletteHash string, opts Options) (*canvas.Canvas, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.ArtifactKey(paletteHash, opts.ArtifactKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if c, err := sink.Decode(bytes.NewReader(data)); err == nil && c.Width() == opts.Width && c.Height() == opts.Height {
				observability.Cache().OnCacheHit(ctx, "artifact")
				// Progress callers still get the closing (N, N) report.
				if opts.Progress != nil {
					if err := opts.Progress(c.Len(), c.Len(), c); err != nil {
						return nil, false, errs.Wrap(errs.ErrCodeReporterFailure, err, "progress callback")
					}
				}
				return c, true, nil
			}
			// Unreadable entry: fall through and repaint.
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	c, err := r.Paint(ctx, colors, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := sink.PNG(c); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return c, false, nil
}

// Paint runs the engine without consulting the cache. Progress reports go to
// the observability hooks and then to opts.Progress; a cancelled ctx aborts
// the run at the next report.
func (r *Runner) Paint(ctx context.Context, colors []color.RGB, opts Options) (*canvas.Canvas, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	smokeOpts := opts.SmokeOptions()
	smokeOpts.Progress = func(done, total int, snap *canvas.Canvas) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		hooks.OnPaintProgress(ctx, done, total)
		if opts.Progress != nil {
			return opts.Progress(done, total, snap)
		}
		return nil
	}

	hooks.OnPaintStart(ctx, opts.Strategy, len(colors))
	start := time.Now()
	c, err := smoke.Paint(colors, opts.Width, opts.Height, smokeOpts)
	hooks.OnPaintComplete(ctx, opts.Strategy, time.Since(start), err)
	return c, err
}

// Encode writes c in the requested format.
func (r *Runner) Encode(ctx context.Context, c *canvas.Canvas, opts Options) ([]byte, error) {
	if err := opts.ValidateForEncode(); err != nil {
		return nil, err
	}
	start := time.Now()
	data, err := sink.Bytes(c, sink.Format(opts.Format), opts.EncodeOptions()...)
	observability.Pipeline().OnEncodeComplete(ctx, opts.Format, len(data), time.Since(start), err)
	return data, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func sizeString(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}
