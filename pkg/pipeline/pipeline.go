// Package pipeline provides the load → paint → encode pipeline for rainbowsmoke.
//
// The CLI and the preview server both paint through a [Runner], so defaults,
// caching and instrumentation behave the same for every entry point.
//
// # Architecture
//
// A run has three stages:
//
//  1. Load: build the palette, either the uniform RGB cube or the pixels of
//     a resized image (file or URL)
//  2. Paint: place every color with the smoke engine
//  3. Encode: write the canvas in the requested image format
//
// Paint results are a pure function of palette, canvas size and seed, so the
// encoded canvas is cached under a key derived from exactly those inputs.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source: pipeline.SourceRGB,
//	    Width:  256,
//	    Height: 128,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.png", result.Artifact, 0o644)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rainbowsmoke/pkg/cache"
	"github.com/matzehuels/rainbowsmoke/pkg/core/canvas"
	"github.com/matzehuels/rainbowsmoke/pkg/core/frontier"
	"github.com/matzehuels/rainbowsmoke/pkg/core/smoke"
	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
	"github.com/matzehuels/rainbowsmoke/pkg/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Preview Server
// =============================================================================

const (
	// DefaultWidth is the default canvas width in cells.
	DefaultWidth = 256

	// DefaultHeight is the default canvas height in cells.
	DefaultHeight = 128

	// DefaultSeed is the default shuffle seed for reproducibility.
	DefaultSeed = smoke.DefaultSeed

	// DefaultProgressInterval is the number of placements between reports.
	DefaultProgressInterval = smoke.DefaultProgressInterval
)

// Palette sources.
const (
	SourceRGB   = "rgb"
	SourceImage = "image"
)

// ValidSources is the set of supported palette sources.
var ValidSources = map[string]bool{
	SourceRGB:   true,
	SourceImage: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a paint run.
// This struct supports JSON serialization for preview server requests.
type Options struct {
	// Load options
	Source string `json:"source,omitempty"`
	Image  string `json:"image,omitempty"` // file path or http(s) URL
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`

	// Paint options
	Seed             uint64 `json:"seed,omitempty"`
	Strategy         string `json:"strategy,omitempty"`
	ProgressInterval int    `json:"progress_interval,omitempty"`

	// Encode options
	Format string `json:"format,omitempty"`
	Scale  int    `json:"scale,omitempty"`

	// Refresh skips the cache lookup. The result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger        `json:"-"`
	Progress smoke.ProgressFunc `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Canvas is the finished canvas.
	Canvas *canvas.Canvas

	// Artifact is the canvas encoded in Format.
	Artifact []byte
	Format   sink.Format

	// PaletteHash is the content hash of the loaded colors.
	PaletteHash string

	Stats Stats

	// CacheHit is true when painting was skipped.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Colors     int
	LoadTime   time.Duration
	PaintTime  time.Duration
	EncodeTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateSource checks that a palette source is valid.
func ValidateSource(source string) error {
	if !ValidSources[source] {
		return errs.New(errs.ErrCodeInvalidSource, "invalid source: %q (must be one of: rgb, image)", source)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for a full run.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForPaint(); err != nil {
		return err
	}
	if err := o.ValidateForEncode(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the palette source and canvas size.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" {
		o.Source = SourceRGB
		if o.Image != "" {
			o.Source = SourceImage
		}
	}
	if err := ValidateSource(o.Source); err != nil {
		return err
	}
	if o.Source == SourceImage && o.Image == "" {
		return errs.New(errs.ErrCodeInvalidSource, "image source requires an image path or URL")
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if err := errs.ValidateCanvasSize(o.Width, o.Height); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForPaint sets paint defaults and checks the frontier strategy.
func (o *Options) ValidateForPaint() error {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = DefaultProgressInterval
	}
	s, err := frontier.ParseStrategy(o.Strategy)
	if err != nil {
		return err
	}
	o.Strategy = string(s)
	return nil
}

// ValidateForEncode normalizes the output format.
func (o *Options) ValidateForEncode() error {
	f, err := sink.ParseFormat(o.Format)
	if err != nil {
		return err
	}
	o.Format = string(f)
	if o.Scale < 1 {
		o.Scale = 1
	}
	return nil
}

// IsImage returns true if colors come from an image.
func (o *Options) IsImage() bool {
	return o.Source == SourceImage
}

// SourceName describes the palette source for logs and hooks.
func (o *Options) SourceName() string {
	if o.IsImage() {
		return o.Image
	}
	return SourceRGB
}

// ArtifactKeyOpts returns cache key options for the cached canvas. The cache
// always holds a lossless PNG at scale 1, whatever format was requested.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Width:  o.Width,
		Height: o.Height,
		Seed:   o.Seed,
		Format: string(sink.FormatPNG),
	}
}

// SmokeOptions converts to engine options, leaving Progress to the caller.
func (o *Options) SmokeOptions() smoke.Options {
	return smoke.Options{
		Seed:             o.Seed,
		ProgressInterval: o.ProgressInterval,
		Strategy:         frontier.Strategy(o.Strategy),
		Logger:           o.Logger,
	}
}

// EncodeOptions returns the sink options for the requested output.
func (o *Options) EncodeOptions() []sink.Option {
	return []sink.Option{sink.WithScale(o.Scale)}
}
