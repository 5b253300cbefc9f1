package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rainbowsmoke/pkg/core/canvas"
	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
	"github.com/matzehuels/rainbowsmoke/pkg/pipeline"
	"github.com/matzehuels/rainbowsmoke/pkg/sink"
)

// defaultOutputName is the file written into the output directory.
const defaultOutputName = "output.png"

// paintOpts holds the flags for the paint command.
type paintOpts struct {
	pipeline.Options
	rgb     bool
	output  string
	outDir  string
	tui     bool
	noCache bool
}

// paintCommand creates the paint command.
func (c *CLI) paintCommand() *cobra.Command {
	var opts paintOpts

	cmd := &cobra.Command{
		Use:   "paint",
		Short: "Paint a palette into a rainbow smoke image",
		Long: `Paint places every color of a palette onto the canvas, growing outward
from the center, and writes the result into the output directory.

The palette is either a uniform sampling of the RGB cube (--rgb) or the
pixels of an image resampled to the canvas size (--image).`,
		Example: `  rainbowsmoke paint --rgb
  rainbowsmoke paint --image photo.jpg --width 320 --height 200 -o photo.png
  rainbowsmoke paint --rgb --strategy indexed --seed 7 --tui`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.applyPaintConfig(cmd, &opts.Options); err != nil {
				return err
			}
			if !cmd.Flags().Changed("out-dir") && c.Config.Paint.OutputDir != "" {
				opts.outDir = c.Config.Paint.OutputDir
			}
			return c.runPaint(cmd.Context(), &opts)
		},
	}

	sourceFlags(cmd, &opts.rgb, &opts.Image)
	sizeFlags(cmd, &opts.Options)
	paintFlags(cmd, &opts.Options)
	cmd.Flags().StringVarP(&opts.output, "output", "o", defaultOutputName, "output filename (format from extension)")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "out", "output directory")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format: png, jpg, gif, bmp, tiff (default from --output)")
	cmd.Flags().IntVar(&opts.Scale, "scale", 1, "pixels per canvas cell in the written image")
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "show a live preview in the terminal")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "repaint even when a cached result exists")

	return cmd
}

// resolve fills in source and format and returns the output path.
func (o *paintOpts) resolve() (string, error) {
	if err := errs.ValidateOutputFilename(o.output); err != nil {
		return "", err
	}
	if o.outDir == "" {
		o.outDir = "."
	}
	if o.rgb {
		o.Source = pipeline.SourceRGB
	} else {
		o.Source = pipeline.SourceImage
	}
	if o.Format == "" {
		f, err := sink.FormatFromFilename(o.output)
		if err != nil {
			return "", err
		}
		o.Format = string(f)
	}
	return filepath.Join(o.outDir, o.output), nil
}

func (c *CLI) runPaint(ctx context.Context, opts *paintOpts) error {
	logger := loggerFromContext(ctx)

	path, err := opts.resolve()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var result *pipeline.Result
	if opts.tui {
		result, err = runPaintTUI(ctx, runner, opts.Options)
	} else {
		opts.Logger = logger
		opts.Progress = progressPrinter(os.Stderr)
		sp := startSpinner(ctx, os.Stderr, "Loading "+opts.SourceName()+"...")
		restore := trackLoad(sp)
		result, err = runner.Execute(ctx, opts.Options)
		restore()
		sp.Stop()
	}
	if err != nil {
		return err
	}

	if err := sink.WriteFile(path, result.Artifact); err != nil {
		return err
	}

	printSuccess("Painted %s", opts.SourceName())
	printSummary(result, opts.Strategy)
	printFile(path)
	if sink.Format(opts.Format) == sink.FormatJPEG {
		printWarning("jpg is lossy, colors in %s are not exact", filepath.Base(path))
	}
	return nil
}

// progressPrinter returns a progress callback that rewrites a single
// "Progress: x%" line on w and ends it once every color is placed.
func progressPrinter(w io.Writer) func(processed, total int, _ *canvas.Canvas) error {
	return func(processed, total int, _ *canvas.Canvas) error {
		if total == 0 {
			return nil
		}
		fmt.Fprintf(w, "\rProgress: %.1f%%", 100*float64(processed)/float64(total))
		if processed == total {
			fmt.Fprintln(w)
		}
		return nil
	}
}

// discardLogger keeps pipeline logs from tearing the TUI.
func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
