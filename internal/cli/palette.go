package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rainbowsmoke/pkg/core/canvas"
	"github.com/matzehuels/rainbowsmoke/pkg/core/color"
	"github.com/matzehuels/rainbowsmoke/pkg/core/grid"
	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
	"github.com/matzehuels/rainbowsmoke/pkg/pipeline"
	"github.com/matzehuels/rainbowsmoke/pkg/sink"
)

// paletteCommand creates the palette command, which writes the palette in
// its unshuffled order so it can be compared with a painted result.
func (c *CLI) paletteCommand() *cobra.Command {
	var (
		opts    pipeline.Options
		rgb     bool
		output  string
		outDir  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Write the palette as an image without painting it",
		Example: `  rainbowsmoke palette --rgb -o cube.png
  rainbowsmoke palette --image photo.jpg --width 64 --height 64`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.applyPaintConfig(cmd, &opts); err != nil {
				return err
			}
			if !cmd.Flags().Changed("out-dir") && c.Config.Paint.OutputDir != "" {
				outDir = c.Config.Paint.OutputDir
			}
			opts.Source = pipeline.SourceImage
			if rgb {
				opts.Source = pipeline.SourceRGB
			}
			if err := errs.ValidateOutputFilename(output); err != nil {
				return err
			}
			return c.runPalette(cmd.Context(), opts, filepath.Join(outDir, output), noCache)
		},
	}

	sourceFlags(cmd, &rgb, &opts.Image)
	sizeFlags(cmd, &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "palette.png", "output filename (format from extension)")
	cmd.Flags().StringVar(&outDir, "out-dir", "out", "output directory")
	cmd.Flags().IntVar(&opts.Scale, "scale", 1, "pixels per canvas cell in the written image")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching of downloaded images")

	return cmd
}

func (c *CLI) runPalette(ctx context.Context, opts pipeline.Options, path string, noCache bool) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	if _, err := sink.FormatFromFilename(path); err != nil {
		return err
	}
	if err := opts.ValidateForLoad(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	sp := startSpinner(ctx, os.Stderr, "Loading "+opts.SourceName()+"...")
	restore := trackLoad(sp)
	prog := startStage(logger)
	colors, err := runner.LoadColors(ctx, opts)
	restore()
	sp.Stop()
	if err != nil {
		return err
	}

	cv, err := paletteCanvas(colors, opts.Width, opts.Height)
	if err != nil {
		return err
	}

	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}
	if err := sink.Save(path, cv, sink.WithScale(scale)); err != nil {
		return err
	}
	prog.done("Wrote palette")

	printSuccess("Palette of %d colors", len(colors))
	printFile(path)
	return nil
}

// paletteCanvas lays colors out row-major on a width x height canvas.
func paletteCanvas(colors []color.RGB, width, height int) (*canvas.Canvas, error) {
	if err := errs.ValidateColorCount(len(colors), width, height); err != nil {
		return nil, err
	}
	cv, err := canvas.New(width, height)
	if err != nil {
		return nil, err
	}
	for i, col := range colors {
		if err := cv.Set(grid.Point{X: i % width, Y: i / width}, col); err != nil {
			return nil, err
		}
	}
	return cv, nil
}
