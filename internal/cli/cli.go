package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rainbowsmoke/pkg/buildinfo"
	"github.com/matzehuels/rainbowsmoke/pkg/cache"
	"github.com/matzehuels/rainbowsmoke/pkg/config"
	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
	"github.com/matzehuels/rainbowsmoke/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "rainbowsmoke"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded from the config file before any command runs.
	Config     config.Config
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "rainbowsmoke paints every color of a palette into one smooth image",
		Long: `rainbowsmoke places a palette of colors one at a time, each next to the
already placed colors it resembles most, growing a "rainbow smoke" image out
from the center of the canvas.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/rainbowsmoke/config.toml)")

	root.AddCommand(c.paintCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.paletteCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	for _, cmd := range root.Commands() {
		registerCompletions(cmd)
	}

	return root
}

// loadConfig reads the config file and attaches the logger to the context.
func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	path := c.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			c.Logger.Debug("no config directory", "error", err)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/rainbowsmoke/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyPaintConfig fills options the user did not set on the command line
// from the [paint] section of the config file.
func (c *CLI) applyPaintConfig(cmd *cobra.Command, opts *pipeline.Options) error {
	// Options treat seed 0 as unset, so an explicit 0 would silently become
	// the default seed.
	if cmd.Flags().Changed("seed") && opts.Seed == 0 {
		return errs.New(errs.ErrCodeInvalidInput, "--seed must be positive (0 selects the default seed %d)", pipeline.DefaultSeed)
	}
	p := c.Config.Paint
	if !cmd.Flags().Changed("width") && p.Width > 0 {
		opts.Width = p.Width
	}
	if !cmd.Flags().Changed("height") && p.Height > 0 {
		opts.Height = p.Height
	}
	if !cmd.Flags().Changed("seed") && p.Seed > 0 {
		opts.Seed = p.Seed
	}
	if !cmd.Flags().Changed("strategy") && p.Strategy != "" {
		opts.Strategy = p.Strategy
	}
	if !cmd.Flags().Changed("interval") && p.ProgressInterval > 0 {
		opts.ProgressInterval = p.ProgressInterval
	}
	return nil
}

// sourceFlags registers the shared --rgb/--image flags.
func sourceFlags(cmd *cobra.Command, rgb *bool, image *string) {
	cmd.Flags().BoolVar(rgb, "rgb", false, "use a uniform RGB color cube")
	cmd.Flags().StringVar(image, "image", "", "use the colors of an image (file path or http(s) URL)")
	cmd.MarkFlagsMutuallyExclusive("rgb", "image")
	cmd.MarkFlagsOneRequired("rgb", "image")
}

// sizeFlags registers --width/--height on opts.
func sizeFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().IntVar(&opts.Width, "width", pipeline.DefaultWidth, "canvas width in cells")
	cmd.Flags().IntVar(&opts.Height, "height", pipeline.DefaultHeight, "canvas height in cells")
}

// paintFlags registers the engine flags on opts.
func paintFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Uint64Var(&opts.Seed, "seed", pipeline.DefaultSeed, "shuffle seed")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", "scan", "frontier search: scan, indexed")
	cmd.Flags().IntVar(&opts.ProgressInterval, "interval", pipeline.DefaultProgressInterval, "placements between progress updates")
}
