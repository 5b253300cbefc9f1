package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rainbowsmoke/internal/preview"
	"github.com/matzehuels/rainbowsmoke/pkg/config"
	"github.com/matzehuels/rainbowsmoke/pkg/pipeline"
	"github.com/matzehuels/rainbowsmoke/pkg/session"
)

// serveOpts holds the flags for the serve command.
type serveOpts struct {
	pipeline.Options
	addr        string
	redisAddr   string
	redisPrefix string
	frameTTL    time.Duration
	scale       int
	noCache     bool
}

// serveCommand creates the serve command for the web preview.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live web preview of a paint run",
		Long: `Serve starts an HTTP server with a page that shows the canvas while it is
being painted. Press "Reset" on the page to start a new run.

Frames are kept in memory unless --redis-addr is set, in which case every
frame is also written to Redis under its session ID.`,
		Example: `  rainbowsmoke serve
  rainbowsmoke serve --addr :9000 --image photo.jpg
  rainbowsmoke serve --redis-addr localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.applyPaintConfig(cmd, &opts.Options); err != nil {
				return err
			}
			c.applyServeConfig(cmd, &opts)
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Image, "image", "", "use the colors of an image instead of the RGB cube")
	sizeFlags(cmd, &opts.Options)
	paintFlags(cmd, &opts.Options)
	cmd.Flags().StringVar(&opts.addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "store frames in Redis at this address")
	cmd.Flags().StringVar(&opts.redisPrefix, "redis-prefix", session.DefaultRedisPrefix, "Redis key prefix")
	cmd.Flags().DurationVar(&opts.frameTTL, "frame-ttl", session.DefaultTTL, "how long stored frames are kept")
	cmd.Flags().IntVar(&opts.scale, "scale", preview.DefaultScale, "pixels per canvas cell in preview frames")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// applyServeConfig fills unset serve flags from the [serve] config section.
func (c *CLI) applyServeConfig(cmd *cobra.Command, opts *serveOpts) {
	s := c.Config.Serve
	if !cmd.Flags().Changed("addr") && s.Addr != "" {
		opts.addr = s.Addr
	}
	if !cmd.Flags().Changed("redis-addr") && s.RedisAddr != "" {
		opts.redisAddr = s.RedisAddr
	}
	if !cmd.Flags().Changed("redis-prefix") && s.RedisPrefix != "" {
		opts.redisPrefix = s.RedisPrefix
	}
	if !cmd.Flags().Changed("frame-ttl") && s.FrameTTL > 0 {
		opts.frameTTL = time.Duration(s.FrameTTL)
	}
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	opts.Source = pipeline.SourceRGB
	if opts.Image != "" {
		opts.Source = pipeline.SourceImage
	}
	// Fail on bad options now rather than on the first Reset.
	check := opts.Options
	if err := check.ValidateAndSetDefaults(); err != nil {
		return err
	}

	store, storeName, err := newFrameStore(ctx, opts)
	if err != nil {
		return err
	}
	defer store.Close()

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := preview.New(preview.Config{
		Runner:   runner,
		Store:    store,
		Options:  opts.Options,
		FrameTTL: opts.frameTTL,
		Scale:    opts.scale,
		Logger:   logger,
	})

	fmt.Fprintln(uiOut, rainbow(appName)+" "+StyleDim.Render("preview server"))
	printKeyValue("URL", StyleLink.Render(displayURL(opts.addr)))
	printKeyValue("Palette", opts.SourceName())
	printKeyValue("Frames", storeName)
	printNewline()

	return srv.ListenAndServe(ctx, opts.addr)
}

// newFrameStore picks Redis when an address is configured, memory otherwise.
func newFrameStore(ctx context.Context, opts serveOpts) (session.Store, string, error) {
	if opts.redisAddr == "" {
		return session.NewMemoryStore(), "memory", nil
	}
	store, err := session.NewRedisStore(ctx, session.RedisConfig{
		Addr:   opts.redisAddr,
		Prefix: opts.redisPrefix,
	})
	if err != nil {
		return nil, "", err
	}
	return store, "redis " + opts.redisAddr, nil
}

// displayURL turns a listen address into something a browser can open.
func displayURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
