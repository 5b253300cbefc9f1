package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/rainbowsmoke/pkg/cache"
	"github.com/matzehuels/rainbowsmoke/pkg/core/color"
	"github.com/matzehuels/rainbowsmoke/pkg/httputil"
	"github.com/matzehuels/rainbowsmoke/pkg/observability"
	"github.com/matzehuels/rainbowsmoke/pkg/palette"
)

// LoadColors builds the palette for opts. Downloaded images are cached so
// repeated runs against the same URL do not hit the network.
func (r *Runner) LoadColors(ctx context.Context, opts Options) ([]color.RGB, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	src := opts.SourceName()
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, src)
	start := time.Now()

	var colors []color.RGB
	var err error
	if opts.IsImage() {
		loader := palette.Loader{Fetch: r.fetchCached(opts.Refresh)}
		colors, err = loader.FromImage(ctx, opts.Image, opts.Width, opts.Height)
	} else {
		colors, err = palette.Uniform(opts.Width, opts.Height)
	}
	hooks.OnLoadComplete(ctx, src, len(colors), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("loaded palette", "source", src, "colors", len(colors), "size", sizeString(opts.Width, opts.Height))
	return colors, nil
}

func (r *Runner) fetchCached(refresh bool) func(context.Context, string) ([]byte, error) {
	client := httputil.NewHTTPClient()
	return func(ctx context.Context, rawURL string) ([]byte, error) {
		key := r.Keyer.HTTPKey("image", rawURL)
		if !refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "http")
				return data, nil
			}
			observability.Cache().OnCacheMiss(ctx, "http")
		}
		data, err := httputil.Fetch(ctx, client, rawURL, httputil.DefaultMaxBytes)
		if err != nil {
			return nil, err
		}
		if err := r.Cache.Set(ctx, key, data, cache.HTTPTTL); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "http", len(data))
		}
		return data, nil
	}
}
