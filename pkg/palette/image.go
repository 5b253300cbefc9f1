package palette

import (
	"bytes"
	"context"
	"image"
	"io"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/rainbowsmoke/pkg/core/color"
	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
	"github.com/matzehuels/rainbowsmoke/pkg/httputil"
)

// Loader reads source images for [FromImage]. The zero value uses
// [httputil.NewHTTPClient] for URLs.
type Loader struct {
	Fetch func(ctx context.Context, rawURL string) ([]byte, error)
}

// FromImage loads src (a file path or an http(s) URL), resizes it to
// width×height with a Lanczos filter and returns its pixels row by row.
// Any failure to read or decode the source is reported as SOURCE_UNAVAILABLE.
func FromImage(ctx context.Context, src string, width, height int) ([]color.RGB, error) {
	return Loader{}.FromImage(ctx, src, width, height)
}

// FromImage is the package-level [FromImage] using l to fetch URLs.
func (l Loader) FromImage(ctx context.Context, src string, width, height int) ([]color.RGB, error) {
	if err := errs.ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	img, err := l.open(ctx, src)
	if err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, errs.New(errs.ErrCodeSourceUnavailable, "image %s has no pixels", src)
	}
	return Resample(img, width, height), nil
}

func (l Loader) open(ctx context.Context, src string) (image.Image, error) {
	if src == "" {
		return nil, errs.New(errs.ErrCodeInvalidSource, "image source cannot be empty")
	}
	if !errs.IsURL(src) {
		if err := errs.ValidatePath(src); err != nil {
			return nil, err
		}
		img, err := imaging.Open(src)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeSourceUnavailable, err, "open image %s", src)
		}
		return img, nil
	}

	fetch := l.Fetch
	if fetch == nil {
		client := httputil.NewHTTPClient()
		fetch = func(ctx context.Context, rawURL string) ([]byte, error) {
			return httputil.Fetch(ctx, client, rawURL, httputil.DefaultMaxBytes)
		}
	}
	data, err := fetch(ctx, src)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeSourceUnavailable, err, "download image %s", src)
	}
	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeSourceUnavailable, err, "decode image %s", src)
	}
	return img, nil
}

// Decode reads any image format imaging understands.
func Decode(r io.Reader) (image.Image, error) {
	return imaging.Decode(r)
}

// Resample scales img to exactly width×height and returns its pixels in
// row-major order. Alpha is dropped without premultiplying.
func Resample(img image.Image, width, height int) []color.RGB {
	nrgba := imaging.Resize(img, width, height, imaging.Lanczos)
	colors := make([]color.RGB, 0, width*height)
	for y := 0; y < height; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+width*4]
		for x := 0; x < width; x++ {
			p := row[x*4 : x*4+4 : x*4+4]
			colors = append(colors, color.RGB{R: p[0], G: p[1], B: p[2]})
		}
	}
	return colors
}
