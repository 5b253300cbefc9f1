package sink

import (
	"bytes"
	"encoding/base64"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/rainbowsmoke/pkg/core/canvas"
	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
)

// Format names an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// DefaultFormat is used when no format is given.
const DefaultFormat = FormatPNG

// Formats lists the supported formats in display order.
var Formats = []Format{FormatPNG, FormatJPEG, FormatGIF, FormatBMP, FormatTIFF}

var imagingFormats = map[Format]imaging.Format{
	FormatPNG:  imaging.PNG,
	FormatJPEG: imaging.JPEG,
	FormatGIF:  imaging.GIF,
	FormatBMP:  imaging.BMP,
	FormatTIFF: imaging.TIFF,
}

// ParseFormat accepts a format name or file extension, with or without the
// leading dot. "jpeg" and "tif" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch name {
	case "":
		return DefaultFormat, nil
	case "jpeg":
		return FormatJPEG, nil
	case "tif":
		return FormatTIFF, nil
	}
	f := Format(name)
	if _, ok := imagingFormats[f]; !ok {
		return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported format %q (supported: png, jpg, gif, bmp, tiff)", s)
	}
	return f, nil
}

// FormatFromFilename picks the format from path's extension.
func FormatFromFilename(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errs.New(errs.ErrCodeInvalidFormat, "%s has no file extension", filepath.Base(path))
	}
	return ParseFormat(ext)
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// Option configures encoding.
type Option func(*encoder)

type encoder struct {
	scale   int
	quality int
}

// WithScale enlarges the output so each cell covers s×s pixels.
// Values below 2 leave the image at canvas size.
func WithScale(s int) Option {
	return func(e *encoder) { e.scale = s }
}

// WithJPEGQuality sets the JPEG quality (1-100, default 95).
func WithJPEGQuality(q int) Option {
	return func(e *encoder) { e.quality = q }
}

func newEncoder(opts []Option) encoder {
	e := encoder{scale: 1, quality: 95}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e encoder) image(c *canvas.Canvas) image.Image {
	img := c.Image()
	if e.scale < 2 {
		return img
	}
	return imaging.Resize(img, c.Width()*e.scale, c.Height()*e.scale, imaging.NearestNeighbor)
}

// Encode writes c to w in the given format.
func Encode(w io.Writer, c *canvas.Canvas, format Format, opts ...Option) error {
	if c == nil {
		return errs.New(errs.ErrCodeInvalidInput, "nothing to encode")
	}
	f, ok := imagingFormats[format]
	if !ok {
		return errs.New(errs.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	e := newEncoder(opts)
	if err := imaging.Encode(w, e.image(c), f, imaging.JPEGQuality(e.quality)); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode %s", format)
	}
	return nil
}

// Bytes encodes c in memory.
func Bytes(c *canvas.Canvas, format Format, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, c, format, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PNG encodes c as PNG.
func PNG(c *canvas.Canvas, opts ...Option) ([]byte, error) {
	return Bytes(c, FormatPNG, opts...)
}

// Base64PNG encodes c as base64 PNG, the form the preview page consumes.
func Base64PNG(c *canvas.Canvas, opts ...Option) (string, error) {
	data, err := PNG(c, opts...)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Save writes c to path, picking the format from the extension and creating
// parent directories as needed.
func Save(path string, c *canvas.Canvas, opts ...Option) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	format, err := FormatFromFilename(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	data, err := Bytes(c, format, opts...)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// WriteFile writes already encoded data to path.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

// Decode reads an encoded image back into a fully placed canvas.
func Decode(r io.Reader) (*canvas.Canvas, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode image")
	}
	return canvas.FromImage(img)
}
