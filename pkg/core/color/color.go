// Package color defines the RGB triple placed on a canvas and the distance
// metric used to compare two of them.
//
// Distance is the squared Euclidean distance in RGB space. It is symmetric,
// zero exactly when both colors are identical and never exceeds [MaxDistance].
// [NoNeighbor] sits one above that bound and stands in for "nothing placed
// nearby yet", so any measured distance always wins a minimization against it.
package color

import (
	"fmt"
	stdcolor "image/color"
)

const (
	// MaxDistance is the largest value [Distance] can return (255² × 3).
	MaxDistance = 255 * 255 * 3

	// NoNeighbor scores a position that has no placed neighbor to compare against.
	NoNeighbor = MaxDistance + 1
)

// RGB is an opaque 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// Distance returns the squared Euclidean distance between a and b.
func Distance(a, b RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// RGBA implements image/color.Color. The color is always fully opaque.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// FromColor converts any image/color.Color to RGB, dropping alpha.
// Premultiplied channels are used as-is, matching how image decoders hand
// out pixels for opaque images.
func FromColor(c stdcolor.Color) RGB {
	if rgb, ok := c.(RGB); ok {
		return rgb
	}
	r, g, b, _ := c.RGBA()
	return RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// Bytes flattens colors into a packed r,g,b byte slice. It is the canonical
// form used when hashing a palette.
func Bytes(colors []RGB) []byte {
	out := make([]byte, 0, len(colors)*3)
	for _, c := range colors {
		out = append(out, c.R, c.G, c.B)
	}
	return out
}
