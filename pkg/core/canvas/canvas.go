// Package canvas holds the pixel grid being painted together with its placed
// mask.
//
// A Canvas is write-once per cell: [Canvas.Set] refuses to overwrite a cell
// that already holds a color, which keeps the placed mask monotonic. Copies
// handed to observers come from [Canvas.Clone] and never alias the live grid.
package canvas

import (
	"image"

	"github.com/matzehuels/rainbowsmoke/pkg/core/color"
	"github.com/matzehuels/rainbowsmoke/pkg/core/grid"
	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
)

// Canvas is a width×height grid of colors plus the mask of committed cells.
// Unplaced cells read as black. A Canvas is not safe for concurrent use.
type Canvas struct {
	width, height int
	pix           []color.RGB
	placed        []bool
	count         int
}

// New creates an empty canvas.
func New(width, height int) (*Canvas, error) {
	if err := errs.ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	n := width * height
	return &Canvas{
		width:  width,
		height: height,
		pix:    make([]color.RGB, n),
		placed: make([]bool, n),
	}, nil
}

// FromImage creates a fully placed canvas from the pixels of img.
func FromImage(img image.Image) (*Canvas, error) {
	b := img.Bounds()
	c, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	for y := range c.height {
		for x := range c.width {
			i := y*c.width + x
			c.pix[i] = color.FromColor(img.At(b.Min.X+x, b.Min.Y+y))
			c.placed[i] = true
		}
	}
	c.count = len(c.pix)
	return c, nil
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Len returns the number of cells.
func (c *Canvas) Len() int { return len(c.pix) }

// PlacedCount returns the number of committed cells.
func (c *Canvas) PlacedCount() int { return c.count }

// Complete reports whether every cell holds a committed color.
func (c *Canvas) Complete() bool { return c.count == len(c.pix) }

// At returns the color at p. p must be in bounds.
func (c *Canvas) At(p grid.Point) color.RGB {
	return c.pix[p.Y*c.width+p.X]
}

// AtIndex returns the color of the cell with row-major index i.
func (c *Canvas) AtIndex(i int) color.RGB { return c.pix[i] }

// Placed reports whether p holds a committed color. p must be in bounds.
func (c *Canvas) Placed(p grid.Point) bool {
	return c.placed[p.Y*c.width+p.X]
}

// PlacedIndex is [Canvas.Placed] by row-major index.
func (c *Canvas) PlacedIndex(i int) bool { return c.placed[i] }

// Set commits col at p. It fails if p is out of bounds or already placed.
func (c *Canvas) Set(p grid.Point, col color.RGB) error {
	if !grid.InBounds(p, c.width, c.height) {
		return errs.New(errs.ErrCodeInvalidInput, "cell %v outside %dx%d canvas", p, c.width, c.height)
	}
	i := p.Y*c.width + p.X
	if c.placed[i] {
		return errs.New(errs.ErrCodeInternal, "cell %v already placed", p)
	}
	c.pix[i] = col
	c.placed[i] = true
	c.count++
	return nil
}

// Clone returns a deep copy.
func (c *Canvas) Clone() *Canvas {
	return &Canvas{
		width:  c.width,
		height: c.height,
		pix:    append([]color.RGB(nil), c.pix...),
		placed: append([]bool(nil), c.placed...),
		count:  c.count,
	}
}

// Rows returns the grid as height rows of width colors.
func (c *Canvas) Rows() [][]color.RGB {
	rows := make([][]color.RGB, c.height)
	for y := range rows {
		rows[y] = append([]color.RGB(nil), c.pix[y*c.width:(y+1)*c.width]...)
	}
	return rows
}

// Image renders the canvas as an opaque RGBA image.
func (c *Canvas) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	for i, col := range c.pix {
		o := i * 4
		img.Pix[o] = col.R
		img.Pix[o+1] = col.G
		img.Pix[o+2] = col.B
		img.Pix[o+3] = 0xff
	}
	return img
}

// Equal reports whether two canvases have the same size, mask and colors.
func (c *Canvas) Equal(o *Canvas) bool {
	if c.width != o.width || c.height != o.height || c.count != o.count {
		return false
	}
	for i := range c.pix {
		if c.pix[i] != o.pix[i] || c.placed[i] != o.placed[i] {
			return false
		}
	}
	return true
}
