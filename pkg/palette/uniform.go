package palette

import (
	"github.com/matzehuels/rainbowsmoke/pkg/core/color"
	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
)

// Uniform returns width*height colors sampled from an n×n×n lattice over the
// RGB cube, where n is the smallest side with n³ >= width*height. Colors are
// ordered red-major, then green, then blue, and the lattice is truncated to
// the canvas size.
func Uniform(width, height int) ([]color.RGB, error) {
	if err := errs.ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	total := width * height
	n := CubeSide(total)

	colors := make([]color.RGB, 0, total)
	for r := 0; r < n; r++ {
		for g := 0; g < n; g++ {
			for b := 0; b < n; b++ {
				if len(colors) == total {
					return colors, nil
				}
				colors = append(colors, color.RGB{R: level(r, n), G: level(g, n), B: level(b, n)})
			}
		}
	}
	return colors, nil
}

// CubeSide returns the smallest n with n³ >= total. It is 1 for total <= 1.
func CubeSide(total int) int {
	n := 1
	for n*n*n < total {
		n++
	}
	return n
}

// level maps lattice step i of n onto 0..255, truncating.
func level(i, n int) uint8 {
	if n <= 1 {
		return 0
	}
	return uint8(i * 255 / (n - 1))
}
