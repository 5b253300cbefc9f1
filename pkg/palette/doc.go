// Package palette produces the color lists the engine places.
//
// Two sources are supported:
//
//   - [Uniform] spreads colors evenly across the RGB cube, enough to fill a
//     width×height canvas exactly.
//   - [FromImage] downsamples an image (local file or http(s) URL) to the
//     canvas size and returns its pixels in row-major order.
//
// Both return exactly width*height colors, which is what
// [github.com/matzehuels/rainbowsmoke/pkg/core/smoke.Paint] requires.
package palette
