// Package sink encodes painted canvases into image files.
//
// Every format imaging can write is supported: png, jpg, gif, bmp and tiff.
// PNG is the default and the only lossless format besides bmp and tiff, so it
// is what the artifact cache stores and what the preview server streams.
//
// Small canvases can be enlarged on the way out with [WithScale], which uses
// nearest-neighbor sampling so every cell stays a crisp square.
package sink
