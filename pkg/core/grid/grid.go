// Package grid provides integer coordinates on a width×height canvas and the
// 8-connected (Moore) neighbor relation between them.
//
// Neighbors are always produced in row-major order over the 3×3 offset block
// around a cell: the row above left to right, then the left and right cells of
// the same row, then the row below. Callers that break ties by encounter order
// rely on this order being stable.
package grid

import "iter"

// Point is a cell coordinate. X is the column, Y the row.
type Point struct {
	X, Y int
}

// Center returns the cell at the middle of a width×height grid, rounding
// toward the origin.
func Center(width, height int) Point {
	return Point{X: width / 2, Y: height / 2}
}

// InBounds reports whether p lies inside a width×height grid.
func InBounds(p Point, width, height int) bool {
	return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height
}

// Index returns the row-major index of p in a grid of the given width.
func Index(p Point, width int) int {
	return p.Y*width + p.X
}

// At is the inverse of [Index].
func At(i, width int) Point {
	return Point{X: i % width, Y: i / width}
}

// Neighbors returns the in-bounds Moore neighbors of p, excluding p itself.
// An interior cell has 8 neighbors and a corner cell 3.
func Neighbors(p Point, width, height int) []Point {
	return AppendNeighbors(make([]Point, 0, 8), p, width, height)
}

// AppendNeighbors appends the neighbors of p to dst and returns the extended
// slice. Use it with a reused buffer in hot loops.
func AppendNeighbors(dst []Point, p Point, width, height int) []Point {
	for dy := -1; dy <= 1; dy++ {
		ny := p.Y + dy
		if ny < 0 || ny >= height {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			nx := p.X + dx
			if nx < 0 || nx >= width || (dx == 0 && dy == 0) {
				continue
			}
			dst = append(dst, Point{X: nx, Y: ny})
		}
	}
	return dst
}

// EachNeighbor yields the same sequence as [Neighbors] lazily.
// The sequence can be ranged over any number of times.
func EachNeighbor(p Point, width, height int) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for dy := -1; dy <= 1; dy++ {
			ny := p.Y + dy
			if ny < 0 || ny >= height {
				continue
			}
			for dx := -1; dx <= 1; dx++ {
				nx := p.X + dx
				if nx < 0 || nx >= width || (dx == 0 && dy == 0) {
					continue
				}
				if !yield(Point{X: nx, Y: ny}) {
					return
				}
			}
		}
	}
}
