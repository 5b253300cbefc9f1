package frontier

import (
	"github.com/matzehuels/rainbowsmoke/pkg/core/canvas"
	"github.com/matzehuels/rainbowsmoke/pkg/core/color"
	"github.com/matzehuels/rainbowsmoke/pkg/core/grid"
)

// The RGB cube is split into bucketsPerAxis³ buckets of bucketSide values per
// channel.
const (
	bucketShift    = 4
	bucketSide     = 1 << bucketShift
	bucketsPerAxis = 256 / bucketSide
)

// entry records that cell has a placed neighbor of color c.
type entry struct {
	c    color.RGB
	cell int32
}

// Indexed answers Best with a nearest-pair search over a bucketed color index.
//
// Every time a cell is committed with color c, one entry (c, n) is added for
// each unplaced neighbor n. The entries of a candidate are therefore exactly
// the colors of its placed neighbors, and the smallest entry distance over the
// whole index is the smallest bottleneck score over the frontier. Entries whose
// cell has been placed since are stale; they are skipped and removed when a
// search visits their bucket.
type Indexed struct {
	canvas  *canvas.Canvas
	members memberSet
	buckets [][]entry
	buf     []grid.Point
}

// NewIndexed creates an empty indexed frontier over c.
func NewIndexed(c *canvas.Canvas) *Indexed {
	return &Indexed{
		canvas:  c,
		members: newMemberSet(c),
		buckets: make([][]entry, bucketsPerAxis*bucketsPerAxis*bucketsPerAxis),
		buf:     make([]grid.Point, 0, 8),
	}
}

func (ix *Indexed) Reset(seed grid.Point) {
	ix.members.clear()
	for k := range ix.buckets {
		ix.buckets[k] = ix.buckets[k][:0]
	}
	ix.members.add(grid.Index(seed, ix.canvas.Width()))
}

func (ix *Indexed) Members() []grid.Point { return ix.members.points() }

func (ix *Indexed) Len() int { return ix.members.len() }

func (ix *Indexed) Contains(p grid.Point) bool {
	return ix.members.contains(grid.Index(p, ix.canvas.Width()))
}

func (ix *Indexed) Score(p grid.Point, c color.RGB) int {
	var sc int
	sc, ix.buf = score(ix.canvas, ix.buf, p, c)
	return sc
}

func (ix *Indexed) Commit(p grid.Point) {
	w, h := ix.canvas.Width(), ix.canvas.Height()
	col := ix.canvas.At(p)
	k := bucketOf(col)

	ix.members.remove(grid.Index(p, w))
	ix.buf = grid.AppendNeighbors(ix.buf[:0], p, w, h)
	for _, n := range ix.buf {
		if ix.canvas.Placed(n) {
			continue
		}
		i := grid.Index(n, w)
		ix.members.add(i)
		ix.buckets[k] = append(ix.buckets[k], entry{c: col, cell: int32(i)})
	}
}

func (ix *Indexed) Best(c color.RGB) (grid.Point, int, bool) {
	if ix.members.len() == 0 {
		return grid.Point{}, 0, false
	}
	w := ix.canvas.Width()
	qr, qg, qb := int(c.R>>bucketShift), int(c.G>>bucketShift), int(c.B>>bucketShift)

	bestIdx, bestScore := -1, color.NoNeighbor
	visit := func(r, g, b int) {
		if bestIdx >= 0 && bucketLowerBound(c, r, g, b) > bestScore {
			return
		}
		k := (r*bucketsPerAxis+g)*bucketsPerAxis + b
		es := ix.buckets[k]
		for j := 0; j < len(es); {
			e := es[j]
			if ix.canvas.PlacedIndex(int(e.cell)) {
				es[j] = es[len(es)-1]
				es = es[:len(es)-1]
				continue
			}
			d := color.Distance(e.c, c)
			if d < bestScore || (d == bestScore && int(e.cell) < bestIdx) {
				bestIdx, bestScore = int(e.cell), d
			}
			j++
		}
		ix.buckets[k] = es
	}

	for ring := range bucketsPerAxis {
		if ring > 0 && bestIdx >= 0 {
			// Every bucket on this shell is at least this far away on one axis.
			gap := ring*bucketSide - (bucketSide - 1)
			if gap*gap > bestScore {
				break
			}
		}
		eachOnShell(qr, qg, qb, ring, visit)
	}

	if bestIdx < 0 {
		// No member has a placed neighbor yet (only the seed before the
		// first commit): all score NoNeighbor and the lowest index wins.
		return grid.At(ix.members.lowest(), w), color.NoNeighbor, true
	}
	return grid.At(bestIdx, w), bestScore, true
}

func bucketOf(c color.RGB) int {
	r, g, b := int(c.R>>bucketShift), int(c.G>>bucketShift), int(c.B>>bucketShift)
	return (r*bucketsPerAxis+g)*bucketsPerAxis + b
}

// bucketLowerBound is the smallest distance from c to any color in bucket (r, g, b).
func bucketLowerBound(c color.RGB, r, g, b int) int {
	dr := axisGap(int(c.R), r)
	dg := axisGap(int(c.G), g)
	db := axisGap(int(c.B), b)
	return dr*dr + dg*dg + db*db
}

func axisGap(v, bucket int) int {
	lo := bucket * bucketSide
	hi := lo + bucketSide - 1
	switch {
	case v < lo:
		return lo - v
	case v > hi:
		return v - hi
	default:
		return 0
	}
}

// eachOnShell calls fn for every in-range bucket at Chebyshev distance ring
// from (r, g, b).
func eachOnShell(r, g, b, ring int, fn func(r, g, b int)) {
	if ring == 0 {
		fn(r, g, b)
		return
	}
	for dr := -ring; dr <= ring; dr++ {
		br := r + dr
		if br < 0 || br >= bucketsPerAxis {
			continue
		}
		for dg := -ring; dg <= ring; dg++ {
			bg := g + dg
			if bg < 0 || bg >= bucketsPerAxis {
				continue
			}
			if dr == -ring || dr == ring || dg == -ring || dg == ring {
				for db := -ring; db <= ring; db++ {
					if bb := b + db; bb >= 0 && bb < bucketsPerAxis {
						fn(br, bg, bb)
					}
				}
				continue
			}
			if bb := b - ring; bb >= 0 {
				fn(br, bg, bb)
			}
			if bb := b + ring; bb < bucketsPerAxis {
				fn(br, bg, bb)
			}
		}
	}
}

var _ Frontier = (*Indexed)(nil)
