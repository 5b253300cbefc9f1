package frontier

import (
	"github.com/matzehuels/rainbowsmoke/pkg/core/canvas"
	"github.com/matzehuels/rainbowsmoke/pkg/core/color"
	"github.com/matzehuels/rainbowsmoke/pkg/core/grid"
)

// Scan is the brute-force frontier: Best scores every member.
type Scan struct {
	canvas  *canvas.Canvas
	members memberSet
	buf     []grid.Point
}

// NewScan creates an empty scanning frontier over c.
func NewScan(c *canvas.Canvas) *Scan {
	return &Scan{
		canvas:  c,
		members: newMemberSet(c),
		buf:     make([]grid.Point, 0, 8),
	}
}

func (s *Scan) Reset(seed grid.Point) {
	s.members.clear()
	s.members.add(grid.Index(seed, s.canvas.Width()))
}

func (s *Scan) Members() []grid.Point { return s.members.points() }

func (s *Scan) Len() int { return s.members.len() }

func (s *Scan) Contains(p grid.Point) bool {
	return s.members.contains(grid.Index(p, s.canvas.Width()))
}

func (s *Scan) Score(p grid.Point, c color.RGB) int {
	var sc int
	sc, s.buf = score(s.canvas, s.buf, p, c)
	return sc
}

func (s *Scan) Best(c color.RGB) (grid.Point, int, bool) {
	if s.members.len() == 0 {
		return grid.Point{}, 0, false
	}
	w := s.canvas.Width()
	bestIdx, bestScore := -1, 0
	for _, m := range s.members.list {
		i := int(m)
		sc := s.Score(grid.At(i, w), c)
		if bestIdx < 0 || sc < bestScore || (sc == bestScore && i < bestIdx) {
			bestIdx, bestScore = i, sc
		}
	}
	return grid.At(bestIdx, w), bestScore, true
}

func (s *Scan) Commit(p grid.Point) {
	w, h := s.canvas.Width(), s.canvas.Height()
	s.members.remove(grid.Index(p, w))
	s.buf = grid.AppendNeighbors(s.buf[:0], p, w, h)
	for _, n := range s.buf {
		if !s.canvas.Placed(n) {
			s.members.add(grid.Index(n, w))
		}
	}
}

var _ Frontier = (*Scan)(nil)
