// Package frontier tracks the growth boundary of a painting: the unplaced
// cells that touch at least one placed cell, and answers which of them best
// fits a given color.
//
// # Scoring
//
// The bottleneck score of a candidate p for color c is the minimum
// [color.Distance] between c and any placed neighbor of p, or
// [color.NoNeighbor] when p has none. [Frontier.Best] returns the candidate
// with the smallest score.
//
// # Ordering
//
// Ties are broken by row-major cell index (y*width + x): the lowest index
// wins. [Frontier.Members] lists candidates in the same order, so the winner of
// a tie is always the first tied candidate encountered while iterating
// Members. Every strategy in this package honors this rule, which makes their
// selections interchangeable step for step.
//
// # Strategies
//
//   - [StrategyScan]: scores every member on every query. O(frontier) per
//     query, simple and the reference definition.
//   - [StrategyIndexed]: keeps (neighbor color, candidate) pairs in a bucketed
//     RGB index and answers queries with an exact nearest-pair search.
//     Entries of candidates that were placed since are dropped lazily.
package frontier

import (
	"slices"

	"github.com/matzehuels/rainbowsmoke/pkg/core/canvas"
	"github.com/matzehuels/rainbowsmoke/pkg/core/color"
	"github.com/matzehuels/rainbowsmoke/pkg/core/grid"
	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
)

// Frontier is the set of candidate cells for the next placement.
//
// A Frontier reads colors and the placed mask from the canvas it was created
// with; the caller writes the canvas and then calls Commit.
type Frontier interface {
	// Reset empties the frontier and seeds it with a single cell.
	Reset(seed grid.Point)

	// Members returns the current candidates in row-major order.
	Members() []grid.Point

	// Len returns the number of candidates.
	Len() int

	// Contains reports whether p is a candidate.
	Contains(p grid.Point) bool

	// Score returns the bottleneck score of p for c.
	Score(p grid.Point, c color.RGB) int

	// Best returns the candidate with the lowest score for c and that score.
	// ok is false when the frontier is empty.
	Best(c color.RGB) (p grid.Point, score int, ok bool)

	// Commit removes p, which must already be placed on the canvas, and adds
	// every unplaced neighbor of p.
	Commit(p grid.Point)
}

// Strategy names a Frontier implementation.
type Strategy string

const (
	StrategyScan    Strategy = "scan"
	StrategyIndexed Strategy = "indexed"
)

// DefaultStrategy is used when no strategy is configured.
const DefaultStrategy = StrategyScan

// Strategies lists the supported strategies.
var Strategies = []Strategy{StrategyScan, StrategyIndexed}

// ParseStrategy converts a user-supplied name into a Strategy.
// The empty string maps to [DefaultStrategy].
func ParseStrategy(s string) (Strategy, error) {
	if s == "" {
		return DefaultStrategy, nil
	}
	st := Strategy(s)
	if !slices.Contains(Strategies, st) {
		return "", errs.New(errs.ErrCodeInvalidStrategy, "unknown frontier strategy %q (must be 'scan' or 'indexed')", s)
	}
	return st, nil
}

// New creates a frontier of the given strategy over c.
// The frontier is empty until Reset is called.
func New(s Strategy, c *canvas.Canvas) (Frontier, error) {
	switch s {
	case StrategyScan, "":
		return NewScan(c), nil
	case StrategyIndexed:
		return NewIndexed(c), nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidStrategy, "unknown frontier strategy %q", s)
	}
}

// score computes the bottleneck score of cell p for col directly from the
// canvas. buf is scratch space for the neighbor list.
func score(c *canvas.Canvas, buf []grid.Point, p grid.Point, col color.RGB) (int, []grid.Point) {
	best := color.NoNeighbor
	buf = grid.AppendNeighbors(buf[:0], p, c.Width(), c.Height())
	for _, n := range buf {
		if !c.Placed(n) {
			continue
		}
		if d := color.Distance(c.At(n), col); d < best {
			best = d
			if d == 0 {
				break
			}
		}
	}
	return best, buf
}

// memberSet is a set of cell indices with O(1) add, remove and lookup.
// list holds members densely; pos maps a cell index to its slot in list or -1.
type memberSet struct {
	width int
	pos   []int32
	list  []int32
}

func newMemberSet(c *canvas.Canvas) memberSet {
	pos := make([]int32, c.Len())
	for i := range pos {
		pos[i] = -1
	}
	return memberSet{width: c.Width(), pos: pos}
}

func (m *memberSet) clear() {
	for _, i := range m.list {
		m.pos[i] = -1
	}
	m.list = m.list[:0]
}

func (m *memberSet) add(i int) bool {
	if m.pos[i] >= 0 {
		return false
	}
	m.pos[i] = int32(len(m.list))
	m.list = append(m.list, int32(i))
	return true
}

func (m *memberSet) remove(i int) bool {
	slot := m.pos[i]
	if slot < 0 {
		return false
	}
	last := len(m.list) - 1
	moved := m.list[last]
	m.list[slot] = moved
	m.pos[moved] = slot
	m.list = m.list[:last]
	m.pos[i] = -1
	return true
}

func (m *memberSet) contains(i int) bool { return m.pos[i] >= 0 }

func (m *memberSet) len() int { return len(m.list) }

// lowest returns the smallest member index, or -1 if empty.
func (m *memberSet) lowest() int {
	if len(m.list) == 0 {
		return -1
	}
	return int(slices.Min(m.list))
}

func (m *memberSet) points() []grid.Point {
	idx := slices.Clone(m.list)
	slices.Sort(idx)
	out := make([]grid.Point, len(idx))
	for k, i := range idx {
		out[k] = grid.At(int(i), m.width)
	}
	return out
}
