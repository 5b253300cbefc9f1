package grid

import (
	"slices"
	"testing"
)

func TestCenter(t *testing.T) {
	tests := []struct {
		w, h int
		want Point
	}{
		{1, 1, Point{0, 0}},
		{2, 1, Point{1, 0}},
		{256, 128, Point{128, 64}},
		{5, 3, Point{2, 1}},
	}
	for _, tt := range tests {
		if got := Center(tt.w, tt.h); got != tt.want {
			t.Errorf("Center(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestIndexRoundTrip(t *testing.T) {
	const w, h = 7, 5
	for i := range w * h {
		p := At(i, w)
		if !InBounds(p, w, h) {
			t.Fatalf("At(%d) = %v is out of bounds", i, p)
		}
		if got := Index(p, w); got != i {
			t.Fatalf("Index(At(%d)) = %d", i, got)
		}
	}
}

func TestNeighborsOrder(t *testing.T) {
	got := Neighbors(Point{1, 1}, 3, 3)
	want := []Point{
		{0, 0}, {1, 0}, {2, 0},
		{0, 1}, {2, 1},
		{0, 2}, {1, 2}, {2, 2},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Neighbors() = %v, want %v", got, want)
	}
}

func TestNeighborsCounts(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		w, h int
		want int
	}{
		{"top-left corner", Point{0, 0}, 4, 4, 3},
		{"bottom-right corner", Point{3, 3}, 4, 4, 3},
		{"top edge", Point{1, 0}, 4, 4, 5},
		{"left edge", Point{0, 2}, 4, 4, 5},
		{"interior", Point{2, 2}, 4, 4, 8},
		{"single row", Point{0, 0}, 2, 1, 1},
		{"single cell", Point{0, 0}, 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Neighbors(tt.p, tt.w, tt.h)); got != tt.want {
				t.Errorf("len(Neighbors(%v)) = %d, want %d", tt.p, got, tt.want)
			}
		})
	}
}

func TestNeighborsProperties(t *testing.T) {
	const w, h = 6, 4
	for y := range h {
		for x := range w {
			p := Point{x, y}
			ns := Neighbors(p, w, h)
			if len(ns) < 3 || len(ns) > 8 {
				t.Errorf("len(Neighbors(%v)) = %d, want 3..8", p, len(ns))
			}
			seen := map[Point]bool{}
			for _, n := range ns {
				if n == p {
					t.Errorf("Neighbors(%v) contains the cell itself", p)
				}
				if !InBounds(n, w, h) {
					t.Errorf("Neighbors(%v) contains out-of-bounds %v", p, n)
				}
				if seen[n] {
					t.Errorf("Neighbors(%v) contains duplicate %v", p, n)
				}
				if abs(n.X-p.X) > 1 || abs(n.Y-p.Y) > 1 {
					t.Errorf("Neighbors(%v) contains non-adjacent %v", p, n)
				}
				seen[n] = true
			}
			if again := Neighbors(p, w, h); !slices.Equal(ns, again) {
				t.Errorf("Neighbors(%v) not stable: %v vs %v", p, ns, again)
			}
		}
	}
}

func TestEachNeighborMatchesNeighbors(t *testing.T) {
	const w, h = 5, 5
	for i := range w * h {
		p := At(i, w)
		lazy := slices.Collect(EachNeighbor(p, w, h))
		if eager := Neighbors(p, w, h); !slices.Equal(lazy, eager) {
			t.Errorf("EachNeighbor(%v) = %v, Neighbors = %v", p, lazy, eager)
		}
	}
}

func TestEachNeighborRestartable(t *testing.T) {
	seq := EachNeighbor(Point{0, 0}, 3, 3)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Errorf("sequence changed between runs: %v vs %v", first, second)
	}

	// Early break must not panic.
	for range seq {
		break
	}
}

func TestAppendNeighborsReusesBuffer(t *testing.T) {
	buf := make([]Point, 0, 8)
	buf = AppendNeighbors(buf[:0], Point{1, 1}, 3, 3)
	if len(buf) != 8 {
		t.Fatalf("len = %d, want 8", len(buf))
	}
	buf = AppendNeighbors(buf[:0], Point{0, 0}, 3, 3)
	if want := []Point{{1, 0}, {0, 1}, {1, 1}}; !slices.Equal(buf, want) {
		t.Errorf("AppendNeighbors() = %v, want %v", buf, want)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
