package color

import (
	stdcolor "image/color"
	"math/rand/v2"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b RGB
		want int
	}{
		{"identical", RGB{10, 20, 30}, RGB{10, 20, 30}, 0},
		{"black white", RGB{0, 0, 0}, RGB{255, 255, 255}, MaxDistance},
		{"single channel", RGB{0, 0, 0}, RGB{3, 0, 0}, 9},
		{"mixed", RGB{1, 2, 3}, RGB{4, 6, 3}, 9 + 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Errorf("Distance(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDistanceProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	randRGB := func() RGB {
		return RGB{uint8(rng.IntN(256)), uint8(rng.IntN(256)), uint8(rng.IntN(256))}
	}

	for range 2000 {
		a, b := randRGB(), randRGB()
		d := Distance(a, b)
		if d != Distance(b, a) {
			t.Fatalf("Distance not symmetric for %v, %v", a, b)
		}
		if Distance(a, a) != 0 {
			t.Fatalf("Distance(%v, %v) != 0", a, a)
		}
		if d < 0 || d > MaxDistance {
			t.Fatalf("Distance(%v, %v) = %d, out of [0, %d]", a, b, d, MaxDistance)
		}
		if a != b && d == 0 {
			t.Fatalf("Distance(%v, %v) = 0 for distinct colors", a, b)
		}
	}
}

func TestNoNeighborExceedsEveryDistance(t *testing.T) {
	if NoNeighbor != 195076 {
		t.Errorf("NoNeighbor = %d, want 195076", NoNeighbor)
	}
	if MaxDistance != 195075 {
		t.Errorf("MaxDistance = %d, want 195075", MaxDistance)
	}
}

func TestFromColor(t *testing.T) {
	got := FromColor(stdcolor.NRGBA{R: 12, G: 34, B: 56, A: 255})
	if want := (RGB{12, 34, 56}); got != want {
		t.Errorf("FromColor() = %v, want %v", got, want)
	}

	// RGB round-trips through the image/color interface.
	c := RGB{200, 100, 1}
	if got := FromColor(stdcolor.RGBAModel.Convert(c)); got != c {
		t.Errorf("FromColor(RGBAModel.Convert(%v)) = %v", c, got)
	}
}

func TestHex(t *testing.T) {
	if got := (RGB{255, 0, 16}).Hex(); got != "#ff0010" {
		t.Errorf("Hex() = %q, want %q", got, "#ff0010")
	}
}

func TestBytes(t *testing.T) {
	got := Bytes([]RGB{{1, 2, 3}, {4, 5, 6}})
	want := []byte{1, 2, 3, 4, 5, 6}
	if string(got) != string(want) {
		t.Errorf("Bytes() = %v, want %v", got, want)
	}
}
