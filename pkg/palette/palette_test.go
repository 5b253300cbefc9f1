package palette

import (
	"bytes"
	"context"
	"errors"
	"image"
	stdcolor "image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/rainbowsmoke/pkg/core/color"
	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
)

func TestCubeSide(t *testing.T) {
	tests := []struct {
		total, want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{8, 2},
		{9, 3},
		{27, 3},
		{256 * 128, 32},
		{32*32*32 + 1, 33},
	}
	for _, tt := range tests {
		if got := CubeSide(tt.total); got != tt.want {
			t.Errorf("CubeSide(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestUniform(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          []color.RGB
	}{
		{"single", 1, 1, []color.RGB{{}}},
		{"pair", 2, 1, []color.RGB{{R: 0, G: 0, B: 0}, {R: 0, G: 0, B: 255}}},
		{"three", 3, 1, []color.RGB{{R: 0, G: 0, B: 0}, {R: 0, G: 0, B: 255}, {R: 0, G: 255, B: 0}}},
		{"nine", 9, 1, []color.RGB{
			{R: 0, G: 0, B: 0}, {R: 0, G: 0, B: 127}, {R: 0, G: 0, B: 255},
			{R: 0, G: 127, B: 0}, {R: 0, G: 127, B: 127}, {R: 0, G: 127, B: 255},
			{R: 0, G: 255, B: 0}, {R: 0, G: 255, B: 127}, {R: 0, G: 255, B: 255},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Uniform(tt.width, tt.height)
			if err != nil {
				t.Fatalf("Uniform() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len(Uniform()) = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Uniform()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestUniformFullCubeIsDistinct(t *testing.T) {
	colors, err := Uniform(8, 8) // 4³
	if err != nil {
		t.Fatalf("Uniform() error: %v", err)
	}
	seen := make(map[color.RGB]bool, len(colors))
	for _, c := range colors {
		if seen[c] {
			t.Fatalf("duplicate color %v", c)
		}
		seen[c] = true
	}
	if !seen[color.RGB{R: 255, G: 255, B: 255}] {
		t.Error("full cube should include white")
	}
}

func TestUniformDefaultCanvas(t *testing.T) {
	colors, err := Uniform(256, 128)
	if err != nil {
		t.Fatalf("Uniform() error: %v", err)
	}
	if len(colors) != 256*128 {
		t.Errorf("len(Uniform()) = %d, want %d", len(colors), 256*128)
	}
}

func TestUniformInvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-3, 4}} {
		if _, err := Uniform(dims[0], dims[1]); !errs.Is(err, errs.ErrCodeInvalidDimensions) {
			t.Errorf("Uniform(%d, %d) error = %v, want INVALID_DIMENSIONS", dims[0], dims[1], err)
		}
	}
}

func solid(w, h int, c stdcolor.Color) image.Image {
	return imaging.New(w, h, c)
}

func TestFromImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teal.png")
	if err := imaging.Save(solid(40, 20, stdcolor.NRGBA{R: 0, G: 128, B: 128, A: 255}), path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	colors, err := FromImage(context.Background(), path, 4, 2)
	if err != nil {
		t.Fatalf("FromImage() error: %v", err)
	}
	if len(colors) != 8 {
		t.Fatalf("len(FromImage()) = %d, want 8", len(colors))
	}
	want := color.RGB{R: 0, G: 128, B: 128}
	for i, c := range colors {
		if c != want {
			t.Errorf("colors[%d] = %v, want %v", i, c, want)
		}
	}
}

func TestFromImageMissingFile(t *testing.T) {
	_, err := FromImage(context.Background(), filepath.Join(t.TempDir(), "nope.png"), 4, 2)
	if !errs.Is(err, errs.ErrCodeSourceUnavailable) {
		t.Errorf("FromImage() error = %v, want SOURCE_UNAVAILABLE", err)
	}
}

func TestFromImageEmptySource(t *testing.T) {
	if _, err := FromImage(context.Background(), "", 4, 2); !errs.Is(err, errs.ErrCodeInvalidSource) {
		t.Errorf("FromImage() error = %v, want INVALID_SOURCE", err)
	}
}

func TestLoaderFromURL(t *testing.T) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, solid(10, 10, stdcolor.White), imaging.PNG); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	var gotURL string
	l := Loader{Fetch: func(_ context.Context, rawURL string) ([]byte, error) {
		gotURL = rawURL
		return buf.Bytes(), nil
	}}
	colors, err := l.FromImage(context.Background(), "https://example.com/white.png", 3, 3)
	if err != nil {
		t.Fatalf("FromImage() error: %v", err)
	}
	if gotURL != "https://example.com/white.png" {
		t.Errorf("fetched %q, want the source URL", gotURL)
	}
	for i, c := range colors {
		if c != (color.RGB{R: 255, G: 255, B: 255}) {
			t.Errorf("colors[%d] = %v, want white", i, c)
		}
	}
}

func TestLoaderFetchFailure(t *testing.T) {
	boom := errors.New("boom")
	l := Loader{Fetch: func(context.Context, string) ([]byte, error) { return nil, boom }}

	_, err := l.FromImage(context.Background(), "http://example.com/x.png", 2, 2)
	if !errs.Is(err, errs.ErrCodeSourceUnavailable) {
		t.Errorf("FromImage() error = %v, want SOURCE_UNAVAILABLE", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("FromImage() should keep the fetch error as cause")
	}
}

func TestLoaderUndecodableBody(t *testing.T) {
	l := Loader{Fetch: func(context.Context, string) ([]byte, error) { return []byte("not an image"), nil }}
	_, err := l.FromImage(context.Background(), "http://example.com/x.png", 2, 2)
	if !errs.Is(err, errs.ErrCodeSourceUnavailable) {
		t.Errorf("FromImage() error = %v, want SOURCE_UNAVAILABLE", err)
	}
}

func TestResampleRowMajor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, stdcolor.NRGBA{R: 255, A: 255})
	img.Set(1, 0, stdcolor.NRGBA{G: 255, A: 255})
	img.Set(0, 1, stdcolor.NRGBA{B: 255, A: 255})
	img.Set(1, 1, stdcolor.NRGBA{R: 255, G: 255, B: 255, A: 255})

	got := Resample(img, 2, 2)
	want := []color.RGB{{R: 255, G: 0, B: 0}, {R: 0, G: 255, B: 0}, {R: 0, G: 0, B: 255}, {R: 255, G: 255, B: 255}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Resample()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
