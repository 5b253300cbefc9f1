package errors

import (
	"strings"
	"testing"
)

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{"valid", 256, 128, false},
		{"single cell", 1, 1, false},
		{"zero width", 0, 10, true},
		{"zero height", 10, 0, true},
		{"negative", -1, 5, true},
		{"above user cap", MaxPixels, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateDimensions(%d, %d) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDimensions) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidDimensions)
			}
		})
	}
}

func TestValidateCanvasSize(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{"at cap", 4096, 4096, false},
		{"one row over", 4096, 4097, true},
		{"wide strip", MaxPixels, 2, true},
		{"overflowing product", 1 << 40, 1 << 40, true},
		{"zero", 0, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCanvasSize(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCanvasSize(%d, %d) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDimensions) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidDimensions)
			}
		})
	}
}

func TestValidateColorCount(t *testing.T) {
	if err := ValidateColorCount(6, 3, 2); err != nil {
		t.Errorf("ValidateColorCount(6, 3, 2) = %v, want nil", err)
	}
	for _, n := range []int{0, 5, 7} {
		err := ValidateColorCount(n, 3, 2)
		if !Is(err, ErrCodeColorCountMismatch) {
			t.Errorf("ValidateColorCount(%d, 3, 2) = %v, want COLOR_COUNT_MISMATCH", n, err)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"in/photo.png", false},
		{"/abs/photo.png", false},
		{"", true},
		{"bad\x00name", true},
		{"tab\tname", true},
		{strings.Repeat("a", 5000), true},
	}
	for _, tt := range tests {
		if err := ValidatePath(tt.path); (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestValidateOutputFilename(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"output.png", false},
		{"result.jpg", false},
		{"", true},
		{"sub/output.png", true},
		{`sub\output.png`, true},
		{"noext", true},
		{"..", true},
	}
	for _, tt := range tests {
		if err := ValidateOutputFilename(tt.name); (err != nil) != tt.wantErr {
			t.Errorf("ValidateOutputFilename(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com/a.png", false},
		{"http://localhost:8080/b.jpg", false},
		{"", true},
		{"ftp://example.com/a.png", true},
		{"file:///etc/passwd", true},
	}
	for _, tt := range tests {
		if err := ValidateURL(tt.url); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}
