package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateDimensions checks that a canvas size is positive.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidDimensions, "canvas dimensions must be positive, got %dx%d", width, height)
	}
	return nil
}

// MaxPixels bounds the canvas area accepted from users. The scan frontier is
// quadratic in the pixel count, so anything larger is almost certainly a typo.
const MaxPixels = 4096 * 4096

// ValidateCanvasSize is ValidateDimensions plus the [MaxPixels] cap. The cap
// also keeps width*height from overflowing.
func ValidateCanvasSize(width, height int) error {
	if err := ValidateDimensions(width, height); err != nil {
		return err
	}
	if width > MaxPixels/height {
		return New(ErrCodeInvalidDimensions, "canvas %dx%d exceeds %d pixels", width, height, MaxPixels)
	}
	return nil
}

// ValidateColorCount checks that exactly one color exists per canvas cell.
// A short palette would leave cells unpainted and a long one would be
// silently truncated; both are rejected.
func ValidateColorCount(count, width, height int) error {
	if want := width * height; count != want {
		return New(ErrCodeColorCountMismatch, "got %d colors for a %dx%d canvas, need exactly %d", count, width, height, want)
	}
	return nil
}

// ValidatePath validates a local file path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateOutputFilename validates the name of a file written into the
// output directory. It must be a plain basename with an extension.
func ValidateOutputFilename(name string) error {
	if err := ValidatePath(name); err != nil {
		return err
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "output filename cannot contain path separators: %q", name)
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "invalid output filename: %q", name)
	}
	if filepath.Ext(name) == "" {
		return New(ErrCodeInvalidPath, "output filename needs an extension: %q", name)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !IsURL(rawURL) {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// IsURL reports whether s looks like an http(s) URL rather than a file path.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
