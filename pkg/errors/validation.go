package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateElementID validates an element identifier used in scene files and
// HTTP requests.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or whitespace
//   - Maximum length of 128 characters
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidScene, "element id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidScene, "element id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidScene, "element id %q contains whitespace or control characters", id)
		}
	}

	return nil
}

// ValidateFinite rejects NaN and infinite values.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", name)
	}
	return nil
}

// ValidateSize rejects negative or non-finite widths and heights.
func ValidateSize(name string, width, height float64) error {
	if err := ValidateFinite(name+".width", width); err != nil {
		return err
	}
	if err := ValidateFinite(name+".height", height); err != nil {
		return err
	}
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidInput, "%s must have a non-negative size, got %gx%g", name, width, height)
	}
	return nil
}

// ValidatePath validates an output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateRedisURL validates a Redis connection URL. Only the redis and
// rediss schemes are accepted.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "redis URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidInput, "redis URL must use redis or rediss scheme")
	}

	return nil
}
