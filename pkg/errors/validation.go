package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// stepIDRegex matches valid step template identifiers.
// Step ids are lowercase with digits, hyphens, and underscores, e.g. "compare_mid".
var stepIDRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// algorithmIDRegex matches valid algorithm identifiers, e.g. "bubble-sort".
var algorithmIDRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// layoutNameRegex matches valid layout registry names, e.g. "sorting-array".
var layoutNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateStepID validates a step template identifier.
func ValidateStepID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTrace, "step id cannot be empty")
	}
	if !stepIDRegex.MatchString(id) {
		return New(ErrCodeInvalidTrace, "step id must match ^[a-z0-9][a-z0-9_-]*$, got %q", id)
	}
	return nil
}

// ValidateAlgorithmID validates an algorithm identifier.
func ValidateAlgorithmID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTrace, "algorithm id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidTrace, "algorithm id too long (max 128 characters)")
	}
	if !algorithmIDRegex.MatchString(id) {
		return New(ErrCodeInvalidTrace, "algorithm id must match ^[a-z0-9][a-z0-9-]*$, got %q", id)
	}
	return nil
}

// ValidateLayoutName validates a layout registry name.
func ValidateLayoutName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidLayout, "layout name cannot be empty")
	}
	if !layoutNameRegex.MatchString(name) {
		return New(ErrCodeInvalidLayout, "layout name must match ^[a-z0-9][a-z0-9-]*$, got %q", name)
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output path for safety.
// It prevents path traversal and rejects control characters.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
