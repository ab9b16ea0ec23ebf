package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxIDLength bounds vertex, edge and reduction-key identifiers.
const MaxIDLength = 512

// ValidateID checks an identifier received from a feed or an API caller.
// Identifiers are opaque, so only emptiness, length and control characters
// are rejected.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}
	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidID, "id too long (max %d characters)", MaxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "id contains control characters")
		}
	}
	return nil
}

// ValidatePath checks a user-supplied file path, such as an output file or
// a cache directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - No traversal above the starting point once cleaned, for relative paths
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !filepath.IsAbs(path) {
		clean := filepath.ToSlash(filepath.Clean(path))
		if clean == ".." || strings.HasPrefix(clean, "../") {
			return New(ErrCodeInvalidPath, "relative path cannot escape the working directory")
		}
	}
	return nil
}
