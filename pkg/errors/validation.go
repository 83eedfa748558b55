package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds diagram identifiers. IDs end up in DOT sources, SVG
// attributes and cache keys.
const maxIDLength = 256

// ValidateID validates a node or group identifier.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters (including newlines)
//   - No double quotes
//   - Maximum length of 256 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "identifier too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "identifier %q contains control characters", id)
		}
	}

	if strings.Contains(id, `"`) {
		return New(ErrCodeInvalidInput, "identifier %q contains a double quote", id)
	}

	return nil
}

// ValidateOutputPath validates a destination path for exported images.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path %q names a directory", path)
	}

	return nil
}
