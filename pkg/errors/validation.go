package errors

import (
	"strings"
	"unicode"
)

// ValidatePath validates a file path relative to a serving root.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateLimits checks the size of a request body against the maximum number
// of rules and sequences a single request may carry. A limit of 0 disables
// the corresponding check.
func ValidateLimits(rules, sequences, maxRules, maxSequences int) error {
	if rules == 0 {
		return New(ErrCodeInvalidInput, "no rules given")
	}
	if maxRules > 0 && rules > maxRules {
		return New(ErrCodeInvalidInput, "too many rules: %d (max %d)", rules, maxRules)
	}
	if maxSequences > 0 && sequences > maxSequences {
		return New(ErrCodeInvalidInput, "too many sequences: %d (max %d)", sequences, maxSequences)
	}
	return nil
}
