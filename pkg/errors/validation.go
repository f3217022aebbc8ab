package errors

import (
	"strings"
	"unicode"
)

// ValidateRepoName validates a repository name before it is used to build
// store filenames. Names come back from the GitHub API, but they still pass
// through filepath.Join on the way to disk, so the rules are intentionally
// conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateRepoName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidRepo, "repository name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidRepo, "repository name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRepo, "repository name contains control characters")
		}
	}

	dangerous := []string{"..", "/", "\\", "\x00"}
	for _, pattern := range dangerous {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidRepo, "repository name contains invalid sequence: %q", pattern)
		}
	}

	return nil
}
