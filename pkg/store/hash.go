package store

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ShortHashLen is the number of hex characters of the SHA-256 digest used
// as the storage key. Truncation keeps filenames readable; prefix
// collisions between distinct normalized texts are accepted, not detected.
const ShortHashLen = 16

// metadataPrefixes are comment lines injected by the store itself. They are
// stripped before hashing so a snippet read back from a snapshot or section
// file hashes identically to one cut straight from the network.
var metadataPrefixes = []string{
	"# Source:",
	"# Section:",
	"# Auto-generated",
}

// Normalize strips metadata comment lines and trims surrounding whitespace.
// Hashing operates on the normalized form, so provenance headers never
// affect deduplication.
func Normalize(content string) string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		if isMetadataComment(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// ContentHash returns the full SHA-256 hex digest of the normalized content.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(Normalize(content)))
	return hex.EncodeToString(sum[:])
}

// ShortHash returns the truncated storage key for the content.
func ShortHash(content string) string {
	return ContentHash(content)[:ShortHashLen]
}

func isMetadataComment(line string) bool {
	stripped := strings.TrimSpace(line)
	for _, p := range metadataPrefixes {
		if strings.HasPrefix(stripped, p) {
			return true
		}
	}
	return false
}
