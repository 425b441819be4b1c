package utils

import "fmt"

// hashPrefixLen is the number of hex characters of the content hash embedded in a
// chunk ID. 8 hex chars = 32 bits; not collision-proof at very large corpus sizes,
// a known limitation.
const hashPrefixLen = 8

// SanitizeFilename replaces every character outside [A-Za-z0-9_.-] with '_' so the
// result is safe as an ID component.
func SanitizeFilename(filename string) string {
	out := []rune(filename)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '.' || r == '-':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

// GenerateChunkIDs derives the deterministic IDs for a document's chunks:
// {sanitized filename}_{hash prefix}_{ordinal}. The same (filename, hash, n) always
// yields the same list, so IDs can be re-derived for deletion without keeping an
// ID index. The hash prefix keeps two files with colliding sanitized names apart.
func GenerateChunkIDs(filename string, contentHash string, n int) []string {
	prefix := contentHash
	if len(prefix) > hashPrefixLen {
		prefix = prefix[:hashPrefixLen]
	}
	base := SanitizeFilename(filename)

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, fmt.Sprintf("%s_%s_%d", base, prefix, i))
	}
	return ids
}
