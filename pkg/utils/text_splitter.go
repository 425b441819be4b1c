package utils

const (
	// DefaultChunkSize is the character budget for one chunk of plain text.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is carried over between adjacent chunks to preserve context.
	DefaultChunkOverlap = 100
)

// SplitText splits a long string into chunks of approximately 'chunkSize' characters
// with 'overlap' characters shared between neighbours. Character-based on purpose:
// strict slicing never loses data, unlike naive word-boundary heuristics.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // overlap >= chunkSize would loop forever
	}

	var chunks []string
	totalLen := len(runes)
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}
