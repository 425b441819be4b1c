package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short note", 1000, 100)
	if len(chunks) != 1 || chunks[0] != "short note" {
		t.Errorf("short input should come back as a single chunk, got %v", chunks)
	}
}

func TestSplitTextEmpty(t *testing.T) {
	if chunks := SplitText("", 1000, 100); chunks != nil {
		t.Errorf("empty input should produce no chunks, got %v", chunks)
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("x", 250)

	chunks := SplitText(text, 100, 20)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 100 || len(chunks[1]) != 100 {
		t.Errorf("full chunks should be 100 chars, got %d and %d", len(chunks[0]), len(chunks[1]))
	}
	// step = 80, so the last chunk starts at 160 and holds the remaining 90 chars
	if len(chunks[2]) != 90 {
		t.Errorf("tail chunk should hold the remainder, got %d chars", len(chunks[2]))
	}
}

func TestSplitTextNoContentLost(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog. " + strings.Repeat("data ", 500)

	chunks := SplitText(text, 1000, 100)

	joined := strings.Join(chunks, "")
	for _, word := range []string{"quick", "lazy"} {
		if !strings.Contains(joined, word) {
			t.Errorf("word %q lost during splitting", word)
		}
	}
	if !strings.HasSuffix(strings.TrimSpace(chunks[len(chunks)-1]), "data") {
		t.Errorf("tail of input missing from last chunk")
	}
}

func TestSplitTextOverlapLargerThanSize(t *testing.T) {
	// Degenerate configuration must not loop forever.
	chunks := SplitText(strings.Repeat("y", 50), 10, 10)
	if len(chunks) != 5 {
		t.Errorf("expected plain 10-char windows, got %d chunks", len(chunks))
	}
}
