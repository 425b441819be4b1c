package loader

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// PlaintextLoader reads .txt and .md files whole. It emits a single unmarked
// fragment; the fixed-size splitter runs downstream.
type PlaintextLoader struct{}

func NewPlaintextLoader() *PlaintextLoader {
	return &PlaintextLoader{}
}

func (l *PlaintextLoader) Extensions() []string {
	return []string{".txt", ".md"}
}

func (l *PlaintextLoader) Load(_ context.Context, path string) ([]Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}

	return []Fragment{{Text: text, Metadata: map[string]interface{}{}}}, nil
}
