package entity

import (
	"fmt"
	"strings"

	"ai-docchat-be/internal/apperror"
	"ai-docchat-be/pkg/utils"
)

// Chunk is one retrievable unit of document text plus its metadata. Construct it
// through NewChunk only: the factory rejects empty text and sanitizes the metadata
// once, so downstream code never repeats field-presence checks.
type Chunk struct {
	Id       string
	Text     string
	Metadata map[string]interface{}
}

func NewChunk(id string, text string, metadata map[string]interface{}) (*Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("chunk %q has no text: %w", id, apperror.ErrEmptyInput)
	}
	return &Chunk{
		Id:       id,
		Text:     text,
		Metadata: utils.SanitizeMetadata(metadata),
	}, nil
}

// ConversationId returns the conversation the chunk is bound to, or "" when the
// chunk was indexed without one.
func (c *Chunk) ConversationId() string {
	if c.Metadata == nil {
		return ""
	}
	if v, ok := c.Metadata["conversation_id"].(string); ok {
		return v
	}
	return ""
}

// EmbeddedChunk pairs a chunk with its embedding vector, ready for upsert.
type EmbeddedChunk struct {
	Chunk     Chunk
	Embedding []float32
}

// ChunkSearchResult is one ranked similarity-search hit.
type ChunkSearchResult struct {
	Chunk      Chunk
	Similarity float64
}
