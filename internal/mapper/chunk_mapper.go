package mapper

import (
	"encoding/json"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ChunkMapper struct{}

func NewChunkMapper() *ChunkMapper {
	return &ChunkMapper{}
}

func (m *ChunkMapper) ToModel(e *entity.EmbeddedChunk) *model.DocumentChunk {
	if e == nil {
		return nil
	}

	var metadata []byte
	if e.Chunk.Metadata != nil {
		metadata, _ = json.Marshal(e.Chunk.Metadata)
	}

	return &model.DocumentChunk{
		Id:        e.Chunk.Id,
		Content:   e.Chunk.Text,
		Embedding: pgvector.NewVector(e.Embedding),
		Metadata:  metadata,
	}
}

func (m *ChunkMapper) ToModels(chunks []*entity.EmbeddedChunk) []*model.DocumentChunk {
	models := make([]*model.DocumentChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}

// ToEntity rebuilds the domain chunk from a stored row. Rows with empty content
// fail the chunk factory and come back as nil; callers drop them.
func (m *ChunkMapper) ToEntity(d *model.DocumentChunk) *entity.Chunk {
	if d == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(d.Metadata) > 0 {
		_ = json.Unmarshal(d.Metadata, &metadata)
	}

	chunk, err := entity.NewChunk(d.Id, d.Content, metadata)
	if err != nil {
		return nil
	}
	return chunk
}
