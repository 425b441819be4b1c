package contract

import (
	"context"

	"ai-docchat-be/internal/entity"
)

// ChunkRepository is the vector index. Upsert is idempotent on chunk ID, search
// returns cosine-ranked results, and deletes filter on metadata equality only
// (AND of per-field matches).
type ChunkRepository interface {
	UpsertBulk(ctx context.Context, chunks []*entity.EmbeddedChunk) error
	SimilaritySearch(ctx context.Context, embedding []float32, limit int) ([]*entity.ChunkSearchResult, error)
	DeleteByFilter(ctx context.Context, filter map[string]string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}
