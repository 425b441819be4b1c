package implementation

import (
	"context"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/mapper"
	"ai-docchat-be/internal/model"
	"ai-docchat-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkMapper
}

func NewChunkRepository(db *gorm.DB) contract.ChunkRepository {
	return &ChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkMapper(),
	}
}

// UpsertBulk writes chunks keyed by their deterministic IDs. Re-ingesting the
// same content overwrites rather than duplicates.
func (r *ChunkRepositoryImpl) UpsertBulk(ctx context.Context, chunks []*entity.EmbeddedChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ToModels(chunks)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(models).Error
}

func (r *ChunkRepositoryImpl) SimilaritySearch(ctx context.Context, embedding []float32, limit int) ([]*entity.ChunkSearchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding <=> query) recovers the similarity score.
	type result struct {
		model.DocumentChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	hits := make([]*entity.ChunkSearchResult, 0, len(results))
	for _, res := range results {
		chunk := r.mapper.ToEntity(&res.DocumentChunk)
		if chunk == nil {
			continue // malformed row, drop silently
		}
		hits = append(hits, &entity.ChunkSearchResult{
			Chunk:      *chunk,
			Similarity: res.Similarity,
		})
	}
	return hits, nil
}

// DeleteByFilter removes chunks whose metadata matches every given key/value
// pair exactly. Used to purge a superseded document version by
// {filename, content_hash}.
func (r *ChunkRepositoryImpl) DeleteByFilter(ctx context.Context, filter map[string]string) (int64, error) {
	query := r.db.WithContext(ctx)
	for key, value := range filter {
		query = query.Where("metadata ->> ? = ?", key, value)
	}
	res := query.Delete(&model.DocumentChunk{})
	return res.RowsAffected, res.Error
}

func (r *ChunkRepositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec("DELETE FROM document_chunks")
	return res.RowsAffected, res.Error
}

func (r *ChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DocumentChunk{}).Count(&count).Error
	return count, err
}
