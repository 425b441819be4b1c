package mapper

import (
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	return &entity.Document{
		Id:                   d.Id,
		Filename:             d.Filename,
		ContentHash:          d.ContentHash,
		FileSizeBytes:        d.FileSizeBytes,
		ChunkCount:           d.ChunkCount,
		ConversationId:       d.ConversationId,
		UploadTimestamp:      d.UploadTimestamp,
		LastIndexedTimestamp: d.LastIndexedTimestamp,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	return &model.Document{
		Id:                   d.Id,
		Filename:             d.Filename,
		ContentHash:          d.ContentHash,
		FileSizeBytes:        d.FileSizeBytes,
		ChunkCount:           d.ChunkCount,
		ConversationId:       d.ConversationId,
		UploadTimestamp:      d.UploadTimestamp,
		LastIndexedTimestamp: d.LastIndexedTimestamp,
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
