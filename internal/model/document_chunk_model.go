package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// DocumentChunk rows live in the vector index table. The Id is the deterministic
// chunk ID derived from (sanitized filename, hash prefix, ordinal), which is why
// the primary key is text rather than uuid.
type DocumentChunk struct {
	Id        string          `gorm:"type:text;primaryKey"`
	Content   string          `gorm:"type:text;not null"`
	Embedding pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text dimension
	Metadata  datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
