package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Filename             string    `gorm:"type:text;not null;index"`
	ContentHash          string    `gorm:"type:text;not null;uniqueIndex"`
	FileSizeBytes        int64     `gorm:"not null;default:0"`
	ChunkCount           int       `gorm:"not null;default:0"`
	ConversationId       *string   `gorm:"type:text;index"`
	UploadTimestamp      time.Time `gorm:"autoCreateTime"`
	LastIndexedTimestamp time.Time
}

func (Document) TableName() string {
	return "documents"
}
