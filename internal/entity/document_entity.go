package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is the registry ledger row for one indexed content version. ContentHash
// is the identity: at most one live record per hash, independent of filename.
type Document struct {
	Id                   uuid.UUID
	Filename             string
	ContentHash          string
	FileSizeBytes        int64
	ChunkCount           int
	ConversationId       *string
	UploadTimestamp      time.Time
	LastIndexedTimestamp time.Time
}
