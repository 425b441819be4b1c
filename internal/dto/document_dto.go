package dto

import "time"

// UploadDocumentRequest carries the already-persisted upload. The controller saves
// the multipart file to disk first; the service only ever sees a path.
type UploadDocumentRequest struct {
	FilePath       string
	Filename       string `validate:"required"`
	ConversationId string
}

type UploadDocumentResponse struct {
	Filename       string `json:"filename"`
	ContentHash    string `json:"content_hash"`
	ChunkCount     int    `json:"chunk_count"`
	ConversationId string `json:"conversation_id,omitempty"`
	Status         string `json:"status"` // "indexed" | "already_indexed"
	Superseded     bool   `json:"superseded"`
}

type DocumentResponse struct {
	Filename             string    `json:"filename"`
	ContentHash          string    `json:"content_hash"`
	FileSizeBytes        int64     `json:"file_size_bytes"`
	ChunkCount           int       `json:"chunk_count"`
	ConversationId       *string   `json:"conversation_id"`
	UploadTimestamp      time.Time `json:"upload_timestamp"`
	LastIndexedTimestamp time.Time `json:"last_indexed_timestamp"`
}

type DeleteDocumentResponse struct {
	ContentHash   string `json:"content_hash"`
	ChunksDeleted int64  `json:"chunks_deleted"`
}

type ResetResponse struct {
	ChunksDeleted    int64 `json:"chunks_deleted"`
	DocumentsDeleted int64 `json:"documents_deleted"`
}
