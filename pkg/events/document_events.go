package events

import (
	"time"

	"ai-docchat-be/internal/constant"
)

// NewDocumentIndexedEvent announces that a document finished the ingestion
// pipeline and its chunks are searchable.
func NewDocumentIndexedEvent(filename, contentHash string, chunkCount int, conversationId string) Event {
	now := time.Now()
	return BaseEvent{
		Type: constant.EventDocumentIndexed,
		Data: map[string]interface{}{
			"event_type":      constant.EventDocumentIndexed,
			"filename":        filename,
			"content_hash":    contentHash,
			"chunk_count":     chunkCount,
			"conversation_id": conversationId,
			"timestamp":       now.Format(time.RFC3339),
		},
		OccurredAt: now,
	}
}

// NewDocumentSupersededEvent announces that a re-upload replaced an older
// version of the same filename. cleanupDone is false when the stale chunks are
// still pending the out-of-band sweep.
func NewDocumentSupersededEvent(filename, oldHash, newHash string, cleanupDone bool) Event {
	now := time.Now()
	return BaseEvent{
		Type: constant.EventDocumentSuperseded,
		Data: map[string]interface{}{
			"event_type":   constant.EventDocumentSuperseded,
			"filename":     filename,
			"old_hash":     oldHash,
			"new_hash":     newHash,
			"cleanup_done": cleanupDone,
			"timestamp":    now.Format(time.RFC3339),
		},
		OccurredAt: now,
	}
}
