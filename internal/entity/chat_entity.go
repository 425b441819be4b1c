package entity

import "time"

// ChatResult is the outcome of one retrieve-then-generate pass. ContextChunks is
// always a slice, never nil, so callers can range over it directly.
type ChatResult struct {
	Answer        string
	ContextChunks []Chunk
	Question      string
}

// ConversationTurn is the append-only audit record of one Q/A exchange. The JSON
// tags are the on-disk log line format; never change them without migrating the
// analytics that read the log.
type ConversationTurn struct {
	Timestamp        time.Time `json:"timestamp"`
	ConversationId   string    `json:"conversation_id"`
	TurnIndex        int       `json:"turn_index"`
	UserQuery        string    `json:"user_query"`
	Answer           string    `json:"answer"`
	Contexts         []string  `json:"contexts"`
	ChunkingStrategy string    `json:"chunking_strategy"`
}
