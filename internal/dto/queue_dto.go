package dto

// CleanupChunksMessage asks the background consumer to retry a supersession
// cleanup that failed inline: delete the superseded version's chunks and its
// registry row.
type CleanupChunksMessage struct {
	Filename    string `json:"filename"`
	OldHash     string `json:"old_hash"`
	NewHash     string `json:"new_hash"`
	AttemptedAt string `json:"attempted_at"`
}
