package dto

type ChatRequest struct {
	Question       string `json:"question" validate:"required"`
	ConversationId string `json:"conversation_id,omitempty"`
}

type ChatResponse struct {
	Answer         string   `json:"answer"`
	Context        []string `json:"context"`
	ConversationId string   `json:"conversation_id"`
	TurnIndex      int      `json:"turn_index"`
}
