package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-docchat-be/internal/apperror"
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/contract"
	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/rag/prompt"
	"ai-docchat-be/pkg/rag/retrieval"
	"ai-docchat-be/pkg/rag/strategy"
	"ai-docchat-be/pkg/rag/turnlog"

	"github.com/google/uuid"
)

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	gate         *retrieval.Gate
	retrievalCfg retrieval.Config
	llmProvider  llm.LLMProvider
	turnCounter  contract.TurnCounterRepository
	turnLogger   *turnlog.Logger
}

func NewChatService(
	gate *retrieval.Gate,
	retrievalCfg retrieval.Config,
	llmProvider llm.LLMProvider,
	turnCounter contract.TurnCounterRepository,
	turnLogger *turnlog.Logger,
) IChatService {
	return &chatService{
		gate:         gate,
		retrievalCfg: retrievalCfg,
		llmProvider:  llmProvider,
		turnCounter:  turnCounter,
		turnLogger:   turnLogger,
	}
}

// Chat answers one question from the conversation's indexed documents:
// retrieve, build the grounded prompt, generate, then audit the turn.
func (c *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("question is blank: %w", apperror.ErrEmptyInput)
	}

	// Retrieval keys off the id the client sent: a blank id has no indexed
	// documents, so the gate stays closed.
	chunks, err := c.gate.Retrieve(ctx, question, req.ConversationId, c.retrievalCfg)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %v: %w", err, apperror.ErrBackendUnavailable)
	}

	contexts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		contexts = append(contexts, chunk.Text)
	}

	messages := prompt.NewBuilder(question, contexts).Build()

	answer, err := c.llmProvider.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %v: %w", err, apperror.ErrBackendUnavailable)
	}

	// First message without an id opens a new conversation. The client keeps
	// the thread going with the id we hand back.
	conversationId := req.ConversationId
	if conversationId == "" {
		conversationId = uuid.NewString()
	}

	turnIndex := c.nextTurnIndex(ctx, conversationId)

	c.turnLogger.Log(entity.ConversationTurn{
		Timestamp:        time.Now(),
		ConversationId:   conversationId,
		TurnIndex:        turnIndex,
		UserQuery:        question,
		Answer:           answer,
		Contexts:         contexts,
		ChunkingStrategy: strategy.Classify(chunks),
	})

	return &dto.ChatResponse{
		Answer:         answer,
		Context:        contexts,
		ConversationId: conversationId,
		TurnIndex:      turnIndex,
	}, nil
}

// nextTurnIndex is best effort: losing the counter costs audit ordering, not
// the answer.
func (c *chatService) nextTurnIndex(ctx context.Context, conversationId string) int {
	turnIndex, err := c.turnCounter.Next(ctx, conversationId)
	if err != nil {
		log.Printf("[WARN] Turn counter failed for %s: %v", conversationId, err)
		return 0
	}
	return turnIndex
}
