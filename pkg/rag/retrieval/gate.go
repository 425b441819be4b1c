package retrieval

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/contract"
	"ai-docchat-be/pkg/embedding"
)

// Gate runs the conversation-scoped retrieval policy. A request without a
// conversation id never reaches the vector store; results from other
// conversations never leave the gate.
type Gate struct {
	embeddingProvider embedding.EmbeddingProvider
	chunks            contract.ChunkRepository
	logger            *log.Logger
}

// NewGate creates a retrieval gate.
func NewGate(embeddingProvider embedding.EmbeddingProvider, chunks contract.ChunkRepository, logger *log.Logger) *Gate {
	return &Gate{
		embeddingProvider: embeddingProvider,
		chunks:            chunks,
		logger:            logger,
	}
}

// Config encapsulates retrieval parameters.
type Config struct {
	TopK      int
	Overfetch int
}

// DefaultConfig returns the default retrieval configuration.
func DefaultConfig() Config {
	return Config{
		TopK:      constant.DefaultTopK,
		Overfetch: constant.RetrievalOverfetch,
	}
}

// Retrieve returns the top chunks of the conversation ranked by similarity to
// the question. The result is never nil. Search and embedding failures are
// returned as-is: answering from a partial view is worse than failing.
func (g *Gate) Retrieve(ctx context.Context, question, conversationId string, config Config) ([]entity.Chunk, error) {
	if strings.TrimSpace(conversationId) == "" {
		g.logger.Printf("[DEBUG] Retrieval gate closed: no conversation id")
		return []entity.Chunk{}, nil
	}

	embeddingRes, err := g.embeddingProvider.Generate(question, constant.TaskTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}

	limit := config.TopK * config.Overfetch
	results, err := g.chunks.SimilaritySearch(ctx, embeddingRes.Embedding.Values, limit)
	if err != nil {
		g.logger.Printf("[ERROR] Vector search failed: %v", err)
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	g.logger.Printf("[DEBUG] Raw search results: %d chunks", len(results))

	chunks := g.filterByConversation(results, conversationId)
	if len(chunks) > config.TopK {
		chunks = chunks[:config.TopK]
	}

	g.logger.Printf("[DEBUG] Chunks after conversation filter: %d", len(chunks))

	return chunks, nil
}

func (g *Gate) filterByConversation(results []*entity.ChunkSearchResult, conversationId string) []entity.Chunk {
	chunks := []entity.Chunk{}

	for i, res := range results {
		if strings.TrimSpace(res.Chunk.Text) == "" {
			g.logger.Printf("[DEBUG] Candidate %d: Score=%.4f [EMPTY]", i+1, res.Similarity)
			continue
		}
		if res.Chunk.ConversationId() != conversationId {
			g.logger.Printf("[DEBUG] Candidate %d: Score=%.4f [FOREIGN]", i+1, res.Similarity)
			continue
		}

		chunks = append(chunks, res.Chunk)
		g.logger.Printf("[DEBUG] Candidate %d: Score=%.4f [KEEP]", i+1, res.Similarity)
	}

	return chunks
}
