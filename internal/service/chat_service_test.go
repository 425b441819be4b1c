package service

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-docchat-be/internal/apperror"
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/pkg/rag/retrieval"
	"ai-docchat-be/pkg/rag/turnlog"
)

type chatServiceFixture struct {
	chunks  *fakeChunkRepo
	llm     *fakeLLM
	counter *fakeTurnCounter
	logPath string
	turnLog *turnlog.Logger
	service IChatService
}

func newChatServiceFixture(t *testing.T) *chatServiceFixture {
	t.Helper()
	discard := log.New(io.Discard, "", 0)

	f := &chatServiceFixture{
		chunks:  &fakeChunkRepo{},
		llm:     &fakeLLM{answer: "Revenue grew 12%."},
		counter: &fakeTurnCounter{},
		logPath: filepath.Join(t.TempDir(), "turns.jsonl"),
	}

	turnLog, err := turnlog.New(f.logPath, discard)
	require.NoError(t, err)
	f.turnLog = turnLog

	gate := retrieval.NewGate(&fakeEmbedder{}, f.chunks, discard)
	f.service = NewChatService(gate, retrieval.DefaultConfig(), f.llm, f.counter, f.turnLog)
	return f
}

func (f *chatServiceFixture) loggedTurns(t *testing.T) []entity.ConversationTurn {
	t.Helper()
	require.NoError(t, f.turnLog.Close())

	file, err := os.Open(f.logPath)
	require.NoError(t, err)
	defer file.Close()

	var turns []entity.ConversationTurn
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		var turn entity.ConversationTurn
		require.NoError(t, json.Unmarshal(sc.Bytes(), &turn))
		turns = append(turns, turn)
	}
	require.NoError(t, sc.Err())
	return turns
}

func searchHit(id, text, conversationId string, similarity float64) *entity.ChunkSearchResult {
	meta := map[string]interface{}{}
	if conversationId != "" {
		meta["conversation_id"] = conversationId
	}
	return &entity.ChunkSearchResult{
		Chunk:      entity.Chunk{Id: id, Text: text, Metadata: meta},
		Similarity: similarity,
	}
}

func TestChatAnswersFromConversationContext(t *testing.T) {
	f := newChatServiceFixture(t)
	f.chunks.searchResults = []*entity.ChunkSearchResult{
		searchHit("r_1", "Q3 revenue was 1.2M.", "conv-1", 0.95),
		searchHit("x_1", "Unrelated conversation.", "conv-2", 0.94),
		searchHit("r_2", "Q2 revenue was 1.07M.", "conv-1", 0.90),
	}

	res, err := f.service.Chat(context.Background(), &dto.ChatRequest{
		Question:       "How did revenue develop?",
		ConversationId: "conv-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Revenue grew 12%.", res.Answer)
	assert.Equal(t, []string{"Q3 revenue was 1.2M.", "Q2 revenue was 1.07M."}, res.Context)
	assert.Equal(t, "conv-1", res.ConversationId)
	assert.Equal(t, 1, res.TurnIndex)

	require.Len(t, f.llm.history, 2)
	userPrompt := f.llm.history[1].Content
	assert.Contains(t, userPrompt, "Q3 revenue was 1.2M.\n\nQ2 revenue was 1.07M.")
	assert.Contains(t, userPrompt, "Question: How did revenue develop?")

	turns := f.loggedTurns(t)
	require.Len(t, turns, 1)
	assert.Equal(t, "conv-1", turns[0].ConversationId)
	assert.Equal(t, 1, turns[0].TurnIndex)
	assert.Equal(t, "How did revenue develop?", turns[0].UserQuery)
	assert.Len(t, turns[0].Contexts, 2)
	assert.Equal(t, "fixed_1000_overlap_100", turns[0].ChunkingStrategy)
}

func TestChatRejectsBlankQuestion(t *testing.T) {
	f := newChatServiceFixture(t)

	_, err := f.service.Chat(context.Background(), &dto.ChatRequest{
		Question:       "   \t",
		ConversationId: "conv-1",
	})
	assert.ErrorIs(t, err, apperror.ErrEmptyInput)
	assert.Equal(t, 0, f.counter.calls)
}

func TestChatWithoutConversationIdAnswersWithoutContext(t *testing.T) {
	f := newChatServiceFixture(t)
	f.chunks.searchResults = []*entity.ChunkSearchResult{
		searchHit("r_1", "Should stay invisible.", "conv-1", 0.99),
	}

	res, err := f.service.Chat(context.Background(), &dto.ChatRequest{
		Question: "Anything indexed for me?",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, f.chunks.searchCalls, "no conversation id must mean no search")
	assert.NotNil(t, res.Context)
	assert.Empty(t, res.Context)
	assert.Equal(t, "Revenue grew 12%.", res.Answer)

	// The server opens a conversation for the client.
	require.NotEmpty(t, res.ConversationId)
	_, err = uuid.Parse(res.ConversationId)
	assert.NoError(t, err, "generated conversation id should be a UUID")
	assert.Equal(t, 1, res.TurnIndex)

	turns := f.loggedTurns(t)
	require.Len(t, turns, 1)
	assert.Equal(t, "none", turns[0].ChunkingStrategy)
	assert.Equal(t, res.ConversationId, turns[0].ConversationId)
}

func TestChatGenerationFailure(t *testing.T) {
	f := newChatServiceFixture(t)
	f.llm.err = errors.New("model crashed")

	_, err := f.service.Chat(context.Background(), &dto.ChatRequest{
		Question:       "Why?",
		ConversationId: "conv-1",
	})
	assert.ErrorIs(t, err, apperror.ErrBackendUnavailable)
	assert.True(t, strings.Contains(err.Error(), "model crashed"))

	assert.Empty(t, f.loggedTurns(t), "failed turns are not audited")
}

func TestChatSearchFailure(t *testing.T) {
	f := newChatServiceFixture(t)
	f.chunks.searchErr = errors.New("pgvector down")

	_, err := f.service.Chat(context.Background(), &dto.ChatRequest{
		Question:       "What now?",
		ConversationId: "conv-1",
	})
	assert.ErrorIs(t, err, apperror.ErrBackendUnavailable)
}
