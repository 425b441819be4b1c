package retrieval

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/pkg/embedding"
)

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeChunkRepo struct {
	results   []*entity.ChunkSearchResult
	err       error
	lastLimit int
	calls     int
}

func (f *fakeChunkRepo) UpsertBulk(ctx context.Context, chunks []*entity.EmbeddedChunk) error {
	return nil
}

func (f *fakeChunkRepo) SimilaritySearch(ctx context.Context, emb []float32, limit int) ([]*entity.ChunkSearchResult, error) {
	f.calls++
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeChunkRepo) DeleteByFilter(ctx context.Context, filter map[string]string) (int64, error) {
	return 0, nil
}

func (f *fakeChunkRepo) DeleteAll(ctx context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeChunkRepo) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func hit(id, text, conversationId string, similarity float64) *entity.ChunkSearchResult {
	meta := map[string]interface{}{}
	if conversationId != "" {
		meta["conversation_id"] = conversationId
	}
	return &entity.ChunkSearchResult{
		Chunk:      entity.Chunk{Id: id, Text: text, Metadata: meta},
		Similarity: similarity,
	}
}

func newTestGate(embedder *fakeEmbedder, repo *fakeChunkRepo) *Gate {
	return NewGate(embedder, repo, log.New(io.Discard, "", 0))
}

func TestRetrieveWithoutConversationIdSkipsSearch(t *testing.T) {
	embedder := &fakeEmbedder{}
	repo := &fakeChunkRepo{results: []*entity.ChunkSearchResult{hit("a_1", "text", "conv-1", 0.9)}}
	gate := newTestGate(embedder, repo)

	tests := []struct {
		name           string
		conversationId string
	}{
		{"empty", ""},
		{"whitespace", "   \t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := gate.Retrieve(context.Background(), "question", tt.conversationId, DefaultConfig())
			if err != nil {
				t.Fatalf("Retrieve() error = %v", err)
			}
			if chunks == nil {
				t.Fatal("Retrieve() = nil, want empty slice")
			}
			if len(chunks) != 0 {
				t.Errorf("len(chunks) = %d, want 0", len(chunks))
			}
		})
	}

	if embedder.calls != 0 {
		t.Errorf("embedder calls = %d, want 0", embedder.calls)
	}
	if repo.calls != 0 {
		t.Errorf("search calls = %d, want 0", repo.calls)
	}
}

func TestRetrieveFiltersForeignConversations(t *testing.T) {
	repo := &fakeChunkRepo{results: []*entity.ChunkSearchResult{
		hit("a_1", "mine first", "conv-1", 0.95),
		hit("b_1", "not mine", "conv-2", 0.93),
		hit("a_2", "mine second", "conv-1", 0.91),
		hit("c_1", "unscoped", "", 0.90),
	}}
	gate := newTestGate(&fakeEmbedder{}, repo)

	chunks, err := gate.Retrieve(context.Background(), "question", "conv-1", DefaultConfig())
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("len(chunks) = %d, want 2", len(chunks))
	}
	if chunks[0].Id != "a_1" || chunks[1].Id != "a_2" {
		t.Errorf("chunk ids = [%s %s], want [a_1 a_2]", chunks[0].Id, chunks[1].Id)
	}
}

func TestRetrieveDropsEmptyTextAndTruncates(t *testing.T) {
	repo := &fakeChunkRepo{results: []*entity.ChunkSearchResult{
		hit("a_1", "   ", "conv-1", 0.99),
		hit("a_2", "one", "conv-1", 0.95),
		hit("a_3", "two", "conv-1", 0.94),
		hit("a_4", "three", "conv-1", 0.93),
	}}
	gate := newTestGate(&fakeEmbedder{}, repo)

	chunks, err := gate.Retrieve(context.Background(), "question", "conv-1", Config{TopK: 2, Overfetch: 2})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("len(chunks) = %d, want 2", len(chunks))
	}
	if chunks[0].Id != "a_2" || chunks[1].Id != "a_3" {
		t.Errorf("chunk ids = [%s %s], want [a_2 a_3]", chunks[0].Id, chunks[1].Id)
	}
	if repo.lastLimit != 4 {
		t.Errorf("search limit = %d, want 4", repo.lastLimit)
	}
}

func TestRetrieveSearchErrorIsFatal(t *testing.T) {
	searchErr := errors.New("connection refused")
	gate := newTestGate(&fakeEmbedder{}, &fakeChunkRepo{err: searchErr})

	_, err := gate.Retrieve(context.Background(), "question", "conv-1", DefaultConfig())
	if !errors.Is(err, searchErr) {
		t.Errorf("Retrieve() error = %v, want wrapped %v", err, searchErr)
	}
}

func TestRetrieveEmbeddingErrorIsFatal(t *testing.T) {
	embedErr := errors.New("model not loaded")
	gate := newTestGate(&fakeEmbedder{err: embedErr}, &fakeChunkRepo{})

	_, err := gate.Retrieve(context.Background(), "question", "conv-1", DefaultConfig())
	if !errors.Is(err, embedErr) {
		t.Errorf("Retrieve() error = %v, want wrapped %v", err, embedErr)
	}
}
