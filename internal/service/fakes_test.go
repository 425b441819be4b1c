package service

import (
	"context"
	"sync"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/contract"
	"ai-docchat-be/internal/repository/specification"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/llm"
)

// The fakes interpret the same specification structs the real repositories
// feed to gorm, so service tests exercise the exact queries production runs.

type fakeDocumentRepo struct {
	mu        sync.Mutex
	docs      map[string]*entity.Document // keyed by content hash
	findErr   error
	createErr error
	created   []*entity.Document
	updated   []*entity.Document
	deleted   []string
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[string]*entity.Document)}
}

func (f *fakeDocumentRepo) seed(doc *entity.Document) {
	f.docs[doc.ContentHash] = doc
}

func (f *fakeDocumentRepo) match(specs []specification.Specification) []*entity.Document {
	var out []*entity.Document
	for _, d := range f.docs {
		keep := true
		for _, s := range specs {
			switch sp := s.(type) {
			case specification.ByContentHash:
				if d.ContentHash != sp.Hash {
					keep = false
				}
			case specification.ByFilename:
				if d.Filename != sp.Filename {
					keep = false
				}
			case specification.ExcludingHash:
				if d.ContentHash == sp.Hash {
					keep = false
				}
			}
		}
		if keep {
			out = append(out, d)
		}
	}
	return out
}

func (f *fakeDocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.docs[doc.ContentHash] = doc
	f.created = append(f.created, doc)
	return nil
}

func (f *fakeDocumentRepo) Update(ctx context.Context, doc *entity.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[doc.ContentHash] = doc
	f.updated = append(f.updated, doc)
	return nil
}

func (f *fakeDocumentRepo) Delete(ctx context.Context, specs ...specification.Specification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.match(specs) {
		delete(f.docs, d.ContentHash)
		f.deleted = append(f.deleted, d.ContentHash)
	}
	return nil
}

func (f *fakeDocumentRepo) DeleteAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.docs))
	f.docs = make(map[string]*entity.Document)
	return n, nil
}

func (f *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	matches := f.match(specs)
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

func (f *fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.match(specs), nil
}

func (f *fakeDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.match(specs))), nil
}

type fakeChunkRepo struct {
	mu            sync.Mutex
	upserted      []*entity.EmbeddedChunk
	upsertErr     error
	deleteFilters []map[string]string
	deleteErr     error
	deletedRows   int64
	searchResults []*entity.ChunkSearchResult
	searchErr     error
	searchCalls   int
	resetRows     int64
}

func (f *fakeChunkRepo) UpsertBulk(ctx context.Context, chunks []*entity.EmbeddedChunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, chunks...)
	return nil
}

func (f *fakeChunkRepo) SimilaritySearch(ctx context.Context, emb []float32, limit int) ([]*entity.ChunkSearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.searchResults) > limit {
		return f.searchResults[:limit], nil
	}
	return f.searchResults, nil
}

func (f *fakeChunkRepo) DeleteByFilter(ctx context.Context, filter map[string]string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deleteFilters = append(f.deleteFilters, filter)
	return f.deletedRows, nil
}

func (f *fakeChunkRepo) DeleteAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resetRows, nil
}

func (f *fakeChunkRepo) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.upserted)), nil
}

type fakeUnitOfWork struct {
	docs   *fakeDocumentRepo
	chunks *fakeChunkRepo
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) DocumentRepository() contract.DocumentRepository { return u.docs }
func (u *fakeUnitOfWork) ChunkRepository() contract.ChunkRepository       { return u.chunks }

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

type fakeEmbedder struct {
	mu        sync.Mutex
	err       error
	texts     []string
	taskTypes []string
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.texts = append(f.texts, text)
	f.taskTypes = append(f.taskTypes, taskType)
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	err      error
	payloads [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

type fakeLLM struct {
	answer  string
	err     error
	history []llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.history = history
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type fakeTurnCounter struct {
	mu    sync.Mutex
	next  map[string]int
	err   error
	calls int
}

func (f *fakeTurnCounter) Next(ctx context.Context, conversationId string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	if f.next == nil {
		f.next = make(map[string]int)
	}
	f.next[conversationId]++
	return f.next[conversationId], nil
}
