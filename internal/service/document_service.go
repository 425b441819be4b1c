package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai-docchat-be/internal/apperror"
	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/specification"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/events"
	"ai-docchat-be/pkg/loader"
	pktNats "ai-docchat-be/pkg/nats"
	"ai-docchat-be/pkg/utils"
)

type IDocumentService interface {
	Ingest(ctx context.Context, req *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error)
	List(ctx context.Context) ([]*dto.DocumentResponse, error)
	Delete(ctx context.Context, contentHash string) (*dto.DeleteDocumentResponse, error)
	Reset(ctx context.Context) (*dto.ResetResponse, error)
}

type documentService struct {
	uowFactory        unitofwork.RepositoryFactory
	loaders           *loader.Registry
	embeddingProvider embedding.EmbeddingProvider
	publisherService  IPublisherService
	eventPublisher    *pktNats.Publisher
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	loaders *loader.Registry,
	embeddingProvider embedding.EmbeddingProvider,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) IDocumentService {
	return &documentService{
		uowFactory:        uowFactory,
		loaders:           loaders,
		embeddingProvider: embeddingProvider,
		publisherService:  publisherService,
		eventPublisher:    eventPublisher,
	}
}

// Ingest runs the full indexing pipeline: hash, dedup against the registry,
// load, chunk, embed, upsert, then supersede older versions of the same
// filename. The vector store is the source of truth; registry failures degrade
// to warnings instead of failing the upload.
func (c *documentService) Ingest(ctx context.Context, req *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error) {
	if !c.loaders.IsSupported(filepath.Ext(req.Filename)) {
		return nil, fmt.Errorf("cannot ingest %q (supported: %s): %w",
			req.Filename, strings.Join(c.loaders.Supported(), ", "), apperror.ErrUnsupportedFormat)
	}

	contentHash, fileSize, err := utils.HashFile(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %q: %w", req.FilePath, err)
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	// === DEDUP + SUPERSESSION LOOKUP ===
	// A registry outage must not block indexing; we just lose dedup for this
	// upload.
	registryUp := true

	existing, err := uow.DocumentRepository().FindOne(ctx, specification.ByContentHash{Hash: contentHash})
	if err != nil {
		log.Printf("[WARN] Registry lookup failed, proceeding without dedup: %v", err)
		registryUp = false
	}
	if existing != nil {
		log.Printf("[INFO] Duplicate content %s (%s), skipping pipeline", contentHash[:8], req.Filename)
		return &dto.UploadDocumentResponse{
			Filename:       existing.Filename,
			ContentHash:    contentHash,
			ChunkCount:     existing.ChunkCount,
			ConversationId: req.ConversationId,
			Status:         "already_indexed",
		}, nil
	}

	var superseded []*entity.Document
	if registryUp {
		superseded, err = uow.DocumentRepository().FindAll(ctx,
			specification.ByFilename{Filename: req.Filename},
			specification.ExcludingHash{Hash: contentHash},
		)
		if err != nil {
			log.Printf("[WARN] Supersession lookup failed for %s: %v", req.Filename, err)
			superseded = nil
		}
	}

	// === LOAD + CHUNK ===
	fragments, err := c.loaders.Load(ctx, req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", req.Filename, err)
	}

	chunks, err := c.buildChunks(req, contentHash, fragments)
	if err != nil {
		return nil, err
	}

	// === EMBED + UPSERT ===
	embedded := make([]*entity.EmbeddedChunk, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := c.embeddingProvider.Generate(chunk.Text, constant.TaskTypeDocument)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d of %q failed: %v: %w",
				i, req.Filename, err, apperror.ErrBackendUnavailable)
		}
		embedded = append(embedded, &entity.EmbeddedChunk{Chunk: *chunk, Embedding: res.Embedding.Values})
	}

	if err := uow.ChunkRepository().UpsertBulk(ctx, embedded); err != nil {
		return nil, fmt.Errorf("chunk upsert for %q failed: %v: %w",
			req.Filename, err, apperror.ErrBackendUnavailable)
	}

	log.Printf("[INFO] Indexed %d chunks for %s (%s)", len(embedded), req.Filename, contentHash[:8])

	// === SUPERSEDE OLD VERSIONS ===
	// Only after the new version is fully searchable.
	for _, old := range superseded {
		c.supersede(ctx, uow, req.Filename, old, contentHash)
	}

	// === REGISTER ===
	if registryUp {
		c.register(ctx, uow, req, contentHash, fileSize, len(embedded))
	}

	c.publishEvent(ctx, events.NewDocumentIndexedEvent(req.Filename, contentHash, len(embedded), req.ConversationId))

	return &dto.UploadDocumentResponse{
		Filename:       req.Filename,
		ContentHash:    contentHash,
		ChunkCount:     len(embedded),
		ConversationId: req.ConversationId,
		Status:         "indexed",
		Superseded:     len(superseded) > 0,
	}, nil
}

// buildChunks turns loader fragments into identified chunks. Fragments with a
// layout marker are already chunk-sized; the rest go through the fixed splitter.
func (c *documentService) buildChunks(req *dto.UploadDocumentRequest, contentHash string, fragments []loader.Fragment) ([]*entity.Chunk, error) {
	now := time.Now()

	type draft struct {
		text string
		meta map[string]interface{}
	}
	var drafts []draft

	for _, frag := range fragments {
		if _, structured := frag.Metadata[constant.MetaKeyLayout]; structured {
			drafts = append(drafts, draft{text: frag.Text, meta: frag.Metadata})
			continue
		}
		for _, piece := range utils.SplitText(frag.Text, utils.DefaultChunkSize, utils.DefaultChunkOverlap) {
			drafts = append(drafts, draft{text: piece, meta: frag.Metadata})
		}
	}

	kept := make([]draft, 0, len(drafts))
	for _, d := range drafts {
		if strings.TrimSpace(d.text) != "" {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("document %q produced no text: %w", req.Filename, apperror.ErrEmptyInput)
	}

	ids := utils.GenerateChunkIDs(req.Filename, contentHash, len(kept))

	chunks := make([]*entity.Chunk, 0, len(kept))
	for i, d := range kept {
		meta := map[string]interface{}{
			constant.MetaKeySource:      req.FilePath,
			constant.MetaKeyFilename:    req.Filename,
			constant.MetaKeyContentHash: contentHash,
			constant.MetaKeyUploadTime:  now,
			constant.MetaKeyIndexedTime: now,
		}
		if req.ConversationId != "" {
			meta[constant.MetaKeyConversationId] = req.ConversationId
		}
		for k, v := range d.meta {
			meta[k] = v
		}

		chunk, err := entity.NewChunk(ids[i], d.text, meta)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// supersede removes one older version's chunks and registry row, best effort.
// On failure the cleanup is queued for the background consumer so a stale
// version never blocks the new one.
func (c *documentService) supersede(ctx context.Context, uow unitofwork.UnitOfWork, filename string, old *entity.Document, newHash string) {
	log.Printf("[INFO] Superseding %s version %s with %s", filename, old.ContentHash[:8], newHash[:8])

	cleanupDone := true
	deleted, err := uow.ChunkRepository().DeleteByFilter(ctx, map[string]string{
		constant.MetaKeyFilename:    filename,
		constant.MetaKeyContentHash: old.ContentHash,
	})
	if err != nil {
		cleanupDone = false
		log.Printf("[WARN] Inline cleanup of %s (%s) failed, queueing retry: %v", filename, old.ContentHash[:8], err)
		c.queueCleanup(ctx, filename, old.ContentHash, newHash)
	} else {
		log.Printf("[INFO] Removed %d stale chunks of %s (%s)", deleted, filename, old.ContentHash[:8])
		if err := uow.DocumentRepository().Delete(ctx, specification.ByContentHash{Hash: old.ContentHash}); err != nil {
			log.Printf("[WARN] Failed to drop registry row for %s (%s): %v", filename, old.ContentHash[:8], err)
		}
	}

	c.publishEvent(ctx, events.NewDocumentSupersededEvent(filename, old.ContentHash, newHash, cleanupDone))
}

func (c *documentService) queueCleanup(ctx context.Context, filename, oldHash, newHash string) {
	payload, err := json.Marshal(dto.CleanupChunksMessage{
		Filename:    filename,
		OldHash:     oldHash,
		NewHash:     newHash,
		AttemptedAt: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("[ERROR] Failed to marshal cleanup message: %v", err)
		return
	}
	if err := c.publisherService.Publish(ctx, payload); err != nil {
		log.Printf("[ERROR] Failed to queue cleanup of %s (%s): %v", filename, oldHash[:8], err)
	}
}

// register writes the ledger row for the freshly indexed version. The chunks
// are already searchable, so a failure here only costs dedup on the next
// upload.
func (c *documentService) register(ctx context.Context, uow unitofwork.UnitOfWork, req *dto.UploadDocumentRequest, contentHash string, fileSize int64, chunkCount int) {
	now := time.Now()
	doc := &entity.Document{
		Id:                   uuid.New(),
		Filename:             req.Filename,
		ContentHash:          contentHash,
		FileSizeBytes:        fileSize,
		ChunkCount:           chunkCount,
		UploadTimestamp:      now,
		LastIndexedTimestamp: now,
	}
	if req.ConversationId != "" {
		doc.ConversationId = &req.ConversationId
	}

	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		if errors.Is(err, apperror.ErrDuplicateKey) {
			// A row for this hash survived a race or an earlier attempt;
			// refresh its chunk count and indexing timestamp instead.
			if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
				log.Printf("[WARN] Failed to refresh registry row for %s: %v", contentHash[:8], err)
			}
			return
		}
		log.Printf("[WARN] Failed to register %s (%s): %v", req.Filename, contentHash[:8], err)
	}
}

func (c *documentService) publishEvent(ctx context.Context, evt events.Event) {
	if c.eventPublisher == nil {
		return
	}
	if err := c.eventPublisher.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish %s event: %v", evt.EventType(), err)
	}
}

func (c *documentService) List(ctx context.Context) ([]*dto.DocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.DocumentRepository().FindAll(ctx, specification.OrderBy{Field: "upload_timestamp", Desc: true})
	if err != nil {
		return nil, err
	}

	response := make([]*dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		response = append(response, &dto.DocumentResponse{
			Filename:             doc.Filename,
			ContentHash:          doc.ContentHash,
			FileSizeBytes:        doc.FileSizeBytes,
			ChunkCount:           doc.ChunkCount,
			ConversationId:       doc.ConversationId,
			UploadTimestamp:      doc.UploadTimestamp,
			LastIndexedTimestamp: doc.LastIndexedTimestamp,
		})
	}
	return response, nil
}

// Delete removes one indexed version and its chunks.
func (c *documentService) Delete(ctx context.Context, contentHash string) (*dto.DeleteDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByContentHash{Hash: contentHash})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document %s: %w", contentHash, apperror.ErrNotFound)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	deleted, err := uow.ChunkRepository().DeleteByFilter(ctx, map[string]string{
		constant.MetaKeyContentHash: contentHash,
	})
	if err != nil {
		return nil, err
	}

	if err := uow.DocumentRepository().Delete(ctx, specification.ByContentHash{Hash: contentHash}); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.DeleteDocumentResponse{
		ContentHash:   contentHash,
		ChunksDeleted: deleted,
	}, nil
}

// Reset wipes the vector store and the registry. Admin only.
func (c *documentService) Reset(ctx context.Context) (*dto.ResetResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	chunksDeleted, err := uow.ChunkRepository().DeleteAll(ctx)
	if err != nil {
		return nil, err
	}

	docsDeleted, err := uow.DocumentRepository().DeleteAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	log.Printf("[INFO] Reset removed %d chunks and %d registry rows", chunksDeleted, docsDeleted)

	return &dto.ResetResponse{
		ChunksDeleted:    chunksDeleted,
		DocumentsDeleted: docsDeleted,
	}, nil
}
