package contract

import (
	"context"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/specification"
)

// DocumentRepository is the registry ledger of indexed documents, keyed by
// content hash (unique). The ledger guards dedup and supersession decisions but
// is allowed to degrade: ingestion survives its unavailability.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	Update(ctx context.Context, doc *entity.Document) error
	Delete(ctx context.Context, specs ...specification.Specification) error
	DeleteAll(ctx context.Context) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
