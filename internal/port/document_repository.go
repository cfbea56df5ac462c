package port

import (
	"context"

	"github.com/google/uuid"

	"docgen/internal/bulk"
	"docgen/internal/domain"
)

// DocumentRepository defines the contract for document persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, offset, limit int) ([]domain.Document, int, error)
	// ListByFilter returns every document matching q, newest first. Bulk
	// preview and bulk execute both read through it.
	ListByFilter(ctx context.Context, q bulk.Query) ([]domain.Document, error)
	CountByTemplate(ctx context.Context, templateID uuid.UUID) (int, error)
	Update(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
}
